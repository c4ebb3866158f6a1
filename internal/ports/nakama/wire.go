package nakama

import (
	"bigtwo/internal/domain"
)

// playCardsRequest is the client payload for OpPlayCards. Cards travel as
// compact IDs like "3D" or "10S".
type playCardsRequest struct {
	Cards []string `json:"cards"`
}

type errorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// eventMessage wraps one game event for OpGameEvent.
type eventMessage struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

type lobbyPlayer struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
	IsOwner     bool   `json:"is_owner"`
}

type lobbySnapshot struct {
	Seats     []string      `json:"seats"`
	OwnerSeat int           `json:"owner_seat"`
	State     string        `json:"state"`
	Players   []lobbyPlayer `json:"players"`
}

// gameViewPlayer is a seat as every client may see it: card counts only,
// never the cards themselves.
type gameViewPlayer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Seat           int    `json:"seat"`
	CardsRemaining int    `json:"cards_remaining"`
	Passed         bool   `json:"passed"`
	IsBot          bool   `json:"is_bot"`
}

type gameViewScore struct {
	PlayerID    string `json:"player_id"`
	Score       int    `json:"score"`
	MatchScores []int  `json:"match_scores"`
}

// gameView is the redacted public snapshot broadcast on OpGameState.
type gameView struct {
	RoomID             string           `json:"room_id"`
	MatchNumber        int              `json:"match_number"`
	CurrentPlayerIndex int              `json:"current_player_index"`
	LastPlay           *domain.LastPlay `json:"last_play,omitempty"`
	ConsecutivePasses  int              `json:"consecutive_passes"`
	Players            []gameViewPlayer `json:"players"`
	Scores             []gameViewScore  `json:"scores"`
	MatchEnded         bool             `json:"match_ended"`
	MatchWinnerIndex   int              `json:"match_winner_index"`
	GameOver           bool             `json:"game_over"`
	FinalWinnerID      string           `json:"final_winner_id,omitempty"`
	TimerRemainingMS   int64            `json:"timer_remaining_ms,omitempty"`
}

type handDealtMessage struct {
	Seat int      `json:"seat"`
	Hand []string `json:"hand"`
}

func buildGameView(g *domain.GameState) gameView {
	view := gameView{
		RoomID:             g.RoomID,
		MatchNumber:        g.MatchNumber,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		LastPlay:           g.LastPlay,
		ConsecutivePasses:  g.ConsecutivePasses,
		MatchEnded:         g.MatchEnded,
		MatchWinnerIndex:   g.MatchWinnerIndex,
		GameOver:           g.GameOver,
		FinalWinnerID:      g.FinalWinnerID,
	}
	for i, p := range g.Players {
		view.Players = append(view.Players, gameViewPlayer{
			ID:             p.ID,
			Name:           p.Name,
			Seat:           i,
			CardsRemaining: len(p.Hand),
			Passed:         p.Passed,
			IsBot:          p.IsBot,
		})
	}
	for _, sc := range g.Scores {
		view.Scores = append(view.Scores, gameViewScore{
			PlayerID:    sc.PlayerID,
			Score:       sc.Score,
			MatchScores: sc.MatchScores,
		})
	}
	if g.AutoPass != nil && g.AutoPass.Active {
		view.TimerRemainingMS = g.AutoPass.RemainingMS
	}
	return view
}

func cardIDs(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID()
	}
	return out
}

func parseCardIDs(ids []string) ([]domain.Card, error) {
	out := make([]domain.Card, len(ids))
	for i, id := range ids {
		c, err := domain.ParseCardID(id)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
