package domain

import "time"

// Player holds table state for one seat. Hands shrink monotonically within
// a match and are refilled only by a new-match deal.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Hand          []Card `json:"hand"`
	IsBot         bool   `json:"is_bot"`
	BotDifficulty string `json:"bot_difficulty,omitempty"`
	Passed        bool   `json:"passed"`
}

// LastPlay is the play currently on the table; nil when a trick is open.
type LastPlay struct {
	Position  int       `json:"position"`
	Cards     []Card    `json:"cards"`
	ComboType ComboType `json:"combo_type"`
}

// RoundHistoryEntry records one accepted play or pass.
type RoundHistoryEntry struct {
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Cards      []Card    `json:"cards,omitempty"`
	ComboType  ComboType `json:"combo_type,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Passed     bool      `json:"passed"`
}

// PlayerMatchScore accumulates scoring across matches; mutated only at
// match end.
type PlayerMatchScore struct {
	PlayerID        string            `json:"player_id"`
	PlayerName      string            `json:"player_name"`
	Score           int               `json:"score"`
	MatchScores     []int             `json:"match_scores"`
	MatchComboStats map[ComboType]int `json:"match_combo_stats"`
}

// AutoPassTimer tracks the countdown armed after a provably unbeatable play.
type AutoPassTimer struct {
	Active         bool      `json:"active"`
	StartedAt      time.Time `json:"started_at"`
	DurationMS     int64     `json:"duration_ms"`
	RemainingMS    int64     `json:"remaining_ms"`
	TriggeringPlay *LastPlay `json:"triggering_play,omitempty"`
	PlayerID       string    `json:"player_id"`
}

// GameState is the aggregate root for one table: four seats, turn pointers,
// per-match and per-game histories, cumulative scores and the auto-pass
// timer. All mutation goes through the app service transitions.
type GameState struct {
	RoomID  string    `json:"room_id"`
	Players []*Player `json:"players"`

	CurrentPlayerIndex  int  `json:"current_player_index"`
	LastPlayPlayerIndex int  `json:"last_play_player_index"`
	ConsecutivePasses   int  `json:"consecutive_passes"`
	IsFirstPlayOfGame   bool `json:"is_first_play_of_game"`

	LastPlay *LastPlay `json:"last_play,omitempty"`

	MatchNumber      int    `json:"match_number"`
	MatchEnded       bool   `json:"match_ended"`
	MatchWinnerIndex int    `json:"match_winner_index"`
	GameOver         bool   `json:"game_over"`
	FinalWinnerID    string `json:"final_winner_id,omitempty"`

	Scores           []*PlayerMatchScore `json:"scores"`
	RoundHistory     []RoundHistoryEntry `json:"round_history"`
	GameRoundHistory []RoundHistoryEntry `json:"game_round_history"`
	PlayedCards      []Card              `json:"played_cards"`

	AutoPass *AutoPassTimer `json:"auto_pass_timer,omitempty"`

	StartedAt time.Time `json:"started_at"`
}

// nextSeat is the fixed anticlockwise turn permutation 0 -> 3 -> 1 -> 2 -> 0.
var nextSeat = [SeatCount]int{3, 2, 0, 1}

// NextActiveSeat walks the turn order from seat, skipping empty hands.
// Returns -1 when no other seat holds cards.
func NextActiveSeat(s *GameState, seat int) int {
	cur := seat
	for i := 0; i < SeatCount; i++ {
		cur = nextSeat[cur]
		if cur == seat {
			return -1
		}
		if len(s.Players[cur].Hand) > 0 {
			return cur
		}
	}
	return -1
}

// ActivePlayers counts seats still holding cards.
func ActivePlayers(s *GameState) int {
	n := 0
	for _, p := range s.Players {
		if len(p.Hand) > 0 {
			n++
		}
	}
	return n
}

// SeatOf returns the seat index for a player ID, or -1.
func (s *GameState) SeatOf(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// Clone produces a deep, independent copy of the state. Listener snapshots
// are clones so subscribers can never mutate engine internals.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s

	out.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp := *p
		cp.Hand = append([]Card{}, p.Hand...)
		out.Players[i] = &cp
	}

	out.LastPlay = cloneLastPlay(s.LastPlay)

	out.Scores = make([]*PlayerMatchScore, len(s.Scores))
	for i, sc := range s.Scores {
		cp := *sc
		cp.MatchScores = append([]int{}, sc.MatchScores...)
		cp.MatchComboStats = make(map[ComboType]int, len(sc.MatchComboStats))
		for k, v := range sc.MatchComboStats {
			cp.MatchComboStats[k] = v
		}
		out.Scores[i] = &cp
	}

	out.RoundHistory = cloneHistory(s.RoundHistory)
	out.GameRoundHistory = cloneHistory(s.GameRoundHistory)
	out.PlayedCards = append([]Card{}, s.PlayedCards...)

	if s.AutoPass != nil {
		cp := *s.AutoPass
		cp.TriggeringPlay = cloneLastPlay(s.AutoPass.TriggeringPlay)
		out.AutoPass = &cp
	}

	return &out
}

func cloneLastPlay(lp *LastPlay) *LastPlay {
	if lp == nil {
		return nil
	}
	cp := *lp
	cp.Cards = append([]Card{}, lp.Cards...)
	return &cp
}

func cloneHistory(entries []RoundHistoryEntry) []RoundHistoryEntry {
	out := make([]RoundHistoryEntry, len(entries))
	for i, e := range entries {
		cp := e
		cp.Cards = append([]Card{}, e.Cards...)
		out[i] = cp
	}
	return out
}
