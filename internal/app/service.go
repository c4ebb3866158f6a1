package app

import (
	"math/rand"
	"time"

	"bigtwo/internal/domain"
)

// PlayerConfig describes one seat when a game is initialized.
type PlayerConfig struct {
	ID         string
	Name       string
	IsBot      bool
	Difficulty string
}

// Service contains the pure game transitions. Every method mutates only
// the passed state and returns the events the mutation produced; all I/O
// (persistence, stats, timers) is interpreted by the Manager.
type Service struct {
	rng *rand.Rand

	// ScoreLimit ends the game once any cumulative score reaches it.
	ScoreLimit int
	// AutoPassDuration is the countdown armed on an unbeatable play.
	AutoPassDuration time.Duration
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		rng:              rng,
		ScoreLimit:       domain.DefaultScoreLimit,
		AutoPassDuration: 10 * time.Second,
	}
}

// InitializeGame builds a fresh four-seat game, deals, and hands the lead
// to whoever holds the 3 of diamonds.
func (s *Service) InitializeGame(players []PlayerConfig, roomID string, now time.Time) (*domain.GameState, []Event, error) {
	if len(players) != domain.SeatCount {
		return nil, nil, ErrWrongPlayerCount
	}

	g := &domain.GameState{
		RoomID:              roomID,
		MatchNumber:         1,
		MatchWinnerIndex:    -1,
		LastPlayPlayerIndex: -1,
		IsFirstPlayOfGame:   true,
		StartedAt:           now,
	}
	for _, pc := range players {
		g.Players = append(g.Players, &domain.Player{
			ID:            pc.ID,
			Name:          pc.Name,
			IsBot:         pc.IsBot,
			BotDifficulty: pc.Difficulty,
		})
		g.Scores = append(g.Scores, &domain.PlayerMatchScore{
			PlayerID:        pc.ID,
			PlayerName:      pc.Name,
			MatchComboStats: make(map[domain.ComboType]int),
		})
	}

	events := s.deal(g)

	g.CurrentPlayerIndex = holderOfOpeningCard(g)
	events = append(events, Event{
		Kind:    EventGameInitialized,
		Payload: GameInitializedPayload{MatchNumber: g.MatchNumber, FirstTurnSeat: g.CurrentPlayerIndex},
	})
	return g, events, nil
}

// PlayCards validates and applies a play for the seat. On success it
// updates the table, checks for match end, advances the turn and arms the
// auto-pass timer when the play is provably unbeatable.
func (s *Service) PlayCards(g *domain.GameState, seat int, cards []domain.Card, now time.Time) ([]Event, error) {
	if err := domain.ValidatePlay(g, seat, cards); err != nil {
		return nil, err
	}

	var events []Event

	// An accepted play while the timer is armed contradicts the
	// unbeatable-play detection; recover and flag it.
	if g.AutoPass != nil && g.AutoPass.Active {
		events = append(events, Event{
			Kind:    EventTimerAnomaly,
			Payload: TimerAnomalyPayload{Detail: "play accepted while auto-pass timer active"},
		})
		g.AutoPass = nil
	}

	player := g.Players[seat]
	combo := domain.Identify(cards)

	player.Hand = domain.RemoveCards(player.Hand, combo.Cards)
	g.PlayedCards = append(g.PlayedCards, combo.Cards...)
	g.IsFirstPlayOfGame = false
	g.ConsecutivePasses = 0
	for _, p := range g.Players {
		p.Passed = false
	}

	play := &domain.LastPlay{
		Position:  seat,
		Cards:     append([]domain.Card{}, combo.Cards...),
		ComboType: combo.Type,
	}
	g.LastPlay = play
	g.LastPlayPlayerIndex = seat

	s.appendHistory(g, domain.RoundHistoryEntry{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Cards:      append([]domain.Card{}, combo.Cards...),
		ComboType:  combo.Type,
		Timestamp:  now,
	})

	if len(player.Hand) == 0 {
		events = append(events, Event{
			Kind: EventCardPlayed,
			Payload: CardPlayedPayload{
				Seat: seat, Cards: play.Cards, ComboType: combo.Type,
				CardsLeft: 0, NextTurnSeat: seat,
			},
		})
		return append(events, s.resolveMatchEnd(g, seat)...), nil
	}

	next := domain.NextActiveSeat(g, seat)
	switch {
	case next >= 0:
		g.CurrentPlayerIndex = next
	case len(player.Hand) > 0:
		// Sole holder keeps the turn.
		g.CurrentPlayerIndex = seat
	default:
		// Nobody holds cards; should be unreachable past the match-end
		// short circuit above.
		g.GameOver = true
	}

	events = append(events, Event{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			Seat: seat, Cards: play.Cards, ComboType: combo.Type,
			CardsLeft: len(player.Hand), NextTurnSeat: g.CurrentPlayerIndex,
		},
	})

	if domain.IsHighestPossiblePlay(combo, g.PlayedCards) {
		duration := s.AutoPassDuration.Milliseconds()
		g.AutoPass = &domain.AutoPassTimer{
			Active:         true,
			StartedAt:      now,
			DurationMS:     duration,
			RemainingMS:    duration,
			TriggeringPlay: play,
			PlayerID:       player.ID,
		}
		events = append(events, Event{
			Kind:    EventAutoPassArmed,
			Payload: AutoPassArmedPayload{Seat: seat, PlayerID: player.ID, DurationMS: duration},
		})
	}

	return events, nil
}

// PassTurn validates and applies a pass. Timer expiry funnels through this
// same transition with auto=true so both paths share one set of invariants.
func (s *Service) PassTurn(g *domain.GameState, seat int, now time.Time, auto bool) ([]Event, error) {
	if err := domain.ValidatePass(g, seat); err != nil {
		return nil, err
	}

	player := g.Players[seat]
	player.Passed = true
	g.ConsecutivePasses++

	s.appendHistory(g, domain.RoundHistoryEntry{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Timestamp:  now,
		Passed:     true,
	})

	// Manual pass by the triggering player cancels the countdown.
	if g.AutoPass != nil && g.AutoPass.Active && g.AutoPass.PlayerID == player.ID {
		g.AutoPass = nil
	}

	return s.settlePass(g, seat, auto), nil
}

// ForceAdvance skips a seat without validation. Used only when a bot turn
// cannot be completed after retries; keeps the table from deadlocking.
func (s *Service) ForceAdvance(g *domain.GameState, seat int, now time.Time) []Event {
	if g.LastPlay == nil {
		if next := domain.NextActiveSeat(g, seat); next >= 0 {
			g.CurrentPlayerIndex = next
		}
		return []Event{{
			Kind:    EventTurnPassed,
			Payload: TurnPassedPayload{Seat: seat, NextTurnSeat: g.CurrentPlayerIndex, Auto: true},
		}}
	}

	g.Players[seat].Passed = true
	g.ConsecutivePasses++
	s.appendHistory(g, domain.RoundHistoryEntry{
		PlayerID:   g.Players[seat].ID,
		PlayerName: g.Players[seat].Name,
		Timestamp:  now,
		Passed:     true,
	})
	return s.settlePass(g, seat, true)
}

// settlePass finishes an accepted pass: resolve the trick once every other
// active player has passed, otherwise advance the turn.
func (s *Service) settlePass(g *domain.GameState, seat int, auto bool) []Event {
	var events []Event
	if g.ConsecutivePasses >= domain.ActivePlayers(g)-1 {
		g.LastPlay = nil
		g.ConsecutivePasses = 0
		g.CurrentPlayerIndex = g.LastPlayPlayerIndex
		for _, p := range g.Players {
			p.Passed = false
		}
		g.AutoPass = nil
		events = append(events,
			Event{Kind: EventTurnPassed, Payload: TurnPassedPayload{Seat: seat, NextTurnSeat: g.CurrentPlayerIndex, Auto: auto}},
			Event{Kind: EventTrickResolved, Payload: TrickResolvedPayload{LeaderSeat: g.CurrentPlayerIndex}},
		)
		return events
	}

	if next := domain.NextActiveSeat(g, seat); next >= 0 {
		g.CurrentPlayerIndex = next
	}
	events = append(events, Event{
		Kind:    EventTurnPassed,
		Payload: TurnPassedPayload{Seat: seat, NextTurnSeat: g.CurrentPlayerIndex, Auto: auto},
	})
	return events
}

// StartNewMatch re-deals after a match has ended, with the previous winner
// leading. Illegal while a match is running or after game over.
func (s *Service) StartNewMatch(g *domain.GameState, now time.Time) ([]Event, error) {
	if g.GameOver {
		return nil, ErrGameOver
	}
	if !g.MatchEnded {
		return nil, ErrMatchStillRunning
	}

	g.MatchNumber++
	g.MatchEnded = false
	g.LastPlay = nil
	g.ConsecutivePasses = 0
	g.RoundHistory = nil
	g.PlayedCards = nil
	g.AutoPass = nil
	g.IsFirstPlayOfGame = false
	g.CurrentPlayerIndex = g.MatchWinnerIndex
	g.LastPlayPlayerIndex = g.MatchWinnerIndex

	events := s.deal(g)
	events = append(events, Event{
		Kind:    EventNewMatchStarted,
		Payload: NewMatchStartedPayload{MatchNumber: g.MatchNumber, LeaderSeat: g.CurrentPlayerIndex},
	})
	return events, nil
}

// resolveMatchEnd applies scoring, combo stats and the game-over decision
// the instant a hand reaches zero cards.
func (s *Service) resolveMatchEnd(g *domain.GameState, winnerSeat int) []Event {
	g.AutoPass = nil
	g.MatchEnded = true
	g.MatchWinnerIndex = winnerSeat

	usage := domain.ComboUsage(g.RoundHistory)
	deltas := make([]int, len(g.Players))
	totals := make([]int, len(g.Players))
	for i, p := range g.Players {
		delta := 0
		if i != winnerSeat {
			delta = domain.MatchPenalty(len(p.Hand))
		}
		deltas[i] = delta
		sc := g.Scores[i]
		sc.MatchScores = append(sc.MatchScores, delta)
		sc.Score += delta
		for combo, n := range usage[p.ID] {
			sc.MatchComboStats[combo] += n
		}
		totals[i] = sc.Score
	}

	gameOver := false
	for _, sc := range g.Scores {
		if sc.Score >= s.ScoreLimit {
			gameOver = true
			break
		}
	}

	events := []Event{{
		Kind: EventMatchEnded,
		Payload: MatchEndedPayload{
			WinnerSeat:  winnerSeat,
			WinnerID:    g.Players[winnerSeat].ID,
			MatchNumber: g.MatchNumber,
			Deltas:      deltas,
			Totals:      totals,
			GameOver:    gameOver,
		},
	}}

	if gameOver {
		g.GameOver = true
		finalSeat := domain.FinalWinnerIndex(g.Scores)
		g.FinalWinnerID = g.Players[finalSeat].ID
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{FinalWinnerSeat: finalSeat, FinalWinnerID: g.FinalWinnerID},
		})
	}
	return events
}

// deal shuffles and deals a fresh deck, resetting per-seat flags, and
// emits a private hand event per player.
func (s *Service) deal(g *domain.GameState) []Event {
	hands := domain.Deal(s.rng)
	events := make([]Event, 0, domain.SeatCount)
	for i, p := range g.Players {
		p.Hand = hands[i]
		p.Passed = false
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: i, PlayerID: p.ID, Hand: p.Hand},
			Recipients: []string{p.ID},
		})
	}
	return events
}

func (s *Service) appendHistory(g *domain.GameState, entry domain.RoundHistoryEntry) {
	g.RoundHistory = append(g.RoundHistory, entry)
	g.GameRoundHistory = append(g.GameRoundHistory, entry)
}

func holderOfOpeningCard(g *domain.GameState) int {
	for i, p := range g.Players {
		for _, c := range p.Hand {
			if c == domain.ThreeOfDiamonds {
				return i
			}
		}
	}
	return 0
}
