package app

import "bigtwo/internal/domain"

// EventKind identifies emitted game events for adapter dispatch.
type EventKind string

const (
	EventGameInitialized EventKind = "game_initialized"
	EventHandDealt       EventKind = "hand_dealt"
	EventCardPlayed      EventKind = "card_played"
	EventTurnPassed      EventKind = "turn_passed"
	EventTrickResolved   EventKind = "trick_resolved"
	EventAutoPassArmed   EventKind = "auto_pass_armed"
	EventTimerAnomaly    EventKind = "timer_anomaly"
	EventMatchEnded      EventKind = "match_ended"
	EventGameEnded       EventKind = "game_ended"
	EventNewMatchStarted EventKind = "new_match_started"
	EventBotForfeited    EventKind = "bot_forfeited"
	EventStatsFailed     EventKind = "stats_report_failed"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

type GameInitializedPayload struct {
	MatchNumber   int
	FirstTurnSeat int
}

type HandDealtPayload struct {
	Seat     int
	PlayerID string
	Hand     []domain.Card
}

type CardPlayedPayload struct {
	Seat         int
	Cards        []domain.Card
	ComboType    domain.ComboType
	CardsLeft    int
	NextTurnSeat int
}

type TurnPassedPayload struct {
	Seat         int
	NextTurnSeat int
	Auto         bool
}

type TrickResolvedPayload struct {
	LeaderSeat int
}

type AutoPassArmedPayload struct {
	Seat       int
	PlayerID   string
	DurationMS int64
}

type TimerAnomalyPayload struct {
	Detail string
}

type MatchEndedPayload struct {
	WinnerSeat  int
	WinnerID    string
	MatchNumber int
	Deltas      []int
	Totals      []int
	GameOver    bool
}

type GameEndedPayload struct {
	FinalWinnerSeat int
	FinalWinnerID   string
}

type NewMatchStartedPayload struct {
	MatchNumber int
	LeaderSeat  int
}

type BotForfeitedPayload struct {
	Seat     int
	PlayerID string
	Attempts int
}

type StatsFailedPayload struct {
	Reason string
}
