package ports

import (
	"context"
	"time"

	"bigtwo/internal/domain"
)

// PlayerReport summarizes one player's game for the stats backend.
type PlayerReport struct {
	UserID         string                   `json:"user_id"`
	Username       string                   `json:"username"`
	Score          int                      `json:"score"`
	FinishPosition int                      `json:"finish_position"`
	CombosPlayed   map[domain.ComboType]int `json:"combos_played"`
}

// GameReport is the completion payload submitted once per game.
type GameReport struct {
	RoomID          string         `json:"room_id"`
	WinnerID        string         `json:"winner_id"`
	Matches         int            `json:"matches"`
	StartedAt       time.Time      `json:"started_at"`
	EndedAt         time.Time      `json:"ended_at"`
	DurationSeconds int64          `json:"duration_seconds"`
	Players         []PlayerReport `json:"players"`
}

// StatsReporter submits game completion payloads to an external collector.
// Submission must never block or fail game-over state transitions; the
// controller fires it asynchronously and only logs failures.
type StatsReporter interface {
	Submit(ctx context.Context, report GameReport) error
}
