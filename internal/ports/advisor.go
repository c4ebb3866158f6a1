package ports

import (
	"context"

	"bigtwo/internal/domain"
)

// AdvisorRequest carries everything a bot brain may consider for one turn.
type AdvisorRequest struct {
	Hand               []domain.Card
	LastPlay           *domain.LastPlay
	IsFirstPlayOfGame  bool
	PlayerCardCounts   []int
	CurrentPlayerIndex int
	Difficulty         string
}

// AdvisorResponse is a play recommendation. Nil Cards recommends a pass.
// The engine validates the recommendation; the advisor is never trusted.
type AdvisorResponse struct {
	Cards     []domain.Card
	Reasoning string
}

// Advisor produces play recommendations for bot seats.
type Advisor interface {
	GetPlay(ctx context.Context, req AdvisorRequest) (AdvisorResponse, error)
}
