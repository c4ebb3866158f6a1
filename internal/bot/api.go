package bot

import (
	"bigtwo/internal/domain"
	"bigtwo/internal/ports"
)

// Move represents the decision made by a brain. Pass wins over Cards.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// Brain is the interface all bot strategies implement. Implementations
// must be deterministic for a given request so retries are meaningful.
type Brain interface {
	CalculateMove(req ports.AdvisorRequest) (Move, error)
}
