package bot

import (
	"context"

	"bigtwo/internal/ports"
)

// LocalAdvisor satisfies ports.Advisor with in-process brains selected per
// request difficulty. It is the default advisor when no external service is
// configured.
type LocalAdvisor struct{}

func NewLocalAdvisor() *LocalAdvisor {
	return &LocalAdvisor{}
}

func (a *LocalAdvisor) GetPlay(ctx context.Context, req ports.AdvisorRequest) (ports.AdvisorResponse, error) {
	if err := ctx.Err(); err != nil {
		return ports.AdvisorResponse{}, err
	}
	move, err := NewBrain(req.Difficulty).CalculateMove(req)
	if err != nil {
		return ports.AdvisorResponse{}, err
	}
	if move.Pass {
		return ports.AdvisorResponse{Reasoning: "no profitable answer, passing"}, nil
	}
	return ports.AdvisorResponse{Cards: move.Cards, Reasoning: "cheapest winning combination"}, nil
}
