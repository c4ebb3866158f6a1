package bot

import (
	"bigtwo/internal/domain"
	"bigtwo/internal/ports"
)

// RetryResult reports the outcome of a bounded retry loop.
type RetryResult struct {
	Succeeded bool
	Attempts  int
	LastErr   error
}

// RetryBounded runs attempt up to max times, stopping at the first nil
// error. The attempt receives the 1-based attempt number.
func RetryBounded(max int, attempt func(n int) error) RetryResult {
	res := RetryResult{}
	for n := 1; n <= max; n++ {
		res.Attempts = n
		if err := attempt(n); err == nil {
			res.Succeeded = true
			return res
		} else {
			res.LastErr = err
		}
	}
	return res
}

// FallbackFor maps a rejected move's rule violation to a deterministic legal
// replacement. Returned moves still go through full validation; a zero-value
// ok means the table has no answer and the caller should escalate.
func FallbackFor(kind domain.RuleViolation, req ports.AdvisorRequest) (Move, bool) {
	hand := sortedByPower(req.Hand)
	if len(hand) == 0 {
		return Move{}, false
	}

	switch kind {
	case domain.ViolationOneCardLeft:
		// The next player holds one card, so a weak single is forbidden.
		// Lead or answer with the strongest single available.
		if req.LastPlay == nil {
			return Move{Cards: []domain.Card{hand[len(hand)-1]}}, true
		}
		if req.LastPlay.ComboType == domain.ComboSingle {
			if c, ok := highestSingleBeating(hand, lastPlayValue(req.LastPlay)); ok {
				return Move{Cards: []domain.Card{c}}, true
			}
		}
		return Move{Pass: true}, true

	case domain.ViolationCannotPassWhileLeading, domain.ViolationMustLeadWithThree:
		// Leading seats must produce cards. The lowest single is always a
		// legal lead, and on the opening play it is the Three of Diamonds.
		return Move{Cards: []domain.Card{hand[0]}}, true

	default:
		if req.LastPlay == nil {
			return Move{Cards: []domain.Card{hand[0]}}, true
		}
		return Move{Pass: true}, true
	}
}

func highestSingleBeating(sorted []domain.Card, value int32) (domain.Card, bool) {
	for i := len(sorted) - 1; i >= 0; i-- {
		if domain.CardPower(sorted[i]) > value {
			return sorted[i], true
		}
	}
	return domain.Card{}, false
}
