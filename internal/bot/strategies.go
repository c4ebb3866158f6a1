package bot

import (
	"sort"

	"bigtwo/internal/domain"
	"bigtwo/internal/ports"
)

// GreedyBrain sheds cards as fast as possible: it leads its lowest single
// and answers with the cheapest combination that still wins the trick.
type GreedyBrain struct{}

func (GreedyBrain) CalculateMove(req ports.AdvisorRequest) (Move, error) {
	hand := sortedByPower(req.Hand)
	if len(hand) == 0 {
		return Move{Pass: true}, nil
	}

	if req.LastPlay == nil {
		// Leading. On the opening play the sorted hand starts with the
		// Three of Diamonds, so the lowest single satisfies the lead rule.
		return Move{Cards: []domain.Card{hand[0]}}, nil
	}

	switch req.LastPlay.ComboType {
	case domain.ComboSingle:
		if c, ok := lowestSingleBeating(hand, lastPlayValue(req.LastPlay)); ok {
			return Move{Cards: []domain.Card{c}}, nil
		}
	case domain.ComboPair:
		if cards, ok := lowestGroupBeating(hand, 2, lastPlayValue(req.LastPlay)); ok {
			return Move{Cards: cards}, nil
		}
	case domain.ComboTriple:
		if cards, ok := lowestGroupBeating(hand, 3, lastPlayValue(req.LastPlay)); ok {
			return Move{Cards: cards}, nil
		}
	}
	// Five-card tables are not contested; fold and wait for a cheap trick.
	return Move{Pass: true}, nil
}

// CautiousBrain plays like GreedyBrain but refuses to spend a Two to win a
// single-card trick until its hand is nearly empty.
type CautiousBrain struct{}

func (CautiousBrain) CalculateMove(req ports.AdvisorRequest) (Move, error) {
	move, err := GreedyBrain{}.CalculateMove(req)
	if err != nil || move.Pass {
		return move, err
	}
	if req.LastPlay != nil && len(move.Cards) == 1 &&
		move.Cards[0].Rank == domain.RankTwo && len(req.Hand) > 2 {
		return Move{Pass: true}, nil
	}
	return move, nil
}

func sortedByPower(hand []domain.Card) []domain.Card {
	out := make([]domain.Card, len(hand))
	copy(out, hand)
	sort.Slice(out, func(i, j int) bool {
		return domain.CardPower(out[i]) < domain.CardPower(out[j])
	})
	return out
}

func lastPlayValue(last *domain.LastPlay) int32 {
	var max int32 = -1
	for _, c := range last.Cards {
		if p := domain.CardPower(c); p > max {
			max = p
		}
	}
	return max
}

// lowestSingleBeating returns the weakest card in a power-sorted hand that
// strictly beats value.
func lowestSingleBeating(sorted []domain.Card, value int32) (domain.Card, bool) {
	for _, c := range sorted {
		if domain.CardPower(c) > value {
			return c, true
		}
	}
	return domain.Card{}, false
}

// lowestGroupBeating returns the weakest same-rank group of the given size
// whose top card strictly beats value. The group keeps the highest suits of
// the rank so the combination's value is maximal for that rank.
func lowestGroupBeating(sorted []domain.Card, size int, value int32) ([]domain.Card, bool) {
	byRank := make(map[domain.Rank][]domain.Card)
	for _, c := range sorted {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}
	for r := domain.RankThree; r <= domain.RankTwo; r++ {
		group := byRank[r]
		if len(group) < size {
			continue
		}
		pick := group[len(group)-size:]
		if domain.CardPower(pick[len(pick)-1]) > value {
			return pick, true
		}
	}
	return nil, false
}
