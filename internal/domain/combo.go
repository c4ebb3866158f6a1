package domain

// ComboType classifies a set of played cards.
type ComboType string

const (
	ComboUnknown       ComboType = "unknown"
	ComboSingle        ComboType = "single"
	ComboPair          ComboType = "pair"
	ComboTriple        ComboType = "triple"
	ComboStraight      ComboType = "straight"
	ComboFlush         ComboType = "flush"
	ComboFullHouse     ComboType = "full_house"
	ComboFourOfAKind   ComboType = "four_of_a_kind"
	ComboStraightFlush ComboType = "straight_flush"
)

// Combo is a classified combination with a deterministic ranking value.
// Value is the power of the highest constituent card; equal type and
// cardinality always compare by Value.
type Combo struct {
	Type  ComboType
	Cards []Card // sorted ascending by power
	Value int32
}

// fiveCardTier orders the five-card combo families for cross-tier beats.
// Zero means the type takes no part in cross-tier comparisons.
func fiveCardTier(t ComboType) int {
	switch t {
	case ComboStraight:
		return 1
	case ComboFlush:
		return 2
	case ComboFullHouse:
		return 3
	case ComboFourOfAKind:
		return 4
	case ComboStraightFlush:
		return 5
	default:
		return 0
	}
}

// Identify analyzes a set of cards and returns the combination it forms,
// or a ComboUnknown combo when the set matches nothing legal.
func Identify(cards []Card) Combo {
	n := len(cards)
	if n == 0 || hasDuplicates(cards) {
		return Combo{Type: ComboUnknown}
	}

	sorted := append([]Card{}, cards...)
	SortHand(sorted)
	value := CardPower(sorted[n-1])

	switch n {
	case 1:
		return Combo{Type: ComboSingle, Cards: sorted, Value: value}
	case 2:
		if allSameRank(sorted) {
			return Combo{Type: ComboPair, Cards: sorted, Value: value}
		}
	case 3:
		if allSameRank(sorted) {
			return Combo{Type: ComboTriple, Cards: sorted, Value: value}
		}
	case 5:
		straight := isStraight(sorted)
		flush := isFlush(sorted)
		switch {
		case straight && flush:
			return Combo{Type: ComboStraightFlush, Cards: sorted, Value: value}
		case isFourOfAKind(sorted):
			return Combo{Type: ComboFourOfAKind, Cards: sorted, Value: value}
		case isFullHouse(sorted):
			return Combo{Type: ComboFullHouse, Cards: sorted, Value: value}
		case flush:
			return Combo{Type: ComboFlush, Cards: sorted, Value: value}
		case straight:
			return Combo{Type: ComboStraight, Cards: sorted, Value: value}
		}
	}
	return Combo{Type: ComboUnknown}
}

// CanBeat determines whether next beats prev. Both plays must have the
// same cardinality; among five-card combos a higher tier beats any lower
// tier regardless of card values.
func CanBeat(prev, next Combo) bool {
	if prev.Type == ComboUnknown || next.Type == ComboUnknown {
		return false
	}
	if len(prev.Cards) != len(next.Cards) {
		return false
	}
	if prev.Type == next.Type {
		return next.Value > prev.Value
	}
	prevTier := fiveCardTier(prev.Type)
	nextTier := fiveCardTier(next.Type)
	if prevTier == 0 || nextTier == 0 {
		return false
	}
	return nextTier > prevTier
}

func hasDuplicates(cards []Card) bool {
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}

func allSameRank(cards []Card) bool {
	if len(cards) == 0 {
		return false
	}
	r := cards[0].Rank
	for _, c := range cards {
		if c.Rank != r {
			return false
		}
	}
	return true
}

// isStraight expects sorted input: five consecutive ranks, no Two.
func isStraight(cards []Card) bool {
	if len(cards) != 5 {
		return false
	}
	for i, c := range cards {
		if c.Rank == RankTwo {
			return false
		}
		if i > 0 && c.Rank != cards[i-1].Rank+1 {
			return false
		}
	}
	return true
}

func isFlush(cards []Card) bool {
	if len(cards) != 5 {
		return false
	}
	s := cards[0].Suit
	for _, c := range cards {
		if c.Suit != s {
			return false
		}
	}
	return true
}

// isFourOfAKind expects sorted input: four of one rank plus a kicker.
func isFourOfAKind(cards []Card) bool {
	if len(cards) != 5 {
		return false
	}
	return allSameRank(cards[:4]) || allSameRank(cards[1:])
}

// isFullHouse expects sorted input: a triple plus a pair.
func isFullHouse(cards []Card) bool {
	if len(cards) != 5 {
		return false
	}
	return (allSameRank(cards[:3]) && allSameRank(cards[3:])) ||
		(allSameRank(cards[:2]) && allSameRank(cards[2:]))
}
