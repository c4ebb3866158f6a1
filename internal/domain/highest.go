package domain

// Unbeatable-play detection for the auto-pass timer. A play is the highest
// possible play when no card or combination constructible from the cards
// not yet played this match can beat it. Hands are hidden from players but
// every unplayed card is in someone's hand, so the remaining set is simply
// the deck minus played_cards.

// RemainingCards returns the 52-card deck minus the cards already played
// this match (including the play under inspection).
func RemainingCards(played []Card) []Card {
	gone := make(map[Card]bool, len(played))
	for _, c := range played {
		gone[c] = true
	}
	out := make([]Card, 0, 52-len(played))
	for _, c := range NewDeck() {
		if !gone[c] {
			out = append(out, c)
		}
	}
	return out
}

// IsHighestPossiblePlay reports whether the play cannot be beaten by any
// combination formed from the not-yet-played cards.
func IsHighestPossiblePlay(play Combo, played []Card) bool {
	if play.Type == ComboUnknown {
		return false
	}
	return !CanBeBeaten(play, RemainingCards(played))
}

// CanBeBeaten reports whether any combination constructible from remaining
// beats the play under the standard beat rules (same cardinality; tier
// climbs allowed only among five-card combos).
func CanBeBeaten(play Combo, remaining []Card) bool {
	pool := newCardPool(remaining)

	switch play.Type {
	case ComboSingle:
		return pool.maxPower > play.Value
	case ComboPair:
		return pool.bestOfAKind(2) > play.Value
	case ComboTriple:
		return pool.bestOfAKind(3) > play.Value
	case ComboStraight, ComboFlush, ComboFullHouse, ComboFourOfAKind, ComboStraightFlush:
		return pool.beatsFiveCard(play)
	default:
		// Unknown combos are never on the table; report beatable so the
		// timer stays unarmed.
		return true
	}
}

// cardPool indexes a remaining-card set for combination existence queries.
type cardPool struct {
	present        [13][4]bool
	countByRank    [13]int
	topPowerByRank [13]int32 // -1 when the rank is exhausted
	maxPower       int32
}

func newCardPool(cards []Card) *cardPool {
	p := &cardPool{maxPower: -1}
	for i := range p.topPowerByRank {
		p.topPowerByRank[i] = -1
	}
	for _, c := range cards {
		p.present[c.Rank][c.Suit] = true
		p.countByRank[c.Rank]++
		if pow := CardPower(c); pow > p.topPowerByRank[c.Rank] {
			p.topPowerByRank[c.Rank] = pow
		}
		if pow := CardPower(c); pow > p.maxPower {
			p.maxPower = pow
		}
	}
	return p
}

// bestOfAKind returns the value of the strongest same-rank set of the given
// size still constructible, or -1. A set's value is the power of its
// highest card, so any rank with enough cards scores its top remaining card.
func (p *cardPool) bestOfAKind(size int) int32 {
	best := int32(-1)
	for r := 0; r < 13; r++ {
		if p.countByRank[r] >= size && p.topPowerByRank[r] > best {
			best = p.topPowerByRank[r]
		}
	}
	return best
}

func (p *cardPool) beatsFiveCard(play Combo) bool {
	playTier := fiveCardTier(play.Type)
	candidates := []struct {
		tier  int
		value int32
	}{
		{fiveCardTier(ComboStraight), p.bestStraight()},
		{fiveCardTier(ComboFlush), p.bestFlush()},
		{fiveCardTier(ComboFullHouse), p.bestFullHouse()},
		{fiveCardTier(ComboFourOfAKind), p.bestFourOfAKind()},
		{fiveCardTier(ComboStraightFlush), p.bestStraightFlush()},
	}
	for _, c := range candidates {
		if c.value < 0 {
			continue
		}
		if c.tier > playTier {
			return true
		}
		if c.tier == playTier && c.value > play.Value {
			return true
		}
	}
	return false
}

// bestStraight scans five-rank windows below the Two; the best straight
// tops each window rank with its highest remaining suit.
func (p *cardPool) bestStraight() int32 {
	best := int32(-1)
	for start := RankThree; start+4 <= RankAce; start++ {
		ok := true
		for r := start; r <= start+4; r++ {
			if p.countByRank[r] == 0 {
				ok = false
				break
			}
		}
		if ok && p.topPowerByRank[start+4] > best {
			best = p.topPowerByRank[start+4]
		}
	}
	return best
}

func (p *cardPool) bestFlush() int32 {
	best := int32(-1)
	for s := SuitDiamonds; s <= SuitSpades; s++ {
		count := 0
		top := int32(-1)
		for r := RankThree; r <= RankTwo; r++ {
			if p.present[r][s] {
				count++
				top = CardPower(Card{Rank: r, Suit: s})
			}
		}
		if count >= 5 && top > best {
			best = top
		}
	}
	return best
}

func (p *cardPool) bestFullHouse() int32 {
	best := int32(-1)
	for a := 0; a < 13; a++ {
		if p.countByRank[a] < 3 {
			continue
		}
		for b := 0; b < 13; b++ {
			if b == a || p.countByRank[b] < 2 {
				continue
			}
			value := p.topPowerByRank[a]
			if p.topPowerByRank[b] > value {
				value = p.topPowerByRank[b]
			}
			if value > best {
				best = value
			}
		}
	}
	return best
}

func (p *cardPool) bestFourOfAKind() int32 {
	best := int32(-1)
	for r := 0; r < 13; r++ {
		if p.countByRank[r] != 4 {
			continue
		}
		kicker := int32(-1)
		for other := 0; other < 13; other++ {
			if other != r && p.topPowerByRank[other] > kicker {
				kicker = p.topPowerByRank[other]
			}
		}
		if kicker < 0 {
			continue // quad with no fifth card left in circulation
		}
		value := CardPower(Card{Rank: Rank(r), Suit: SuitSpades})
		if kicker > value {
			value = kicker
		}
		if value > best {
			best = value
		}
	}
	return best
}

func (p *cardPool) bestStraightFlush() int32 {
	best := int32(-1)
	for s := SuitDiamonds; s <= SuitSpades; s++ {
		for start := RankThree; start+4 <= RankAce; start++ {
			ok := true
			for r := start; r <= start+4; r++ {
				if !p.present[r][s] {
					ok = false
					break
				}
			}
			if ok {
				if top := CardPower(Card{Rank: start + 4, Suit: s}); top > best {
					best = top
				}
			}
		}
	}
	return best
}
