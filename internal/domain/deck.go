package domain

import (
	"math/rand"
	"sort"
)

// HandSize is the number of cards dealt to each seat.
const HandSize = 13

// SeatCount is the fixed number of seats at the table.
const SeatCount = 4

// NewDeck returns the canonical 52-card deck in sorted order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for r := RankThree; r <= RankTwo; r++ {
		for s := SuitDiamonds; s <= SuitSpades; s++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck returns a Fisher-Yates shuffled copy of the given deck.
func ShuffleDeck(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal shuffles a fresh deck and deals 13 cards to each of the 4 seats.
// Every hand comes back in canonical ascending power order; downstream
// combo detection and lowest/highest fallbacks rely on that ordering.
func Deal(rng *rand.Rand) [SeatCount][]Card {
	deck := ShuffleDeck(rng, NewDeck())
	var hands [SeatCount][]Card
	for i := 0; i < SeatCount; i++ {
		hand := append([]Card{}, deck[i*HandSize:(i+1)*HandSize]...)
		SortHand(hand)
		hands[i] = hand
	}
	return hands
}

// SortHand orders a hand by ascending power in place.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return CardPower(cards[i]) < CardPower(cards[j])
	})
}

// HandContains reports whether every card in cards is present in hand.
// Duplicate requests for the same card are rejected.
func HandContains(hand []Card, cards []Card) bool {
	seen := make(map[Card]bool, len(hand))
	for _, c := range hand {
		seen[c] = true
	}
	for _, c := range cards {
		if !seen[c] {
			return false
		}
		seen[c] = false
	}
	return true
}

// RemoveCards removes the specified cards from a hand and returns the
// updated hand, preserving order.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}
	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}
	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}
	return updated
}
