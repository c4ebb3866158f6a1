package domain

import (
	"math/rand"
	"testing"
)

func TestDealCoversDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hands := Deal(rng)

	seen := make(map[Card]int)
	for seat, hand := range hands {
		if len(hand) != HandSize {
			t.Fatalf("seat %d hand size = %d, want %d", seat, len(hand), HandSize)
		}
		for i := 1; i < len(hand); i++ {
			if CardPower(hand[i-1]) >= CardPower(hand[i]) {
				t.Fatalf("seat %d hand not sorted at %d: %v", seat, i, hand)
			}
		}
		for _, c := range hand {
			seen[c]++
		}
	}
	if len(seen) != 52 {
		t.Fatalf("distinct cards dealt = %d, want 52", len(seen))
	}
	for c, n := range seen {
		if n != 1 {
			t.Fatalf("card %s dealt %d times", c, n)
		}
	}
}

func TestHandContains(t *testing.T) {
	hand := cards(t, "3D", "7H", "7S", "KC")

	if !HandContains(hand, cards(t, "7H", "3D")) {
		t.Fatal("expected subset to be contained")
	}
	if HandContains(hand, cards(t, "7D")) {
		t.Fatal("card not in hand reported as contained")
	}
	// Requesting the same card twice must not match a single copy.
	if HandContains(hand, cards(t, "7H", "7H")) {
		t.Fatal("duplicate request matched a single copy")
	}
}

func TestRemoveCards(t *testing.T) {
	hand := cards(t, "3D", "7H", "7S", "KC")
	got := RemoveCards(hand, cards(t, "7H", "KC"))

	want := cards(t, "3D", "7S")
	if len(got) != len(want) {
		t.Fatalf("remaining = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("remaining = %v, want %v", got, want)
		}
	}
	if len(hand) != 4 {
		t.Fatalf("input hand mutated: %v", hand)
	}
}

func TestShuffleDeckLeavesInputIntact(t *testing.T) {
	deck := NewDeck()
	ShuffleDeck(rand.New(rand.NewSource(1)), deck)
	for i, c := range NewDeck() {
		if deck[i] != c {
			t.Fatalf("shuffle mutated the input deck at %d", i)
		}
	}
}
