package domain

import "testing"

// cards parses compact IDs like "3D" into a hand, failing the test on a
// typo in the test data itself.
func cards(t *testing.T, ids ...string) []Card {
	t.Helper()
	out := make([]Card, len(ids))
	for i, id := range ids {
		c, err := ParseCardID(id)
		if err != nil {
			t.Fatalf("bad card id %q: %v", id, err)
		}
		out[i] = c
	}
	return out
}

func TestIdentify(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want ComboType
	}{
		{"single", []string{"7H"}, ComboSingle},
		{"pair", []string{"9C", "9S"}, ComboPair},
		{"mismatched pair", []string{"9C", "10S"}, ComboUnknown},
		{"triple", []string{"JD", "JH", "JS"}, ComboTriple},
		{"two cards same identity", []string{"9C", "9C"}, ComboUnknown},
		{"four cards", []string{"3D", "3C", "3H", "3S"}, ComboUnknown},
		{"straight", []string{"5C", "6D", "7S", "8H", "9D"}, ComboStraight},
		{"straight with two", []string{"JD", "QC", "KH", "AS", "2D"}, ComboUnknown},
		{"ace high straight", []string{"10D", "JC", "QH", "KS", "AD"}, ComboStraight},
		{"flush", []string{"3H", "7H", "9H", "JH", "KH"}, ComboFlush},
		{"full house", []string{"8D", "8C", "8H", "KC", "KS"}, ComboFullHouse},
		{"full house pair first", []string{"4D", "4C", "10D", "10H", "10S"}, ComboFullHouse},
		{"four of a kind", []string{"6D", "6C", "6H", "6S", "QD"}, ComboFourOfAKind},
		{"straight flush", []string{"4S", "5S", "6S", "7S", "8S"}, ComboStraightFlush},
		{"five random", []string{"3D", "5C", "8H", "JD", "KS"}, ComboUnknown},
		{"empty", nil, ComboUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identify(cards(t, tt.ids...))
			if got.Type != tt.want {
				t.Fatalf("Identify(%v).Type = %s, want %s", tt.ids, got.Type, tt.want)
			}
		})
	}
}

func TestIdentifyValueIsHighestCard(t *testing.T) {
	combo := Identify(cards(t, "8D", "8C", "8H", "KC", "KS"))
	if combo.Type != ComboFullHouse {
		t.Fatalf("type = %s, want full_house", combo.Type)
	}
	// The king of spades is the highest constituent, not the triple.
	want := CardPower(Card{Rank: RankKing, Suit: SuitSpades})
	if combo.Value != want {
		t.Fatalf("value = %d, want %d", combo.Value, want)
	}
}

func TestCanBeat(t *testing.T) {
	tests := []struct {
		name string
		prev []string
		next []string
		want bool
	}{
		{"higher single", []string{"9C"}, []string{"9H"}, true},
		{"lower single", []string{"9H"}, []string{"9C"}, false},
		{"equal rank lower suit", []string{"2S"}, []string{"2H"}, false},
		{"pair beats pair", []string{"5C", "5H"}, []string{"5D", "5S"}, true},
		{"pair vs single", []string{"5C", "5H"}, []string{"AS"}, false},
		{"single vs pair", []string{"AS"}, []string{"5C", "5H"}, false},
		{"higher straight", []string{"5C", "6D", "7S", "8H", "9D"}, []string{"6C", "7D", "8C", "9H", "10D"}, true},
		{"flush beats straight", []string{"10D", "JC", "QH", "KS", "AD"}, []string{"3H", "4H", "7H", "9H", "10H"}, true},
		{"straight cannot beat flush", []string{"3H", "4H", "7H", "9H", "10H"}, []string{"10D", "JC", "QH", "KS", "AD"}, false},
		{"full house beats flush", []string{"3H", "4H", "7H", "9H", "AH"}, []string{"4D", "4C", "10D", "10H", "10S"}, true},
		{"four of a kind beats full house", []string{"8D", "8C", "8H", "KC", "KS"}, []string{"6D", "6C", "6H", "6S", "QD"}, true},
		{"straight flush beats four of a kind", []string{"6D", "6C", "6H", "6S", "QD"}, []string{"4S", "5S", "6S", "7S", "8S"}, true},
		{"triple vs five cards", []string{"JD", "JH", "JS"}, []string{"4S", "5S", "6S", "7S", "8S"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Identify(cards(t, tt.prev...))
			next := Identify(cards(t, tt.next...))
			if got := CanBeat(prev, next); got != tt.want {
				t.Fatalf("CanBeat(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}
