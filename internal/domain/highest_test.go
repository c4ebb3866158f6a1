package domain

import "testing"

func TestIsHighestPossiblePlaySingles(t *testing.T) {
	tests := []struct {
		name   string
		play   []string
		played []string // includes the play itself
		want   bool
	}{
		{"two of spades", []string{"2S"}, []string{"2S"}, true},
		{"two of hearts with spades out", []string{"2H"}, []string{"2H"}, false},
		{"two of hearts after spades played", []string{"2H"}, []string{"2S", "2H"}, true},
		{"ace while twos remain", []string{"AS"}, []string{"AS"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			play := Identify(cards(t, tt.play...))
			got := IsHighestPossiblePlay(play, cards(t, tt.played...))
			if got != tt.want {
				t.Fatalf("IsHighestPossiblePlay(%v) = %v, want %v", tt.play, got, tt.want)
			}
		})
	}
}

func TestIsHighestPossiblePlayGroups(t *testing.T) {
	tests := []struct {
		name   string
		play   []string
		played []string
		want   bool
	}{
		{"top pair of twos", []string{"2H", "2S"}, []string{"2H", "2S"}, true},
		{"low pair of twos", []string{"2D", "2C"}, []string{"2D", "2C"}, false},
		{"low pair of twos with high twos gone", []string{"2D", "2C"}, []string{"2H", "2S", "2D", "2C"}, true},
		{"triple twos missing one", []string{"2C", "2H", "2S"}, []string{"2C", "2H", "2S"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			play := Identify(cards(t, tt.play...))
			got := IsHighestPossiblePlay(play, cards(t, tt.played...))
			if got != tt.want {
				t.Fatalf("IsHighestPossiblePlay(%v) = %v, want %v", tt.play, got, tt.want)
			}
		})
	}
}

func TestIsHighestPossiblePlayFiveCard(t *testing.T) {
	topStraightFlush := []string{"10S", "JS", "QS", "KS", "AS"}

	t.Run("top straight flush is unbeatable", func(t *testing.T) {
		play := Identify(cards(t, topStraightFlush...))
		if play.Type != ComboStraightFlush {
			t.Fatalf("type = %s", play.Type)
		}
		if !IsHighestPossiblePlay(play, cards(t, topStraightFlush...)) {
			t.Fatal("top straight flush reported beatable")
		}
	})

	t.Run("heart straight flush loses to spade", func(t *testing.T) {
		hearts := []string{"10H", "JH", "QH", "KH", "AH"}
		play := Identify(cards(t, hearts...))
		if IsHighestPossiblePlay(play, cards(t, hearts...)) {
			t.Fatal("heart straight flush reported unbeatable while spades remain")
		}
	})

	t.Run("four of a kind beatable by straight flush", func(t *testing.T) {
		quad := []string{"2D", "2C", "2H", "2S", "AD"}
		play := Identify(cards(t, quad...))
		if play.Type != ComboFourOfAKind {
			t.Fatalf("type = %s", play.Type)
		}
		if IsHighestPossiblePlay(play, cards(t, quad...)) {
			t.Fatal("quad reported unbeatable while straight flushes remain")
		}
	})

	t.Run("straight beatable by any flush", func(t *testing.T) {
		straight := []string{"10D", "JC", "QH", "KS", "AD"}
		play := Identify(cards(t, straight...))
		if play.Type != ComboStraight {
			t.Fatalf("type = %s", play.Type)
		}
		if IsHighestPossiblePlay(play, cards(t, straight...)) {
			t.Fatal("straight reported unbeatable")
		}
	})
}

func TestRemainingCards(t *testing.T) {
	remaining := RemainingCards(cards(t, "3D", "2S"))
	if len(remaining) != 50 {
		t.Fatalf("remaining = %d cards, want 50", len(remaining))
	}
	for _, c := range remaining {
		if c == ThreeOfDiamonds || (c.Rank == RankTwo && c.Suit == SuitSpades) {
			t.Fatalf("played card %s still in remaining set", c)
		}
	}
}
