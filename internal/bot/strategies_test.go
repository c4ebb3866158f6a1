package bot

import (
	"testing"

	"bigtwo/internal/domain"
	"bigtwo/internal/ports"
)

func hand(t *testing.T, ids ...string) []domain.Card {
	t.Helper()
	out := make([]domain.Card, len(ids))
	for i, id := range ids {
		c, err := domain.ParseCardID(id)
		if err != nil {
			t.Fatalf("bad card id %q: %v", id, err)
		}
		out[i] = c
	}
	return out
}

func lastSingle(t *testing.T, id string) *domain.LastPlay {
	t.Helper()
	return &domain.LastPlay{Cards: hand(t, id), ComboType: domain.ComboSingle}
}

func TestGreedyLeadsLowestSingle(t *testing.T) {
	move, err := GreedyBrain{}.CalculateMove(ports.AdvisorRequest{
		Hand: hand(t, "KS", "3D", "7H"),
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if move.Pass || len(move.Cards) != 1 || move.Cards[0] != domain.ThreeOfDiamonds {
		t.Fatalf("move = %+v, want lead 3D", move)
	}
}

func TestGreedyAnswersWithCheapestBeatingSingle(t *testing.T) {
	move, err := GreedyBrain{}.CalculateMove(ports.AdvisorRequest{
		Hand:     hand(t, "5C", "9D", "KS"),
		LastPlay: lastSingle(t, "8H"),
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if move.Pass || move.Cards[0].ID() != "9D" {
		t.Fatalf("move = %+v, want 9D", move)
	}
}

func TestGreedyPassesWhenNothingBeats(t *testing.T) {
	move, err := GreedyBrain{}.CalculateMove(ports.AdvisorRequest{
		Hand:     hand(t, "5C", "9D"),
		LastPlay: lastSingle(t, "2S"),
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !move.Pass {
		t.Fatalf("move = %+v, want pass", move)
	}
}

func TestGreedyAnswersPairWithHighestSuits(t *testing.T) {
	move, err := GreedyBrain{}.CalculateMove(ports.AdvisorRequest{
		Hand: hand(t, "7D", "7C", "7S", "KD"),
		LastPlay: &domain.LastPlay{
			Cards:     hand(t, "6H", "6S"),
			ComboType: domain.ComboPair,
		},
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	// The pair of sevens is picked with its highest suits so its value
	// clears the 6 of spades.
	if move.Pass || len(move.Cards) != 2 {
		t.Fatalf("move = %+v, want a pair", move)
	}
	if move.Cards[1].ID() != "7S" {
		t.Fatalf("pair = %v, want top card 7S", move.Cards)
	}
}

func TestGreedyPassesOnFiveCardTables(t *testing.T) {
	move, err := GreedyBrain{}.CalculateMove(ports.AdvisorRequest{
		Hand: hand(t, "5C", "6C", "7C", "8C", "9C"),
		LastPlay: &domain.LastPlay{
			Cards:     hand(t, "3D", "4D", "5D", "6D", "7D"),
			ComboType: domain.ComboStraight,
		},
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !move.Pass {
		t.Fatalf("move = %+v, want pass", move)
	}
}

func TestCautiousHoldsTwosEarly(t *testing.T) {
	req := ports.AdvisorRequest{
		Hand:     hand(t, "5C", "9D", "2S"),
		LastPlay: lastSingle(t, "AS"),
	}
	move, err := CautiousBrain{}.CalculateMove(req)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if !move.Pass {
		t.Fatalf("move = %+v, want pass while holding many cards", move)
	}

	// Down to two cards the Two is spent freely.
	req.Hand = hand(t, "5C", "2S")
	move, err = CautiousBrain{}.CalculateMove(req)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if move.Pass || move.Cards[0].ID() != "2S" {
		t.Fatalf("move = %+v, want 2S", move)
	}
}

func TestNewBrainDifficultyMapping(t *testing.T) {
	if _, ok := NewBrain("hard").(CautiousBrain); !ok {
		t.Fatal("hard should map to the cautious strategy")
	}
	if _, ok := NewBrain("easy").(GreedyBrain); !ok {
		t.Fatal("easy should map to the greedy strategy")
	}
	if _, ok := NewBrain("").(GreedyBrain); !ok {
		t.Fatal("unknown difficulty should fall back to greedy")
	}
}
