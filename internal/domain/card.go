package domain

import "fmt"

// Rank encodes card rank in play order: 0 = Three ... 11 = Ace, 12 = Two.
// The Two outranks everything, so natural numeric order is deliberately
// not used.
type Rank int32

const (
	RankThree Rank = iota
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
	RankTwo
)

// Suit ordering for tie-breaks is Diamonds < Clubs < Hearts < Spades.
type Suit int32

const (
	SuitDiamonds Suit = iota
	SuitClubs
	SuitHearts
	SuitSpades
)

// Card is a single playing card in the 52-card deck.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

var rankLabels = [...]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}
var suitLabels = [...]string{"D", "C", "H", "S"}

// ThreeOfDiamonds opens every game.
var ThreeOfDiamonds = Card{Rank: RankThree, Suit: SuitDiamonds}

// CardPower returns the total ordering of a single card (rank, then suit).
func CardPower(c Card) int32 {
	return int32(c.Rank)*4 + int32(c.Suit)
}

// ID returns the card's natural key, e.g. "3D" or "10S".
func (c Card) ID() string {
	if c.Rank < RankThree || c.Rank > RankTwo || c.Suit < SuitDiamonds || c.Suit > SuitSpades {
		return "??"
	}
	return rankLabels[c.Rank] + suitLabels[c.Suit]
}

func (c Card) String() string {
	return c.ID()
}

// ParseCardID parses a natural key like "3D" back into a Card.
func ParseCardID(id string) (Card, error) {
	if len(id) < 2 {
		return Card{}, fmt.Errorf("invalid card id %q", id)
	}
	rankPart := id[:len(id)-1]
	suitPart := id[len(id)-1:]

	rank := Rank(-1)
	for i, label := range rankLabels {
		if label == rankPart {
			rank = Rank(i)
			break
		}
	}
	suit := Suit(-1)
	for i, label := range suitLabels {
		if label == suitPart {
			suit = Suit(i)
			break
		}
	}
	if rank < 0 || suit < 0 {
		return Card{}, fmt.Errorf("invalid card id %q", id)
	}
	return Card{Rank: rank, Suit: suit}, nil
}
