package shared

import "fmt"

// Suit represents the suit of a card (copas, espadas, ouros, paus).
type Suit string

const (
	Hearts   Suit = "hearts"   // copas
	Spades   Suit = "spades"   // espadas
	Diamonds Suit = "diamonds" // ouros
	Clubs    Suit = "clubs"    // paus
)

// Suits lists every suit in deck-building order.
var Suits = []Suit{Hearts, Spades, Diamonds, Clubs}

// Rank represents the face of a card.
type Rank string

const (
	Rank4     Rank = "4"
	Rank5     Rank = "5"
	Rank6     Rank = "6"
	Rank7     Rank = "7"
	RankQueen Rank = "Q"
	RankJack  Rank = "J"
	RankKing  Rank = "K"
	RankAce   Rank = "A"
	Rank2     Rank = "2"
	Rank3     Rank = "3"
)

// Ranks is the canonical Truco order, weakest first.
var Ranks = []Rank{Rank4, Rank5, Rank6, Rank7, RankQueen, RankJack, RankKing, RankAce, Rank2, Rank3}

// RankIndex returns the position of r in Ranks, or -1 for an unknown rank.
func RankIndex(r Rank) int {
	for i, rank := range Ranks {
		if rank == r {
			return i
		}
	}
	return -1
}

// ParseSuit validates a suit coming from the wire.
func ParseSuit(s string) (Suit, error) {
	for _, suit := range Suits {
		if string(suit) == s {
			return suit, nil
		}
	}
	return "", fmt.Errorf("invalid suit %q", s)
}

// ParseRank validates a rank coming from the wire.
func ParseRank(r string) (Rank, error) {
	if RankIndex(Rank(r)) < 0 {
		return "", fmt.Errorf("invalid rank %q", r)
	}
	return Rank(r), nil
}

// Card represents a single card of the 40-card Truco deck.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
