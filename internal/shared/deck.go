package shared

import "math/rand/v2"

// DeckSize is the number of cards in a full deck.
const DeckSize = 40

// BuildDeck creates the ordered 40-card deck, one card per (rank, suit) pair.
func BuildDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return cards
}

// Shuffle returns a uniformly permuted copy of deck. The argument is left untouched.
// A nil rng falls back to the process-wide source.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	if rng == nil {
		rand.Shuffle(len(shuffled), swap)
	} else {
		rng.Shuffle(len(shuffled), swap)
	}
	return shuffled
}

// NewShuffledDeck is the deck every round is dealt from.
func NewShuffledDeck(rng *rand.Rand) []Card {
	return Shuffle(BuildDeck(), rng)
}
