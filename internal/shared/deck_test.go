package shared

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeckHasFortyUniqueCards(t *testing.T) {
	deck := BuildDeck()
	require.Len(t, deck, DeckSize)

	seen := map[Card]bool{}
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate card %v", c)
		assert.GreaterOrEqual(t, RankIndex(c.Rank), 0)
		seen[c] = true
	}
	assert.Len(t, seen, len(Suits)*len(Ranks))
}

func TestShufflePreservesMultisetAndArgument(t *testing.T) {
	deck := BuildDeck()
	original := append([]Card{}, deck...)

	shuffled := Shuffle(deck, rand.New(rand.NewPCG(7, 11)))

	assert.Equal(t, original, deck, "argument must not be mutated")
	assert.ElementsMatch(t, original, shuffled)
	assert.NotEqual(t, original, shuffled)
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	a := Shuffle(BuildDeck(), rand.New(rand.NewPCG(42, 42)))
	b := Shuffle(BuildDeck(), rand.New(rand.NewPCG(42, 42)))
	assert.Equal(t, a, b)
}

func TestShuffleNilSource(t *testing.T) {
	assert.ElementsMatch(t, BuildDeck(), NewShuffledDeck(nil))
}

func TestParseCardParts(t *testing.T) {
	s, err := ParseSuit("clubs")
	require.NoError(t, err)
	assert.Equal(t, Clubs, s)

	_, err = ParseSuit("copas")
	assert.Error(t, err)

	r, err := ParseRank("Q")
	require.NoError(t, err)
	assert.Equal(t, RankQueen, r)

	_, err = ParseRank("10")
	assert.Error(t, err)
}

func TestPlayerRemoveCardDoesNotAlias(t *testing.T) {
	p := NewPlayer("player-1", "Jogador 1", 5)
	p.Hand = []Card{{Rank: Rank4, Suit: Clubs}, {Rank: Rank5, Suit: Hearts}, {Rank: Rank6, Suit: Spades}}
	snapshot := p.Clone()

	require.True(t, p.RemoveCard(Card{Rank: Rank4, Suit: Clubs}))
	assert.False(t, p.RemoveCard(Card{Rank: Rank4, Suit: Clubs}))
	assert.Len(t, p.Hand, 2)
	assert.Len(t, snapshot.Hand, 3)
	assert.Equal(t, Card{Rank: Rank4, Suit: Clubs}, snapshot.Hand[0])
}

func TestDefaultPlayers(t *testing.T) {
	players := DefaultPlayers(4, 5)
	require.Len(t, players, 4)
	assert.Equal(t, "player-1", players[0].ID)
	assert.Equal(t, "Jogador 4", players[3].Name)
	assert.False(t, players[0].Automated)
	assert.True(t, players[1].Automated)
	for _, p := range players {
		assert.Equal(t, 5, p.Lives)
		assert.Nil(t, p.Bid)
	}
}
