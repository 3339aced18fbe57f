package game

import (
	"testing"

	"fodinha-game/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

// step applies cmd and returns the events it produced.
func step(t *testing.T, s MatchState, cmd Command, deck []shared.Card) (MatchState, []Event) {
	t.Helper()
	next, err := Apply(s, cmd, deck)
	require.NoError(t, err)
	return next, BuildEvents(s, next, cmd)
}

func TestBuildEventsThroughARound(t *testing.T) {
	s := NewMatch(shared.DefaultPlayers(2, 1))
	deck := stackedDeck(
		card(shared.Rank3, shared.Hearts), // player-2
		card(shared.Rank4, shared.Hearts), // player-1
		card(shared.Rank7, shared.Spades),
	)

	s, events := step(t, s, Command{Kind: CommandSelectMode, Mode: shared.ModeDynamic}, deck)
	require.Equal(t, []EventKind{EventRoundStarted}, kinds(events))
	started := events[0].Payload.(RoundStartedPayload)
	assert.Equal(t, 1, started.Round)
	assert.Equal(t, "player-1", started.DealerID)
	assert.Equal(t, shared.RankQueen, started.TrumpRank)
	assert.Equal(t, card(shared.Rank7, shared.Spades), *started.TurnedCard)

	s, events = step(t, s, Command{Kind: CommandBid, SeatID: "player-2", Amount: 1}, nil)
	assert.Equal(t, []EventKind{EventBidMade}, kinds(events))
	assert.Equal(t, BidMadePayload{SeatID: "player-2", Amount: 1}, events[0].Payload)

	s, events = step(t, s, Command{Kind: CommandBid, SeatID: "player-1", Amount: 1}, nil)
	assert.Equal(t, []EventKind{EventBidMade}, kinds(events))

	s, events = step(t, s, Command{Kind: CommandPlay, SeatID: "player-2", Card: card(shared.Rank3, shared.Hearts)}, nil)
	assert.Equal(t, []EventKind{EventCardPlayed}, kinds(events))

	s, events = step(t, s, Command{Kind: CommandPlay, SeatID: "player-1", Card: card(shared.Rank4, shared.Hearts)}, nil)
	require.Equal(t, []EventKind{EventCardPlayed, EventTrickEnd}, kinds(events))
	trick := events[1].Payload.(TrickEndPayload)
	assert.Equal(t, "player-2", trick.Result.WinnerID)
	assert.Len(t, trick.Trick, 2)

	s, events = step(t, s, Command{Kind: CommandSettle}, shared.BuildDeck())
	require.Equal(t, []EventKind{EventRoundEnd, EventGameOver}, kinds(events))
	end := events[0].Payload.(RoundEndPayload)
	assert.Equal(t, 1, end.Round)
	assert.ElementsMatch(t, []SeatRoundResult{
		{SeatID: "player-1", Bid: 1, TricksWon: 0, LivesLost: 1, Lives: 0},
		{SeatID: "player-2", Bid: 1, TricksWon: 1, LivesLost: 0, Lives: 1},
	}, end.Results)
	assert.Equal(t, GameOverPayload{Winner: Outcome{SeatID: "player-2"}, Rounds: 1}, events[1].Payload)
	assert.Equal(t, GameOver, s.Phase)
}

func TestBuildEventsSettleStartsNextRound(t *testing.T) {
	s := roundEndState(1, 0, []int{5, 5, 5}, []int{0, 0, 1}, []int{0, 0, 1})
	_, events := step(t, s, Command{Kind: CommandSettle}, shared.BuildDeck())
	require.Equal(t, []EventKind{EventRoundEnd, EventRoundStarted}, kinds(events))
	started := events[1].Payload.(RoundStartedPayload)
	assert.Equal(t, 2, started.Round)
	assert.Equal(t, 2, started.HandSize)
	assert.Equal(t, "player-2", started.DealerID)
	assert.Empty(t, started.TrumpRank)
}
