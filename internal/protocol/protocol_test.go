package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"fodinha-game/internal/game"
	"fodinha-game/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	raw, err := NewMessage(TypePong, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(raw))

	raw, err = NewMessage(TypeError, ErrorPayload{Code: CodeWrongPhase, Message: "nope"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","payload":{"code":"wrong_phase","message":"nope"}}`, string(raw))
}

func TestEventMessage(t *testing.T) {
	raw, err := EventMessage(game.Event{Kind: game.EventBidMade, Payload: game.BidMadePayload{SeatID: "player-2", Amount: 1}})
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "bid_made", msg.Type)
	assert.JSONEq(t, `{"seat_id":"player-2","amount":1}`, string(msg.Payload))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: waiting for player-2", game.ErrNotYourTurn), CodeNotYourTurn},
		{fmt.Errorf("%w: bidding", game.ErrWrongPhase), CodeWrongPhase},
		{game.ErrCardNotInHand, CodeCardNotInHand},
		{game.ErrInvalidBidAmount, CodeInvalidBidAmount},
		{fmt.Errorf("settle: %w", game.ErrDeckExhausted), CodeDeckExhausted},
		{game.ErrModeAlreadySelected, CodeModeSelected},
		{game.ErrGameClosed, CodeGameClosed},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCode(tt.err), tt.err.Error())
	}

	p := NewError(fmt.Errorf("%w: 3 not in [0, 1]", game.ErrInvalidBidAmount))
	assert.Equal(t, CodeInvalidBidAmount, p.Code)
	assert.Contains(t, p.Message, "3 not in [0, 1]")
}

func TestPlayCardPayloadCard(t *testing.T) {
	c, err := PlayCardPayload{Suit: "clubs", Rank: "4"}.Card()
	require.NoError(t, err)
	assert.Equal(t, shared.Card{Rank: shared.Rank4, Suit: shared.Clubs}, c)

	_, err = PlayCardPayload{Suit: "cups", Rank: "4"}.Card()
	assert.Error(t, err)
	_, err = PlayCardPayload{Suit: "clubs", Rank: "10"}.Card()
	assert.Error(t, err)
}

func TestStateViewHidesOtherHands(t *testing.T) {
	deck := shared.BuildDeck()
	s, err := game.StartMatch(game.NewMatch(shared.DefaultPlayers(3, 5)), shared.ModeFixed, deck)
	require.NoError(t, err)
	s.Seats[0].Hand = []shared.Card{{Rank: shared.Rank7, Suit: shared.Hearts}}

	view := NewStateView("m1", s, "player-1")
	assert.Equal(t, "m1", view.MatchID)
	assert.Equal(t, game.Bidding, view.Phase)
	assert.Equal(t, "player-2", view.CurrentSeatID)
	assert.Equal(t, s.Seats[0].Hand, view.Hand)
	assert.Equal(t, s.Seats[0].Hand, view.Trumps)
	assert.Empty(t, view.LegalBids, "not the viewer's turn")
	require.Len(t, view.Seats, 3)
	assert.True(t, view.Seats[0].Dealer)
	assert.Equal(t, 1, view.Seats[1].HandCount)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	var decoded struct {
		Seats []map[string]any `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, seat := range decoded.Seats {
		assert.NotContains(t, seat, "hand")
	}

	view = NewStateView("m1", s, "player-2")
	assert.Equal(t, []int{0, 1}, view.LegalBids)
	assert.Empty(t, view.LegalCards)
}
