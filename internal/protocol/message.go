package protocol

import (
	"encoding/json"
	"errors"

	"fodinha-game/internal/game"
	"fodinha-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "submit_bid", "play_card")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// Client -> server message types.
const (
	TypeNewGame      = "new_game"
	TypeSelectMode   = "select_mode"
	TypeSubmitBid    = "submit_bid"
	TypePlayCard     = "play_card"
	TypeRequestState = "request_state"
	TypePing         = "ping"
)

// Server -> client message types. Game events use their event kind as type.
const (
	TypeWelcome = "welcome"
	TypeState   = "game_state"
	TypeError   = "error"
	TypePong    = "pong"
)

// --- Client -> Server Payload Structs ---

type NewGamePayload struct {
	Mode     shared.Mode `json:"mode,omitempty"` // Starts dealing right away when set
	BotLevel string      `json:"bot_level,omitempty"`
}

type SelectModePayload struct {
	Mode shared.Mode `json:"mode"`
}

type SubmitBidPayload struct {
	Amount int `json:"amount"`
}

type PlayCardPayload struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// Card validates the payload's suit and rank.
func (p PlayCardPayload) Card() (shared.Card, error) {
	suit, err := shared.ParseSuit(p.Suit)
	if err != nil {
		return shared.Card{}, err
	}
	rank, err := shared.ParseRank(p.Rank)
	if err != nil {
		return shared.Card{}, err
	}
	return shared.Card{Rank: rank, Suit: suit}, nil
}

// --- Server -> Client Payload Structs ---

type WelcomePayload struct {
	ClientID string `json:"client_id"`
	SeatID   string `json:"seat_id"`
	MatchID  string `json:"match_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes sent to clients.
const (
	CodeNotYourTurn      = "not_your_turn"
	CodeWrongPhase       = "wrong_phase"
	CodeCardNotInHand    = "card_not_in_hand"
	CodeInvalidBidAmount = "invalid_bid_amount"
	CodeDeckExhausted    = "deck_exhausted"
	CodeUnknownSeat      = "unknown_seat"
	CodeModeSelected     = "mode_already_selected"
	CodeInvalidMode      = "invalid_mode"
	CodeTooFewSeats      = "too_few_seats"
	CodeGameClosed       = "game_closed"
	CodeBadRequest       = "bad_request"
	CodeNoGame           = "no_game"
	CodeInternal         = "internal"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrNotYourTurn, CodeNotYourTurn},
	{game.ErrWrongPhase, CodeWrongPhase},
	{game.ErrCardNotInHand, CodeCardNotInHand},
	{game.ErrInvalidBidAmount, CodeInvalidBidAmount},
	{game.ErrDeckExhausted, CodeDeckExhausted},
	{game.ErrUnknownSeat, CodeUnknownSeat},
	{game.ErrModeAlreadySelected, CodeModeSelected},
	{game.ErrInvalidMode, CodeInvalidMode},
	{game.ErrTooFewSeats, CodeTooFewSeats},
	{game.ErrGameClosed, CodeGameClosed},
}

// ErrorCode maps a rule violation to its client error code.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}

// NewError builds the payload for err.
func NewError(err error) ErrorPayload {
	return ErrorPayload{Code: ErrorCode(err), Message: err.Error()}
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload any) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}

// EventMessage encodes a game event as a message typed by its kind.
func EventMessage(e game.Event) ([]byte, error) {
	return NewMessage(string(e.Kind), e.Payload)
}
