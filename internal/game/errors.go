package game

import "errors"

// Rule violations. Every rejection leaves the match state untouched.
var (
	ErrNotYourTurn         = errors.New("not your turn")
	ErrWrongPhase          = errors.New("command not allowed in this phase")
	ErrCardNotInHand       = errors.New("card not in hand")
	ErrInvalidBidAmount    = errors.New("bid amount out of range")
	ErrDeckExhausted       = errors.New("deck cannot supply the deal")
	ErrUnknownSeat         = errors.New("seat not found")
	ErrModeAlreadySelected = errors.New("mode already selected")
	ErrInvalidMode         = errors.New("invalid game mode")
	ErrTooFewSeats         = errors.New("not enough seats to start")
	ErrGameClosed          = errors.New("game closed")
	ErrUnknownCommand      = errors.New("unknown command")
)
