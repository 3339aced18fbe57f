package game

import (
	"fmt"

	"fodinha-game/internal/shared"
)

// HandSizeFor returns the cards per seat for a round: the round number,
// capped so that one card is always left to turn.
func HandSizeFor(round, deckSize, activeSeats int) int {
	if activeSeats <= 0 || deckSize <= 0 {
		return 0
	}
	return min(round, (deckSize-1)/activeSeats)
}

// StartMatch fixes the trump mode and deals round 1 from deck.
func StartMatch(s MatchState, mode shared.Mode, deck []shared.Card) (MatchState, error) {
	if s.Phase != Waiting {
		return s, ErrModeAlreadySelected
	}
	if mode != shared.ModeFixed && mode != shared.ModeDynamic {
		return s, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if len(ActiveSeats(s)) < 2 {
		return s, fmt.Errorf("%w: %d active", ErrTooFewSeats, len(ActiveSeats(s)))
	}

	next := s.Clone()
	next.Mode = mode
	next.RoundNumber = 1
	next.RoundsPlayed = 0
	next.DealtActiveCount = len(ActiveSeats(next))
	if err := dealRound(&next, deck); err != nil {
		return s, err
	}
	return next, nil
}

// dealRound resets every seat and deals the round from deck. next must be a
// private copy; on error it is left partially written and must be discarded.
func dealRound(next *MatchState, deck []shared.Card) error {
	active := ActiveSeats(*next)
	if len(active) < next.DealtActiveCount {
		next.RoundNumber = 1
	}

	handSize := HandSizeFor(next.RoundNumber, len(deck), len(active))
	if handSize < 1 || handSize*len(active)+1 > len(deck) {
		return fmt.Errorf("%w: %d cards for %d seats", ErrDeckExhausted, len(deck), len(active))
	}

	for i := range next.Seats {
		next.Seats[i].ResetRound()
	}

	// Round-robin from the seat after the dealer.
	order := make([]int, 0, len(active))
	for idx := nextActive(*next, next.DealerIndex); len(order) < len(active); idx = nextActive(*next, idx) {
		order = append(order, idx)
	}
	pos := 0
	for range handSize {
		for _, idx := range order {
			next.Seats[idx].Hand = append(next.Seats[idx].Hand, deck[pos])
			pos++
		}
	}

	turned := deck[pos]
	pos++
	next.TurnedCard = &turned
	next.Deck = append([]shared.Card{}, deck[pos:]...)
	next.TrumpRank = ""
	if next.Mode == shared.ModeDynamic {
		next.TrumpRank = shared.DynamicTrumpRank(turned)
	}

	next.HandSize = handSize
	next.DealtActiveCount = len(active)
	next.CurrentTrick = nil
	next.LastTrick = nil
	next.LastTrickResult = nil
	next.Phase = Bidding
	next.CurrentSeatIndex = order[0]
	next.TrickLeaderIndex = order[0]
	return nil
}
