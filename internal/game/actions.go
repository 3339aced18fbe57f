package game

import (
	"fmt"

	"fodinha-game/internal/shared"
)

// turnCheck validates phase, seat and turn for a command.
func turnCheck(s MatchState, want Phase, seatID string) (int, error) {
	if s.Phase != want {
		return -1, fmt.Errorf("%w: %s", ErrWrongPhase, s.Phase)
	}
	idx := s.SeatIndex(seatID)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	if idx != s.CurrentSeatIndex {
		return -1, fmt.Errorf("%w: waiting for %s", ErrNotYourTurn, s.Seats[s.CurrentSeatIndex].ID)
	}
	return idx, nil
}

// SubmitBid records seatID's bid and passes the turn. Once every active seat
// has bid, play starts from the seat after the dealer.
func SubmitBid(s MatchState, seatID string, amount int) (MatchState, error) {
	idx, err := turnCheck(s, Bidding, seatID)
	if err != nil {
		return s, err
	}
	if amount < 0 || amount > s.HandSize {
		return s, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidBidAmount, amount, s.HandSize)
	}

	next := s.Clone()
	bid := amount
	next.Seats[idx].Bid = &bid

	if allBid(next) {
		first := nextActive(next, next.DealerIndex)
		next.Phase = Playing
		next.CurrentSeatIndex = first
		next.TrickLeaderIndex = first
		return next, nil
	}
	next.CurrentSeatIndex = nextActive(next, idx)
	return next, nil
}

func allBid(s MatchState) bool {
	for _, idx := range ActiveSeats(s) {
		if s.Seats[idx].Bid == nil {
			return false
		}
	}
	return true
}

// PlayCard moves card from seatID's hand to the trick. A complete trick is
// resolved immediately; the winner leads next, or the same leader on a draw.
func PlayCard(s MatchState, seatID string, card shared.Card) (MatchState, error) {
	idx, err := turnCheck(s, Playing, seatID)
	if err != nil {
		return s, err
	}
	if !s.Seats[idx].HasCard(card) {
		return s, fmt.Errorf("%w: %s", ErrCardNotInHand, card)
	}

	next := s.Clone()
	next.Seats[idx].RemoveCard(card)
	next.CurrentTrick = append(next.CurrentTrick, shared.TrickEntry{Card: card, SeatID: seatID})

	active := ActiveSeats(next)
	if len(next.CurrentTrick) < len(active) {
		next.CurrentSeatIndex = nextActive(next, idx)
		return next, nil
	}

	result := shared.ResolveTrick(next.CurrentTrick, next.Mode, next.TrumpRank)
	leader := next.TrickLeaderIndex
	if !result.Draw {
		leader = next.SeatIndex(result.WinnerID)
		next.Seats[leader].TricksWon++
	}
	next.LastTrick = next.CurrentTrick
	next.LastTrickResult = &result
	next.CurrentTrick = nil
	next.TrickLeaderIndex = leader
	next.CurrentSeatIndex = leader

	if handsEmpty(next, active) {
		next.Phase = RoundEnd
	}
	return next, nil
}

func handsEmpty(s MatchState, active []int) bool {
	for _, idx := range active {
		if len(s.Seats[idx].Hand) > 0 {
			return false
		}
	}
	return true
}

// Settle charges a life to every seat that missed its bid, then either ends
// the match or rotates the dealer and deals the next round from deck.
func Settle(s MatchState, deck []shared.Card) (MatchState, error) {
	if s.Phase != RoundEnd {
		return s, fmt.Errorf("%w: %s", ErrWrongPhase, s.Phase)
	}

	next := s.Clone()
	for i := range next.Seats {
		seat := &next.Seats[i]
		if seat.Bid == nil || *seat.Bid == seat.TricksWon {
			continue
		}
		seat.Lives = max(seat.Lives-1, 0)
	}
	next.RoundsPlayed++

	active := ActiveSeats(next)
	if len(active) <= 1 && len(next.Seats) > 1 {
		next.Phase = GameOver
		next.CurrentSeatIndex = -1
		if len(active) == 1 {
			next.MatchWinner = &Outcome{SeatID: next.Seats[active[0]].ID}
		} else {
			next.MatchWinner = &Outcome{Draw: true}
		}
		return next, nil
	}

	// Dealer rotation follows table order; eliminated seats are skipped only
	// when picking who bids and plays.
	next.DealerIndex = (next.DealerIndex + 1) % len(next.Seats)
	next.RoundNumber++
	if err := dealRound(&next, deck); err != nil {
		return s, err
	}
	return next, nil
}
