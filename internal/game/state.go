package game

import (
	"slices"

	"fodinha-game/internal/shared"
)

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	Waiting  Phase = "waiting"   // Mode not chosen yet
	Bidding  Phase = "bidding"   // Seats declare how many tricks they will win
	Playing  Phase = "playing"   // Tricks are being played
	RoundEnd Phase = "round_end" // Last trick resolved, settlement pending
	GameOver Phase = "game_over" // At most one seat still has lives
)

// Outcome names the match winner, or a draw when every seat was eliminated together.
type Outcome struct {
	SeatID string `json:"seat_id,omitempty"`
	Draw   bool   `json:"draw"`
}

// MatchState is the authoritative state of one match.
// Transition functions never mutate their input; they return a new value.
type MatchState struct {
	Seats            []shared.Player     `json:"seats"`
	Deck             []shared.Card       `json:"-"`
	Mode             shared.Mode         `json:"mode"`
	Phase            Phase               `json:"phase"`
	RoundNumber      int                 `json:"round_number"`  // Escalation counter, resets on elimination
	RoundsPlayed     int                 `json:"rounds_played"` // Settled rounds since the match started
	HandSize         int                 `json:"hand_size"`
	DealerIndex      int                 `json:"dealer_index"`
	CurrentSeatIndex int                 `json:"current_seat_index"`
	TrickLeaderIndex int                 `json:"trick_leader_index"`
	TurnedCard       *shared.Card        `json:"turned_card"`
	TrumpRank        shared.Rank         `json:"trump_rank,omitempty"` // Dynamic mode only
	CurrentTrick     []shared.TrickEntry `json:"current_trick"`
	LastTrick        []shared.TrickEntry `json:"last_trick"`
	LastTrickResult  *shared.TrickResult `json:"last_trick_result"`
	MatchWinner      *Outcome            `json:"match_winner"`
	DealtActiveCount int                 `json:"-"` // Active seats at the last deal
}

// NewMatch seats the players and waits for a mode.
func NewMatch(players []shared.Player) MatchState {
	seats := make([]shared.Player, len(players))
	for i, p := range players {
		seats[i] = p.Clone()
		seats[i].ResetRound()
	}
	return MatchState{
		Seats:            seats,
		Phase:            Waiting,
		CurrentSeatIndex: -1,
		TrickLeaderIndex: -1,
	}
}

// Clone returns a deep copy; the result shares no slices or pointers with s.
func (s MatchState) Clone() MatchState {
	out := s
	out.Seats = make([]shared.Player, len(s.Seats))
	for i, p := range s.Seats {
		out.Seats[i] = p.Clone()
	}
	out.Deck = slices.Clone(s.Deck)
	if s.TurnedCard != nil {
		c := *s.TurnedCard
		out.TurnedCard = &c
	}
	out.CurrentTrick = shared.CloneTrick(s.CurrentTrick)
	out.LastTrick = shared.CloneTrick(s.LastTrick)
	if s.LastTrickResult != nil {
		r := *s.LastTrickResult
		out.LastTrickResult = &r
	}
	if s.MatchWinner != nil {
		w := *s.MatchWinner
		out.MatchWinner = &w
	}
	return out
}

// ActiveSeats returns the indices of seats with lives left, in table order.
// Every rotation and completion check goes through here.
func ActiveSeats(s MatchState) []int {
	active := make([]int, 0, len(s.Seats))
	for i, p := range s.Seats {
		if p.Active() {
			active = append(active, i)
		}
	}
	return active
}

// nextActive returns the first active seat after from, wrapping around the table.
func nextActive(s MatchState, from int) int {
	n := len(s.Seats)
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if s.Seats[idx].Active() {
			return idx
		}
	}
	return -1
}

// SeatIndex finds the index of a seat by ID. Returns -1 if not found.
func (s MatchState) SeatIndex(seatID string) int {
	for i, p := range s.Seats {
		if p.ID == seatID {
			return i
		}
	}
	return -1
}

// CurrentSeat returns the seat expected to act, if any.
func (s MatchState) CurrentSeat() (shared.Player, bool) {
	if s.Phase != Bidding && s.Phase != Playing {
		return shared.Player{}, false
	}
	if s.CurrentSeatIndex < 0 || s.CurrentSeatIndex >= len(s.Seats) {
		return shared.Player{}, false
	}
	return s.Seats[s.CurrentSeatIndex], true
}

// Strength evaluates a card under the match's trump system.
func (s MatchState) Strength(card shared.Card) int {
	return shared.CardStrength(card, s.Mode, s.TrumpRank)
}

// LegalBids lists the amounts the current seat may bid.
func LegalBids(s MatchState) []int {
	if s.Phase != Bidding {
		return nil
	}
	bids := make([]int, 0, s.HandSize+1)
	for b := 0; b <= s.HandSize; b++ {
		bids = append(bids, b)
	}
	return bids
}

// LegalCards lists the cards seatID may play now. Strength is suit independent,
// so any owned card is legal on the seat's turn.
func LegalCards(s MatchState, seatID string) []shared.Card {
	if s.Phase != Playing {
		return nil
	}
	idx := s.SeatIndex(seatID)
	if idx < 0 || idx != s.CurrentSeatIndex {
		return nil
	}
	return append([]shared.Card{}, s.Seats[idx].Hand...)
}
