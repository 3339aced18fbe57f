package bots

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"fodinha-game/internal/game"
	"fodinha-game/internal/shared"
)

// Bot levels accepted by New.
const (
	LevelEasy   = "easy"
	LevelNormal = "normal"
)

var ErrUnknownLevel = errors.New("unknown bot level")

// New returns a policy for the given level.
func New(level string, seed uint64) (game.Policy, error) {
	switch level {
	case LevelEasy:
		return NewEasy(seed), nil
	case LevelNormal, "":
		return NewNormal(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}

// EasyBot bids uniformly in [0, hand size] and plays a random card.
type EasyBot struct {
	RNG *rand.Rand
}

func NewEasy(seed uint64) *EasyBot {
	return &EasyBot{RNG: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (b *EasyBot) ChooseBid(state game.MatchState, seat int) int {
	legal := game.LegalBids(state)
	if len(legal) == 0 {
		return 0
	}
	return legal[b.RNG.IntN(len(legal))]
}

func (b *EasyBot) ChoosePlay(state game.MatchState, seat int) shared.Card {
	hand := state.Seats[seat].Hand
	if len(hand) == 0 {
		return shared.Card{}
	}
	return hand[b.RNG.IntN(len(hand))]
}

// NormalBot bids the cards it expects to win and plays to meet its bid exactly.
type NormalBot struct{}

func NewNormal() *NormalBot {
	return &NormalBot{}
}

func (b *NormalBot) ChooseBid(state game.MatchState, seat int) int {
	hand := state.Seats[seat].Hand
	bid := 0
	for _, c := range hand {
		if shared.IsTrump(c, state.Mode, state.TrumpRank) || c.Rank == shared.Rank3 {
			bid++
		}
	}
	return min(bid, state.HandSize)
}

func (b *NormalBot) ChoosePlay(state game.MatchState, seat int) shared.Card {
	p := state.Seats[seat]
	if len(p.Hand) == 0 {
		return shared.Card{}
	}
	wantTrick := p.Bid != nil && p.TricksWon < *p.Bid

	if len(state.CurrentTrick) == 0 {
		if wantTrick {
			return strongest(state, p.Hand)
		}
		return weakest(state, p.Hand)
	}

	top := -1
	for _, e := range state.CurrentTrick {
		top = max(top, state.Strength(e.Card))
	}
	var winners, losers []shared.Card
	for _, c := range p.Hand {
		if state.Strength(c) > top {
			winners = append(winners, c)
		} else {
			losers = append(losers, c)
		}
	}

	if wantTrick && len(winners) > 0 {
		return weakest(state, winners)
	}
	if !wantTrick && len(losers) > 0 {
		// Matching the top card draws the trick, which is as good as losing it.
		return strongest(state, losers)
	}
	return weakest(state, p.Hand)
}

// strongest returns the first card of maximum strength.
func strongest(state game.MatchState, cards []shared.Card) shared.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if state.Strength(c) > state.Strength(best) {
			best = c
		}
	}
	return best
}

// weakest returns the first card of minimum strength.
func weakest(state game.MatchState, cards []shared.Card) shared.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if state.Strength(c) < state.Strength(best) {
			best = c
		}
	}
	return best
}
