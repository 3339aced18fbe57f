package sim

import (
	"fmt"
	"math/rand/v2"

	"fodinha-game/internal/bots"
	"fodinha-game/internal/game"
	"fodinha-game/internal/shared"
)

type ActionRecord struct {
	Round int
	Step  int
	Phase game.Phase
	Cmd   game.Command
}

// Result summarizes a self-play match.
type Result struct {
	Outcome *game.Outcome
	Rounds  int
	Steps   int
}

// RunSelfPlay plays a match between bots, checking invariants after every command.
// A match that has not finished within maxSteps is returned without an outcome.
func RunSelfPlay(seed uint64, seats int, mode shared.Mode, maxSteps int) (Result, error) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	policies := make([]game.Policy, seats)
	for i := range policies {
		if i%2 == 0 {
			policies[i] = bots.NewNormal()
		} else {
			policies[i] = bots.NewEasy(seed + uint64(i)*31)
		}
	}

	state, err := game.StartMatch(game.NewMatch(shared.DefaultPlayers(seats, 3)), mode, shared.NewShuffledDeck(rng))
	if err != nil {
		return Result{}, err
	}

	records := []ActionRecord{}
	t := tracker{}
	t.reset()
	for step := 0; step < maxSteps; step++ {
		if state.Phase == game.GameOver {
			return Result{Outcome: state.MatchWinner, Rounds: state.RoundsPlayed, Steps: step}, nil
		}
		cmd, err := chooseCommand(state, policies)
		if err != nil {
			return Result{}, failure(seed, step, state, records, err.Error())
		}
		next, err := game.Apply(state, cmd, shared.NewShuffledDeck(rng))
		if err != nil {
			return Result{}, failure(seed, step, state, records, fmt.Sprintf("apply error: %v", err))
		}
		records = append(records, ActionRecord{Round: state.RoundsPlayed + 1, Step: step, Phase: state.Phase, Cmd: cmd})

		if err := t.observe(state, next, cmd); err != nil {
			return Result{}, failure(seed, step, next, records, err.Error())
		}
		state = next
	}
	return Result{Rounds: state.RoundsPlayed, Steps: maxSteps}, nil
}

func chooseCommand(state game.MatchState, policies []game.Policy) (game.Command, error) {
	switch state.Phase {
	case game.RoundEnd:
		return game.Command{Kind: game.CommandSettle}, nil
	case game.Bidding, game.Playing:
		seat, ok := state.CurrentSeat()
		if !ok {
			return game.Command{}, fmt.Errorf("no current seat")
		}
		idx := state.CurrentSeatIndex
		if state.Phase == game.Bidding {
			return game.Command{Kind: game.CommandBid, SeatID: seat.ID, Amount: policies[idx].ChooseBid(state.Clone(), idx)}, nil
		}
		return game.Command{Kind: game.CommandPlay, SeatID: seat.ID, Card: policies[idx].ChoosePlay(state.Clone(), idx)}, nil
	default:
		return game.Command{}, fmt.Errorf("unexpected phase %s", state.Phase)
	}
}

// tracker follows the cards and tricks of the current round.
type tracker struct {
	played int
	tricks int
	draws  int
}

func (t *tracker) reset() {
	t.played, t.tricks, t.draws = 0, 0, 0
}

func (t *tracker) observe(prev, next game.MatchState, cmd game.Command) error {
	for i := range next.Seats {
		if next.Seats[i].Lives > prev.Seats[i].Lives || next.Seats[i].Lives < 0 {
			return fmt.Errorf("seat %d lives went from %d to %d", i, prev.Seats[i].Lives, next.Seats[i].Lives)
		}
	}

	switch cmd.Kind {
	case game.CommandSettle:
		if next.Phase == game.GameOver {
			return checkGameOver(next)
		}
		t.reset()
	case game.CommandPlay:
		t.played++
		if len(next.CurrentTrick) == 0 {
			t.tricks++
			if next.LastTrickResult == nil {
				return fmt.Errorf("trick completed without result")
			}
			if next.LastTrickResult.Draw {
				t.draws++
			}
		}
	}
	return t.checkRound(next)
}

func (t *tracker) checkRound(s game.MatchState) error {
	active := game.ActiveSeats(s)
	if s.Phase == game.Bidding || s.Phase == game.Playing {
		if cur, ok := s.CurrentSeat(); !ok || !cur.Active() {
			return fmt.Errorf("current seat %d is not active", s.CurrentSeatIndex)
		}
	}
	if s.TurnedCard == nil {
		return fmt.Errorf("no turned card")
	}

	seen := map[shared.Card]bool{*s.TurnedCard: true}
	total := 1
	add := func(c shared.Card) error {
		if seen[c] {
			return fmt.Errorf("duplicate card %s", c)
		}
		seen[c] = true
		total++
		return nil
	}
	for _, idx := range active {
		for _, c := range s.Seats[idx].Hand {
			if err := add(c); err != nil {
				return err
			}
		}
	}
	for _, e := range s.CurrentTrick {
		if err := add(e.Card); err != nil {
			return err
		}
	}
	for _, c := range s.Deck {
		if err := add(c); err != nil {
			return err
		}
	}
	if total+t.played-len(s.CurrentTrick) != shared.DeckSize {
		return fmt.Errorf("card count mismatch: %d in play, %d played", total, t.played)
	}
	if len(s.CurrentTrick) >= len(active) {
		return fmt.Errorf("invalid trick size: %d", len(s.CurrentTrick))
	}

	won := 0
	for _, idx := range active {
		won += s.Seats[idx].TricksWon
	}
	if won+t.draws != t.tricks {
		return fmt.Errorf("tricks mismatch: %d won, %d drawn, %d played", won, t.draws, t.tricks)
	}
	if s.HandSize < 1 || s.HandSize*len(active)+1 > shared.DeckSize {
		return fmt.Errorf("bad hand size %d for %d seats", s.HandSize, len(active))
	}
	return nil
}

func checkGameOver(s game.MatchState) error {
	if s.MatchWinner == nil {
		return fmt.Errorf("game over without outcome")
	}
	active := game.ActiveSeats(s)
	switch {
	case len(active) > 1:
		return fmt.Errorf("game over with %d active seats", len(active))
	case len(active) == 1 && s.MatchWinner.SeatID != s.Seats[active[0]].ID:
		return fmt.Errorf("winner %s is not the last active seat", s.MatchWinner.SeatID)
	case len(active) == 0 && !s.MatchWinner.Draw:
		return fmt.Errorf("no active seat but no draw")
	}
	return nil
}

func failure(seed uint64, step int, state game.MatchState, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[r%d s%d %v] %+v\n", r.Round, r.Step, r.Phase, r.Cmd)
	}
	return fmt.Errorf("seed=%d step=%d phase=%v round=%d reason=%s\nlast actions:\n%s",
		seed, step, state.Phase, state.RoundNumber, reason, log)
}
