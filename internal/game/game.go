package game

import (
	"math/rand/v2"
	"sync"
	"time"

	"fodinha-game/internal/shared"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Policy decides bids and plays for automated seats. It receives a private
// copy of the state and the acting seat's index and must return a legal choice.
type Policy interface {
	ChooseBid(state MatchState, seat int) int
	ChoosePlay(state MatchState, seat int) shared.Card
}

// EventSender delivers events, with a snapshot of the state they led to, to the
// presentation layer. It is called with the game lock held and must not block.
type EventSender func(events []Event, state MatchState)

// Pacing controls how long the game waits before automated steps.
// With Manual set nothing is scheduled and callers drive automation through Step.
type Pacing struct {
	BotDelay    time.Duration
	SettleDelay time.Duration
	Manual      bool
}

// SeatSummary is a seat's final standing.
type SeatSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Lives     int    `json:"lives"`
	Automated bool   `json:"automated"`
}

// Summary describes a finished match.
type Summary struct {
	MatchID    string        `json:"match_id"`
	Mode       shared.Mode   `json:"mode"`
	Rounds     int           `json:"rounds"`
	Winner     Outcome       `json:"winner"`
	Seats      []SeatSummary `json:"seats"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Options configures a Game.
type Options struct {
	Players  []shared.Player
	Policies map[string]Policy // Keyed by seat ID
	Pacing   Pacing
	Rand     *rand.Rand
	Logger   logrus.FieldLogger
	Send     EventSender
	OnFinish func(Summary) // Runs in its own goroutine
}

// Game owns one MatchState and serializes every command against it.
type Game struct {
	ID string

	mu         sync.Mutex
	state      MatchState
	rng        *rand.Rand
	policies   map[string]Policy
	pacing     Pacing
	log        logrus.FieldLogger
	send       EventSender
	onFinish   func(Summary)
	timer      *time.Timer
	generation uint64
	closed     bool
	finished   bool
}

// NewGame seats the players; the match starts once a mode is selected.
func NewGame(opts Options) *Game {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	policies := make(map[string]Policy, len(opts.Policies))
	for id, p := range opts.Policies {
		policies[id] = p
	}

	id := uuid.New().String()
	return &Game{
		ID:       id,
		state:    NewMatch(opts.Players),
		rng:      rng,
		policies: policies,
		pacing:   opts.Pacing,
		log:      logger.WithField("match", id),
		send:     opts.Send,
		onFinish: opts.OnFinish,
	}
}

// SelectMode starts the match with the chosen trump system.
func (g *Game) SelectMode(mode shared.Mode) error {
	return g.apply(Command{Kind: CommandSelectMode, Mode: mode})
}

// SubmitBid records a bid for seatID.
func (g *Game) SubmitBid(seatID string, amount int) error {
	return g.apply(Command{Kind: CommandBid, SeatID: seatID, Amount: amount})
}

// PlayCard plays card from seatID's hand.
func (g *Game) PlayCard(seatID string, card shared.Card) error {
	return g.apply(Command{Kind: CommandPlay, SeatID: seatID, Card: card})
}

// State returns a snapshot that callers may keep and modify freely.
func (g *Game) State() MatchState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// Step applies one pending automated command (a settlement or an automated
// seat's turn). It reports false when nothing automated is pending.
func (g *Game) Step() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false, ErrGameClosed
	}
	return g.stepLocked()
}

// Close stops scheduled work. Commands on a closed game are rejected.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.stopTimerLocked()
	g.log.Debug("Game closed.")
}

func (g *Game) apply(cmd Command) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrGameClosed
	}
	return g.applyLocked(cmd)
}

// applyLocked runs a command through the pure transitions. Assumes lock is held.
func (g *Game) applyLocked(cmd Command) error {
	var deck []shared.Card
	if cmd.Kind == CommandSelectMode || cmd.Kind == CommandSettle {
		deck = shared.NewShuffledDeck(g.rng)
	}

	prev := g.state
	next, err := Apply(prev, cmd, deck)
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"command": cmd.Kind,
			"seat":    cmd.SeatID,
			"phase":   prev.Phase,
		}).WithError(err).Debug("Command rejected.")
		return err
	}
	g.state = next
	g.logTransition(prev, next, cmd)

	if g.send != nil {
		if events := BuildEvents(prev, next, cmd); len(events) > 0 {
			g.send(events, next.Clone())
		}
	}
	if next.Phase == GameOver {
		g.finishLocked()
	}
	g.scheduleLocked()
	return nil
}

func (g *Game) logTransition(prev, next MatchState, cmd Command) {
	entry := g.log.WithFields(logrus.Fields{"round": next.RoundNumber, "phase": next.Phase})
	switch cmd.Kind {
	case CommandSelectMode:
		entry.Infof("Match started in %s mode.", next.Mode)
	case CommandBid:
		entry.WithField("seat", cmd.SeatID).Debugf("Bid %d.", cmd.Amount)
	case CommandPlay:
		entry.WithField("seat", cmd.SeatID).Debugf("Played %s.", cmd.Card)
		if len(next.CurrentTrick) == 0 && next.LastTrickResult != nil {
			if next.LastTrickResult.Draw {
				entry.Debug("Trick drawn.")
			} else {
				entry.WithField("winner", next.LastTrickResult.WinnerID).Debug("Trick won.")
			}
		}
	case CommandSettle:
		entry.WithField("active", len(ActiveSeats(next))).Infof("Round %d settled.", prev.RoundNumber)
	}
}

// stepLocked applies the pending automated command, if any. Assumes lock is held.
func (g *Game) stepLocked() (bool, error) {
	cmd, ok := g.automatedCommandLocked()
	if !ok {
		return false, nil
	}
	return true, g.applyLocked(cmd)
}

func (g *Game) automatedCommandLocked() (Command, bool) {
	switch g.state.Phase {
	case RoundEnd:
		return Command{Kind: CommandSettle}, true
	case Bidding, Playing:
		seat, ok := g.state.CurrentSeat()
		if !ok {
			return Command{}, false
		}
		policy, automated := g.policies[seat.ID]
		if !automated {
			return Command{}, false
		}
		idx := g.state.CurrentSeatIndex
		if g.state.Phase == Bidding {
			return Command{Kind: CommandBid, SeatID: seat.ID, Amount: policy.ChooseBid(g.state.Clone(), idx)}, true
		}
		return Command{Kind: CommandPlay, SeatID: seat.ID, Card: policy.ChoosePlay(g.state.Clone(), idx)}, true
	}
	return Command{}, false
}

// scheduleLocked arms the timer for the next automated step. Assumes lock is held.
func (g *Game) scheduleLocked() {
	g.stopTimerLocked()
	if g.closed || g.pacing.Manual {
		return
	}

	var delay time.Duration
	switch g.state.Phase {
	case RoundEnd:
		delay = g.pacing.SettleDelay
	case Bidding, Playing:
		seat, ok := g.state.CurrentSeat()
		if !ok {
			return
		}
		if _, automated := g.policies[seat.ID]; !automated {
			return
		}
		delay = g.pacing.BotDelay
	default:
		return
	}

	gen := g.generation
	g.timer = time.AfterFunc(delay, func() { g.tick(gen) })
}

func (g *Game) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.generation++
}

// tick runs a scheduled step unless a newer command superseded it.
func (g *Game) tick(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || gen != g.generation {
		return
	}
	if _, err := g.stepLocked(); err != nil {
		// A rejected automated step halts progression until the match is reset.
		g.log.WithError(err).Error("Automated step failed.")
	}
}

// finishLocked reports the final standings once. Assumes lock is held.
func (g *Game) finishLocked() {
	if g.finished {
		return
	}
	g.finished = true

	summary := Summary{
		MatchID:    g.ID,
		Mode:       g.state.Mode,
		Rounds:     g.state.RoundsPlayed,
		Seats:      make([]SeatSummary, 0, len(g.state.Seats)),
		FinishedAt: time.Now().UTC(),
	}
	if g.state.MatchWinner != nil {
		summary.Winner = *g.state.MatchWinner
	}
	for _, p := range g.state.Seats {
		summary.Seats = append(summary.Seats, SeatSummary{ID: p.ID, Name: p.Name, Lives: p.Lives, Automated: p.Automated})
	}

	if summary.Winner.Draw {
		g.log.Info("Game over: every seat was eliminated.")
	} else {
		g.log.WithField("winner", summary.Winner.SeatID).Info("Game over.")
	}
	if g.onFinish != nil {
		go g.onFinish(summary)
	}
}
