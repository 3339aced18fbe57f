package game

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"fodinha-game/internal/shared"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroBidPolicy bids nothing and plays its first card, so every trick won costs a life.
type zeroBidPolicy struct{}

func (zeroBidPolicy) ChooseBid(MatchState, int) int { return 0 }

func (zeroBidPolicy) ChoosePlay(s MatchState, seat int) shared.Card {
	return s.Seats[seat].Hand[0]
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) send(events []Event, _ MatchState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
}

func (l *eventLog) count(kind EventKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func newTestGame(t *testing.T, automated int, pacing Pacing, log *eventLog, onFinish func(Summary)) *Game {
	t.Helper()
	players := shared.DefaultPlayers(4, 2)
	policies := map[string]Policy{}
	for i := 0; i < automated; i++ {
		policies[players[len(players)-1-i].ID] = zeroBidPolicy{}
	}
	logger, _ := test.NewNullLogger()
	opts := Options{
		Players:  players,
		Policies: policies,
		Pacing:   pacing,
		Rand:     rand.New(rand.NewPCG(3, 5)),
		Logger:   logger,
		OnFinish: onFinish,
	}
	if log != nil {
		opts.Send = log.send
	}
	g := NewGame(opts)
	t.Cleanup(g.Close)
	return g
}

func TestGameManualStepping(t *testing.T) {
	log := &eventLog{}
	g := newTestGame(t, 3, Pacing{Manual: true}, log, nil)
	assert.NotEmpty(t, g.ID)

	_, err := g.Step()
	require.NoError(t, err)
	require.NoError(t, g.SelectMode(shared.ModeFixed))
	assert.ErrorIs(t, g.SelectMode(shared.ModeDynamic), ErrModeAlreadySelected)

	// Three automated seats bid before the human.
	for range 3 {
		stepped, err := g.Step()
		require.NoError(t, err)
		assert.True(t, stepped)
	}
	stepped, err := g.Step()
	require.NoError(t, err)
	assert.False(t, stepped, "the human seat is never automated")

	s := g.State()
	cur, ok := s.CurrentSeat()
	require.True(t, ok)
	assert.Equal(t, "player-1", cur.ID)
	assert.ErrorIs(t, g.SubmitBid("player-2", 0), ErrNotYourTurn)

	require.NoError(t, g.SubmitBid("player-1", 1))
	assert.Equal(t, Playing, g.State().Phase)
	assert.Equal(t, 1, log.count(EventRoundStarted))
	assert.Equal(t, 4, log.count(EventBidMade))
}

func TestGameStateIsASnapshot(t *testing.T) {
	g := newTestGame(t, 3, Pacing{Manual: true}, nil, nil)
	require.NoError(t, g.SelectMode(shared.ModeDynamic))

	s := g.State()
	s.Seats[0].Hand = nil
	s.Seats[0].Lives = 0
	s.Phase = GameOver

	fresh := g.State()
	assert.Len(t, fresh.Seats[0].Hand, 1)
	assert.Equal(t, 2, fresh.Seats[0].Lives)
	assert.Equal(t, Bidding, fresh.Phase)
}

func TestGameRunsToCompletionOnTimers(t *testing.T) {
	log := &eventLog{}
	finished := make(chan Summary, 1)
	g := newTestGame(t, 4, Pacing{}, log, func(s Summary) { finished <- s })

	require.NoError(t, g.SelectMode(shared.ModeFixed))

	var summary Summary
	require.Eventually(t, func() bool {
		select {
		case summary = <-finished:
			return true
		default:
			return false
		}
	}, 5*time.Second, 5*time.Millisecond)

	s := g.State()
	assert.Equal(t, GameOver, s.Phase)
	assert.Equal(t, g.ID, summary.MatchID)
	assert.Equal(t, shared.ModeFixed, summary.Mode)
	assert.Equal(t, s.RoundsPlayed, summary.Rounds)
	assert.Equal(t, *s.MatchWinner, summary.Winner)
	assert.Len(t, summary.Seats, 4)
	assert.Equal(t, 1, log.count(EventGameOver))
	assert.Equal(t, s.RoundsPlayed, log.count(EventRoundEnd))

	assert.Len(t, finished, 0, "completion is reported once")
	_, err := g.Step()
	require.NoError(t, err)
}

func TestGameWaitsForHuman(t *testing.T) {
	g := newTestGame(t, 3, Pacing{}, nil, nil)
	require.NoError(t, g.SelectMode(shared.ModeFixed))

	require.Eventually(t, func() bool {
		cur, ok := g.State().CurrentSeat()
		return ok && cur.ID == "player-1"
	}, 2*time.Second, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	s := g.State()
	assert.Equal(t, Bidding, s.Phase)
	assert.Nil(t, s.Seats[0].Bid)
}

func TestGameClose(t *testing.T) {
	g := newTestGame(t, 4, Pacing{BotDelay: 50 * time.Millisecond}, nil, nil)
	require.NoError(t, g.SelectMode(shared.ModeFixed))
	g.Close()

	time.Sleep(100 * time.Millisecond)
	s := g.State()
	for _, p := range s.Seats {
		assert.Nil(t, p.Bid)
	}
	assert.ErrorIs(t, g.SubmitBid("player-2", 0), ErrGameClosed)
	_, err := g.Step()
	assert.ErrorIs(t, err, ErrGameClosed)
}

func TestGameLogsRejections(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	g := NewGame(Options{Players: shared.DefaultPlayers(2, 5), Pacing: Pacing{Manual: true}, Logger: logger})

	assert.ErrorIs(t, g.PlayCard("player-1", card(shared.Rank4, shared.Clubs)), ErrWrongPhase)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, g.ID, entry.Data["match"])
	assert.Equal(t, CommandPlay, entry.Data["command"])
}
