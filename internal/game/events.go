package game

import (
	"fmt"

	"fodinha-game/internal/shared"
)

// CommandKind identifies a state-changing command.
type CommandKind string

const (
	CommandSelectMode CommandKind = "select_mode"
	CommandBid        CommandKind = "submit_bid"
	CommandPlay       CommandKind = "play_card"
	CommandSettle     CommandKind = "settle"
)

// Command is one unit of work for the single writer.
type Command struct {
	Kind   CommandKind
	SeatID string
	Mode   shared.Mode
	Amount int
	Card   shared.Card
}

// EventKind identifies events emitted after a command is applied.
type EventKind string

const (
	EventRoundStarted EventKind = "round_started"
	EventBidMade      EventKind = "bid_made"
	EventCardPlayed   EventKind = "card_played"
	EventTrickEnd     EventKind = "trick_end"
	EventRoundEnd     EventKind = "round_end"
	EventGameOver     EventKind = "game_over"
)

// Event is a notification for the presentation layer.
type Event struct {
	Kind    EventKind `json:"kind"`
	Payload any       `json:"payload,omitempty"`
}

type RoundStartedPayload struct {
	Round      int          `json:"round"`
	HandSize   int          `json:"hand_size"`
	DealerID   string       `json:"dealer_id"`
	TurnedCard *shared.Card `json:"turned_card"`
	TrumpRank  shared.Rank  `json:"trump_rank,omitempty"`
}

type BidMadePayload struct {
	SeatID string `json:"seat_id"`
	Amount int    `json:"amount"`
}

type CardPlayedPayload struct {
	SeatID string      `json:"seat_id"`
	Card   shared.Card `json:"card"`
}

type TrickEndPayload struct {
	Trick  []shared.TrickEntry `json:"trick"`
	Result shared.TrickResult  `json:"result"`
}

// SeatRoundResult reports how a seat fared in a settled round.
type SeatRoundResult struct {
	SeatID    string `json:"seat_id"`
	Bid       int    `json:"bid"`
	TricksWon int    `json:"tricks_won"`
	LivesLost int    `json:"lives_lost"`
	Lives     int    `json:"lives"`
}

type RoundEndPayload struct {
	Round   int               `json:"round"`
	Results []SeatRoundResult `json:"results"`
}

type GameOverPayload struct {
	Winner Outcome `json:"winner"`
	Rounds int     `json:"rounds"`
}

// BuildEvents derives the events produced by applying cmd to prev.
func BuildEvents(prev, next MatchState, cmd Command) []Event {
	events := []Event{}
	switch cmd.Kind {
	case CommandBid:
		events = append(events, Event{Kind: EventBidMade, Payload: BidMadePayload{SeatID: cmd.SeatID, Amount: cmd.Amount}})
	case CommandPlay:
		events = append(events, Event{Kind: EventCardPlayed, Payload: CardPlayedPayload{SeatID: cmd.SeatID, Card: cmd.Card}})
		if len(next.CurrentTrick) == 0 && next.LastTrickResult != nil {
			events = append(events, Event{Kind: EventTrickEnd, Payload: TrickEndPayload{
				Trick:  shared.CloneTrick(next.LastTrick),
				Result: *next.LastTrickResult,
			}})
		}
	case CommandSettle:
		results := make([]SeatRoundResult, 0, len(prev.Seats))
		for i, p := range prev.Seats {
			if p.Bid == nil {
				continue
			}
			results = append(results, SeatRoundResult{
				SeatID:    p.ID,
				Bid:       *p.Bid,
				TricksWon: p.TricksWon,
				LivesLost: p.Lives - next.Seats[i].Lives,
				Lives:     next.Seats[i].Lives,
			})
		}
		events = append(events, Event{Kind: EventRoundEnd, Payload: RoundEndPayload{Round: prev.RoundNumber, Results: results}})
	}

	if next.Phase == GameOver && prev.Phase != GameOver && next.MatchWinner != nil {
		events = append(events, Event{Kind: EventGameOver, Payload: GameOverPayload{Winner: *next.MatchWinner, Rounds: next.RoundsPlayed}})
	}
	if next.Phase == Bidding && prev.Phase != Bidding {
		events = append(events, Event{Kind: EventRoundStarted, Payload: roundStarted(next)})
	}
	return events
}

func roundStarted(s MatchState) RoundStartedPayload {
	p := RoundStartedPayload{
		Round:     s.RoundNumber,
		HandSize:  s.HandSize,
		DealerID:  s.Seats[s.DealerIndex].ID,
		TrumpRank: s.TrumpRank,
	}
	if s.TurnedCard != nil {
		c := *s.TurnedCard
		p.TurnedCard = &c
	}
	return p
}

// Apply runs cmd against s. deck is only consumed by commands that deal.
func Apply(s MatchState, cmd Command, deck []shared.Card) (MatchState, error) {
	switch cmd.Kind {
	case CommandSelectMode:
		return StartMatch(s, cmd.Mode, deck)
	case CommandBid:
		return SubmitBid(s, cmd.SeatID, cmd.Amount)
	case CommandPlay:
		return PlayCard(s, cmd.SeatID, cmd.Card)
	case CommandSettle:
		return Settle(s, deck)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
}
