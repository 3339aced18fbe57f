package shared

import (
	"fmt"
	"slices"
)

// Player represents a seat at the table.
type Player struct {
	ID        string `json:"id"`         // Unique identifier for the seat
	Name      string `json:"name"`       // Display name
	Lives     int    `json:"lives"`      // Remaining lives, 0 means eliminated
	Hand      []Card `json:"hand"`       // Cards currently held, in deal order
	Bid       *int   `json:"bid"`        // Tricks promised this round, nil until bid
	TricksWon int    `json:"tricks_won"` // Tricks won this round
	Automated bool   `json:"automated"`  // Seat is driven by a turn policy
}

// NewPlayer creates a seat with the given ID, name and starting lives.
func NewPlayer(id string, name string, lives int) Player {
	return Player{
		ID:    id,
		Name:  name,
		Lives: lives,
		Hand:  []Card{},
	}
}

// DefaultPlayers builds seats player-1..player-N named "Jogador N".
// Every seat but the first is automated.
func DefaultPlayers(n int, lives int) []Player {
	players := make([]Player, n)
	for i := range players {
		players[i] = NewPlayer(fmt.Sprintf("player-%d", i+1), fmt.Sprintf("Jogador %d", i+1), lives)
		players[i].Automated = i > 0
	}
	return players
}

// Active reports whether the seat still has lives.
func (p Player) Active() bool {
	return p.Lives > 0
}

// Clone returns a copy that shares no memory with p.
func (p Player) Clone() Player {
	out := p
	out.Hand = slices.Clone(p.Hand)
	if p.Bid != nil {
		bid := *p.Bid
		out.Bid = &bid
	}
	return out
}

// HasCard reports whether card is in the hand.
func (p Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// RemoveCard removes the first copy of card from the hand.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// ResetRound clears hand, bid and tricks ahead of a deal.
func (p *Player) ResetRound() {
	p.Hand = []Card{}
	p.Bid = nil
	p.TricksWon = 0
}
