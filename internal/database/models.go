package database

import (
	"time"

	"fodinha-game/internal/game"
)

// MatchResult is a finished match as stored in the history.
type MatchResult struct {
	ID        string       `json:"id"`
	CreatedAt string       `json:"created_at"`
	Mode      string       `json:"mode"`
	Rounds    int          `json:"rounds"`
	WinnerID  string       `json:"winner_id,omitempty"`
	Draw      bool         `json:"draw"`
	Seats     []SeatResult `json:"seats"`
}

// SeatResult is one seat's final standing, in table order.
type SeatResult struct {
	Position  int    `json:"position"`
	SeatID    string `json:"seat_id"`
	Name      string `json:"name"`
	Lives     int    `json:"lives"`
	Automated bool   `json:"automated"`
}

// Winner returns the winning seat, if the match was not drawn.
func (r MatchResult) Winner() (SeatResult, bool) {
	if r.Draw {
		return SeatResult{}, false
	}
	for _, s := range r.Seats {
		if s.SeatID == r.WinnerID {
			return s, true
		}
	}
	return SeatResult{}, false
}

// FromSummary converts a finished game into a storable result.
func FromSummary(s game.Summary) MatchResult {
	result := MatchResult{
		ID:        s.MatchID,
		CreatedAt: s.FinishedAt.UTC().Format(time.RFC3339),
		Mode:      string(s.Mode),
		Rounds:    s.Rounds,
		WinnerID:  s.Winner.SeatID,
		Draw:      s.Winner.Draw,
		Seats:     make([]SeatResult, len(s.Seats)),
	}
	for i, seat := range s.Seats {
		result.Seats[i] = SeatResult{
			Position:  i,
			SeatID:    seat.ID,
			Name:      seat.Name,
			Lives:     seat.Lives,
			Automated: seat.Automated,
		}
	}
	return result
}
