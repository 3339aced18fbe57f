package shared

// TrickEntry stores a card along with the seat that played it.
type TrickEntry struct {
	Card   Card   `json:"card"`
	SeatID string `json:"seat_id"`
}

// TrickResult is the outcome of a completed trick.
type TrickResult struct {
	WinnerID string `json:"winner_id,omitempty"` // Empty on a draw
	Draw     bool   `json:"draw"`
	Strength int    `json:"strength"` // Strength of the best card
}

// ResolveTrick determines the winner of a completed trick.
// Strength is absolute, the led card carries no weight. Two or more entries
// sharing the top strength make the trick a draw.
func ResolveTrick(trick []TrickEntry, mode Mode, trumpRank Rank) TrickResult {
	if len(trick) == 0 {
		panic("shared: cannot resolve an empty trick")
	}

	best := -1
	var leaders []TrickEntry
	for _, entry := range trick {
		s := CardStrength(entry.Card, mode, trumpRank)
		switch {
		case s > best:
			best = s
			leaders = []TrickEntry{entry}
		case s == best:
			leaders = append(leaders, entry)
		}
	}

	if len(leaders) > 1 {
		return TrickResult{Draw: true, Strength: best}
	}
	return TrickResult{WinnerID: leaders[0].SeatID, Strength: best}
}

// CloneTrick copies a trick so snapshots never alias.
func CloneTrick(trick []TrickEntry) []TrickEntry {
	if trick == nil {
		return nil
	}
	return append([]TrickEntry{}, trick...)
}
