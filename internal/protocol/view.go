package protocol

import (
	"fodinha-game/internal/game"
	"fodinha-game/internal/shared"
)

// SeatView is a seat as seen by any client. Hands are reduced to a count.
type SeatView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Lives     int    `json:"lives"`
	Bid       *int   `json:"bid"`
	TricksWon int    `json:"tricks_won"`
	HandCount int    `json:"hand_count"`
	Active    bool   `json:"active"`
	Dealer    bool   `json:"dealer"`
	Automated bool   `json:"automated"`
}

// StatePayload is the match state as seen from one seat.
type StatePayload struct {
	MatchID         string              `json:"match_id"`
	Phase           game.Phase          `json:"phase"`
	Mode            shared.Mode         `json:"mode,omitempty"`
	RoundNumber     int                 `json:"round_number"`
	HandSize        int                 `json:"hand_size"`
	CurrentSeatID   string              `json:"current_seat_id,omitempty"`
	TurnedCard      *shared.Card        `json:"turned_card"`
	TrumpRank       shared.Rank         `json:"trump_rank,omitempty"`
	Seats           []SeatView          `json:"seats"`
	YourSeatID      string              `json:"your_seat_id"`
	Hand            []shared.Card       `json:"hand"`
	Trumps          []shared.Card       `json:"trumps"` // Cards in hand that are trumps
	LegalBids       []int               `json:"legal_bids,omitempty"`
	LegalCards      []shared.Card       `json:"legal_cards,omitempty"`
	CurrentTrick    []shared.TrickEntry `json:"current_trick"`
	LastTrick       []shared.TrickEntry `json:"last_trick"`
	LastTrickResult *shared.TrickResult `json:"last_trick_result"`
	MatchWinner     *game.Outcome       `json:"match_winner"`
}

// NewStateView builds the state payload for viewerID. Only the viewer's own hand is included.
func NewStateView(matchID string, s game.MatchState, viewerID string) StatePayload {
	view := StatePayload{
		MatchID:         matchID,
		Phase:           s.Phase,
		Mode:            s.Mode,
		RoundNumber:     s.RoundNumber,
		HandSize:        s.HandSize,
		TurnedCard:      s.TurnedCard,
		TrumpRank:       s.TrumpRank,
		Seats:           make([]SeatView, len(s.Seats)),
		YourSeatID:      viewerID,
		Hand:            []shared.Card{},
		Trumps:          []shared.Card{},
		CurrentTrick:    shared.CloneTrick(s.CurrentTrick),
		LastTrick:       shared.CloneTrick(s.LastTrick),
		LastTrickResult: s.LastTrickResult,
		MatchWinner:     s.MatchWinner,
	}
	if cur, ok := s.CurrentSeat(); ok {
		view.CurrentSeatID = cur.ID
	}

	for i, p := range s.Seats {
		view.Seats[i] = SeatView{
			ID:        p.ID,
			Name:      p.Name,
			Lives:     p.Lives,
			Bid:       p.Bid,
			TricksWon: p.TricksWon,
			HandCount: len(p.Hand),
			Active:    p.Active(),
			Dealer:    s.Phase != game.Waiting && i == s.DealerIndex,
			Automated: p.Automated,
		}
		if p.ID != viewerID {
			continue
		}
		view.Hand = append(view.Hand, p.Hand...)
		for _, c := range p.Hand {
			if shared.IsTrump(c, s.Mode, s.TrumpRank) {
				view.Trumps = append(view.Trumps, c)
			}
		}
	}

	if view.CurrentSeatID == viewerID {
		view.LegalBids = game.LegalBids(s)
		view.LegalCards = game.LegalCards(s, viewerID)
	}
	return view
}
