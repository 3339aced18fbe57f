package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTrick(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		trumpRank Rank
		trick     []TrickEntry
		want      TrickResult
	}{
		{
			name: "highest base rank wins",
			mode: ModeFixed,
			trick: []TrickEntry{
				{Card: Card{Rank: RankKing, Suit: Hearts}, SeatID: "a"},
				{Card: Card{Rank: Rank3, Suit: Hearts}, SeatID: "b"},
				{Card: Card{Rank: Rank2, Suit: Spades}, SeatID: "c"},
			},
			want: TrickResult{WinnerID: "b", Strength: 9},
		},
		{
			name: "fixed trump beats three",
			mode: ModeFixed,
			trick: []TrickEntry{
				{Card: Card{Rank: Rank3, Suit: Hearts}, SeatID: "a"},
				{Card: Card{Rank: Rank7, Suit: Diamonds}, SeatID: "b"},
				{Card: Card{Rank: Rank4, Suit: Clubs}, SeatID: "c"},
			},
			want: TrickResult{WinnerID: "c", Strength: 104},
		},
		{
			name:      "dynamic trumps of different suits draw",
			mode:      ModeDynamic,
			trumpRank: RankJack,
			trick: []TrickEntry{
				{Card: Card{Rank: RankJack, Suit: Hearts}, SeatID: "a"},
				{Card: Card{Rank: Rank3, Suit: Clubs}, SeatID: "b"},
				{Card: Card{Rank: RankJack, Suit: Clubs}, SeatID: "c"},
			},
			want: TrickResult{Draw: true, Strength: 55},
		},
		{
			name: "base band tie across suits draws",
			mode: ModeFixed,
			trick: []TrickEntry{
				{Card: Card{Rank: RankKing, Suit: Hearts}, SeatID: "a"},
				{Card: Card{Rank: RankKing, Suit: Spades}, SeatID: "b"},
			},
			want: TrickResult{Draw: true, Strength: 6},
		},
		{
			name: "tie below the maximum does not matter",
			mode: ModeDynamic, trumpRank: Rank5,
			trick: []TrickEntry{
				{Card: Card{Rank: Rank6, Suit: Hearts}, SeatID: "a"},
				{Card: Card{Rank: Rank6, Suit: Spades}, SeatID: "b"},
				{Card: Card{Rank: Rank5, Suit: Clubs}, SeatID: "c"},
			},
			want: TrickResult{WinnerID: "c", Strength: 51},
		},
		{
			name: "single entry wins",
			mode: ModeDynamic, trumpRank: Rank5,
			trick: []TrickEntry{{Card: Card{Rank: Rank4, Suit: Hearts}, SeatID: "a"}},
			want:  TrickResult{WinnerID: "a", Strength: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTrick(tt.trick, tt.mode, tt.trumpRank))
		})
	}
}

func TestResolveTrickPanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { ResolveTrick(nil, ModeFixed, "") })
}

func TestCloneTrick(t *testing.T) {
	assert.Nil(t, CloneTrick(nil))
	trick := []TrickEntry{{Card: Card{Rank: Rank4, Suit: Hearts}, SeatID: "a"}}
	c := CloneTrick(trick)
	c[0].SeatID = "b"
	assert.Equal(t, "a", trick[0].SeatID)
}
