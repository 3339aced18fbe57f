package shared

// Mode selects the trump system for a match.
type Mode string

const (
	ModeUnset   Mode = ""
	ModeFixed   Mode = "fixed"   // Mineiro: permanent manilhas
	ModeDynamic Mode = "dynamic" // Paulista: manilha follows the turned card
)

// ParseMode validates a mode coming from the wire.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeFixed, ModeDynamic:
		return Mode(s), true
	}
	return ModeUnset, false
}

const (
	dynamicTrumpBase = 50
	fixedTrumpBase   = 100
)

// fixedTrumps maps the Mineiro manilhas to their rank, strongest = 4.
var fixedTrumps = map[Card]int{
	{Rank: Rank4, Suit: Clubs}:    4, // zap
	{Rank: Rank7, Suit: Hearts}:   3, // sete copas
	{Rank: RankAce, Suit: Spades}: 2, // espadilha
	{Rank: Rank7, Suit: Diamonds}: 1, // sete ouros
}

// FixedTrumps returns the permanent trumps, strongest first.
func FixedTrumps() []Card {
	return []Card{
		{Rank: Rank4, Suit: Clubs},
		{Rank: Rank7, Suit: Hearts},
		{Rank: RankAce, Suit: Spades},
		{Rank: Rank7, Suit: Diamonds},
	}
}

// DynamicTrumpRank returns the rank right after the turned card's rank, wrapping 3 -> 4.
func DynamicTrumpRank(turned Card) Rank {
	idx := RankIndex(turned.Rank)
	return Ranks[(idx+1)%len(Ranks)]
}

// CardStrength maps a card to a comparable strength under mode.
// trumpRank is only consulted in dynamic mode and may be empty otherwise.
func CardStrength(card Card, mode Mode, trumpRank Rank) int {
	base := RankIndex(card.Rank)
	switch mode {
	case ModeFixed:
		if fixed, ok := fixedTrumps[card]; ok {
			return fixedTrumpBase + fixed
		}
	case ModeDynamic:
		if trumpRank != "" && card.Rank == trumpRank {
			return dynamicTrumpBase + base
		}
	}
	return base
}

// IsTrump reports whether card is a manilha under mode.
func IsTrump(card Card, mode Mode, trumpRank Rank) bool {
	switch mode {
	case ModeFixed:
		_, ok := fixedTrumps[card]
		return ok
	case ModeDynamic:
		return trumpRank != "" && card.Rank == trumpRank
	}
	return false
}
