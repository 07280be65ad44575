package game

// Suit is a card suit. The values are the symbols carried on the wire, so
// envelopes serialize the same way on every peer. SuitMarker is the suit of
// the trump-indicator card that rides along as the 25th card of the pack.
type Suit string

const (
	SuitSpade   Suit = "♠"
	SuitHeart   Suit = "♥"
	SuitClub    Suit = "♣"
	SuitDiamond Suit = "♦"
	SuitMarker  Suit = "T"
	SuitNone    Suit = ""
)

// AllSuits returns the four playable suits in deck order.
func AllSuits() []Suit {
	return []Suit{SuitSpade, SuitHeart, SuitClub, SuitDiamond}
}

// SameColor reports whether two suits share a color.
// Spades/Clubs are black, Hearts/Diamonds are red.
func SameColor(a, b Suit) bool {
	black := func(s Suit) bool { return s == SuitSpade || s == SuitClub }
	red := func(s Suit) bool { return s == SuitHeart || s == SuitDiamond }
	return (black(a) && black(b)) || (red(a) && red(b))
}

// Rank is a card rank. A euchre deck runs A K Q J 10 9 plus the single
// indicator card, which carries the pseudo-rank T.
type Rank string

const (
	RankAce    Rank = "A"
	RankKing   Rank = "K"
	RankQueen  Rank = "Q"
	RankJack   Rank = "J"
	RankTen    Rank = "10"
	RankNine   Rank = "9"
	RankMarker Rank = "T"
)

// AllRanks returns the playable ranks in deck order, best first.
func AllRanks() []Rank {
	return []Rank{RankAce, RankKing, RankQueen, RankJack, RankTen, RankNine}
}

// Card is an immutable suit+rank value. Equality is by value; there is at
// most one copy of any card in a game.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"card"`
}

// MarkerCard returns the trump-indicator card.
func MarkerCard() Card {
	return Card{Suit: SuitMarker, Rank: RankMarker}
}

// IsMarker reports whether this is the trump-indicator card.
func (c Card) IsMarker() bool {
	return c.Rank == RankMarker
}

// IsBower reports whether the card acts as a bower for the given trump:
// a Jack whose suit shares trump's color.
func (c Card) IsBower(trump Suit) bool {
	return trump != SuitNone && c.Rank == RankJack && SameColor(c.Suit, trump)
}

// IsLeftBower reports whether the card is the off-color trump Jack.
func (c Card) IsLeftBower(trump Suit) bool {
	return c.IsBower(trump) && c.Suit != trump
}

func (c Card) String() string {
	return string(c.Suit) + string(c.Rank)
}
