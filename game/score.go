package game

// scoreOrder is the total order of effective card labels, best first. The
// leading block holds the indicator card and trump-effective cards (bowers
// included), the A-block holds cards matching the suit context, and the
// B-block holds everything else. A SMALLER index is a BETTER card.
var scoreOrder = []string{
	"T", "J1", "J2",
	"A", "K", "Q", "J", "10", "9",
	"AA", "AK", "AQ", "AJ", "A10", "A9",
	"BA", "BK", "BQ", "BJ", "B10", "B9",
}

// scoreLabel maps a card to its label in scoreOrder given a suit context
// (usually the led suit) and the current trump.
func scoreLabel(c Card, led, trump Suit) string {
	if c.IsBower(trump) {
		if c.Suit == trump {
			return "J1"
		}
		return "J2"
	}

	prefix := ""
	if trump != SuitNone && !c.IsMarker() && c.Suit != trump {
		if led != SuitNone && led != c.Suit {
			prefix = "B"
		} else {
			prefix = "A"
		}
	}
	return prefix + string(c.Rank)
}

// ScoreIndex returns the card's position in the score order for the given
// suit context. Lower is better: the right bower sits at index 1, behind
// only the indicator card.
func ScoreIndex(c Card, led, trump Suit) int {
	label := scoreLabel(c, led, trump)
	for i, l := range scoreOrder {
		if l == label {
			return i
		}
	}
	return len(scoreOrder)
}

// SuitedCompare is a three-way comparison of two cards under a led-suit and
// trump context, with bower promotion applied to both cards independently.
// It returns >0 when a is the better card, <0 when b is, and 0 on equal
// effective rank (only possible for two off-suit cards of the same rank).
func SuitedCompare(a, b Card, led, trump Suit) int {
	ia := ScoreIndex(a, led, trump)
	ib := ScoreIndex(b, led, trump)
	switch {
	case ia < ib:
		return 1
	case ia > ib:
		return -1
	default:
		return 0
	}
}
