package game

import "errors"

// ErrEmptyTrick is returned when a winner is requested of a trick with no
// plays in it.
var ErrEmptyTrick = errors.New("no cards played to trick")

// play records one seat's card in play order.
type play struct {
	Seat int
	Card Card
}

// Trick collects up to four plays. The first play fixes the led suit; a led
// bower or indicator card leads trump, not its nominal suit.
type Trick struct {
	plays []play
	led   Suit
}

// Size returns the number of plays so far.
func (t *Trick) Size() int {
	return len(t.plays)
}

// Led returns the effective led suit, or SuitNone before any play.
func (t *Trick) Led() Suit {
	return t.led
}

// CardFor returns the card the seat played, if any.
func (t *Trick) CardFor(seat int) (Card, bool) {
	for _, p := range t.plays {
		if p.Seat == seat {
			return p.Card, true
		}
	}
	return Card{}, false
}

// Cards returns the played cards in play order.
func (t *Trick) Cards() Stack {
	out := make(Stack, 0, len(t.plays))
	for _, p := range t.plays {
		out = append(out, p.Card)
	}
	return out
}

// Play records a seat's card. A repeat play from the same seat overwrites
// the earlier card rather than growing the trick.
func (t *Trick) Play(seat int, c Card, trump Suit) {
	if len(t.plays) == 0 {
		t.led = c.Suit
		if c.IsBower(trump) || c.IsMarker() {
			t.led = trump
		}
	}
	for i, p := range t.plays {
		if p.Seat == seat {
			t.plays[i].Card = c
			return
		}
	}
	t.plays = append(t.plays, play{Seat: seat, Card: c})
}

// BestPlay returns the winning seat and card under the current trump.
func (t *Trick) BestPlay(trump Suit) (int, Card, error) {
	if len(t.plays) == 0 {
		return -1, Card{}, ErrEmptyTrick
	}
	best := t.plays[0]
	for _, p := range t.plays[1:] {
		if SuitedCompare(p.Card, best.Card, t.led, trump) > 0 {
			best = p
		}
	}
	return best.Seat, best.Card, nil
}

// WinningSeat returns only the winning seat.
func (t *Trick) WinningSeat(trump Suit) (int, error) {
	seat, _, err := t.BestPlay(trump)
	return seat, err
}

// Reset empties the trick for the next round of play.
func (t *Trick) Reset() {
	t.plays = t.plays[:0]
	t.led = SuitNone
}
