package game

import "errors"

// ErrNotHolding is returned when a hand is told to play a card it does not
// hold.
var ErrNotHolding = errors.New("card not in hand")

// Role says who decides for a seat: the local AI, a human at this device,
// or a peer on another device whose decisions arrive over the wire.
type Role int

const (
	RoleAI Role = iota
	RoleLocal
	RoleRemote
)

func (r Role) String() string {
	switch r {
	case RoleAI:
		return "ai"
	case RoleLocal:
		return "local"
	case RoleRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Hand is one seat's cards plus the tricks it has taken this hand. Seats
// 0 and 2 partner against 1 and 3.
type Hand struct {
	Seat   int
	Role   Role
	Stack  Stack
	Tricks []Stack
}

// TeamA reports whether the seat belongs to the 0/2 partnership.
func (h *Hand) TeamA() bool {
	return h.Seat%2 == 0
}

// Partner returns the seat across the table.
func (h *Hand) Partner() int {
	return (h.Seat + 2) % 4
}

// PickUp has the dealer discard their worst card under the new trump and
// take the kitty's top card. The discard goes to the back of the kitty so
// the pack stays at full size.
func (h *Hand) PickUp(kitty *Stack, trump Suit) (took Card, threw Card, err error) {
	worst := h.Stack.ThrowCards(trump)
	if len(worst) == 0 {
		return Card{}, Card{}, ErrNotHolding
	}
	top, ok := kitty.TakeTop()
	if !ok {
		return Card{}, Card{}, errors.New("kitty is empty")
	}
	threw = worst[0]
	h.Stack.Remove(threw)
	h.Stack.Add(top)
	kitty.Add(threw)
	return top, threw, nil
}

// PlayCard removes the card from the hand for placement on a trick.
func (h *Hand) PlayCard(c Card) error {
	if !h.Stack.Remove(c) {
		return ErrNotHolding
	}
	return nil
}

// TakeTrick banks the trick's cards for end-of-hand scoring.
func (h *Hand) TakeTrick(cards Stack) {
	h.Tricks = append(h.Tricks, cards.Clone())
}

// ResetHand clears cards and banked tricks for the next deal.
func (h *Hand) ResetHand() {
	h.Stack.Reset()
	h.Tricks = nil
}
