package game

// DeckSize is the full pack: four suits of six ranks plus the indicator card.
const DeckSize = 25

// Deck is the draw pile. It starts in canonical order and shrinks as hands
// and the kitty are dealt out of it.
type Deck struct {
	Stack
}

// NewDeck returns a full deck in canonical order: ♠ ♥ ♣ ♦ each running
// A K Q J 10 9, with the indicator card on the bottom.
func NewDeck() *Deck {
	d := &Deck{}
	d.Fill()
	return d
}

// Fill rebuilds the canonical 25-card order, discarding current contents.
func (d *Deck) Fill() {
	d.Stack = make(Stack, 0, DeckSize)
	for _, s := range AllSuits() {
		for _, r := range AllRanks() {
			d.Add(Card{Suit: s, Rank: r})
		}
	}
	d.Add(MarkerCard())
}

// Deal removes and returns the top n cards.
func (d *Deck) Deal(n int) Stack {
	if n > len(d.Stack) {
		n = len(d.Stack)
	}
	out := d.Stack[:n].Clone()
	d.Stack = d.Stack[n:]
	return out
}
