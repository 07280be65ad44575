package game

import (
	"math/rand"
	"sort"
)

// Stack is an ordered collection of cards. Deck, Kitty and Hand are all
// stacks; cards move between them by remove-then-add so no card ever lives
// in two stacks at once.
type Stack []Card

// Clone returns an independent copy of the stack.
func (s Stack) Clone() Stack {
	return append(Stack(nil), s...)
}

// IndexOf returns the position of the first matching card, or -1.
func (s Stack) IndexOf(c Card) int {
	for i, v := range s {
		if v == c {
			return i
		}
	}
	return -1
}

// Contains reports whether the card is in the stack.
func (s Stack) Contains(c Card) bool {
	return s.IndexOf(c) >= 0
}

// Add appends cards to the back of the stack.
func (s *Stack) Add(cards ...Card) {
	*s = append(*s, cards...)
}

// Prepend inserts cards at the front of the stack.
func (s *Stack) Prepend(cards ...Card) {
	*s = append(append(Stack(nil), cards...), *s...)
}

// Remove removes the first matching card. Returns false if absent.
func (s *Stack) Remove(c Card) bool {
	i := s.IndexOf(c)
	if i < 0 {
		return false
	}
	s.RemoveAt(i)
	return true
}

// RemoveAt removes and returns the card at position i.
func (s *Stack) RemoveAt(i int) Card {
	c := (*s)[i]
	*s = append((*s)[:i], (*s)[i+1:]...)
	return c
}

// TakeTop removes and returns the top (first) card.
// The second return is false on an empty stack.
func (s *Stack) TakeTop() (Card, bool) {
	if len(*s) == 0 {
		return Card{}, false
	}
	return s.RemoveAt(0), true
}

// Replace swaps the stack's contents for the given cards.
func (s *Stack) Replace(cards []Card) {
	*s = append((*s)[:0], cards...)
}

// Reset empties the stack.
func (s *Stack) Reset() {
	*s = (*s)[:0]
}

// Suited filters to cards of the given suit. When filtering for the trump
// suit the left bower is included, since it plays as trump rather than as
// its nominal suit.
func (s Stack) Suited(suit, trump Suit) Stack {
	out := Stack{}
	for _, c := range s {
		if c.IsLeftBower(trump) {
			if suit == trump {
				out = append(out, c)
			}
			continue
		}
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

// BestCards returns the stack sorted best-first by score index with no
// led-suit context (trump-relative ranking only).
func (s Stack) BestCards(trump Suit) Stack {
	out := s.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return ScoreIndex(out[i], trump, trump) < ScoreIndex(out[j], trump, trump)
	})
	return out
}

// ThrowCards returns the stack sorted worst-first, for discard decisions.
func (s Stack) ThrowCards(trump Suit) Stack {
	out := s.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return ScoreIndex(out[i], trump, trump) > ScoreIndex(out[j], trump, trump)
	})
	return out
}

// CutFunc picks a cut point given the stack's midpoint.
type CutFunc func(mid int) int

// IdentityCut cuts exactly at the midpoint.
func IdentityCut(mid int) int { return mid }

// JitterCut cuts near the midpoint with a -3..+2 offset.
func JitterCut(rng *rand.Rand) CutFunc {
	return func(mid int) int {
		return mid - 3 + rng.Intn(6)
	}
}

// Cut swaps the stack into back-half-then-front-half order at the point
// chosen by fn, clamped to the stack bounds.
func (s *Stack) Cut(fn CutFunc) {
	pt := fn(len(*s) / 2)
	if pt < 0 {
		pt = 0
	}
	if pt > len(*s) {
		pt = len(*s)
	}
	out := make(Stack, 0, len(*s))
	out = append(out, (*s)[pt:]...)
	out = append(out, (*s)[:pt]...)
	s.Replace(out)
}

// Named shuffle strategies. All of them are permutations: no strategy may
// drop or duplicate a card.
const (
	StrategyZipper  = "zipper"  // 2-way split-and-merge, 1-3 passes
	StrategyZipper2 = "zipper2" // 2-way split-and-merge, 2 passes
	StrategyZipper3 = "zipper3" // 2-way split-and-merge, 3 passes
	StrategyTriple  = "triple"  // 3-way split-and-merge, 1 pass
	StrategyOutward = "outward" // segment extraction toward the ends
	StrategyInward  = "inward"  // segment extraction toward the middle
	StrategyVortex  = "vortex"  // drain into a side buffer, reassemble
	StrategyUniform = "uniform" // plain Fisher-Yates

	// StrategyNone leaves the stack untouched, for replaying a saved
	// deck order. Never picked at random.
	StrategyNone = "none"
)

// ShuffleStrategies lists every named strategy.
var ShuffleStrategies = []string{
	StrategyZipper, StrategyZipper2, StrategyZipper3, StrategyTriple,
	StrategyOutward, StrategyInward, StrategyVortex, StrategyUniform,
}

// RandomStrategy picks a strategy uniformly at random.
func RandomStrategy(rng *rand.Rand) string {
	return ShuffleStrategies[rng.Intn(len(ShuffleStrategies))]
}

// Shuffle reorders the stack with the named strategy. An unknown or empty
// name falls back to a random strategy.
func (s *Stack) Shuffle(strategy string, rng *rand.Rand) {
	switch strategy {
	case StrategyNone:
	case StrategyZipper:
		s.Zipper(2, 1+rng.Intn(3))
	case StrategyZipper2:
		s.Zipper(2, 2)
	case StrategyZipper3:
		s.Zipper(2, 3)
	case StrategyTriple:
		s.Zipper(3, 1)
	case StrategyOutward:
		s.Outward(rng)
	case StrategyInward:
		s.Inward(rng)
	case StrategyVortex:
		s.Vortex(rng)
	case StrategyUniform:
		rng.Shuffle(len(*s), func(i, j int) {
			(*s)[i], (*s)[j] = (*s)[j], (*s)[i]
		})
	default:
		s.Shuffle(RandomStrategy(rng), rng)
	}
}

// Zipper deals the stack round-robin into parts piles and restacks them,
// repeated times times. Deterministic: no randomness involved.
func (s *Stack) Zipper(parts, times int) {
	if parts < 2 {
		parts = 2
	}
	for t := 0; t < times; t++ {
		piles := make([]Stack, parts)
		for i, c := range *s {
			piles[i%parts] = append(piles[i%parts], c)
		}
		out := make(Stack, 0, len(*s))
		for _, p := range piles {
			out = append(out, p...)
		}
		s.Replace(out)
	}
}

// extract removes up to keep cards at random positions within [lo, hi]
// (clamped), preserving their relative order, and returns them.
func (s *Stack) extract(rng *rand.Rand, lo, hi, keep int) Stack {
	if len(*s) == 0 {
		return Stack{}
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= len(*s) {
		hi = len(*s) - 1
	}
	idxs := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		idxs = append(idxs, i)
	}
	for len(idxs) > keep {
		j := rng.Intn(len(idxs))
		idxs = append(idxs[:j], idxs[j+1:]...)
	}
	out := make(Stack, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, (*s)[i])
	}
	for k := len(idxs) - 1; k >= 0; k-- {
		s.RemoveAt(idxs[k])
	}
	return out
}

// Outward repeatedly pulls a small random segment out of the middle and
// reattaches it at an end, alternating between back and front.
func (s *Stack) Outward(rng *rand.Rand) {
	for c := 5 + rng.Intn(10); c > 0; c-- {
		if len(*s) < 2 {
			break
		}
		start := rng.Intn(len(*s))
		cnt := 1 + rng.Intn(4)
		seg := s.extract(rng, start, start+cnt, 3)
		if c%2 == 0 {
			s.Add(seg...)
		} else {
			s.Prepend(seg...)
		}
		s.reinsertStep(rng, c%2 == 0)
	}
}

// Inward repeatedly pulls a small segment off an end and reinserts it at a
// random offset inside the stack.
func (s *Stack) Inward(rng *rand.Rand) {
	for c := 5 + rng.Intn(10); c > 0; c-- {
		if len(*s) < 2 {
			break
		}
		s.reinsertStep(rng, c%2 == 0)
		start := rng.Intn(len(*s))
		seg := s.extract(rng, start, start+1+rng.Intn(4), 3)
		s.Add(seg...)
	}
}

// reinsertStep takes a short segment from one end (the back when fromBack)
// and splices it back in at a random interior offset.
func (s *Stack) reinsertStep(rng *rand.Rand, fromBack bool) {
	if len(*s) < 2 {
		return
	}
	cnt := 1 + rng.Intn(4)
	lo := 0
	if fromBack {
		lo = len(*s) - cnt - 1
		if lo < 0 {
			lo = 0
		}
	}
	seg := s.extract(rng, lo, lo+cnt, 3)
	at := 0
	if len(*s) > 0 {
		at = rng.Intn(len(*s) + 1)
	}
	rest := append(Stack(nil), (*s)[at:]...)
	*s = append(append((*s)[:at], seg...), rest...)
}

// Vortex drains the whole stack into a side buffer in random segments,
// alternating append and prepend, then adopts the buffer.
func (s *Stack) Vortex(rng *rand.Rand) {
	side := make(Stack, 0, len(*s))
	for cycles := 0; len(*s) > 0; cycles++ {
		start := 0
		if len(*s) > 1 {
			start = rng.Intn(len(*s))
		}
		seg := s.extract(rng, start, start+1+rng.Intn(4), 3)
		if cycles%2 == 0 {
			side = append(side, seg...)
		} else {
			side = append(seg.Clone(), side...)
		}
	}
	*s = side
}
