package game

import "sort"

// suitStat aggregates a hand's holdings in one suit. avg is the integer
// mean score index of the suited cards: a small average means strong cards.
type suitStat struct {
	suit  Suit
	count int
	avg   int
}

// suitStats computes (count, average) per playable suit, visited in fixed
// deck order so results are stable. trump is the scoring context: it is
// still empty while the calling heuristics run, so counts are nominal and
// every jack ranks as a plain jack; once trump is named the trump suit
// gathers its bowers.
func suitStats(hand Stack, trump Suit) []suitStat {
	stats := make([]suitStat, 0, 4)
	for _, s := range AllSuits() {
		suited := hand.Suited(s, trump)
		st := suitStat{suit: s, count: len(suited)}
		if st.count > 0 {
			sum := 0
			for _, c := range suited {
				sum += ScoreIndex(c, trump, trump)
			}
			st.avg = sum / st.count
		}
		stats = append(stats, st)
	}
	return stats
}

// viable is the calling band: at least two cards in the suit with a
// usefully strong average.
func (st suitStat) viable() bool {
	return st.count > 1 && st.avg > 2 && st.avg < 6
}

// idealTrumps returns the viable candidate suits ordered fewest cards
// first; the head of the list is the ideal call.
func idealTrumps(hand Stack) []Suit {
	var cands []suitStat
	for _, st := range suitStats(hand, SuitNone) {
		if st.viable() {
			cands = append(cands, st)
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].count < cands[j].count
	})
	out := make([]Suit, 0, len(cands))
	for _, st := range cands {
		out = append(out, st.suit)
	}
	return out
}

// AIShouldPickUp orders the exposed card up only when its suit is the
// single best candidate, not merely one of them.
func AIShouldPickUp(hand Stack, exposed Suit) bool {
	cands := idealTrumps(hand)
	return len(cands) > 0 && cands[0] == exposed
}

// AISelectTrump names the ideal candidate suit, or SuitNone to pass.
func AISelectTrump(hand Stack) Suit {
	if cands := idealTrumps(hand); len(cands) > 0 {
		return cands[0]
	}
	return SuitNone
}

// AIShouldGoAlone decides whether to play the hand without a partner:
// three or more trump, bowers included, inside the calling band.
func AIShouldGoAlone(hand Stack, trump Suit) bool {
	suited := hand.Suited(trump, trump)
	if len(suited) < 3 {
		return false
	}
	sum := 0
	for _, c := range suited {
		sum += ScoreIndex(c, trump, trump)
	}
	avg := sum / len(suited)
	return avg > 2 && avg < 6
}

// AIPlay picks a card for the trick. Leading, it plays its best card.
// Following suit, it plays its best follower when that wins the trick so
// far, otherwise its worst. Out of suit, it sloughs its worst card.
func AIPlay(hand Stack, t *Trick, trump Suit) Card {
	if t.Size() == 0 {
		best := hand[0]
		for _, c := range hand[1:] {
			if ScoreIndex(c, SuitNone, trump) < ScoreIndex(best, SuitNone, trump) {
				best = c
			}
		}
		return best
	}

	matching := hand.Suited(t.Led(), trump).BestCards(trump)
	if len(matching) == 0 {
		throw := hand.ThrowCards(trump)
		return throw[0]
	}

	_, bestSoFar, err := t.BestPlay(trump)
	if err == nil && SuitedCompare(bestSoFar, matching[0], t.Led(), trump) > 0 {
		return matching[len(matching)-1]
	}
	return matching[0]
}
