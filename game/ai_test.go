package game

import "testing"

func TestAIShouldPickUp(t *testing.T) {
	// two solid spades make spades the only candidate suit
	strong := Stack{
		{SuitSpade, RankAce}, {SuitSpade, RankTen}, {SuitHeart, RankQueen},
		{SuitClub, RankJack}, {SuitDiamond, RankKing},
	}
	if !AIShouldPickUp(strong, SuitSpade) {
		t.Error("the only candidate suit should be ordered up")
	}
	if AIShouldPickUp(strong, SuitHeart) {
		t.Error("single heart should not order up hearts")
	}

	weak := Stack{
		{SuitClub, RankAce}, {SuitClub, RankTen}, {SuitDiamond, RankNine},
		{SuitSpade, RankQueen}, {SuitHeart, RankAce},
	}
	if AIShouldPickUp(weak, SuitSpade) {
		t.Error("single spade should not order up spades")
	}
}

func TestAIShouldPickUpWantsTheIdealSuit(t *testing.T) {
	// both spades and hearts are callable, and the shorter spade holding
	// heads the candidate list; a runner-up suit must be turned down
	hand := Stack{
		{SuitSpade, RankAce}, {SuitSpade, RankTen},
		{SuitHeart, RankAce}, {SuitHeart, RankKing}, {SuitHeart, RankQueen},
	}
	if !AIShouldPickUp(hand, SuitSpade) {
		t.Error("the ideal suit should be ordered up")
	}
	if AIShouldPickUp(hand, SuitHeart) {
		t.Error("hearts is callable but not the ideal; it must not be ordered up")
	}
}

func TestAISelectTrump(t *testing.T) {
	hand := Stack{
		{SuitSpade, RankAce}, {SuitSpade, RankTen}, {SuitHeart, RankQueen},
		{SuitClub, RankJack}, {SuitDiamond, RankKing},
	}
	if got := AISelectTrump(hand); got != SuitSpade {
		t.Errorf("AISelectTrump = %s, want spades", got)
	}

	// with two callable suits the shorter one heads the list
	twoSuits := Stack{
		{SuitSpade, RankAce}, {SuitSpade, RankTen},
		{SuitHeart, RankAce}, {SuitHeart, RankKing}, {SuitHeart, RankQueen},
	}
	if got := AISelectTrump(twoSuits); got != SuitSpade {
		t.Errorf("AISelectTrump = %s, want the ideal spades over hearts", got)
	}

	nothing := Stack{
		{SuitSpade, RankTen}, {SuitSpade, RankNine}, {SuitHeart, RankTen},
		{SuitHeart, RankNine}, {SuitDiamond, RankTen},
	}
	if got := AISelectTrump(nothing); got != SuitNone {
		t.Errorf("junk hand named %s, want pass", got)
	}
}

func TestAITrumpCallCountsJacksAtFaceValue(t *testing.T) {
	// before trump exists there are no bowers: both jacks rank as plain
	// jacks and the off-color jack stays in its own suit, so spades is a
	// two-card suit with a callable average
	hand := Stack{
		{SuitSpade, RankJack}, {SuitClub, RankJack}, {SuitSpade, RankAce},
		{SuitHeart, RankNine}, {SuitDiamond, RankNine},
	}
	if got := AISelectTrump(hand); got != SuitSpade {
		t.Errorf("AISelectTrump = %s, want spades from jack and ace", got)
	}
	if !AIShouldPickUp(hand, SuitSpade) {
		t.Error("jack-ace spades should order up a spade")
	}
}

func TestAIShouldGoAlone(t *testing.T) {
	loner := Stack{
		{SuitSpade, RankAce}, {SuitSpade, RankTen}, {SuitClub, RankJack},
		{SuitDiamond, RankKing}, {SuitSpade, RankNine},
	}
	if !AIShouldGoAlone(loner, SuitSpade) {
		t.Error("four-trump hand should go alone")
	}

	thin := Stack{
		{SuitClub, RankAce}, {SuitClub, RankTen}, {SuitDiamond, RankNine},
		{SuitSpade, RankQueen}, {SuitHeart, RankAce},
	}
	if AIShouldGoAlone(thin, SuitHeart) {
		t.Error("one trump is no loner")
	}
}

func TestAIPlayLeadsBest(t *testing.T) {
	hand := Stack{
		{SuitClub, RankAce}, {SuitClub, RankTen}, {SuitDiamond, RankNine},
		{SuitSpade, RankQueen}, {SuitHeart, RankAce},
	}
	var tr Trick
	if got := AIPlay(hand, &tr, SuitSpade); got != (Card{SuitSpade, RankQueen}) {
		t.Errorf("lead = %s, want the trump queen", got)
	}
}

func TestAIPlayFollowsToWin(t *testing.T) {
	var tr Trick
	tr.Play(1, Card{SuitSpade, RankQueen}, SuitSpade)

	hand := Stack{
		{SuitHeart, RankKing}, {SuitHeart, RankNine}, {SuitDiamond, RankAce},
		{SuitDiamond, RankTen}, {SuitSpade, RankKing},
	}
	if got := AIPlay(hand, &tr, SuitSpade); got != (Card{SuitSpade, RankKing}) {
		t.Errorf("follow = %s, want the winning king", got)
	}
}

func TestAIPlayDucksWhenBeaten(t *testing.T) {
	var tr Trick
	tr.Play(1, Card{SuitHeart, RankAce}, SuitSpade)

	hand := Stack{{SuitHeart, RankKing}, {SuitHeart, RankNine}, {SuitDiamond, RankAce}}
	// must follow hearts but cannot beat the ace: throw the lowest heart
	if got := AIPlay(hand, &tr, SuitSpade); got != (Card{SuitHeart, RankNine}) {
		t.Errorf("duck = %s, want the heart nine", got)
	}
}

func TestAIPlaySloughsWorst(t *testing.T) {
	var tr Trick
	tr.Play(1, Card{SuitClub, RankAce}, SuitSpade)

	hand := Stack{
		{SuitHeart, RankKing}, {SuitHeart, RankNine}, {SuitDiamond, RankAce},
		{SuitDiamond, RankTen},
	}
	if got := AIPlay(hand, &tr, SuitSpade); got != (Card{SuitHeart, RankNine}) {
		t.Errorf("slough = %s, want the heart nine", got)
	}
}
