package game

import (
	"context"
	"testing"
)

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	return NewSession(cfg)
}

func TestDeterministicDeal(t *testing.T) {
	s := newTestSession(t, Config{Dealer: 0})
	if err := s.dealOut(0); err != nil {
		t.Fatal(err)
	}

	want := [4]Stack{
		{{SuitSpade, RankAce}, {SuitSpade, RankKing}, {SuitSpade, RankQueen}, {SuitHeart, RankTen}, {SuitHeart, RankNine}},
		{{SuitSpade, RankJack}, {SuitSpade, RankTen}, {SuitClub, RankAce}, {SuitClub, RankKing}, {SuitClub, RankQueen}},
		{{SuitSpade, RankNine}, {SuitHeart, RankAce}, {SuitHeart, RankKing}, {SuitClub, RankJack}, {SuitClub, RankTen}},
		{{SuitHeart, RankQueen}, {SuitHeart, RankJack}, {SuitClub, RankNine}, {SuitDiamond, RankAce}, {SuitDiamond, RankKing}},
	}
	wantKitty := Stack{
		{SuitDiamond, RankQueen}, {SuitDiamond, RankJack}, {SuitDiamond, RankTen},
		{SuitDiamond, RankNine}, MarkerCard(),
	}

	for seat, hand := range want {
		got := s.Hands[seat].Stack
		if len(got) != len(hand) {
			t.Fatalf("seat %d got %d cards", seat, len(got))
		}
		for i := range hand {
			if got[i] != hand[i] {
				t.Errorf("seat %d card %d: got %s, want %s", seat, i, got[i], hand[i])
			}
		}
	}
	for i := range wantKitty {
		if s.Kitty[i] != wantKitty[i] {
			t.Errorf("kitty card %d: got %s, want %s", i, s.Kitty[i], wantKitty[i])
		}
	}
	if len(s.Deck.Stack) != 0 {
		t.Errorf("deck should be empty after the deal, has %d", len(s.Deck.Stack))
	}
}

func TestDealInvariantAnyDealer(t *testing.T) {
	for dealer := 0; dealer < 4; dealer++ {
		s := newTestSession(t, Config{Dealer: dealer})
		if err := s.dealOut(dealer); err != nil {
			t.Fatal(err)
		}

		seen := make(map[Card]bool)
		for seat, h := range s.Hands {
			if len(h.Stack) != 5 {
				t.Errorf("dealer %d: seat %d has %d cards", dealer, seat, len(h.Stack))
			}
			for _, c := range h.Stack {
				if seen[c] {
					t.Errorf("dealer %d: duplicate %s", dealer, c)
				}
				seen[c] = true
			}
		}
		if len(s.Kitty) != 5 {
			t.Errorf("dealer %d: kitty has %d cards", dealer, len(s.Kitty))
		}
		for _, c := range s.Kitty {
			if seen[c] {
				t.Errorf("dealer %d: duplicate %s in kitty", dealer, c)
			}
			seen[c] = true
		}
		if len(seen) != DeckSize {
			t.Errorf("dealer %d: %d unique cards dealt, want %d", dealer, len(seen), DeckSize)
		}
	}
}

func TestHandPickUpDiscardsWorst(t *testing.T) {
	h := &Hand{Seat: 0, Stack: Stack{
		{SuitSpade, RankAce}, {SuitSpade, RankTen}, {SuitHeart, RankQueen},
		{SuitClub, RankJack}, {SuitDiamond, RankKing},
	}}
	kitty := Stack{
		{SuitSpade, RankNine}, {SuitHeart, RankJack}, {SuitClub, RankKing},
		{SuitClub, RankNine}, {SuitDiamond, RankJack},
	}

	took, threw, err := h.PickUp(&kitty, SuitSpade)
	if err != nil {
		t.Fatal(err)
	}
	if took != (Card{SuitSpade, RankNine}) {
		t.Errorf("took %s, want the kitty's top spade nine", took)
	}
	if threw != (Card{SuitHeart, RankQueen}) {
		t.Errorf("threw %s, want the off-suit queen", threw)
	}
	if len(h.Stack) != 5 || len(kitty) != 5 {
		t.Fatalf("hand %d / kitty %d after pick up, want 5/5", len(h.Stack), len(kitty))
	}
	if !h.Stack.Contains(took) || h.Stack.Contains(threw) {
		t.Error("pick up did not swap the cards")
	}
	if kitty[len(kitty)-1] != threw {
		t.Error("discard should sit at the back of the kitty")
	}
}

func TestApplyPickUpSetsTrumpAndMaker(t *testing.T) {
	s := newTestSession(t, Config{Dealer: 0})
	s.Deck.Reset()
	s.Hands[0].Stack = Stack{
		{SuitSpade, RankAce}, {SuitSpade, RankTen}, {SuitHeart, RankQueen},
		{SuitClub, RankJack}, {SuitDiamond, RankKing},
	}
	s.Kitty = Stack{
		{SuitSpade, RankNine}, {SuitHeart, RankJack}, {SuitClub, RankKing},
		{SuitClub, RankNine}, {SuitDiamond, RankJack},
	}

	s.Apply(Envelope{Method: MethodPickItUp, Seat: 2, Bool: true}, true)

	if s.Trump != SuitSpade {
		t.Errorf("trump = %s, want spades", s.Trump)
	}
	if s.Maker != 2 {
		t.Errorf("maker = %d, want 2", s.Maker)
	}
	if !s.Hands[0].Stack.Contains(Card{SuitSpade, RankNine}) {
		t.Error("dealer never took the exposed card")
	}

	// a duplicate delivery must not trigger a second exchange
	before := s.Hands[0].Stack.Clone()
	s.Apply(Envelope{Method: MethodPickItUp, Seat: 2, Bool: true}, true)
	for i := range before {
		if s.Hands[0].Stack[i] != before[i] {
			t.Fatal("duplicate pick-up changed the dealer's hand")
		}
	}
}

func TestApplyPassDoesNothing(t *testing.T) {
	s := newTestSession(t, Config{Dealer: 0})
	s.Kitty = Stack{{SuitSpade, RankNine}}
	s.Apply(Envelope{Method: MethodPickItUp, Seat: 1, Bool: false}, true)
	if s.Trump != SuitNone || s.Maker != -1 {
		t.Error("a pass must not name trump")
	}
}

func TestGoldenHandPlaythrough(t *testing.T) {
	var duringPlay Snapshot
	sawPlay := false
	s := newTestSession(t, Config{
		Dealer:          0,
		ShuffleStrategy: StrategyZipper2,
		NoCut:           true,
		OnUpdate: func(snap Snapshot) {
			if snap.Phase == PhasePlay && !sawPlay {
				duringPlay = snap
				sawPlay = true
			}
		},
	})

	if err := s.RunHand(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !sawPlay {
		t.Fatal("hand never reached the play phase")
	}
	if duringPlay.Trump != SuitSpade {
		t.Errorf("trump = %s, want spades (dealer orders up the nine)", duringPlay.Trump)
	}
	if duringPlay.Maker != 0 {
		t.Errorf("maker = %d, want the dealer", duringPlay.Maker)
	}
	if duringPlay.GoingAlone != 0 {
		t.Errorf("goingAlone = %d, want the dealer playing alone", duringPlay.GoingAlone)
	}

	a, b := s.Scores()
	if a != 1 || b != 0 {
		t.Errorf("score = %d/%d, want 1/0 (makers took four tricks)", a, b)
	}

	snap := s.Snapshot()
	if snap.Dealer != 1 {
		t.Errorf("dealer = %d, want 1 for the next hand", snap.Dealer)
	}
	if snap.Trump != SuitNone {
		t.Errorf("trump = %s, want cleared", snap.Trump)
	}
	if got := len(s.DeckOrder()); got != DeckSize {
		t.Errorf("deck has %d cards after recollect, want %d", got, DeckSize)
	}
}

func TestGoAloneAsksEverySeat(t *testing.T) {
	s := newTestSession(t, Config{Dealer: 0})
	s.Trump = SuitSpade
	s.Maker = 3
	// the maker's trump is thin, but the seat left of the dealer holds four
	s.Hands[0].Stack = Stack{{SuitHeart, RankAce}, {SuitHeart, RankKing}, {SuitClub, RankQueen}, {SuitDiamond, RankTen}, {SuitDiamond, RankNine}}
	s.Hands[1].Stack = Stack{{SuitSpade, RankAce}, {SuitSpade, RankKing}, {SuitSpade, RankQueen}, {SuitSpade, RankTen}, {SuitHeart, RankNine}}
	s.Hands[2].Stack = Stack{{SuitClub, RankAce}, {SuitClub, RankKing}, {SuitDiamond, RankQueen}, {SuitHeart, RankTen}, {SuitDiamond, RankNine}}
	s.Hands[3].Stack = Stack{{SuitSpade, RankNine}, {SuitDiamond, RankAce}, {SuitDiamond, RankKing}, {SuitClub, RankTen}, {SuitClub, RankNine}}

	if err := s.phaseGoAlone(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.GoingAlone != 1 {
		t.Fatalf("goingAlone = %d, want seat 1, the first seat asked", s.GoingAlone)
	}
	// the first yes ends the round; nobody past seat 1 is asked
	if _, ok := s.sent[sentKey{MethodGoAlone, 2}]; ok {
		t.Error("seat 2 was asked after seat 1 went alone")
	}
}

func TestCutSeatLeftOfDealer(t *testing.T) {
	s := newTestSession(t, Config{Dealer: 2})
	if err := s.phaseCut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.sent[sentKey{MethodCut, 3}]; !ok {
		t.Error("seat 3, left of dealer 2, should cut the deck")
	}
	if _, ok := s.sent[sentKey{MethodCut, 1}]; ok {
		t.Error("the seat right of the dealer must not cut")
	}
}

func TestRedealWhenNobodyCalls(t *testing.T) {
	s := newTestSession(t, Config{Dealer: 0})
	s.Deck.Reset()
	// no pairs inside the calling band anywhere, and all jacks buried in
	// the kitty so no hand hides a bower
	s.Hands[0].Stack = Stack{{SuitSpade, RankAce}, {SuitHeart, RankKing}, {SuitClub, RankQueen}, {SuitDiamond, RankTen}, {SuitDiamond, RankNine}}
	s.Hands[1].Stack = Stack{{SuitHeart, RankAce}, {SuitClub, RankKing}, {SuitDiamond, RankQueen}, {SuitSpade, RankTen}, {SuitSpade, RankNine}}
	s.Hands[2].Stack = Stack{{SuitClub, RankAce}, {SuitDiamond, RankKing}, {SuitSpade, RankQueen}, {SuitHeart, RankTen}, {SuitHeart, RankNine}}
	s.Hands[3].Stack = Stack{{SuitDiamond, RankAce}, {SuitSpade, RankKing}, {SuitHeart, RankQueen}, {SuitClub, RankTen}, {SuitClub, RankNine}}
	s.Kitty = Stack{{SuitSpade, RankJack}, {SuitHeart, RankJack}, {SuitClub, RankJack}, {SuitDiamond, RankJack}, MarkerCard()}

	ctx := context.Background()
	if err := s.phasePickItUp(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Trump != SuitNone {
		t.Fatalf("someone ordered up %s from junk", s.Trump)
	}
	if err := s.phaseSelectTrump(ctx); err != ErrRedeal {
		t.Fatalf("expected ErrRedeal, got %v", err)
	}

	s.recollect()
	a, b := s.Scores()
	if a != 0 || b != 0 {
		t.Errorf("a thrown-in hand scored %d/%d", a, b)
	}
	if got := len(s.DeckOrder()); got != DeckSize {
		t.Errorf("deck has %d cards after throw-in, want %d", got, DeckSize)
	}
	if s.Snapshot().Dealer != 1 {
		t.Error("deal should pass on after a throw-in")
	}
}

func TestScoreTable(t *testing.T) {
	cases := []struct {
		name       string
		makerSeat  int
		alone      int
		makerTakes int
		wantA      int
		wantB      int
	}{
		{"makers win", 0, -1, 3, 1, 0},
		{"makers sweep", 0, -1, 5, 2, 0},
		{"lone sweep", 0, 0, 5, 4, 0},
		{"partner lone sweep", 0, 2, 5, 4, 0},
		{"euchred", 0, -1, 2, 0, 2},
		{"team B makes", 1, -1, 4, 0, 1},
	}
	for _, tc := range cases {
		s := newTestSession(t, Config{})
		s.Maker = tc.makerSeat
		s.GoingAlone = tc.alone
		s.Trump = SuitSpade
		// distribute trick counts: makers' tricks to the maker, the rest
		// to the next seat over
		for i := 0; i < tc.makerTakes; i++ {
			s.Hands[tc.makerSeat].TakeTrick(Stack{{SuitSpade, RankNine}})
		}
		for i := 0; i < 5-tc.makerTakes; i++ {
			s.Hands[(tc.makerSeat+1)%4].TakeTrick(Stack{{SuitHeart, RankNine}})
		}
		s.scoreHandLocked()
		if s.ScoreA != tc.wantA || s.ScoreB != tc.wantB {
			t.Errorf("%s: score %d/%d, want %d/%d", tc.name, s.ScoreA, s.ScoreB, tc.wantA, tc.wantB)
		}
	}
}
