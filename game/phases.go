package game

import (
	"context"
	"errors"
	"time"
)

// ErrRedeal is returned from trump selection when every seat has declined
// the pick-up and then passed on naming a suit; the hand is thrown in and
// redealt.
var ErrRedeal = errors.New("no trump named, hand thrown in")

// Run plays hands until a partnership reaches the winning score or the
// context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.RunHand(ctx); err != nil {
			return err
		}
		a, b := s.Scores()
		if a >= WinningScore || b >= WinningScore {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// RunHand plays one complete hand: shuffle through scoring. Every peer in
// a room runs the same sequence; at each decision the seat's owner acts
// and everyone else applies the broadcast result.
func (s *Session) RunHand(ctx context.Context) error {
	if err := s.phaseReady(ctx); err != nil {
		return err
	}
	if err := s.phaseShuffle(ctx); err != nil {
		return err
	}
	if err := s.phaseCut(ctx); err != nil {
		return err
	}
	if err := s.phaseDeal(ctx); err != nil {
		return err
	}
	if err := s.phasePickItUp(ctx); err != nil {
		return err
	}
	err := s.phaseSelectTrump(ctx)
	switch {
	case errors.Is(err, ErrRedeal):
		s.recollect()
		return nil
	case err != nil:
		return err
	}
	if err := s.phaseGoAlone(ctx); err != nil {
		return err
	}
	if err := s.phasePlay(ctx); err != nil {
		return err
	}
	s.recollect()
	return nil
}

// decide runs one seat's decision for a phase. A seat owned by a peer is
// awaited over the transport; any other seat is decided here and the
// result broadcast.
func (s *Session) decide(ctx context.Context, seat int, method Method, local func(context.Context) (Envelope, error)) error {
	if !s.controlsSeat(seat) && s.connected() {
		req := Envelope{Method: method, Seat: seat, Room: s.Room, Request: true}
		_, err := s.transport.Await(ctx, req, Match{Method: method, Seat: seat, Applied: true})
		return err
	}
	env, err := local(ctx)
	if err != nil {
		return err
	}
	env.Method = method
	env.Seat = seat
	return s.send(env)
}

func (s *Session) phaseReady(ctx context.Context) error {
	s.setPhase(PhaseReady)
	for seat := 0; seat < 4; seat++ {
		if !s.controlsSeat(seat) && s.connected() {
			if s.isReady(seat) {
				continue
			}
			req := Envelope{Method: MethodReady, Seat: seat, Room: s.Room, Request: true}
			_, err := s.transport.Await(ctx, req, Match{Method: MethodReady, Seat: seat, Applied: true})
			if err != nil {
				return err
			}
			continue
		}
		if err := s.send(Envelope{Method: MethodReady, Seat: seat, Bool: true}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) phaseShuffle(ctx context.Context) error {
	s.setPhase(PhaseShuffle)
	dealer := s.dealerSeat()
	return s.decide(ctx, dealer, MethodShuffle, func(ctx context.Context) (Envelope, error) {
		strategy := s.ShuffleStrategy
		if strategy == "" {
			strategy = RandomStrategy(s.rng)
		}
		if s.roleOf(dealer) == RoleLocal && s.prompter != nil {
			s.promptBegin()
			choice, err := s.prompter.ShuffleChoice(ctx, ShuffleStrategies)
			s.promptEnd()
			if err != nil {
				return Envelope{}, err
			}
			if choice != "" {
				strategy = choice
			}
		}
		deck := s.deckClone()
		deck.Shuffle(strategy, s.rng)
		return Envelope{Text: strategy, Stack: deck}, nil
	})
}

func (s *Session) phaseCut(ctx context.Context) error {
	s.setPhase(PhaseCut)
	cutter := (s.dealerSeat() + 1) % 4
	return s.decide(ctx, cutter, MethodCut, func(ctx context.Context) (Envelope, error) {
		cut := !s.NoCut
		if cut && s.roleOf(cutter) == RoleLocal && s.prompter != nil {
			s.promptBegin()
			c, err := s.prompter.CutChoice(ctx)
			s.promptEnd()
			if err != nil {
				return Envelope{}, err
			}
			cut = c
		}
		deck := s.deckClone()
		if cut {
			deck.Cut(JitterCut(s.rng))
		}
		return Envelope{Bool: cut, Stack: deck}, nil
	})
}

// dealPattern is the card counts per seat in deal order, dealer first:
// 3-2-3-2 around the table, then 2-3-2-3.
var dealPattern = [2][4]int{{3, 2, 3, 2}, {2, 3, 2, 3}}

func (s *Session) phaseDeal(ctx context.Context) error {
	s.setPhase(PhaseDeal)
	dealer := s.dealerSeat()
	if !s.controlsSeat(dealer) && s.connected() {
		req := Envelope{Method: MethodDeal, Seat: dealer, Room: s.Room, Request: true}
		done := true
		_, err := s.transport.Await(ctx, req, Match{Method: MethodDeal, Seat: dealer, Applied: true, Bool: &done})
		return err
	}
	return s.dealOut(dealer)
}

// dealOut distributes the deck and broadcasts each stack, ending with a
// bare done marker once the layout is complete.
func (s *Session) dealOut(dealer int) error {
	deck := s.deckClone()
	var hands [4]Stack
	for round := 0; round < 2; round++ {
		for i := 0; i < 4; i++ {
			seat := (dealer + i) % 4
			n := dealPattern[round][i]
			hands[seat] = append(hands[seat], deck[:n]...)
			deck = deck[n:]
		}
	}
	for seat := 0; seat < 4; seat++ {
		env := Envelope{Method: MethodDeal, Seat: dealer, AltSeat: seat, Stack: hands[seat]}
		if err := s.send(env); err != nil {
			return err
		}
	}
	if err := s.send(Envelope{Method: MethodDeal, Seat: dealer, AltSeat: 4, Stack: deck.Clone()}); err != nil {
		return err
	}
	return s.send(Envelope{Method: MethodDeal, Seat: dealer, Bool: true})
}

func (s *Session) phasePickItUp(ctx context.Context) error {
	s.setPhase(PhasePickItUp)
	exposed, ok := s.exposedCard()
	if !ok {
		return errors.New("no kitty card exposed")
	}
	for turn := 0; turn < 4 && s.trumpSuit() == SuitNone; turn++ {
		seat := s.whoseTurn(turn)
		err := s.decide(ctx, seat, MethodPickItUp, func(ctx context.Context) (Envelope, error) {
			hand := s.handStack(seat)
			if s.roleOf(seat) == RoleLocal && s.prompter != nil {
				s.promptBegin()
				take, err := s.prompter.PickUpChoice(ctx, hand, exposed)
				s.promptEnd()
				if err != nil {
					return Envelope{}, err
				}
				return Envelope{Bool: take}, nil
			}
			return Envelope{Bool: AIShouldPickUp(hand, exposed.Suit)}, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) phaseSelectTrump(ctx context.Context) error {
	if s.trumpSuit() != SuitNone {
		return nil
	}
	s.setPhase(PhaseSelectTrump)
	for turn := 0; turn < 4 && s.trumpSuit() == SuitNone; turn++ {
		seat := s.whoseTurn(turn)
		err := s.decide(ctx, seat, MethodSelectTrump, func(ctx context.Context) (Envelope, error) {
			hand := s.handStack(seat)
			var pick Suit
			if s.roleOf(seat) == RoleLocal && s.prompter != nil {
				s.promptBegin()
				p, err := s.prompter.TrumpChoice(ctx, hand)
				s.promptEnd()
				if err != nil {
					return Envelope{}, err
				}
				pick = p
			} else {
				pick = AISelectTrump(hand)
			}
			return Envelope{Text: string(pick)}, nil
		})
		if err != nil {
			return err
		}
	}
	if s.trumpSuit() == SuitNone {
		return ErrRedeal
	}
	return nil
}

// phaseGoAlone asks each seat in turn, starting left of the dealer,
// whether it plays the hand alone; the first yes ends the round. Any seat
// may go alone, not just the maker.
func (s *Session) phaseGoAlone(ctx context.Context) error {
	s.setPhase(PhaseGoAlone)
	trump := s.trumpSuit()
	for turn := 0; turn < 4 && s.aloneSeat() < 0; turn++ {
		seat := s.whoseTurn(turn)
		err := s.decide(ctx, seat, MethodGoAlone, func(ctx context.Context) (Envelope, error) {
			hand := s.handStack(seat)
			if s.roleOf(seat) == RoleLocal && s.prompter != nil {
				s.promptBegin()
				alone, err := s.prompter.GoAloneChoice(ctx, hand, trump)
				s.promptEnd()
				if err != nil {
					return Envelope{}, err
				}
				return Envelope{Bool: alone}, nil
			}
			return Envelope{Bool: AIShouldGoAlone(hand, trump)}, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) phasePlay(ctx context.Context) error {
	s.setPhase(PhasePlay)
	leader := s.whoseTurn(0)
	for trick := 0; trick < 5; trick++ {
		s.setTrickNum(trick)
		for i := 0; i < 4; i++ {
			seat := (leader + i) % 4
			if s.skipSeat(seat) {
				continue
			}
			if err := s.playSeat(ctx, seat); err != nil {
				return err
			}
		}
		if err := s.finishTrick(); err != nil {
			return err
		}
		if s.TrickDelay > 0 {
			select {
			case <-time.After(s.TrickDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

func (s *Session) playSeat(ctx context.Context, seat int) error {
	return s.decide(ctx, seat, MethodPlay, func(ctx context.Context) (Envelope, error) {
		if s.roleOf(seat) == RoleLocal && s.prompter != nil {
			hand := s.handStack(seat)
			legal := s.legalPlays(seat)
			s.promptBegin()
			c, err := s.prompter.CardChoice(ctx, hand, legal)
			s.promptEnd()
			if err != nil {
				return Envelope{}, err
			}
			return Envelope{Card: &c}, nil
		}
		c := s.aiPlay(seat)
		return Envelope{Card: &c}, nil
	})
}

func (s *Session) aiPlay(seat int) Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AIPlay(s.Hands[seat].Stack, &s.Trick, s.Trump)
}

// legalPlays is the follow-suit rule: match the led suit when able,
// otherwise anything goes.
func (s *Session) legalPlays(seat int) Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	hand := s.Hands[seat].Stack
	if s.Trick.Size() == 0 {
		return hand.Clone()
	}
	matching := hand.Suited(s.Trick.Led(), s.Trump)
	if len(matching) == 0 {
		return hand.Clone()
	}
	return matching
}

func (s *Session) finishTrick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	winner, err := s.Trick.WinningSeat(s.Trump)
	if err != nil {
		return err
	}
	s.Hands[winner].TakeTrick(s.Trick.Cards())
	s.Trick.Reset()
	s.notifyLocked()
	return nil
}
