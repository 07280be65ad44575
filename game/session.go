package game

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"
)

// WinningScore ends the game for the first partnership to reach it.
const WinningScore = 10

// Phase is where a session is inside the current hand.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReady
	PhaseShuffle
	PhaseCut
	PhaseDeal
	PhasePickItUp
	PhaseSelectTrump
	PhaseGoAlone
	PhasePlay
	PhaseRecollect
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseReady:
		return "ready"
	case PhaseShuffle:
		return "shuffle"
	case PhaseCut:
		return "cut"
	case PhaseDeal:
		return "deal"
	case PhasePickItUp:
		return "pickItUp"
	case PhaseSelectTrump:
		return "selectTrump"
	case PhaseGoAlone:
		return "goAlone"
	case PhasePlay:
		return "play"
	case PhaseRecollect:
		return "recollect"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of session state for display code.
// Hands carries all four stacks only when the session is open-handed;
// otherwise only the device's own hand is populated.
type Snapshot struct {
	Phase      Phase
	Prompting  bool
	Dealer     int
	Trump      Suit
	Maker      int
	GoingAlone int
	ScoreA     int
	ScoreB     int
	TrickNum   int
	Hand       Stack
	HandCounts [4]int
	Hands      [4]Stack
	Trick      Stack
	Led        Suit
}

// Config seeds a new session. A zero Seed draws from the clock. A nil
// Transport (or one that never connects) gives single-device play where
// every non-local seat runs on the AI.
type Config struct {
	Seat       int
	Room       string
	Dealer     int
	Seed       int64
	Transport  Transport
	Prompter   Prompter
	TrickDelay time.Duration
	OpenHand   bool
	OnUpdate   func(Snapshot)

	// ShuffleStrategy pins the dealer's shuffle; empty picks at random.
	// NoCut skips the cut entirely. Together they make a hand replayable.
	ShuffleStrategy string
	NoCut           bool
}

// Session is one device's copy of the shared game. Every peer runs the
// same phase loop over the same state; decisions are applied optimistically
// as envelopes arrive, with no cross-checking of the sender. The seats a
// peer advertises become RoleRemote here; everything else is decided on
// this device.
type Session struct {
	mu sync.Mutex

	Deck  *Deck
	Hands [4]*Hand
	Kitty Stack
	Trick Trick

	ScoreA     int
	ScoreB     int
	Dealer     int
	TrickNum   int
	Trump      Suit
	Maker      int
	GoingAlone int

	Seat int
	Room string
	host int

	ready     [4]bool
	phase     Phase
	prompting bool

	OpenHand        bool
	TrickDelay      time.Duration
	ShuffleStrategy string
	NoCut           bool

	rng       *rand.Rand
	transport Transport
	prompter  Prompter
	onUpdate  func(Snapshot)

	// sent remembers the last decision broadcast per method and seat, so
	// a peer that subscribed too late can ask for a replay.
	sent map[sentKey]Envelope
}

type sentKey struct {
	method Method
	seat   int
}

// NewSession builds a session with a fresh deck and four AI seats; the
// device's own seat is local when a prompter is configured.
func NewSession(cfg Config) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Session{
		Deck:            NewDeck(),
		Dealer:          cfg.Dealer,
		Trump:           SuitNone,
		Maker:           -1,
		GoingAlone:      -1,
		Seat:            cfg.Seat,
		Room:            cfg.Room,
		host:            -1,
		OpenHand:        cfg.OpenHand,
		TrickDelay:      cfg.TrickDelay,
		ShuffleStrategy: cfg.ShuffleStrategy,
		NoCut:           cfg.NoCut,
		rng:             rand.New(rand.NewSource(seed)),
		transport:       cfg.Transport,
		prompter:        cfg.Prompter,
		onUpdate:        cfg.OnUpdate,
		sent:            make(map[sentKey]Envelope),
	}
	for i := range s.Hands {
		s.Hands[i] = &Hand{Seat: i, Role: RoleAI}
	}
	if cfg.Prompter != nil && cfg.Seat >= 0 && cfg.Seat < 4 {
		s.Hands[cfg.Seat].Role = RoleLocal
	}
	return s
}

// LoadDeck replaces the undealt deck with a saved order. Only valid
// between hands, while every card is back in the deck.
func (s *Session) LoadDeck(cards Stack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(cards) != DeckSize {
		return errors.New("saved deck is not a full pack")
	}
	if len(s.Deck.Stack) != DeckSize {
		return errors.New("deck can only be replaced between hands")
	}
	s.Deck.Replace(cards)
	return nil
}

// DeckOrder returns a copy of the current undealt deck.
func (s *Session) DeckOrder() Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Deck.Stack.Clone()
}

// SetRole reassigns who decides for a seat.
func (s *Session) SetRole(seat int, r Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seat >= 0 && seat < 4 {
		s.Hands[seat].Role = r
	}
}

// RoleOf returns who decides for a seat.
func (s *Session) RoleOf(seat int) Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Hands[seat].Role
}

// Scores returns the partnership scores (seats 0/2, then 1/3).
func (s *Session) Scores() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ScoreA, s.ScoreB
}

// Announce advertises this device's seat to the room: its role claim, and
// a host claim when no one else has claimed yet.
func (s *Session) Announce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advertiseLocked()
	if s.transport != nil && s.transport.Connected() {
		err := s.transport.Send(Envelope{Method: MethodConnect, Seat: s.Seat, Room: s.Room})
		if err != nil {
			log.Printf("euchre: announce: %v", err)
		}
	}
}

func (s *Session) advertiseLocked() {
	if s.transport == nil || !s.transport.Connected() {
		return
	}
	local := s.Hands[s.Seat].Role == RoleLocal
	err := s.transport.Send(Envelope{Method: MethodAIOverride, Seat: s.Seat, Room: s.Room, Bool: local})
	if err != nil {
		log.Printf("euchre: advertise: %v", err)
		return
	}
	if s.host < 0 || s.host == s.Seat {
		if err := s.transport.Send(Envelope{Method: MethodClaimHost, Seat: s.Seat, Room: s.Room}); err != nil {
			log.Printf("euchre: claim host: %v", err)
			return
		}
		s.host = s.Seat
	}
}

// Apply folds one envelope into session state. relayed marks envelopes
// received from a peer rather than produced on this device. Requests and
// applied echoes never mutate; after a mutating envelope lands, an applied
// echo is published on the local bus so awaiting phase loops wake up.
func (s *Session) Apply(env Envelope, relayed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch env.Method {
	case MethodConnect:
		if relayed {
			s.advertiseLocked()
		}
		return
	case MethodAIOverride:
		if env.Seat < 0 || env.Seat > 3 {
			return
		}
		switch {
		case relayed:
			s.Hands[env.Seat].Role = RoleRemote
		case env.Bool:
			s.Hands[env.Seat].Role = RoleLocal
		default:
			s.Hands[env.Seat].Role = RoleAI
		}
		return
	case MethodClaimHost:
		// last claim wins
		s.host = env.Seat
		return
	}

	if env.Request {
		s.answerRequestLocked(env)
		return
	}
	if env.Applied {
		return
	}

	switch env.Method {
	case MethodReady:
		if env.Seat >= 0 && env.Seat < 4 {
			s.ready[env.Seat] = true
		}
	case MethodShuffle, MethodCut:
		if len(env.Stack) == len(s.Deck.Stack) {
			s.Deck.Replace(env.Stack)
		} else {
			log.Printf("euchre: %s carried %d cards, deck holds %d; ignored",
				env.Method, len(env.Stack), len(s.Deck.Stack))
		}
	case MethodDeal:
		s.applyDealLocked(env)
	case MethodPickItUp:
		s.applyPickItUpLocked(env)
	case MethodSelectTrump:
		if env.Text != "" {
			s.Trump = Suit(env.Text)
			s.Maker = env.Seat
		}
	case MethodGoAlone:
		if env.Bool {
			s.GoingAlone = env.Seat
		}
	case MethodPlay:
		if env.Card != nil && env.Seat >= 0 && env.Seat < 4 {
			if err := s.Hands[env.Seat].PlayCard(*env.Card); err != nil {
				log.Printf("euchre: seat %d played %s without holding it", env.Seat, env.Card)
			}
			s.Trick.Play(env.Seat, *env.Card, s.Trump)
		}
	default:
		log.Printf("euchre: unknown method %q", env.Method)
		return
	}

	s.echoLocked(env)
	s.notifyLocked()
}

func (s *Session) applyDealLocked(env Envelope) {
	if len(env.Stack) == 0 {
		// bare boolean marks the deal complete; nothing to install
		return
	}
	switch {
	case env.AltSeat >= 0 && env.AltSeat < 4:
		s.Hands[env.AltSeat].Stack = env.Stack.Clone()
	case env.AltSeat == 4:
		s.Kitty = env.Stack.Clone()
	default:
		return
	}
	for _, c := range env.Stack {
		s.Deck.Remove(c)
	}
}

func (s *Session) applyPickItUpLocked(env Envelope) {
	if !env.Bool || len(s.Kitty) == 0 {
		return
	}
	if s.Trump != SuitNone {
		// duplicate delivery, the pick-up already happened
		return
	}
	exposed := s.Kitty[0]
	if exposed.IsMarker() {
		return
	}
	s.Trump = exposed.Suit
	s.Maker = env.Seat
	dealer := s.Hands[s.Dealer]
	if _, _, err := dealer.PickUp(&s.Kitty, s.Trump); err != nil {
		log.Printf("euchre: pick up: %v", err)
	}
}

// answerRequestLocked replays a decision this device already broadcast
// for the requested seat and method. Play is lockstep, so the most recent
// broadcast is always the one the asker is missing; receivers apply
// duplicates idempotently.
func (s *Session) answerRequestLocked(env Envelope) {
	if env.Seat < 0 || env.Seat > 3 || s.Hands[env.Seat].Role == RoleRemote {
		return
	}
	last, ok := s.sent[sentKey{env.Method, env.Seat}]
	if !ok {
		return
	}
	if s.transport != nil && s.transport.Connected() {
		if err := s.transport.Send(last); err != nil {
			log.Printf("euchre: request replay: %v", err)
		}
	}
}

// send stamps the envelope with this device's seat and room, applies it
// locally, then forwards it to the room when connected.
func (s *Session) send(env Envelope) error {
	if env.Seat == SeatAny {
		env.Seat = s.Seat
	}
	env.Room = s.Room
	s.mu.Lock()
	s.sent[sentKey{env.Method, env.Seat}] = env
	s.mu.Unlock()
	s.Apply(env, false)
	if s.transport != nil && s.transport.Connected() {
		return s.transport.Send(env)
	}
	return nil
}

func (s *Session) echoLocked(env Envelope) {
	if s.transport == nil {
		return
	}
	echo := env
	echo.Applied = true
	s.transport.Publish(echo)
}

// notifyLocked pushes a snapshot to the observer. The callback runs with
// the session lock held and must not call back into the session.
func (s *Session) notifyLocked() {
	if s.onUpdate != nil {
		s.onUpdate(s.snapshotLocked())
	}
}

// Snapshot returns a copy of the visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:      s.phase,
		Prompting:  s.prompting,
		Dealer:     s.Dealer,
		Trump:      s.Trump,
		Maker:      s.Maker,
		GoingAlone: s.GoingAlone,
		ScoreA:     s.ScoreA,
		ScoreB:     s.ScoreB,
		TrickNum:   s.TrickNum,
		Trick:      s.Trick.Cards(),
		Led:        s.Trick.Led(),
	}
	if s.Seat >= 0 && s.Seat < 4 {
		snap.Hand = s.Hands[s.Seat].Stack.Clone()
	}
	for i, h := range s.Hands {
		snap.HandCounts[i] = len(h.Stack)
		if s.OpenHand {
			snap.Hands[i] = h.Stack.Clone()
		}
	}
	return snap
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Session) promptBegin() {
	s.mu.Lock()
	s.prompting = true
	s.mu.Unlock()
}

func (s *Session) promptEnd() {
	s.mu.Lock()
	s.prompting = false
	s.mu.Unlock()
}

func (s *Session) connected() bool {
	return s.transport != nil && s.transport.Connected()
}

func (s *Session) roleOf(seat int) Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Hands[seat].Role
}

func (s *Session) dealerSeat() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Dealer
}

func (s *Session) aloneSeat() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.GoingAlone
}

func (s *Session) trumpSuit() Suit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Trump
}

func (s *Session) handStack(seat int) Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Hands[seat].Stack.Clone()
}

func (s *Session) deckClone() Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Deck.Stack.Clone()
}

// controlsSeat reports whether this device makes the seat's decisions.
// Local seats are always ours and remote seats never are; AI seats are run
// by every device offline but only by the room's host online.
func (s *Session) controlsSeat(seat int) bool {
	s.mu.Lock()
	role := s.Hands[seat].Role
	host := s.host
	s.mu.Unlock()
	switch role {
	case RoleLocal:
		return true
	case RoleRemote:
		return false
	}
	if s.connected() {
		return host < 0 || host == s.Seat
	}
	return true
}

func (s *Session) isReady(seat int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready[seat]
}

func (s *Session) setTrickNum(n int) {
	s.mu.Lock()
	s.TrickNum = n
	s.mu.Unlock()
}

func (s *Session) exposedCard() (Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Kitty) == 0 {
		return Card{}, false
	}
	return s.Kitty[0], true
}

// whoseTurn maps a 0-based turn counter to a seat, starting left of the
// dealer.
func (s *Session) whoseTurn(turn int) int {
	return (s.dealerSeat() + 1 + turn) % 4
}

// skipSeat reports whether the seat sits out because their partner is
// playing alone.
func (s *Session) skipSeat(seat int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.GoingAlone >= 0 && seat == (s.GoingAlone+2)%4
}

// recollect scores the finished hand (when trump was named), returns every
// card to the deck, and advances the dealer for the next hand.
func (s *Session) recollect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseRecollect

	if s.Trump != SuitNone {
		s.scoreHandLocked()
	}

	for _, h := range s.Hands {
		for _, tr := range h.Tricks {
			s.Deck.Add(tr...)
		}
		s.Deck.Add(h.Stack...)
		h.ResetHand()
	}
	s.Deck.Add(s.Kitty...)
	s.Kitty.Reset()
	s.Trick.Reset()

	s.TrickNum = 0
	s.Trump = SuitNone
	s.Maker = -1
	s.GoingAlone = -1
	s.Dealer = (s.Dealer + 1) % 4
	for i := range s.ready {
		s.ready[i] = false
	}
	s.notifyLocked()
}

// scoreHandLocked applies the points table: makers score 1 for winning the
// hand, 2 for a sweep, 4 for a lone sweep; a euchre gives the defenders 2.
func (s *Session) scoreHandLocked() {
	makerTeamA := s.Maker%2 == 0
	makerTricks := 0
	for _, h := range s.Hands {
		if (h.Seat%2 == 0) == makerTeamA {
			makerTricks += len(h.Tricks)
		}
	}

	// the lone-sweep bonus goes to the making partnership whenever either
	// of its seats played alone
	makerAlone := s.GoingAlone >= 0 && s.GoingAlone%2 == s.Maker%2

	points := 0
	toMakers := true
	switch {
	case makerTricks == 5 && makerAlone:
		points = 4
	case makerTricks == 5:
		points = 2
	case makerTricks >= 3:
		points = 1
	default:
		points = 2
		toMakers = false
	}

	team := "A"
	if toMakers == makerTeamA {
		s.ScoreA += points
	} else {
		s.ScoreB += points
		team = "B"
	}
	log.Printf("euchre: hand scored %d for team %s (maker seat %d took %d tricks)",
		points, team, s.Maker, makerTricks)
}
