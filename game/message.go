package game

import "context"

// Method names a message on the wire. Phase methods carry one seat's
// decision for that phase; the rest are connection housekeeping.
type Method string

const (
	MethodConnect    Method = "#connect"
	MethodAIOverride Method = "aiOverride"
	MethodClaimHost  Method = "claimHost"

	MethodReady       Method = "phaseReady"
	MethodShuffle     Method = "phaseShuffle"
	MethodCut         Method = "phaseCut"
	MethodDeal        Method = "phaseDeal"
	MethodPickItUp    Method = "phasePickItUp"
	MethodSelectTrump Method = "phaseSelectTrump"
	MethodGoAlone     Method = "phaseGoAlone"
	MethodPlay        Method = "phasePlay"
)

// SeatAny marks an unset seat field; the sender's own seat is stamped in
// before an envelope leaves the device.
const SeatAny = -1

// Envelope is the single message shape shared by every peer and the relay,
// one JSON object per frame. Only the fields a method needs are populated.
//
// Origin is the sending client's connection token. A client drops any
// received envelope whose origin matches its own, which is what keeps
// loopback delivery from double-applying.
//
// Request marks an envelope that asks a seat's owner to decide; the owner
// answers with the same method and Request unset. Applied marks a local
// echo published after the decision has been folded into session state.
type Envelope struct {
	Method   Method `json:"methodID"`
	Seat     int    `json:"seatID"`
	AltSeat  int    `json:"altSeatID,omitempty"`
	Room     string `json:"roomID,omitempty"`
	Loopback bool   `json:"loopback,omitempty"`
	Origin   string `json:"origin,omitempty"`
	Request  bool   `json:"request,omitempty"`
	Applied  bool   `json:"applied,omitempty"`
	Bool     bool   `json:"boolean,omitempty"`
	Text     string `json:"string,omitempty"`
	Card     *Card  `json:"card,omitempty"`
	Stack    Stack  `json:"stack,omitempty"`
}

// Match is a correlation key for awaiting a specific envelope.
// Seat SeatAny matches any seat; nil pointer predicates are skipped.
type Match struct {
	Method  Method
	Seat    int
	Request bool
	Applied bool
	Bool    *bool
	AltSeat *int
}

// Matches reports whether the envelope satisfies the key.
func (m Match) Matches(e Envelope) bool {
	if m.Method != "" && e.Method != m.Method {
		return false
	}
	if m.Seat != SeatAny && e.Seat != m.Seat {
		return false
	}
	if e.Request != m.Request || e.Applied != m.Applied {
		return false
	}
	if m.Bool != nil && e.Bool != *m.Bool {
		return false
	}
	if m.AltSeat != nil && e.AltSeat != *m.AltSeat {
		return false
	}
	return true
}

// Transport moves envelopes between this session and its peers. Publish
// delivers only to local subscribers; Send goes out over the network.
// A nil or disconnected transport means single-device play.
type Transport interface {
	Connected() bool
	Send(Envelope) error
	Publish(Envelope)
	Await(ctx context.Context, req Envelope, m Match) (Envelope, error)
}

// Prompter collects decisions from a human at this device.
type Prompter interface {
	ShuffleChoice(ctx context.Context, strategies []string) (string, error)
	CutChoice(ctx context.Context) (bool, error)
	PickUpChoice(ctx context.Context, hand Stack, exposed Card) (bool, error)
	TrumpChoice(ctx context.Context, hand Stack) (Suit, error)
	GoAloneChoice(ctx context.Context, hand Stack, trump Suit) (bool, error)
	CardChoice(ctx context.Context, hand, legal Stack) (Card, error)
}
