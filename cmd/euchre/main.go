package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"euchre/client"
	"euchre/game"
	"euchre/store"
)

func main() {
	var (
		server    = flag.String("server", "", "relay websocket URL (e.g. ws://localhost:8080/ws); empty plays offline")
		room      = flag.String("room", "", "room to join; empty generates one")
		seat      = flag.Int("seat", 0, "seat this device controls (0-3)")
		human     = flag.Bool("human", false, "prompt a human for this seat instead of the AI")
		open      = flag.Bool("open", false, "show all four hands")
		dealer    = flag.Int("dealer", 0, "first dealer seat")
		seed      = flag.Int64("seed", 0, "random seed; 0 uses the clock")
		shuffle   = flag.String("shuffle", "", "pin the shuffle strategy; empty picks at random")
		delay     = flag.Duration("delay", 1200*time.Millisecond, "pause after each trick")
		dbPath    = flag.String("db", "euchre.db", "deck database path")
		deckName  = flag.String("deck", "", "load this saved deck for the first hand")
		saveDeck  = flag.String("save-deck", "", "shuffle a fresh deck, save it under this name, and exit")
		listDecks = flag.Bool("list-decks", false, "list saved decks and exit")
	)
	flag.Parse()

	if *listDecks || *saveDeck != "" {
		if err := runDeckOps(*dbPath, *listDecks, *saveDeck, *shuffle, *seed); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := game.Config{
		Seat:            *seat,
		Room:            *room,
		Dealer:          *dealer,
		Seed:            *seed,
		TrickDelay:      *delay,
		OpenHand:        *open,
		ShuffleStrategy: *shuffle,
		OnUpdate:        newRenderer(os.Stdout),
	}
	if *human {
		cfg.Prompter = &consolePrompter{in: bufio.NewScanner(os.Stdin)}
	}

	if *server != "" {
		if cfg.Room == "" {
			cfg.Room = fmt.Sprintf("table-%04d", rand.New(rand.NewSource(time.Now().UnixNano())).Intn(10000))
		}
		log.Printf("joining room %q on %s as seat %d", cfg.Room, *server, *seat)
		cli, err := client.Dial(ctx, *server, cfg.Room)
		if err != nil {
			log.Fatalf("dial relay: %v", err)
		}
		defer cli.Close()
		cli.OnClose(func(err error) {
			log.Printf("connection lost: %v", err)
			stop()
		})
		cfg.Transport = cli
	}

	sess := game.NewSession(cfg)
	if cli, ok := cfg.Transport.(*client.Client); ok {
		cli.OnMessage(func(env game.Envelope) {
			sess.Apply(env, true)
		})
		sess.Announce()
	}

	if *deckName != "" {
		if err := loadDeckInto(sess, *dbPath, *deckName); err != nil {
			log.Fatal(err)
		}
	}

	if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	a, b := sess.Scores()
	fmt.Printf("final score  team A (seats 0/2): %d  team B (seats 1/3): %d\n", a, b)
}

func runDeckOps(dbPath string, list bool, saveName, strategy string, seed int64) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if list {
		names, err := st.ListDecks()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}
	if saveName != "" {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		if strategy == "" {
			strategy = game.RandomStrategy(rng)
		}
		deck := game.NewDeck()
		deck.Shuffle(strategy, rng)
		if err := st.SaveDeck(saveName, deck.Stack); err != nil {
			return err
		}
		fmt.Printf("saved deck %q (%s shuffle)\n", saveName, strategy)
	}
	return nil
}

func loadDeckInto(sess *game.Session, dbPath, name string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	deck, err := st.LoadDeck(name)
	if err != nil {
		return err
	}
	log.Printf("loaded deck %q; use -shuffle none to replay it exactly", name)
	return sess.LoadDeck(deck)
}

// newRenderer prints phase transitions, table plays, and scores as the
// session reports them.
func newRenderer(out *os.File) func(game.Snapshot) {
	last := game.PhaseIdle
	return func(snap game.Snapshot) {
		if snap.Phase != last {
			last = snap.Phase
			switch snap.Phase {
			case game.PhaseDeal:
				fmt.Fprintf(out, "== seat %d deals ==\n", snap.Dealer)
			case game.PhasePlay:
				lone := ""
				if snap.GoingAlone >= 0 {
					lone = fmt.Sprintf(", seat %d alone", snap.GoingAlone)
				}
				fmt.Fprintf(out, "== trump %s, maker seat %d%s ==\n", snap.Trump, snap.Maker, lone)
				fmt.Fprintf(out, "your hand: %v\n", snap.Hand)
			case game.PhaseRecollect:
				fmt.Fprintf(out, "score  A: %d  B: %d\n", snap.ScoreA, snap.ScoreB)
			}
		}
		if snap.Phase == game.PhasePlay && len(snap.Trick) > 0 {
			fmt.Fprintf(out, "trick %d: %v\n", snap.TrickNum+1, snap.Trick)
		}
	}
}

// consolePrompter collects the human seat's decisions from stdin.
type consolePrompter struct {
	in *bufio.Scanner
}

func (p *consolePrompter) read(prompt string) string {
	fmt.Print(prompt)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

func (p *consolePrompter) yesNo(prompt string, def bool) bool {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	switch strings.ToLower(p.read(prompt + " " + hint + " ")) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

func (p *consolePrompter) ShuffleChoice(_ context.Context, strategies []string) (string, error) {
	fmt.Printf("shuffles: %s\n", strings.Join(strategies, " "))
	return p.read("shuffle (empty for random): "), nil
}

func (p *consolePrompter) CutChoice(context.Context) (bool, error) {
	return p.yesNo("cut the deck?", true), nil
}

func (p *consolePrompter) PickUpChoice(_ context.Context, hand game.Stack, exposed game.Card) (bool, error) {
	fmt.Printf("your hand: %v  exposed: %s\n", hand, exposed)
	return p.yesNo("order it up?", false), nil
}

var suitNames = map[string]game.Suit{
	"s": game.SuitSpade, "♠": game.SuitSpade,
	"h": game.SuitHeart, "♥": game.SuitHeart,
	"c": game.SuitClub, "♣": game.SuitClub,
	"d": game.SuitDiamond, "♦": game.SuitDiamond,
}

func (p *consolePrompter) TrumpChoice(_ context.Context, hand game.Stack) (game.Suit, error) {
	fmt.Printf("your hand: %v\n", hand)
	for {
		in := strings.ToLower(p.read("name trump [s/h/c/d, empty to pass]: "))
		if in == "" {
			return game.SuitNone, nil
		}
		suit, ok := suitNames[in]
		if !ok {
			fmt.Println("unrecognized suit")
			continue
		}
		return suit, nil
	}
}

func (p *consolePrompter) GoAloneChoice(_ context.Context, hand game.Stack, trump game.Suit) (bool, error) {
	fmt.Printf("your hand: %v  trump: %s\n", hand, trump)
	return p.yesNo("go alone?", false), nil
}

func (p *consolePrompter) CardChoice(_ context.Context, hand, legal game.Stack) (game.Card, error) {
	fmt.Printf("your hand: %v\n", hand)
	for i, c := range legal {
		fmt.Printf("  %d: %s\n", i, c)
	}
	for {
		in := p.read("play: ")
		i, err := strconv.Atoi(in)
		if err != nil || i < 0 || i >= len(legal) {
			fmt.Println("pick a listed number")
			continue
		}
		return legal[i], nil
	}
}
