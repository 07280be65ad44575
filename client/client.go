// Package client maintains one device's websocket connection to a relay
// room and the local message bus layered over it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"euchre/game"
)

// ErrClosed is returned from sends after the connection has gone away.
var ErrClosed = errors.New("connection closed")

const writeWait = 10 * time.Second

// Client is a relay connection plus a local bus. Every outgoing envelope
// is stamped with the client's origin token; every incoming envelope
// carrying that token is dropped, so loopback delivery from the relay never
// double-applies. A nil Client behaves as permanently offline.
type Client struct {
	conn   *websocket.Conn
	origin string
	room   string

	writeMu sync.Mutex

	mu       sync.Mutex
	subs     map[*subscription]bool
	handlers []func(game.Envelope)
	onClose  func(error)
	closed   bool
}

type subscription struct {
	match game.Match
	ch    chan game.Envelope
}

// Dial connects to a relay's /ws endpoint and starts the read loop.
func Dial(ctx context.Context, serverURL, room string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, serverURL, nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:   conn,
		origin: uuid.NewString(),
		room:   room,
		subs:   make(map[*subscription]bool),
	}
	go c.readLoop()
	return c, nil
}

// Origin returns this connection's token.
func (c *Client) Origin() string {
	if c == nil {
		return ""
	}
	return c.origin
}

// Connected reports whether the connection is still up.
func (c *Client) Connected() bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// OnMessage registers a handler for every envelope received from the room.
func (c *Client) OnMessage(fn func(game.Envelope)) {
	c.mu.Lock()
	c.handlers = append(c.handlers, fn)
	c.mu.Unlock()
}

// OnClose registers a callback for when the connection drops.
func (c *Client) OnClose(fn func(error)) {
	c.mu.Lock()
	c.onClose = fn
	c.mu.Unlock()
}

// Send stamps the envelope with the room and origin token and writes it
// out as one frame.
func (c *Client) Send(env game.Envelope) error {
	if !c.Connected() {
		return ErrClosed
	}
	if env.Room == "" {
		env.Room = c.room
	}
	env.Origin = c.origin
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Publish delivers an envelope to local subscriptions only. It is how
// applied echoes reach Await without touching the network.
func (c *Client) Publish(env game.Envelope) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for sub := range c.subs {
		if sub.match.Matches(env) {
			select {
			case sub.ch <- env:
			default:
			}
		}
	}
}

// Await sends the request form of the envelope, then blocks for the first
// envelope satisfying the match. Offline it returns the input unchanged,
// which is what lets the phase loop run single-device.
func (c *Client) Await(ctx context.Context, req game.Envelope, m game.Match) (game.Envelope, error) {
	if !c.Connected() {
		return req, nil
	}

	sub := &subscription{match: m, ch: make(chan game.Envelope, 8)}
	c.mu.Lock()
	c.subs[sub] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.subs, sub)
		c.mu.Unlock()
	}()

	if !req.Request {
		req.Request = true
	}
	if err := c.Send(req); err != nil {
		return game.Envelope{}, err
	}

	select {
	case env := <-sub.ch:
		return env, nil
	case <-ctx.Done():
		return game.Envelope{}, ctx.Err()
	}
}

// Close says goodbye to the relay and tears the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.TextMessage, []byte("bye"))
	c.writeMu.Unlock()
	return c.conn.Close()
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.dropped(err)
			return
		}
		var env game.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("client: bad frame: %v", err)
			continue
		}
		if env.Origin == c.origin {
			continue
		}
		c.deliver(env)
	}
}

func (c *Client) deliver(env game.Envelope) {
	c.mu.Lock()
	handlers := make([]func(game.Envelope), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()
	for _, fn := range handlers {
		fn(env)
	}
	c.Publish(env)
}

func (c *Client) dropped(err error) {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	onClose := c.onClose
	c.mu.Unlock()
	c.conn.Close()
	if !already && onClose != nil {
		onClose(err)
	}
}
