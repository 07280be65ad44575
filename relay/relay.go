// Package relay is the room-keyed fan-out server. It never parses game
// semantics: each frame is rebroadcast byte-for-byte to the other members
// of the room named in the frame.
package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 15 * time.Second
	idleWait   = 45 * time.Second
)

// frameHeader is the only slice of the envelope the relay reads.
type frameHeader struct {
	Room     string `json:"roomID"`
	Loopback bool   `json:"loopback"`
}

type conn struct {
	ws *websocket.Conn
	mu sync.Mutex // guards writes

	// room is only touched from the connection's own read goroutine
	room string
}

func (c *conn) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(messageType, data)
}

// Relay tracks which connections are in which room. Membership follows the
// traffic: a frame's roomID moves its sender into that room.
type Relay struct {
	mu       sync.Mutex
	rooms    map[string]map[*conn]bool
	upgrader websocket.Upgrader
}

// New returns an empty relay.
func New() *Relay {
	return &Relay{
		rooms: make(map[string]map[*conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Rooms returns the number of occupied rooms.
func (r *Relay) Rooms() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Connections returns the total connection count across rooms.
func (r *Relay) Connections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, members := range r.rooms {
		n += len(members)
	}
	return n
}

// RoomSize returns the member count of one room.
func (r *Relay) RoomSize(room string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[room])
}

// HandleWS upgrades the request and serves the connection until it says
// goodbye or its transport fails.
func (r *Relay) HandleWS(w http.ResponseWriter, req *http.Request) {
	ws, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("relay: upgrade: %v", err)
		return
	}
	c := &conn{ws: ws}
	go r.keepalive(c)
	r.serve(c)
}

func (r *Relay) serve(c *conn) {
	defer func() {
		r.remove(c)
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(idleWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(idleWait))
		return nil
	})

	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("relay: read: %v", err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(idleWait))

		if strings.EqualFold(strings.TrimSpace(string(data)), "bye") {
			c.write(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			return
		}

		var hdr frameHeader
		if err := json.Unmarshal(data, &hdr); err != nil {
			log.Printf("relay: unparseable frame dropped: %v", err)
			continue
		}
		if hdr.Room != "" && hdr.Room != c.room {
			r.joinRoom(c, hdr.Room)
		}
		if c.room == "" {
			continue
		}
		r.broadcast(c, hdr.Loopback, messageType, data)
	}
}

func (r *Relay) keepalive(c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		if err := c.write(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

func (r *Relay) joinRoom(c *conn, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(c)
	if r.rooms[room] == nil {
		r.rooms[room] = make(map[*conn]bool)
	}
	r.rooms[room][c] = true
	c.room = room
}

func (r *Relay) remove(c *conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(c)
}

func (r *Relay) leaveLocked(c *conn) {
	for room, members := range r.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(r.rooms, room)
			}
		}
	}
}

// broadcast fans the raw frame out to the sender's room. The sender only
// hears it back when the frame asked for loopback. Members whose writes
// fail are pruned on the spot.
func (r *Relay) broadcast(sender *conn, loopback bool, messageType int, data []byte) {
	r.mu.Lock()
	members := make([]*conn, 0, len(r.rooms[sender.room]))
	for m := range r.rooms[sender.room] {
		if m == sender && !loopback {
			continue
		}
		members = append(members, m)
	}
	r.mu.Unlock()

	for _, m := range members {
		if err := m.write(messageType, data); err != nil {
			log.Printf("relay: write: %v", err)
			r.remove(m)
			m.ws.Close()
		}
	}
}
