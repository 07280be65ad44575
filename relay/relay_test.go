package relay

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestRelay(t *testing.T) (*Relay, string) {
	t.Helper()
	r := New()
	srv := httptest.NewServer(http.HandlerFunc(r.HandleWS))
	t.Cleanup(srv.Close)
	return r, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, c *websocket.Conn, msg string) {
	t.Helper()
	if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatal(err)
	}
}

func readWithin(t *testing.T, c *websocket.Conn, d time.Duration) (string, error) {
	t.Helper()
	c.SetReadDeadline(time.Now().Add(d))
	_, data, err := c.ReadMessage()
	return string(data), err
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBroadcastWithinRoom(t *testing.T) {
	r, url := newTestRelay(t)
	c1 := dial(t, url)
	c2 := dial(t, url)

	send(t, c1, `{"methodID":"#connect","roomID":"alpha"}`)
	waitFor(t, "c1 to join", func() bool { return r.RoomSize("alpha") == 1 })
	send(t, c2, `{"methodID":"#connect","roomID":"alpha"}`)
	waitFor(t, "c2 to join", func() bool { return r.RoomSize("alpha") == 2 })

	// c2's join frame fans out to c1
	if got, err := readWithin(t, c1, time.Second); err != nil || !strings.Contains(got, "#connect") {
		t.Fatalf("c1 read = %q, %v", got, err)
	}

	payload := `{"methodID":"phaseReady","seatID":1,"roomID":"alpha"}`
	send(t, c2, payload)
	if got, err := readWithin(t, c1, time.Second); err != nil || got != payload {
		t.Fatalf("c1 read = %q, %v; want the raw frame back", got, err)
	}

	// no loopback requested: the sender stays silent
	if got, err := readWithin(t, c2, 200*time.Millisecond); err == nil {
		t.Fatalf("c2 unexpectedly received %q", got)
	}
}

func TestLoopbackEchoesToSender(t *testing.T) {
	r, url := newTestRelay(t)
	c1 := dial(t, url)

	send(t, c1, `{"methodID":"#connect","roomID":"solo"}`)
	waitFor(t, "join", func() bool { return r.RoomSize("solo") == 1 })

	payload := `{"methodID":"phaseReady","seatID":0,"roomID":"solo","loopback":true}`
	send(t, c1, payload)
	if got, err := readWithin(t, c1, time.Second); err != nil || got != payload {
		t.Fatalf("loopback read = %q, %v", got, err)
	}
}

func TestRoomIsolation(t *testing.T) {
	r, url := newTestRelay(t)
	c1 := dial(t, url)
	c3 := dial(t, url)

	send(t, c1, `{"methodID":"#connect","roomID":"alpha"}`)
	send(t, c3, `{"methodID":"#connect","roomID":"beta"}`)
	waitFor(t, "both rooms", func() bool { return r.Rooms() == 2 })

	send(t, c1, `{"methodID":"phaseReady","seatID":0,"roomID":"alpha"}`)
	if got, err := readWithin(t, c3, 200*time.Millisecond); err == nil {
		t.Fatalf("beta member received alpha traffic: %q", got)
	}
}

func TestRoomSwitchFollowsTraffic(t *testing.T) {
	r, url := newTestRelay(t)
	c1 := dial(t, url)

	send(t, c1, `{"methodID":"#connect","roomID":"alpha"}`)
	waitFor(t, "alpha join", func() bool { return r.RoomSize("alpha") == 1 })

	send(t, c1, `{"methodID":"#connect","roomID":"beta"}`)
	waitFor(t, "beta join", func() bool { return r.RoomSize("beta") == 1 })
	if r.RoomSize("alpha") != 0 {
		t.Error("empty alpha room should be gone")
	}
}

func TestByeClosesGracefully(t *testing.T) {
	r, url := newTestRelay(t)
	c1 := dial(t, url)

	send(t, c1, `{"methodID":"#connect","roomID":"alpha"}`)
	waitFor(t, "join", func() bool { return r.Connections() == 1 })

	send(t, c1, "BYE")
	_, err := readWithin(t, c1, time.Second)
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected a normal close, got %v", err)
	}
	waitFor(t, "cleanup", func() bool { return r.Rooms() == 0 && r.Connections() == 0 })
}

func TestPruneOnDisconnect(t *testing.T) {
	r, url := newTestRelay(t)
	c1 := dial(t, url)
	c2 := dial(t, url)

	send(t, c1, `{"methodID":"#connect","roomID":"alpha"}`)
	send(t, c2, `{"methodID":"#connect","roomID":"alpha"}`)
	waitFor(t, "both joined", func() bool { return r.RoomSize("alpha") == 2 })

	c2.Close()
	waitFor(t, "prune", func() bool { return r.RoomSize("alpha") == 1 })
}

func TestUnparseableFrameDropped(t *testing.T) {
	r, url := newTestRelay(t)
	c1 := dial(t, url)
	c2 := dial(t, url)

	send(t, c1, `{"methodID":"#connect","roomID":"alpha"}`)
	send(t, c2, `{"methodID":"#connect","roomID":"alpha"}`)
	waitFor(t, "both joined", func() bool { return r.RoomSize("alpha") == 2 })
	if _, err := readWithin(t, c1, time.Second); err != nil {
		t.Fatal(err)
	}

	send(t, c2, "{not json")
	if got, err := readWithin(t, c1, 200*time.Millisecond); err == nil {
		t.Fatalf("garbage frame was relayed: %q", got)
	}
	// the connection survives the bad frame
	send(t, c2, `{"methodID":"phaseReady","seatID":1,"roomID":"alpha"}`)
	if _, err := readWithin(t, c1, time.Second); err != nil {
		t.Fatalf("relay dropped the connection after a bad frame: %v", err)
	}
}
