package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/polyshot/internal/canvas"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != want {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", h.Clients(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestBroadcastReachesClients(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	a, b := dial(t, srv), dial(t, srv)
	waitClients(t, h, 2)

	h.Publish("addObject", canvas.Props{ID: "p1", Type: canvas.KindPolygon, Fill: "rgba(255, 0, 0, 0.5)"})
	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		if msg.Type != "addObject" || msg.Object.ID != "p1" || msg.Object.Fill != "rgba(255, 0, 0, 0.5)" {
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestSnapshotSentOnConnect(t *testing.T) {
	h := NewHub(WithSnapshot(func() []canvas.Props {
		return []canvas.Props{{ID: "old", Type: canvas.KindPolygon}}
	}))
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	msg := read(t, conn)
	if msg.Type != TypeSnapshot || msg.Object.ID != "old" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestSnapshotLargerThanSendBuffer(t *testing.T) {
	const n = sendBuffer + 36
	h := NewHub(WithSnapshot(func() []canvas.Props {
		props := make([]canvas.Props, n)
		for i := range props {
			props[i] = canvas.Props{ID: fmt.Sprintf("p%d", i), Type: canvas.KindPolygon}
		}
		return props
	}))
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	for i := 0; i < n; i++ {
		msg := read(t, conn)
		if want := fmt.Sprintf("p%d", i); msg.Type != TypeSnapshot || msg.Object.ID != want {
			t.Fatalf("frame %d = %+v, want snapshot of %s", i, msg, want)
		}
	}
}

func TestEventDuringSnapshotIsDelivered(t *testing.T) {
	var h *Hub
	h = NewHub(WithSnapshot(func() []canvas.Props {
		// An edit landing while the snapshot is being built.
		h.Publish("addObject", canvas.Props{ID: "late", Type: canvas.KindPolygon})
		return []canvas.Props{{ID: "old", Type: canvas.KindPolygon}}
	}))
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	if msg := read(t, conn); msg.Type != TypeSnapshot || msg.Object.ID != "old" {
		t.Fatalf("first frame = %+v", msg)
	}
	if msg := read(t, conn); msg.Type != "addObject" || msg.Object.ID != "late" {
		t.Fatalf("second frame = %+v", msg)
	}
}

func TestDisconnectDropsClient(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	conn := dial(t, srv)
	waitClients(t, h, 1)
	conn.Close()
	waitClients(t, h, 0)
	h.Publish("objectRemoved", canvas.Props{ID: "gone"})
}

func TestCloseDisconnects(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv)
	waitClients(t, h, 1)
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to close")
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestFollowReceivesEventsUntilClose(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()

	got := make(chan Message, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Follow(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"), func(m Message) { got <- m })
	}()
	waitClients(t, h, 1)
	h.Publish("addObject", canvas.Props{ID: "p1"})
	select {
	case m := <-got:
		if m.Object.ID != "p1" {
			t.Fatalf("unexpected message %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message")
	}
	h.Close()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("follow: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not return")
	}
}

func TestFollowStopsOnCancel(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- Follow(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), func(Message) {})
	}()
	waitClients(t, h, 1)
	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not return")
	}
}
