// Package feed streams shape events to websocket subscribers so another
// process can follow an annotation session as it happens.
package feed

import (
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/polyshot/internal/canvas"
)

// Message is one frame on the wire.
type Message struct {
	Type   string       `json:"type"`
	Object canvas.Props `json:"object"`
}

const (
	writeWait  = 5 * time.Second
	sendBuffer = 64
)

// ErrClosed is returned by Listen after Close.
var ErrClosed = errors.New("feed closed")

type client struct {
	conn *websocket.Conn
	send chan Message
}

// Hub fans messages out to every connected client. A slow client drops
// frames rather than stalling the caller.
type Hub struct {
	upgrader websocket.Upgrader
	snapshot func() []canvas.Props

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	done    chan struct{}
	srv     *http.Server
}

// Option configures a Hub.
type Option func(*Hub)

// WithSnapshot sends the shapes returned by fn to each new client before
// live events.
func WithSnapshot(fn func() []canvas.Props) Option {
	return func(h *Hub) { h.snapshot = fn }
}

// WithOriginCheck replaces the default same-origin policy.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(h *Hub) { h.upgrader.CheckOrigin = fn }
}

// NewHub creates an idle hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		clients:  make(map[*client]struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and keeps the connection until the peer
// goes away. The client is registered before the snapshot is taken so no
// event falls between the two; a shape may then arrive twice.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("feed upgrade from %s: %v", r.RemoteAddr, err)
		return
	}
	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("feed client connected from %s", r.RemoteAddr)

	if err := h.sendSnapshot(c); err != nil {
		log.Printf("feed snapshot to %s: %v", r.RemoteAddr, err)
		h.drop(c)
		conn.Close()
		return
	}
	go h.writeLoop(c)
	h.readLoop(c)
}

// sendSnapshot writes the snapshot straight to the connection, bypassing
// the send buffer. It runs before writeLoop so it is the only writer.
func (h *Hub) sendSnapshot(c *client) error {
	if h.snapshot == nil {
		return nil
	}
	for _, p := range h.snapshot() {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(Message{Type: TypeSnapshot, Object: p}); err != nil {
			return err
		}
	}
	return nil
}

// readLoop discards inbound frames; it exists to notice disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("feed write to %s: %v", c.conn.RemoteAddr(), err)
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.conn.Close()
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Printf("feed client %s is behind; dropping %s", c.conn.RemoteAddr(), msg.Type)
		}
	}
}

// Publish adapts Broadcast to the graphics listener signature.
func (h *Hub) Publish(event string, props canvas.Props) {
	h.Broadcast(Message{Type: event, Object: props})
}

// Listen serves the hub on addr until Close. The bound address is sent
// on ready once the listener is open.
func (h *Hub) Listen(addr string, ready chan<- net.Addr) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return h.Serve(ln, ready)
}

// Serve is Listen on an existing listener.
func (h *Hub) Serve(ln net.Listener, ready chan<- net.Addr) error {
	mux := http.NewServeMux()
	mux.Handle("/feed", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		ln.Close()
		return ErrClosed
	}
	h.srv = srv
	h.mu.Unlock()

	if ready != nil {
		ready <- ln.Addr()
	}
	log.Printf("feed listening on %s", ln.Addr())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return ErrClosed
	}
	return err
}

// Done is closed by Close.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Close disconnects every client and stops the server.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.done)
	srv := h.srv
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if srv != nil {
		return srv.Close()
	}
	return nil
}
