package netsync

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"blobarena/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// conn is one mirrored client session
type conn struct {
	id string
	ws *websocket.Conn

	mu     sync.Mutex // protects ws writes and closed
	closed bool
}

func (c *conn) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(websocket.BinaryMessage, data)
}

func (c *conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// Hub relays player snapshots between clients. It never simulates: every
// connection owns the state stored under its ID and the hub rebroadcasts the
// whole map on a fixed cadence.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*conn
	states map[string]PlayerState

	interval time.Duration
}

// NewHub creates an empty hub broadcasting at BroadcastRate
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[string]*conn),
		states:   make(map[string]PlayerState),
		interval: time.Second / BroadcastRate,
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// States returns a copy of every stored player state
func (h *Hub) States() map[string]PlayerState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]PlayerState, len(h.states))
	for id, st := range h.states {
		out[id] = st
	}
	return out
}

// ServeHTTP upgrades the request, sends the client its ID and reads state
// frames until the connection closes
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &conn{id: uuid.NewString(), ws: ws}
	welcome, err := Encode(Envelope{Type: FrameWelcome, ID: c.id})
	if err == nil {
		err = c.send(welcome)
	}
	if err != nil {
		logger.Log.WithError(err).WithField("conn", c.id).Warn("welcome failed")
		c.close()
		return
	}

	h.mu.Lock()
	h.conns[c.id] = c
	h.states[c.id] = PlayerState{ID: c.id}
	total := len(h.conns)
	h.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"conn":  c.id,
		"total": total,
	}).Info("mirror client connected")

	h.readLoop(c)
}

func (h *Hub) readLoop(c *conn) {
	defer h.remove(c)

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).WithField("conn", c.id).Warn("mirror read error")
			}
			return
		}

		env, err := Decode(raw)
		if err != nil || env.Type != FrameState || env.State == nil {
			logger.Log.WithField("conn", c.id).Debug("ignoring malformed frame")
			continue
		}

		// A client may only publish under its own ID
		st := *env.State
		st.ID = c.id
		h.mu.Lock()
		h.states[c.id] = st
		h.mu.Unlock()
	}
}

func (h *Hub) remove(c *conn) {
	c.close()
	h.mu.Lock()
	delete(h.conns, c.id)
	delete(h.states, c.id)
	total := len(h.conns)
	h.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"conn":  c.id,
		"total": total,
	}).Info("mirror client disconnected")
}

// Run broadcasts snapshots until ctx is cancelled
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := h.Broadcast(); err != nil {
				return err
			}
		}
	}
}

// Broadcast sends the current snapshot to every client once
func (h *Hub) Broadcast() error {
	h.mu.RLock()
	if len(h.conns) == 0 {
		h.mu.RUnlock()
		return nil
	}
	snapshot := make(map[string]PlayerState, len(h.states))
	for id, st := range h.states {
		snapshot[id] = st
	}
	targets := make([]*conn, 0, len(h.conns))
	for _, c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	data, err := Encode(Envelope{Type: FrameSnapshot, Snapshot: snapshot})
	if err != nil {
		return fmt.Errorf("broadcast: %w", err)
	}
	for _, c := range targets {
		if err := c.send(data); err != nil {
			logger.Log.WithError(err).WithField("conn", c.id).Debug("snapshot send failed")
		}
	}
	return nil
}
