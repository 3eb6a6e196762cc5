package netsync

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gorilla/websocket"

	"blobarena/logger"
)

// Mirror is the client side of the hub. It publishes the local player and
// keeps the latest snapshot of every other client.
type Mirror struct {
	ID string

	ws *websocket.Conn

	writeMu sync.Mutex

	mu     sync.RWMutex
	remote map[string]PlayerState
	err    error

	done chan struct{}
}

// Dial connects to a hub and waits for the assigned ID
func Dial(url string) (*Mirror, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial mirror %s: %w", url, err)
	}

	_, raw, err := ws.ReadMessage()
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	env, err := Decode(raw)
	if err != nil {
		ws.Close()
		return nil, err
	}
	if env.Type != FrameWelcome || env.ID == "" {
		ws.Close()
		return nil, fmt.Errorf("expected welcome frame, got %q", env.Type)
	}

	m := &Mirror{
		ID:     env.ID,
		ws:     ws,
		remote: make(map[string]PlayerState),
		done:   make(chan struct{}),
	}
	go m.readLoop()

	logger.Log.WithField("id", m.ID).Info("connected to mirror")
	return m, nil
}

func (m *Mirror) readLoop() {
	defer close(m.done)
	for {
		_, raw, err := m.ws.ReadMessage()
		if err != nil {
			m.mu.Lock()
			m.err = err
			m.mu.Unlock()
			return
		}
		env, err := Decode(raw)
		if err != nil || env.Type != FrameSnapshot {
			continue
		}
		delete(env.Snapshot, m.ID)
		m.mu.Lock()
		m.remote = env.Snapshot
		m.mu.Unlock()
	}
}

// Publish sends the local player's state
func (m *Mirror) Publish(st PlayerState) error {
	st.ID = m.ID
	data, err := Encode(Envelope{Type: FrameState, State: &st})
	if err != nil {
		return err
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if err := m.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("publish state: %w", err)
	}
	return nil
}

// Remote returns the latest states of every other client, ordered by ID
func (m *Mirror) Remote() []PlayerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PlayerState, 0, len(m.remote))
	for _, st := range m.remote {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Err returns the error that ended the read loop, if any
func (m *Mirror) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Close sends a close frame and waits for the read loop to exit
func (m *Mirror) Close() error {
	m.writeMu.Lock()
	_ = m.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	m.writeMu.Unlock()
	err := m.ws.Close()
	<-m.done
	return err
}
