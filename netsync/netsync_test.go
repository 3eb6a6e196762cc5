package netsync

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"blobarena/game"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
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

func TestHubStoresPublishedState(t *testing.T) {
	hub, url := startHub(t)

	m, err := Dial(url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer m.Close()
	if m.ID == "" {
		t.Fatalf("mirror got no ID")
	}

	if err := m.Publish(PlayerState{ID: "spoofed", X: 5, Y: 7, Size: 40}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	waitFor(t, "state to reach the hub", func() bool {
		st, ok := hub.States()[m.ID]
		return ok && st.X == 5 && st.Y == 7
	})
	if _, ok := hub.States()["spoofed"]; ok {
		t.Fatalf("client published under a foreign ID")
	}
}

func TestBroadcastReachesOtherClients(t *testing.T) {
	hub, url := startHub(t)

	a, err := Dial(url)
	if err != nil {
		t.Fatalf("dial a: %v", err)
	}
	defer a.Close()
	b, err := Dial(url)
	if err != nil {
		t.Fatalf("dial b: %v", err)
	}
	defer b.Close()

	if err := a.Publish(PlayerState{X: 100, Y: 200, Size: 50}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	waitFor(t, "hub to store a", func() bool { return hub.States()[a.ID].Size == 50 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	waitFor(t, "b to see a", func() bool {
		for _, st := range b.Remote() {
			if st.ID == a.ID && st.X == 100 && st.Size == 50 {
				return true
			}
		}
		return false
	})
	waitFor(t, "a to see b", func() bool {
		remote := a.Remote()
		return len(remote) == 1 && remote[0].ID == b.ID
	})
}

func TestDisconnectRemovesState(t *testing.T) {
	hub, url := startHub(t)

	m, err := Dial(url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, "registration", func() bool { return hub.Count() == 1 })

	id := m.ID
	m.Close()
	waitFor(t, "cleanup", func() bool { return hub.Count() == 0 })
	if _, ok := hub.States()[id]; ok {
		t.Fatalf("state of a closed connection is still stored")
	}
}

func TestHubIgnoresMalformedFrames(t *testing.T) {
	hub, url := startHub(t)

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	if _, _, err := ws.ReadMessage(); err != nil {
		t.Fatalf("read welcome: %v", err)
	}

	if err := ws.WriteMessage(websocket.BinaryMessage, []byte{0xc1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	frame, err := Encode(Envelope{Type: FrameState, State: &PlayerState{X: 9}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, "valid frame after garbage", func() bool {
		for _, st := range hub.States() {
			if st.X == 9 {
				return true
			}
		}
		return false
	})
}

func TestStateOfPlayer(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Seed = 1
	cat := game.NewCatalog(cfg)
	p := game.NewPlayer("p1", game.Vec2{X: 100, Y: 200}, cat.Palette()[2], cfg, cfg.NewRand())
	p.Split()

	st := StateOf(p)
	if st.ID != "p1" || len(st.Blobs) != p.BlobCount() {
		t.Fatalf("state id=%q blobs=%d, want p1 and %d", st.ID, len(st.Blobs), p.BlobCount())
	}
	var sum float64
	for _, b := range st.Blobs {
		sum += b.Size
	}
	if sum != st.Size || st.Size != p.Size() {
		t.Fatalf("blob sizes sum to %v, state size %v, player size %v", sum, st.Size, p.Size())
	}
	if st.Color != [4]uint8{0, 0, 255, 255} {
		t.Fatalf("color = %v", st.Color)
	}
}
