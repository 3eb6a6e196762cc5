package netsync

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"blobarena/game"
)

// DefaultPath is the websocket endpoint served by the hub
const DefaultPath = "/ws"

// BroadcastRate is how many snapshots per second the hub sends
const BroadcastRate = 60

// Frame types. Every frame is a msgpack encoded Envelope.
const (
	FrameWelcome  = "w" // server -> client, carries the assigned ID
	FrameState    = "s" // client -> server, carries one PlayerState
	FrameSnapshot = "p" // server -> client, carries every known PlayerState
)

// BlobState is one circle of a mirrored player
type BlobState struct {
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
	Size float64 `msgpack:"s"`
}

// PlayerState is the non-authoritative snapshot a client publishes about its
// local player
type PlayerState struct {
	ID    string      `msgpack:"id"`
	X     float64     `msgpack:"x"`
	Y     float64     `msgpack:"y"`
	Size  float64     `msgpack:"sz"`
	Color [4]uint8    `msgpack:"c"`
	Blobs []BlobState `msgpack:"b"`
}

// Envelope is the single wire message; only the fields of Type are set
type Envelope struct {
	Type     string                 `msgpack:"t"`
	ID       string                 `msgpack:"id,omitempty"`
	State    *PlayerState           `msgpack:"st,omitempty"`
	Snapshot map[string]PlayerState `msgpack:"ps,omitempty"`
}

// Encode serializes an envelope
func Encode(env Envelope) ([]byte, error) {
	data, err := msgpack.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("encode %q frame: %w", env.Type, err)
	}
	return data, nil
}

// Decode parses an envelope
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode frame: %w", err)
	}
	return env, nil
}

// StateOf captures a player for publishing
func StateOf(p *game.Player) PlayerState {
	circles := p.CollisionCircles()
	blobs := make([]BlobState, len(circles))
	for i, c := range circles {
		blobs[i] = BlobState{X: c.Center.X, Y: c.Center.Y, Size: c.Radius}
	}
	pos := p.Position()
	return PlayerState{
		ID:    p.ID,
		X:     pos.X,
		Y:     pos.Y,
		Size:  p.Size(),
		Color: [4]uint8{p.Color.R, p.Color.G, p.Color.B, p.Color.A},
		Blobs: blobs,
	}
}
