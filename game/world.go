package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"blobarena/logger"
)

// View pairs a player with the viewport it is rendered into
type View struct {
	Player   *Player
	Viewport Viewport
}

// World owns the chunk grid. Only chunks near a player are updated each frame,
// which keeps per-frame cost independent of the world size.
type World struct {
	// Preallocated 2D grid of chunks, indexed [x][y]
	Chunks [][]*Chunk

	cfg     Config
	catalog *Catalog
	rng     *rand.Rand

	respawnTimer float64
}

// NewWorld creates the full grid and fills every chunk with food
func NewWorld(cfg Config, catalog *Catalog, rng *rand.Rand) *World {
	n := cfg.ChunksPerAxis
	chunks := make([][]*Chunk, n)
	for x := 0; x < n; x++ {
		chunks[x] = make([]*Chunk, n)
		for y := 0; y < n; y++ {
			chunks[x][y] = NewChunk(x, y, cfg, catalog, rng)
			chunks[x][y].SpawnFood(cfg.MaxFoodPerChunk)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"chunks": n * n,
		"size":   cfg.WorldSize(),
	}).Info("world built")

	return &World{
		Chunks:  chunks,
		cfg:     cfg,
		catalog: catalog,
		rng:     rng,
	}
}

// GetChunk returns the chunk at the given grid coordinates, or nil outside the grid
func (w *World) GetChunk(gridX, gridY int) *Chunk {
	if gridX < 0 || gridX >= w.cfg.ChunksPerAxis ||
		gridY < 0 || gridY >= w.cfg.ChunksPerAxis {
		return nil
	}
	return w.Chunks[gridX][gridY]
}

// AllChunks returns every chunk in grid order (x major)
func (w *World) AllChunks() []*Chunk {
	out := make([]*Chunk, 0, w.cfg.ChunksPerAxis*w.cfg.ChunksPerAxis)
	for x := range w.Chunks {
		out = append(out, w.Chunks[x]...)
	}
	return out
}

// ChunkAt returns the first chunk in grid order containing p (edges
// inclusive), or nil when p is outside the world
func (w *World) ChunkAt(p Vec2) *Chunk {
	gx := gridIndex(p.X, w.cfg.ChunkSize)
	gy := gridIndex(p.Y, w.cfg.ChunkSize)
	c := w.GetChunk(gx, gy)
	if c == nil || !c.containsPoint(p) {
		return nil
	}
	return c
}

// gridIndex maps a coordinate to its cell, preferring the lower cell when the
// coordinate sits exactly on a shared edge
func gridIndex(v, size float64) int {
	i := int(math.Floor(v / size))
	if i > 0 && float64(i)*size == v {
		i--
	}
	return i
}

// ActiveChunks returns the player's chunk followed by every chunk in a
// neighbourhood large enough to cover the viewport at the player's zoom.
// A player outside the world has no active chunks.
func (w *World) ActiveChunks(p *Player, vp Viewport) []*Chunk {
	home := w.ChunkAt(p.Position())
	if home == nil {
		return nil
	}

	zoom := p.Camera().Zoom
	horiz := int(vp.Width/(2*w.cfg.ChunkSize*zoom)) + 2
	vert := int(vp.Height/(2*w.cfg.ChunkSize*zoom)) + 2

	chunks := make([]*Chunk, 0, (2*horiz-1)*(2*vert-1))
	chunks = append(chunks, home)
	for dx := -horiz + 1; dx < horiz; dx++ {
		for dy := -vert + 1; dy < vert; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c := w.GetChunk(home.gridX+dx, home.gridY+dy); c != nil {
				chunks = append(chunks, c)
			}
		}
	}
	return chunks
}

// Update runs chunk interactions for every active chunk of every view.
// Views are processed in order and a chunk shared by two views is updated
// once, so food and weapons still go to the first match.
func (w *World) Update(views []View, enemies []*Enemy, dt float64) {
	respawn := false
	w.respawnTimer += dt
	if w.respawnTimer >= w.cfg.FoodRespawnInterval {
		w.respawnTimer = 0
		respawn = true
	}

	players := make([]*Player, 0, len(views))
	for _, v := range views {
		if !v.Player.Eliminated() {
			players = append(players, v.Player)
		}
	}

	seen := make(map[*Chunk]bool)
	for _, v := range views {
		if v.Player.Eliminated() {
			continue
		}
		for _, c := range w.ActiveChunks(v.Player, v.Viewport) {
			if seen[c] {
				continue
			}
			seen[c] = true
			c.Update(players, enemies, respawn)
		}
	}
}

// RandomChunk returns a uniformly chosen chunk
func (w *World) RandomChunk() *Chunk {
	n := w.cfg.ChunksPerAxis
	return w.Chunks[w.rng.Intn(n)][w.rng.Intn(n)]
}

// Bounds returns the full world rectangle
func (w *World) Bounds() Bounds {
	s := w.cfg.WorldSize()
	return Bounds{Width: s, Height: s}
}

// SpawnWeapon places a weapon at a random position of a random chunk
func (w *World) SpawnWeapon(wp *Weapon) {
	c := w.RandomChunk()
	wp.Position = c.RandomPos()
	c.AddWeapon(wp)
}

// DiscardWeapon returns a spent weapon to the world as a fresh copy of its
// template. A weapon without a template is a programming error.
func (w *World) DiscardWeapon(wp *Weapon) {
	fresh, ok := w.catalog.Equivalent(wp)
	if !ok {
		panic(fmt.Errorf("discard weapon: no template matches %s (fire rate %v, effect %s)",
			wp.Kind, wp.FireRate, wp.Effect.Kind))
	}
	w.SpawnWeapon(fresh)

	logger.Log.WithFields(logrus.Fields{
		"weapon": wp.Kind.String(),
		"at":     fresh.Position,
	}).Debug("weapon discarded and respawned")
}

// DropWeapon moves the player's weapon into the chunk the player stands in.
// The player cannot pick up again in the same frame.
func (w *World) DropWeapon(p *Player) {
	if p.weapon == nil {
		return
	}
	c := w.ChunkAt(p.Position())
	if c == nil {
		return
	}
	wp := p.weapon
	wp.clearBullets()
	wp.Position = p.Position()
	c.AddWeapon(wp)
	p.weapon = nil
	p.wantsPickup = false

	logger.Log.WithFields(logrus.Fields{
		"player": p.ID,
		"weapon": wp.Kind.String(),
		"ammo":   wp.Ammo(),
	}).Debug("weapon dropped")
}
