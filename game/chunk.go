package game

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"blobarena/logger"
)

// Chunk is a fixed cell of the world grid. It owns the food and dropped
// weapons located inside it and only interacts with the entities handed to
// Update.
type Chunk struct {
	// Top-left corner, aligned to ChunkSize
	position Vec2
	gridX    int
	gridY    int

	food    []Food
	weapons []*Weapon

	cfg     Config
	catalog *Catalog
	rng     *rand.Rand
}

// NewChunk creates an empty chunk at grid coordinates (gridX, gridY)
func NewChunk(gridX, gridY int, cfg Config, catalog *Catalog, rng *rand.Rand) *Chunk {
	return &Chunk{
		position: Vec2{float64(gridX) * cfg.ChunkSize, float64(gridY) * cfg.ChunkSize},
		gridX:    gridX,
		gridY:    gridY,
		food:     make([]Food, 0, cfg.MaxFoodPerChunk),
		cfg:      cfg,
		catalog:  catalog,
		rng:      rng,
	}
}

// Position returns the chunk's top-left corner
func (c *Chunk) Position() Vec2 {
	return c.position
}

// GridPos returns the chunk's grid coordinates
func (c *Chunk) GridPos() (int, int) {
	return c.gridX, c.gridY
}

// Bounds returns the area covered by the chunk
func (c *Chunk) Bounds() Bounds {
	return Bounds{TopLeft: c.position, Width: c.cfg.ChunkSize, Height: c.cfg.ChunkSize}
}

// Food returns the food currently in the chunk. The slice must not be modified.
func (c *Chunk) Food() []Food {
	return c.food
}

// Weapons returns the dropped weapons in the chunk
func (c *Chunk) Weapons() []*Weapon {
	return c.weapons
}

// ContainsPlayer reports whether the player's aggregate position lies inside
// the chunk, edges included
func (c *Chunk) ContainsPlayer(p *Player) bool {
	return c.containsPoint(p.Position())
}

func (c *Chunk) containsPoint(v Vec2) bool {
	return v.X >= c.position.X && v.X <= c.position.X+c.cfg.ChunkSize &&
		v.Y >= c.position.Y && v.Y <= c.position.Y+c.cfg.ChunkSize
}

// RandomPos returns a uniformly random point inside the chunk
func (c *Chunk) RandomPos() Vec2 {
	return Vec2{
		X: c.position.X + c.rng.Float64()*c.cfg.ChunkSize,
		Y: c.position.Y + c.rng.Float64()*c.cfg.ChunkSize,
	}
}

// AddWeapon drops a weapon into the chunk
func (c *Chunk) AddWeapon(w *Weapon) {
	c.weapons = append(c.weapons, w)
}

// SpawnFood adds up to n food items without exceeding MaxFoodPerChunk
func (c *Chunk) SpawnFood(n int) {
	for i := 0; i < n && len(c.food) < c.cfg.MaxFoodPerChunk; i++ {
		radius := c.cfg.FoodMinRadius + c.rng.Intn(c.cfg.FoodMaxRadius-c.cfg.FoodMinRadius+1)
		c.food = append(c.food, Food{
			Position: c.RandomPos(),
			Radius:   float64(radius),
			Color:    c.catalog.RandomColor(c.rng),
		})
	}
}

// Update runs one frame of chunk-local interactions:
// blobs eat food, enemies eat what blobs left, nearby food drifts toward
// blobs, one weapon may be picked up, and one food may respawn.
// Food goes to the first blob (player order, then blob order) that overlaps
// it, then to the first overlapping enemy.
func (c *Chunk) Update(players []*Player, enemies []*Enemy, respawn bool) {
	eaten := make(map[int]struct{})

	for i := range c.food {
		f := &c.food[i]
		fc := f.CollisionCircle()

		if c.feedPlayers(players, fc, f.Radius) || c.feedEnemies(enemies, fc, f.Radius) {
			eaten[i] = struct{}{}
			continue
		}
		c.attract(players, f)
	}
	c.food = removeIndices(c.food, eaten)

	c.pickup(players)

	if respawn && len(c.food) < c.cfg.MaxFoodPerChunk {
		c.SpawnFood(1)
	}
}

func (c *Chunk) feedPlayers(players []*Player, fc Circle, radius float64) bool {
	for _, p := range players {
		for bi := 0; bi < p.BlobCount(); bi++ {
			b := p.Blob(bi)
			if b.CollisionCircle().Overlaps(fc) {
				b.Eat(radius)
				return true
			}
		}
	}
	return false
}

func (c *Chunk) feedEnemies(enemies []*Enemy, fc Circle, radius float64) bool {
	for _, e := range enemies {
		if e.CollisionCircle().Overlaps(fc) {
			e.Eat(radius)
			return true
		}
	}
	return false
}

// attract moves food toward the first blob within the attraction radius by a
// fixed distance, never overshooting the blob centre
func (c *Chunk) attract(players []*Player, f *Food) {
	reach := Circle{Center: f.Position, Radius: c.cfg.FoodAttractionRadius}
	for _, p := range players {
		for bi := 0; bi < p.BlobCount(); bi++ {
			b := p.Blob(bi)
			if !reach.Overlaps(b.CollisionCircle()) {
				continue
			}
			d := b.Position.Sub(f.Position)
			dist := d.Len()
			if dist == 0 {
				return
			}
			step := c.cfg.FoodAttraction
			if step > dist {
				step = dist
			}
			f.Position = f.Position.Add(d.Scale(step / dist))
			return
		}
	}
}

// pickup hands at most one weapon to a player that asked for it and holds none
func (c *Chunk) pickup(players []*Player) {
	for _, p := range players {
		if p.weapon != nil || !p.wantsPickup {
			continue
		}
		circles := p.CollisionCircles()
		for wi, w := range c.weapons {
			wc := w.CollisionCircle(c.cfg.WeaponPickupRadius)
			for _, bc := range circles {
				if !bc.Overlaps(wc) {
					continue
				}
				c.weapons = append(c.weapons[:wi], c.weapons[wi+1:]...)
				p.weapon = w
				w.Position = p.Position()
				logger.Log.WithFields(logrus.Fields{
					"player": p.ID,
					"weapon": w.Kind.String(),
					"ammo":   w.Ammo(),
				}).Debug("weapon picked up")
				return
			}
		}
	}
}

// removeIndices deletes the marked indices in descending order so earlier
// indices stay valid while deleting
func removeIndices[T any](s []T, marked map[int]struct{}) []T {
	if len(marked) == 0 {
		return s
	}
	idx := make([]int, 0, len(marked))
	for i := range marked {
		if i >= 0 && i < len(s) {
			idx = append(idx, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))
	for _, i := range idx {
		s = append(s[:i], s[i+1:]...)
	}
	return s
}
