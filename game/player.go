package game

import (
	"image/color"
	"math"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"blobarena/logger"
)

// Intent is the already-resolved input for one player for one frame
type Intent struct {
	// Move is the desired direction; each component is in [-1, 1]
	Move Vec2

	Split  bool
	Pickup bool
	Drop   bool
	Fire   bool

	// FireDirection aims the weapon; the zero vector reuses the last facing
	FireDirection Vec2
}

// BlobID is a stable slot in a player's blob arena
type BlobID int

// Blob is one circular mass unit of a player
type Blob struct {
	Position Vec2
	Size     float64
}

// CollisionCircle returns the blob's collision shape
func (b *Blob) CollisionCircle() Circle {
	return Circle{Center: b.Position, Radius: b.Size}
}

// Eat grows the blob by a consumed circle of radius r
func (b *Blob) Eat(r float64) {
	b.Size = grow(b.Size, r)
}

// cohere moves the blob toward centroid by at most strength*dt
func (b *Blob) cohere(centroid Vec2, strength, dt float64) {
	d := centroid.Sub(b.Position)
	dist := d.Len()
	if dist == 0 {
		return
	}
	step := math.Min(strength*dt, dist)
	b.Position = b.Position.Add(d.Scale(step / dist))
}

// separate pushes two overlapping blobs apart by half the overlap each
func separate(a, b *Blob) {
	d := b.Position.Sub(a.Position)
	dist := d.Len()
	overlap := a.Size + b.Size - dist
	if overlap <= 0 {
		return
	}

	var dir Vec2
	if dist == 0 {
		// Exactly on top of each other, separate diagonally
		dir = Vec2{math.Sqrt2 / 2, math.Sqrt2 / 2}
	} else {
		dir = d.Scale(1 / dist)
	}
	half := overlap * 0.5
	a.Position = a.Position.Sub(dir.Scale(half))
	b.Position = b.Position.Add(dir.Scale(half))
}

// Player is a cluster of blobs sharing one owner.
// Blobs live in an arena of stable slots; order lists the live slots and is
// the iteration order every rule uses.
type Player struct {
	ID    string
	Color color.RGBA

	cfg    Config
	rng    *rand.Rand
	bounds Bounds
	camera Camera

	arena []Blob
	free  []BlobID
	order []BlobID

	velocity  Vec2
	knockback Vec2
	facing    Vec2

	// Derived every frame from the blobs
	size     float64
	position Vec2

	sinceSplit float64
	hasSplit   bool

	smallest       BlobID
	smallestFrames int

	weapon      *Weapon
	wantsPickup bool
	wantsDrop   bool

	status Status
}

// NewPlayer creates a player with one blob of StartingSize at pos
func NewPlayer(id string, pos Vec2, clr color.RGBA, cfg Config, rng *rand.Rand) *Player {
	p := &Player{
		ID:       id,
		Color:    clr,
		cfg:      cfg,
		rng:      rng,
		bounds:   Bounds{Width: cfg.WorldSize(), Height: cfg.WorldSize()},
		camera:   NewCamera(),
		facing:   Vec2{1, 0},
		smallest: -1,
	}
	p.order = append(p.order, p.alloc(Blob{Position: pos, Size: cfg.StartingSize}))
	p.recompute()
	return p
}

func (p *Player) alloc(b Blob) BlobID {
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		p.arena[id] = b
		return id
	}
	p.arena = append(p.arena, b)
	return BlobID(len(p.arena) - 1)
}

func (p *Player) release(id BlobID) {
	p.arena[id] = Blob{}
	// A reused slot must not inherit the reabsorption count
	if id == p.smallest {
		p.smallest = -1
		p.smallestFrames = 0
	}
	p.free = append(p.free, id)
}

// BlobCount returns the number of live blobs
func (p *Player) BlobCount() int {
	return len(p.order)
}

// Blob returns the i-th live blob in iteration order
func (p *Player) Blob(i int) *Blob {
	return &p.arena[p.order[i]]
}

// BlobIDs returns the stable slots of the live blobs in iteration order
func (p *Player) BlobIDs() []BlobID {
	out := make([]BlobID, len(p.order))
	copy(out, p.order)
	return out
}

// CollisionCircles returns one circle per live blob in iteration order
func (p *Player) CollisionCircles() []Circle {
	circles := make([]Circle, len(p.order))
	for i, id := range p.order {
		circles[i] = p.arena[id].CollisionCircle()
	}
	return circles
}

// Eliminated reports whether the player has lost every blob
func (p *Player) Eliminated() bool {
	return len(p.order) == 0
}

// Size returns the sum of blob sizes as of the last recompute
func (p *Player) Size() float64 {
	return p.size
}

// Position returns the size-weighted centroid as of the last recompute
func (p *Player) Position() Vec2 {
	return p.position
}

// Score returns the mass gained since spawning
func (p *Player) Score() float64 {
	return p.size - p.cfg.StartingSize
}

// Camera returns the player's camera for zoom input and render transforms
func (p *Player) Camera() *Camera {
	return &p.camera
}

// Weapon returns the held weapon, or nil
func (p *Player) Weapon() *Weapon {
	return p.weapon
}

// Status implements Target
func (p *Player) Status() *Status {
	return &p.status
}

// Shrink implements Target by taking mass from the largest blob
func (p *Player) Shrink(by float64) {
	if len(p.order) == 0 {
		return
	}
	largest := p.Blob(0)
	for i := 1; i < len(p.order); i++ {
		if b := p.Blob(i); b.Size > largest.Size {
			largest = b
		}
	}
	largest.Size = math.Max(1, largest.Size-by)
	p.recompute()
}

// Update applies one frame of intent: movement, split request, weapon
// handling, cohesion, separation, reabsorption and the aggregate recompute
func (p *Player) Update(in Intent, dt float64) {
	if p.Eliminated() {
		return
	}

	p.sinceSplit += dt
	p.wantsPickup = in.Pickup
	p.wantsDrop = in.Drop

	p.move(in.Move, dt)

	if in.Split && p.canSplit() {
		p.Split()
	}

	p.cohere(dt)
	p.separate()
	p.reabsorb()

	for _, id := range p.order {
		b := &p.arena[id]
		b.Position.X = clamp(b.Position.X, p.bounds.TopLeft.X, p.bounds.TopLeft.X+p.bounds.Width)
		b.Position.Y = clamp(b.Position.Y, p.bounds.TopLeft.Y, p.bounds.TopLeft.Y+p.bounds.Height)
	}
	p.recompute()

	if p.weapon != nil {
		p.weapon.Position = p.position
		p.weapon.Update(p.bounds, dt)
		if in.Fire {
			dir := in.FireDirection
			if dir == (Vec2{}) {
				dir = p.facing
			}
			p.weapon.Fire(dir)
		}
	}

	p.status.Tick(p, dt)
}

// move integrates velocity and knockback into every blob.
// Larger players move proportionally slower.
func (p *Player) move(intent Vec2, dt float64) {
	if intent == (Vec2{}) {
		p.velocity = Vec2{}
	} else {
		p.facing = intent.Normalize()
		p.velocity.X = clamp(p.velocity.X+intent.X*p.cfg.Acceleration*dt, -p.cfg.MaxSpeed, p.cfg.MaxSpeed)
		p.velocity.Y = clamp(p.velocity.Y+intent.Y*p.cfg.Acceleration*dt, -p.cfg.MaxSpeed, p.cfg.MaxSpeed)
	}

	scale := math.Sqrt(p.cfg.StartingSize/p.size) * p.status.SpeedFactor()
	step := p.velocity.Scale(scale).Add(p.knockback).Scale(dt)
	for _, id := range p.order {
		p.arena[id].Position = p.arena[id].Position.Add(step)
	}

	p.knockback = p.knockback.Scale(math.Max(0, 1-p.cfg.KnockbackDecay*dt))
}

// Push adds a knockback impulse in px/s
func (p *Player) Push(impulse Vec2) {
	p.knockback = p.knockback.Add(impulse)
}

func (p *Player) canSplit() bool {
	return !p.hasSplit || p.sinceSplit >= p.cfg.SplitCooldown
}

// Split halves every eligible blob into two non-overlapping children, up to
// MaxBlobs. Children are placed by rejection sampling; if any pair cannot be
// placed the whole split is rolled back. It reports whether the split happened.
func (p *Player) Split() bool {
	count := len(p.order)
	if count == 0 || count >= p.cfg.MaxBlobs {
		return false
	}
	budget := p.cfg.MaxBlobs - count

	// Pick the parents first so unsplit blobs are known obstacles
	splitting := make(map[BlobID]bool)
	for _, id := range p.order {
		if budget == 0 {
			break
		}
		if p.arena[id].Size > p.cfg.MinSize {
			splitting[id] = true
			budget--
		}
	}
	if len(splitting) == 0 {
		return false
	}

	placed := make([]Circle, 0, count+len(splitting))
	for _, id := range p.order {
		if !splitting[id] {
			placed = append(placed, p.arena[id].CollisionCircle())
		}
	}

	window := p.cfg.SplitWindow * math.Sqrt(float64(count))
	newOrder := make([]BlobID, 0, count+len(splitting))
	var allocated []BlobID
	for _, id := range p.order {
		parent := p.arena[id]
		if !splitting[id] {
			newOrder = append(newOrder, id)
			continue
		}

		half := clamp(math.Floor(parent.Size/2), p.cfg.MinSize, p.cfg.MaxSize)
		a, b, ok := p.placePair(parent.Position, window*parent.Size, half, placed)
		if !ok {
			for _, aid := range allocated {
				p.release(aid)
			}
			logger.Log.WithFields(logrus.Fields{
				"player": p.ID,
				"blobs":  count,
			}).Debug("split rolled back: no room for children")
			return false
		}
		placed = append(placed, Circle{a, half}, Circle{b, half})

		ca := p.alloc(Blob{Position: a, Size: half})
		cb := p.alloc(Blob{Position: b, Size: half})
		allocated = append(allocated, ca, cb)
		newOrder = append(newOrder, ca, cb)
	}

	for _, id := range p.order {
		if splitting[id] {
			p.release(id)
		}
	}
	p.order = newOrder
	p.sinceSplit = 0
	p.hasSplit = true
	p.recompute()
	return true
}

// placePair samples two centres in the square of the given half-width around
// origin until both are clear of each other and of every placed circle
func (p *Player) placePair(origin Vec2, halfWidth, radius float64, placed []Circle) (Vec2, Vec2, bool) {
	sample := func() Vec2 {
		return Vec2{
			X: origin.X + (p.rng.Float64()*2-1)*halfWidth,
			Y: origin.Y + (p.rng.Float64()*2-1)*halfWidth,
		}
	}
	isClear := func(c Vec2) bool {
		for _, o := range placed {
			if c.Dist(o.Center) < radius+o.Radius {
				return false
			}
		}
		return true
	}

	for attempt := 0; attempt < p.cfg.SplitAttempts; attempt++ {
		a, b := sample(), sample()
		if a.Dist(b) >= 2*radius && isClear(a) && isClear(b) {
			return a, b, true
		}
	}
	return Vec2{}, Vec2{}, false
}

// cohere pulls every blob toward the size-weighted centroid
func (p *Player) cohere(dt float64) {
	if len(p.order) < 2 {
		return
	}
	centroid := p.centroid()
	for _, id := range p.order {
		p.arena[id].cohere(centroid, p.cfg.CohesionStrength, dt)
	}
}

// separate resolves overlaps between every pair of the player's blobs
func (p *Player) separate() {
	for i := 0; i < len(p.order); i++ {
		for j := i + 1; j < len(p.order); j++ {
			separate(&p.arena[p.order[i]], &p.arena[p.order[j]])
		}
	}
}

// reabsorb merges the smallest blob into its nearest sibling once it has
// been the smallest for more than ReabsorptionFrames consecutive frames
func (p *Player) reabsorb() {
	if len(p.order) < 2 {
		p.smallest = -1
		p.smallestFrames = 0
		return
	}

	minIdx := 0
	for i := 1; i < len(p.order); i++ {
		if p.Blob(i).Size < p.Blob(minIdx).Size {
			minIdx = i
		}
	}
	if p.order[minIdx] == p.smallest {
		p.smallestFrames++
	} else {
		p.smallest = p.order[minIdx]
		p.smallestFrames = 1
	}
	if p.smallestFrames <= p.cfg.ReabsorptionFrames {
		return
	}

	absorbed := p.Blob(minIdx)
	neighbor := -1
	nearest := math.Inf(1)
	for i := range p.order {
		if i == minIdx {
			continue
		}
		if d := p.Blob(i).Position.Dist(absorbed.Position); d < nearest {
			nearest = d
			neighbor = i
		}
	}
	p.Blob(neighbor).Size += absorbed.Size

	logger.Log.WithFields(logrus.Fields{
		"player": p.ID,
		"size":   absorbed.Size,
	}).Debug("reabsorbed smallest blob")

	p.RemoveBlobsAt([]int{minIdx})
	p.smallest = -1
	p.smallestFrames = 0
}

// RemoveBlobsAt removes the blobs at the given iteration indices. Duplicate
// or stale indices are ignored and deletion runs in descending order.
// It returns how many blobs were removed.
func (p *Player) RemoveBlobsAt(indices []int) int {
	uniq := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(p.order) {
			uniq[i] = struct{}{}
		}
	}
	sorted := make([]int, 0, len(uniq))
	for i := range uniq {
		sorted = append(sorted, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	for _, i := range sorted {
		p.release(p.order[i])
		p.order = append(p.order[:i], p.order[i+1:]...)
	}
	p.recompute()
	return len(sorted)
}

func (p *Player) centroid() Vec2 {
	var total float64
	var sum Vec2
	for _, id := range p.order {
		b := p.arena[id]
		total += b.Size
		sum = sum.Add(b.Position.Scale(b.Size))
	}
	if total == 0 {
		return p.position
	}
	return sum.Scale(1 / total)
}

// recompute refreshes the derived aggregate size, position and zoom limits
func (p *Player) recompute() {
	var total float64
	for _, id := range p.order {
		total += p.arena[id].Size
	}
	p.size = total
	if total > 0 {
		p.position = p.centroid()
	}
	p.camera.clampFor(p.size, p.cfg)
}
