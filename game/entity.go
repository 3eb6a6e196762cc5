package game

import (
	"image/color"
	"math"
)

// Food is a consumable pellet owned by the chunk it spawned in
type Food struct {
	Position Vec2
	Radius   float64
	Color    color.RGBA
}

// CollisionCircle returns the food's collision shape
func (f *Food) CollisionCircle() Circle {
	return Circle{Center: f.Position, Radius: f.Radius}
}

// Enemy is a roaming blob that eats food and, when big enough, player blobs
type Enemy struct {
	Position Vec2
	Size     float64
	Color    color.RGBA

	// Speed in pixels per second before effects
	Speed float64

	// Wander phase used when nobody is alive to chase
	patternTime float64

	status Status
}

// NewEnemy creates an enemy
func NewEnemy(pos Vec2, size float64, clr color.RGBA, speed float64) *Enemy {
	return &Enemy{
		Position: pos,
		Size:     size,
		Color:    clr,
		Speed:    speed,
	}
}

// CollisionCircle returns the enemy's collision shape
func (e *Enemy) CollisionCircle() Circle {
	return Circle{Center: e.Position, Radius: e.Size}
}

// Eat grows the enemy by a consumed circle of radius r
func (e *Enemy) Eat(r float64) {
	e.Size = grow(e.Size, r)
}

// Status implements Target
func (e *Enemy) Status() *Status {
	return &e.status
}

// Shrink implements Target; an enemy never shrinks below one unit
func (e *Enemy) Shrink(by float64) {
	e.Size = math.Max(1, e.Size-by)
}

// Update chases the nearest live player and advances the running effect
func (e *Enemy) Update(players []*Player, dt float64) {
	var target *Player
	nearest := math.Inf(1)
	for _, p := range players {
		if p.Eliminated() {
			continue
		}
		if d := p.Position().Dist(e.Position); d < nearest {
			nearest = d
			target = p
		}
	}

	speed := e.Speed * e.status.SpeedFactor()
	if target != nil {
		dir := target.Position().Sub(e.Position).Normalize()
		e.Position = e.Position.Add(dir.Scale(speed * dt))
	} else {
		e.patternTime += dt
		e.Position.X += math.Cos(e.patternTime) * speed * dt
		e.Position.Y += math.Sin(e.patternTime) * speed * dt
	}

	e.status.Tick(e, dt)
}

// Virus splits any player that touches it; it is never consumed
type Virus struct {
	Position Vec2
	Size     float64
}

// CollisionCircle returns the virus's collision shape
func (v *Virus) CollisionCircle() Circle {
	return Circle{Center: v.Position, Radius: v.Size}
}
