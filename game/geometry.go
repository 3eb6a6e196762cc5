package game

import "math"

// Vec2 is a point or direction in world coordinates
type Vec2 struct {
	X, Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the euclidean length of v
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the distance between v and o
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Normalize returns the unit vector of v, or the zero vector when v has no length
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Circle is the collision primitive shared by every entity
type Circle struct {
	Center Vec2
	Radius float64
}

// Overlaps reports whether the two circles touch or intersect.
// The boundary is inclusive: circles exactly touching overlap.
func (c Circle) Overlaps(other Circle) bool {
	return c.Center.Dist(other.Center) <= c.Radius+other.Radius
}

// Bounds is an axis-aligned rectangle described by its top-left corner
type Bounds struct {
	TopLeft Vec2
	Width   float64
	Height  float64
}

// Contains reports whether p lies strictly inside the rectangle
func (b Bounds) Contains(p Vec2) bool {
	return p.X > b.TopLeft.X && p.X < b.TopLeft.X+b.Width &&
		p.Y > b.TopLeft.Y && p.Y < b.TopLeft.Y+b.Height
}

// ContainsCircle reports whether the whole circle lies strictly inside the rectangle
func (b Bounds) ContainsCircle(c Circle) bool {
	return c.Center.X-c.Radius > b.TopLeft.X &&
		c.Center.X+c.Radius < b.TopLeft.X+b.Width &&
		c.Center.Y-c.Radius > b.TopLeft.Y &&
		c.Center.Y+c.Radius < b.TopLeft.Y+b.Height
}

// Center returns the middle of the rectangle
func (b Bounds) Center() Vec2 {
	return Vec2{b.TopLeft.X + b.Width/2, b.TopLeft.Y + b.Height/2}
}

// grow returns size after absorbing a circle of radius r
func grow(size, r float64) float64 {
	return math.Sqrt(size*size + r*r)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
