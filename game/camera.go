package game

// Viewport is the size of the screen area a player is rendered into
type Viewport struct {
	Width  float64
	Height float64
}

// Camera holds the zoom of one player's view. It is centred on the player's
// aggregate position, which render code passes in explicitly.
type Camera struct {
	Zoom float64
}

// NewCamera creates a camera at zoom 1
func NewCamera() Camera {
	return Camera{Zoom: 1}
}

// WorldToScreen converts world coordinates to screen coordinates
func (c Camera) WorldToScreen(center, p Vec2, vp Viewport) Vec2 {
	return Vec2{
		X: (p.X-center.X)*c.Zoom + vp.Width/2,
		Y: (p.Y-center.Y)*c.Zoom + vp.Height/2,
	}
}

// ScreenToWorld converts screen coordinates to world coordinates
func (c Camera) ScreenToWorld(center, s Vec2, vp Viewport) Vec2 {
	return Vec2{
		X: (s.X-vp.Width/2)/c.Zoom + center.X,
		Y: (s.Y-vp.Height/2)/c.Zoom + center.Y,
	}
}

// ZoomBy changes the zoom by delta; the next frame clamps it
func (c *Camera) ZoomBy(delta float64) {
	c.Zoom += delta
}

// clampFor keeps zoom inside limits that shrink as the player grows, so a
// bigger player always sees more of the world
func (c *Camera) clampFor(size float64, cfg Config) {
	if size <= 0 {
		return
	}
	ratio := cfg.StartingSize / size
	c.Zoom = clamp(c.Zoom, cfg.MinZoom*ratio, cfg.MaxZoom*ratio)
}
