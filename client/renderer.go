package client

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"blobarena/game"
	"blobarena/netsync"
)

var (
	colorBackground = color.RGBA{245, 245, 240, 255}
	colorChunkLine  = color.RGBA{200, 200, 200, 255}
	colorActive     = color.RGBA{255, 0, 0, 255}
	colorVirus      = color.RGBA{0, 255, 0, 255}
	colorVirusCore  = color.RGBA{0, 180, 0, 255}
	colorBullet     = color.RGBA{20, 20, 20, 255}
	colorText       = color.RGBA{0, 0, 0, 255}
	colorDivider    = color.RGBA{60, 60, 60, 255}
	colorRemote     = color.RGBA{90, 90, 90, 255}
)

// weaponColor returns the pickup marker colour of a weapon kind
func weaponColor(k game.WeaponKind) color.RGBA {
	switch k {
	case game.WeaponKindGlock:
		return color.RGBA{70, 70, 70, 255}
	case game.WeaponKindRaygun:
		return color.RGBA{150, 0, 200, 255}
	default:
		return color.RGBA{255, 255, 255, 255}
	}
}

// Renderer draws one player's view of the arena
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// view is the read-only transform context for one viewport
type view struct {
	dst    *ebiten.Image
	origin game.Vec2
	vp     game.Viewport
	center game.Vec2
	camera game.Camera
}

func (v view) toScreen(p game.Vec2) (float32, float32) {
	s := v.camera.WorldToScreen(v.center, p, v.vp)
	return float32(s.X + v.origin.X), float32(s.Y + v.origin.Y)
}

func (v view) scale(r float64) float32 {
	s := r * v.camera.Zoom
	if s < 1 {
		s = 1
	}
	return float32(s)
}

// visible reports whether a circle intersects the viewport
func (v view) visible(c game.Circle) bool {
	s := v.camera.WorldToScreen(v.center, c.Center, v.vp)
	r := c.Radius * v.camera.Zoom
	return s.X+r >= 0 && s.X-r <= v.vp.Width && s.Y+r >= 0 && s.Y-r <= v.vp.Height
}

// Render draws everything player idx can see into its viewport of screen
func (r *Renderer) Render(screen *ebiten.Image, arena *game.Arena, idx int, origin game.Vec2, remote []netsync.PlayerState, debug *DebugState) {
	p := arena.Players()[idx]
	vp := arena.Viewport(idx)
	rect := image.Rect(int(origin.X), int(origin.Y), int(origin.X+vp.Width), int(origin.Y+vp.Height))
	dst := screen.SubImage(rect).(*ebiten.Image)
	dst.Fill(colorBackground)

	v := view{
		dst:    dst,
		origin: origin,
		vp:     vp,
		center: p.Position(),
		camera: *p.Camera(),
	}

	chunks := arena.World().ActiveChunks(p, vp)
	r.renderChunks(v, chunks, debug.ShowGrid)
	for _, vir := range arena.Viruses() {
		r.renderVirus(v, vir)
	}
	for _, e := range arena.Enemies() {
		c := e.CollisionCircle()
		if v.visible(c) {
			r.renderCircle(v, c, e.Color)
		}
	}
	for _, st := range remote {
		r.renderRemote(v, st)
	}
	for _, other := range arena.Players() {
		r.renderPlayer(v, other)
	}

	r.renderHUD(v, p)
	if !debug.HideRadar {
		r.renderRadar(v, arena, p)
	}
	if debug.ShowGrid {
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("chunks %d  blobs %d  zoom %.2f  enemies %d",
			len(chunks), p.BlobCount(), v.camera.Zoom, len(arena.Enemies())),
			int(origin.X)+8, int(origin.Y)+8)
	}
}

func (r *Renderer) renderChunks(v view, chunks []*game.Chunk, outline bool) {
	for i, c := range chunks {
		if outline {
			b := c.Bounds()
			x, y := v.toScreen(b.TopLeft)
			clr := colorChunkLine
			if i == 0 {
				clr = colorActive
			}
			vector.StrokeRect(v.dst, x, y, v.scale(b.Width), v.scale(b.Height), 2, clr, false)
		}
		for _, f := range c.Food() {
			fc := f.CollisionCircle()
			if v.visible(fc) {
				r.renderCircle(v, fc, f.Color)
			}
		}
		for _, w := range c.Weapons() {
			x, y := v.toScreen(w.Position)
			s := v.scale(12)
			vector.DrawFilledRect(v.dst, x-s/2, y-s/2, s, s, weaponColor(w.Kind), true)
		}
	}
}

func (r *Renderer) renderCircle(v view, c game.Circle, clr color.Color) {
	x, y := v.toScreen(c.Center)
	vector.DrawFilledCircle(v.dst, x, y, v.scale(c.Radius), clr, true)
}

// renderVirus draws a spiked disc
func (r *Renderer) renderVirus(v view, vir *game.Virus) {
	c := vir.CollisionCircle()
	if !v.visible(game.Circle{Center: c.Center, Radius: c.Radius * 1.3}) {
		return
	}
	x, y := v.toScreen(c.Center)
	radius := float64(v.scale(c.Radius))
	const spikes = 12
	for i := 0; i < spikes; i++ {
		angle := 2 * math.Pi * float64(i) / spikes
		ex := float64(x) + math.Cos(angle)*radius*1.3
		ey := float64(y) + math.Sin(angle)*radius*1.3
		vector.StrokeLine(v.dst, x, y, float32(ex), float32(ey), 3, colorVirus, true)
	}
	vector.DrawFilledCircle(v.dst, x, y, float32(radius), colorVirus, true)
	vector.DrawFilledCircle(v.dst, x, y, float32(radius*0.7), colorVirusCore, true)
}

func (r *Renderer) renderPlayer(v view, p *game.Player) {
	for i := 0; i < p.BlobCount(); i++ {
		c := p.Blob(i).CollisionCircle()
		if v.visible(c) {
			r.renderCircle(v, c, p.Color)
		}
	}
	if w := p.Weapon(); w != nil {
		for _, b := range w.Bullets() {
			x, y := v.toScreen(b.Position)
			vector.DrawFilledCircle(v.dst, x, y, v.scale(b.Radius), colorBullet, true)
		}
	}
}

// renderRemote draws a mirrored player as outlines only
func (r *Renderer) renderRemote(v view, st netsync.PlayerState) {
	clr := color.RGBA{st.Color[0], st.Color[1], st.Color[2], st.Color[3]}
	if clr.A == 0 {
		clr = colorRemote
	}
	for _, b := range st.Blobs {
		c := game.Circle{Center: game.Vec2{X: b.X, Y: b.Y}, Radius: b.Size}
		if !v.visible(c) {
			continue
		}
		x, y := v.toScreen(c.Center)
		vector.StrokeCircle(v.dst, x, y, v.scale(c.Radius), 3, clr, true)
	}
}

func (r *Renderer) renderHUD(v view, p *game.Player) {
	right := int(v.origin.X + v.vp.Width)
	bottom := int(v.origin.Y + v.vp.Height)

	score := fmt.Sprintf("Score: %d", int(p.Score()))
	text.Draw(v.dst, score, basicfont.Face7x13, right-len(score)*7-50, bottom-50, colorText)

	if w := p.Weapon(); w != nil {
		ammo := fmt.Sprintf("%s  ammo %d", w.Kind, w.Ammo())
		text.Draw(v.dst, ammo, basicfont.Face7x13, right-len(ammo)*7-50, bottom-30, colorText)
	}
	if st := p.Status(); st.Active() != game.EffectNone {
		eff := fmt.Sprintf("%s %.1fs", st.Active(), st.Remaining())
		text.Draw(v.dst, eff, basicfont.Face7x13, int(v.origin.X)+8, bottom-30, colorText)
	}
	if p.Eliminated() {
		msg := "eliminated"
		text.Draw(v.dst, msg, basicfont.Face7x13,
			int(v.origin.X+v.vp.Width/2)-len(msg)*7/2, int(v.origin.Y+v.vp.Height/2), colorText)
	}
}

// renderDivider separates split-screen viewports
func (r *Renderer) renderDivider(screen *ebiten.Image, x float64) {
	h := float32(screen.Bounds().Dy())
	vector.StrokeLine(screen, float32(x), 0, float32(x), h, 2, colorDivider, false)
}

func (r *Renderer) renderFPS(screen *ebiten.Image, fps float64) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.0f", fps), 8, screen.Bounds().Dy()-20)
}
