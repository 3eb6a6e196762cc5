package client

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"blobarena/game"
)

// Radar geometry
const (
	radarRadius        = 70.0
	radarRange         = 2500.0 // world units covered by the radar radius
	radarMargin        = 14.0
	radarEdgeMargin    = 4.0
	radarCenterDotSize = 3.0
	radarBlipSize      = 3.0
	radarOffRadarDist  = 10.0
)

var (
	colorRadarBackdrop = color.NRGBA{R: 10, G: 16, B: 32, A: 200}
	colorRadarRing     = color.NRGBA{R: 24, G: 48, B: 96, A: 255}
	colorRadarThreat   = color.NRGBA{R: 255, G: 60, B: 60, A: 255}
	colorRadarPrey     = color.NRGBA{R: 255, G: 200, B: 60, A: 255}
	colorRadarVirus    = color.NRGBA{R: 0, G: 220, B: 0, A: 255}
	colorRadarWeapon   = color.NRGBA{R: 200, G: 120, B: 255, A: 255}
)

// radarBlip places a world offset on the radar. Targets beyond radarRange
// sit on the rim and report that they are off radar.
func radarBlip(offset game.Vec2) (game.Vec2, bool) {
	scale := radarRadius / radarRange
	dist := offset.Len()
	if dist > radarRange {
		return offset.Normalize().Scale(radarRadius - radarEdgeMargin), true
	}
	p := offset.Scale(scale)
	if l := p.Len(); l > radarRadius-radarEdgeMargin {
		p = p.Scale((radarRadius - radarEdgeMargin) / l)
	}
	return p, false
}

// renderRadar draws a minimap in the bottom-left corner of the viewport
// centred on the player. Enemies are red when they could eat the player's
// largest blob and yellow when they are prey.
func (r *Renderer) renderRadar(v view, arena *game.Arena, p *game.Player) {
	if p.Eliminated() {
		return
	}
	center := game.Vec2{
		X: v.origin.X + radarRadius + radarMargin,
		Y: v.origin.Y + v.vp.Height - radarRadius - radarMargin - 40,
	}
	cx, cy := float32(center.X), float32(center.Y)

	vector.DrawFilledCircle(v.dst, cx, cy, radarRadius+radarEdgeMargin, colorRadarBackdrop, true)
	vector.StrokeCircle(v.dst, cx, cy, radarRadius, 1, colorRadarRing, true)
	vector.DrawFilledCircle(v.dst, cx, cy, radarCenterDotSize, p.Color, true)

	largest := 0.0
	for i := 0; i < p.BlobCount(); i++ {
		largest = math.Max(largest, p.Blob(i).Size)
	}
	me := p.Position()

	blip := func(pos game.Vec2, clr color.Color, label bool) {
		offset := pos.Sub(me)
		b, off := radarBlip(offset)
		x, y := cx+float32(b.X), cy+float32(b.Y)
		vector.DrawFilledCircle(v.dst, x, y, radarBlipSize, clr, true)
		if off && label {
			dir := offset.Normalize()
			ebitenutil.DebugPrintAt(v.dst, fmt.Sprintf("%.0f", offset.Len()),
				int(float64(x)+dir.X*radarOffRadarDist)-8, int(float64(y)+dir.Y*radarOffRadarDist)-6)
		}
	}

	for _, vir := range arena.Viruses() {
		if vir.Position.Dist(me) <= radarRange {
			blip(vir.Position, colorRadarVirus, false)
		}
	}
	for _, e := range arena.Enemies() {
		if e.Position.Dist(me) > radarRange {
			continue
		}
		clr := colorRadarPrey
		if e.Size >= largest {
			clr = colorRadarThreat
		}
		blip(e.Position, clr, false)
	}
	for _, c := range arena.World().AllChunks() {
		for _, w := range c.Weapons() {
			blip(w.Position, colorRadarWeapon, true)
		}
	}
	for _, other := range arena.Players() {
		if other != p && !other.Eliminated() {
			blip(other.Position(), other.Color, true)
		}
	}
}
