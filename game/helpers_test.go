package game

import (
	"image/color"
	"math"
	"math/rand"
)

var testColor = color.RGBA{255, 0, 0, 255}

// testConfig is a small deterministic world with no background population
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ChunksPerAxis = 3
	cfg.MaxFoodPerChunk = 5
	cfg.EnemyCount = 0
	cfg.VirusCount = 0
	cfg.Seed = 1
	return cfg
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func newTestPlayer(cfg Config, pos Vec2) *Player {
	return NewPlayer("p", pos, testColor, cfg, testRand())
}

// addBlob appends a blob to p without going through split
func addBlob(p *Player, pos Vec2, size float64) {
	p.order = append(p.order, p.alloc(Blob{Position: pos, Size: size}))
	p.recompute()
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// weaponCount returns the number of weapons lying in the world
func weaponCount(w *World) int {
	n := 0
	for _, c := range w.AllChunks() {
		n += len(c.Weapons())
	}
	return n
}
