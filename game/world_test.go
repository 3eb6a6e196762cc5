package game

import (
	"strings"
	"testing"
)

func newTestWorld(cfg Config) *World {
	return NewWorld(cfg, NewCatalog(cfg), testRand())
}

func TestNewWorldFillsEveryChunk(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(cfg)

	chunks := w.AllChunks()
	if len(chunks) != cfg.ChunksPerAxis*cfg.ChunksPerAxis {
		t.Fatalf("chunks = %d, want %d", len(chunks), cfg.ChunksPerAxis*cfg.ChunksPerAxis)
	}
	for _, c := range chunks {
		if len(c.Food()) != cfg.MaxFoodPerChunk {
			t.Fatalf("chunk %v has %d food, want %d", c.Position(), len(c.Food()), cfg.MaxFoodPerChunk)
		}
	}
	if b := w.Bounds(); b.Width != 3000 || b.Height != 3000 {
		t.Fatalf("bounds = %+v, want 3000x3000", b)
	}
}

func TestActiveChunksOwnChunkFirst(t *testing.T) {
	cfg := testConfig()
	cfg.ChunksPerAxis = 9
	w := newTestWorld(cfg)
	p := newTestPlayer(cfg, Vec2{4500, 4500})
	vp := Viewport{Width: 1280, Height: 720}

	chunks := w.ActiveChunks(p, vp)
	if len(chunks) != 9 {
		t.Fatalf("active chunks = %d, want a 3x3 neighbourhood", len(chunks))
	}
	if gx, gy := chunks[0].GridPos(); gx != 4 || gy != 4 {
		t.Fatalf("first chunk = (%d,%d), want the player's (4,4)", gx, gy)
	}
	seen := make(map[*Chunk]bool)
	for _, c := range chunks {
		if seen[c] {
			t.Fatalf("chunk %v listed twice", c.Position())
		}
		seen[c] = true
	}
}

func TestActiveChunksGrowWhenZoomedOut(t *testing.T) {
	cfg := testConfig()
	cfg.ChunksPerAxis = 9
	w := newTestWorld(cfg)
	p := newTestPlayer(cfg, Vec2{4500, 4500})
	vp := Viewport{Width: 1280, Height: 720}

	p.Camera().Zoom = 0.2
	chunks := w.ActiveChunks(p, vp)
	// int(1280/400)+2 = 5 columns each side, int(720/400)+2 = 3 rows
	if len(chunks) != 9*5 {
		t.Fatalf("active chunks at zoom 0.2 = %d, want 45", len(chunks))
	}
}

func TestActiveChunksClippedAtWorldEdge(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(cfg)
	p := newTestPlayer(cfg, Vec2{10, 10})

	chunks := w.ActiveChunks(p, Viewport{Width: 1280, Height: 720})
	if len(chunks) != 4 {
		t.Fatalf("active chunks in the corner = %d, want 4", len(chunks))
	}
}

func TestActiveChunksEmptyOutsideWorld(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(cfg)
	p := newTestPlayer(cfg, Vec2{-100, -100})

	if chunks := w.ActiveChunks(p, Viewport{Width: 1280, Height: 720}); len(chunks) != 0 {
		t.Fatalf("player outside the world has %d active chunks", len(chunks))
	}
}

func TestChunkAtSharedEdge(t *testing.T) {
	w := newTestWorld(testConfig())

	c := w.ChunkAt(Vec2{1000, 1000})
	if gx, gy := c.GridPos(); gx != 0 || gy != 0 {
		t.Fatalf("shared corner maps to (%d,%d), want first chunk (0,0)", gx, gy)
	}
	c = w.ChunkAt(Vec2{3000, 1500})
	if gx, gy := c.GridPos(); gx != 2 || gy != 1 {
		t.Fatalf("far edge maps to (%d,%d), want (2,1)", gx, gy)
	}
	if w.ChunkAt(Vec2{3000.1, 0}) != nil {
		t.Fatalf("point past the world should have no chunk")
	}
}

func TestWorldUpdatesSharedChunkOnce(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(cfg)
	home := w.GetChunk(1, 1)
	home.food = home.food[:0]

	a := newTestPlayer(cfg, Vec2{1500, 1500})
	b := newTestPlayer(cfg, Vec2{1600, 1500})
	vp := Viewport{Width: 640, Height: 720}
	views := []View{{Player: a, Viewport: vp}, {Player: b, Viewport: vp}}

	w.Update(views, nil, cfg.FoodRespawnInterval)
	if len(home.Food()) != 1 {
		t.Fatalf("shared chunk has %d food after one respawn tick, want 1", len(home.Food()))
	}

	w.Update(views, nil, cfg.FoodRespawnInterval/4)
	if len(home.Food()) > 1 {
		t.Fatalf("food respawned before the interval elapsed")
	}
}

func TestDiscardWeaponSpawnsFreshTemplate(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(cfg)
	cat := NewCatalog(cfg)

	spent := cat.Weapons()[1]
	spent.ammo = 0
	w.DiscardWeapon(spent)

	if n := weaponCount(w); n != 1 {
		t.Fatalf("weapons in world = %d, want 1", n)
	}
	for _, c := range w.AllChunks() {
		for _, wp := range c.Weapons() {
			if wp.Kind != WeaponKindRaygun || wp.Ammo() != 4 {
				t.Fatalf("respawned %s with %d ammo, want a full raygun", wp.Kind, wp.Ammo())
			}
			if !c.Bounds().Contains(wp.Position) && !c.containsPoint(wp.Position) {
				t.Fatalf("weapon at %v outside its chunk", wp.Position)
			}
		}
	}
}

func TestDiscardWeaponWithoutTemplatePanics(t *testing.T) {
	w := newTestWorld(testConfig())
	odd := newTestGlock()
	odd.BulletSpeed = 1

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("discarding an unknown weapon should panic")
		}
		err, ok := r.(error)
		if !ok || !strings.Contains(err.Error(), "no template") {
			t.Fatalf("unexpected panic value %v", r)
		}
	}()
	w.DiscardWeapon(odd)
}

func TestDropWeaponIntoPlayersChunk(t *testing.T) {
	cfg := testConfig()
	w := newTestWorld(cfg)
	p := newTestPlayer(cfg, Vec2{2500, 500})
	p.weapon = newTestGlock()
	p.weapon.Fire(Vec2{1, 0})

	w.DropWeapon(p)

	if p.Weapon() != nil {
		t.Fatalf("player still holds the weapon")
	}
	c := w.GetChunk(2, 0)
	if len(c.Weapons()) != 1 {
		t.Fatalf("chunk (2,0) has %d weapons, want 1", len(c.Weapons()))
	}
	dropped := c.Weapons()[0]
	if len(dropped.Bullets()) != 0 || dropped.Ammo() != 7 {
		t.Fatalf("dropped weapon bullets=%d ammo=%d, want 0 and 7", len(dropped.Bullets()), dropped.Ammo())
	}
	if dropped.Position != p.Position() {
		t.Fatalf("dropped at %v, want %v", dropped.Position, p.Position())
	}
}
