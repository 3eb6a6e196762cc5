package game

import (
	"math"
	"testing"
)

func newTestChunk(cfg Config) *Chunk {
	return NewChunk(0, 0, cfg, NewCatalog(cfg), testRand())
}

func TestChunkBlobEatsFood(t *testing.T) {
	cfg := testConfig()
	c := newTestChunk(cfg)
	c.food = append(c.food, Food{Position: Vec2{100, 100}, Radius: 20})
	p := newTestPlayer(cfg, Vec2{100, 100})

	c.Update([]*Player{p}, nil, false)

	if len(c.Food()) != 0 {
		t.Fatalf("food was not eaten")
	}
	if want := math.Sqrt(40*40 + 20*20); p.Blob(0).Size != want {
		t.Fatalf("blob size = %v, want %v", p.Blob(0).Size, want)
	}
}

func TestChunkFoodFirstMatchWins(t *testing.T) {
	cfg := testConfig()
	c := newTestChunk(cfg)
	c.food = append(c.food, Food{Position: Vec2{100, 100}, Radius: 10})
	first := newTestPlayer(cfg, Vec2{110, 100})
	second := newTestPlayer(cfg, Vec2{90, 100})
	enemy := NewEnemy(Vec2{100, 100}, 40, testColor, 0)

	c.Update([]*Player{first, second}, []*Enemy{enemy}, false)

	if first.Blob(0).Size == 40 {
		t.Fatalf("first player should have eaten the food")
	}
	if second.Blob(0).Size != 40 || enemy.Size != 40 {
		t.Fatalf("food was eaten more than once")
	}
}

func TestChunkEnemyEatsFoodPlayersMissed(t *testing.T) {
	cfg := testConfig()
	c := newTestChunk(cfg)
	c.food = append(c.food, Food{Position: Vec2{100, 100}, Radius: 10})
	p := newTestPlayer(cfg, Vec2{800, 800})
	enemy := NewEnemy(Vec2{120, 100}, 30, testColor, 0)

	c.Update([]*Player{p}, []*Enemy{enemy}, false)

	if len(c.Food()) != 0 {
		t.Fatalf("enemy did not eat the food")
	}
	if want := math.Sqrt(30*30 + 10*10); enemy.Size != want {
		t.Fatalf("enemy size = %v, want %v", enemy.Size, want)
	}
}

func TestChunkFoodAttraction(t *testing.T) {
	cfg := testConfig()
	c := newTestChunk(cfg)
	c.food = append(c.food, Food{Position: Vec2{100, 100}, Radius: 5})
	p := newTestPlayer(cfg, Vec2{150, 100})

	c.Update([]*Player{p}, nil, false)

	f := c.Food()[0]
	if !approx(f.Position.X, 100+cfg.FoodAttraction) || f.Position.Y != 100 {
		t.Fatalf("food at %v, want drift of %v toward the blob", f.Position, cfg.FoodAttraction)
	}

	c.food[0].Position = Vec2{400, 400}
	c.Update([]*Player{p}, nil, false)
	if c.Food()[0].Position != (Vec2{400, 400}) {
		t.Fatalf("food out of reach should not move")
	}
}

func TestChunkPickupAtMostOne(t *testing.T) {
	cfg := testConfig()
	c := newTestChunk(cfg)
	cat := NewCatalog(cfg)
	for i := 0; i < 3; i++ {
		w := cat.Weapons()[0]
		w.Position = Vec2{200, 200}
		c.AddWeapon(w)
	}
	p := newTestPlayer(cfg, Vec2{200, 200})

	c.Update([]*Player{p}, nil, false)
	if p.Weapon() != nil || len(c.Weapons()) != 3 {
		t.Fatalf("weapon picked up without intent")
	}

	p.wantsPickup = true
	c.Update([]*Player{p}, nil, false)
	if p.Weapon() == nil {
		t.Fatalf("weapon was not picked up")
	}
	if len(c.Weapons()) != 2 {
		t.Fatalf("weapons left = %d, want 2", len(c.Weapons()))
	}

	c.Update([]*Player{p}, nil, false)
	if len(c.Weapons()) != 2 {
		t.Fatalf("player already holding a weapon picked up another")
	}
}

func TestChunkRespawnCap(t *testing.T) {
	cfg := testConfig()
	c := newTestChunk(cfg)

	c.Update(nil, nil, true)
	if len(c.Food()) != 1 {
		t.Fatalf("food = %d, want 1 after a respawn tick", len(c.Food()))
	}
	c.Update(nil, nil, false)
	if len(c.Food()) != 1 {
		t.Fatalf("food respawned without the flag")
	}

	c.SpawnFood(100)
	if len(c.Food()) != cfg.MaxFoodPerChunk {
		t.Fatalf("food = %d, want cap %d", len(c.Food()), cfg.MaxFoodPerChunk)
	}
	c.Update(nil, nil, true)
	if len(c.Food()) != cfg.MaxFoodPerChunk {
		t.Fatalf("respawn exceeded the cap")
	}
}

func TestChunkSpawnedFoodInsideChunk(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFoodPerChunk = 200
	c := NewChunk(1, 2, cfg, NewCatalog(cfg), testRand())
	c.SpawnFood(200)

	for _, f := range c.Food() {
		if f.Position.X < 1000 || f.Position.X >= 2000 || f.Position.Y < 2000 || f.Position.Y >= 3000 {
			t.Fatalf("food at %v outside chunk (1,2)", f.Position)
		}
		if f.Radius < 5 || f.Radius > 20 {
			t.Fatalf("food radius %v outside [5,20]", f.Radius)
		}
	}
}

func TestChunkContainsPlayerInclusive(t *testing.T) {
	cfg := testConfig()
	c := newTestChunk(cfg)

	for _, pos := range []Vec2{{0, 0}, {1000, 1000}, {500, 1000}} {
		if !c.ContainsPlayer(newTestPlayer(cfg, pos)) {
			t.Fatalf("player at %v should be inside (edges inclusive)", pos)
		}
	}
	if c.ContainsPlayer(newTestPlayer(cfg, Vec2{1000.5, 10})) {
		t.Fatalf("player past the edge should be outside")
	}
}

func TestRemoveIndicesDescending(t *testing.T) {
	s := []string{"a", "b", "c", "d", "e"}
	got := removeIndices(s, map[int]struct{}{1: {}, 3: {}, 9: {}})
	want := []string{"a", "c", "e"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
