package game

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"blobarena/logger"
)

// CollisionSystem applies the cross-entity consumption rules.
// Every pass scans first and removes afterwards, so a collection is never
// mutated while it is being iterated.
type CollisionSystem struct {
	world   *World
	catalog *Catalog
	cfg     Config
	rng     *rand.Rand
}

// NewCollisionSystem creates a new collision system
func NewCollisionSystem(world *World, catalog *Catalog, cfg Config, rng *rand.Rand) *CollisionSystem {
	return &CollisionSystem{
		world:   world,
		catalog: catalog,
		cfg:     cfg,
		rng:     rng,
	}
}

// ResolveBlobEnemies lets the first blob touching each enemy decide the
// outcome: a strictly larger blob eats the enemy, otherwise the enemy eats
// the blob. It returns the surviving (and respawned) enemies.
func (c *CollisionSystem) ResolveBlobEnemies(players []*Player, enemies []*Enemy) []*Enemy {
	eatenEnemies := make(map[int]struct{})
	eatenBlobs := make(map[*Player][]int)
	var respawned []*Enemy

	for ei, e := range enemies {
		ec := e.CollisionCircle()
	scan:
		for _, p := range players {
			for bi := 0; bi < p.BlobCount(); bi++ {
				if containsInt(eatenBlobs[p], bi) {
					continue
				}
				b := p.Blob(bi)
				if !b.CollisionCircle().Overlaps(ec) {
					continue
				}
				if e.Size < b.Size {
					b.Eat(e.Size)
					eatenEnemies[ei] = struct{}{}
					if c.cfg.EnemyRegrowth {
						respawned = append(respawned, c.regrow(p))
					}
				} else {
					e.Eat(b.Size)
					eatenBlobs[p] = append(eatenBlobs[p], bi)
				}
				break scan
			}
		}
	}

	for p, idx := range eatenBlobs {
		p.RemoveBlobsAt(idx)
		if p.Eliminated() {
			logger.Log.WithField("player", p.ID).Debug("player eliminated by enemy")
		}
	}

	enemies = removeIndices(enemies, eatenEnemies)
	return append(enemies, respawned...)
}

// regrow spawns a replacement enemy in a random chunk, scaled so it stays a
// threat to the player that ate its predecessor
func (c *CollisionSystem) regrow(p *Player) *Enemy {
	base := float64(c.cfg.EnemyMinSize + c.rng.Intn(c.cfg.EnemyMaxSize-c.cfg.EnemyMinSize+1))
	scale := p.Size() / c.cfg.StartingSize
	if scale < 1 {
		scale = 1
	}
	pos := c.world.RandomChunk().RandomPos()
	return NewEnemy(pos, base*scale, c.catalog.RandomColor(c.rng), c.cfg.EnemySpeed)
}

// ResolveBlobViruses force-splits every player touching a virus and knocks
// it away from the virus. Viruses are never consumed.
func (c *CollisionSystem) ResolveBlobViruses(players []*Player, viruses []*Virus) {
	for _, p := range players {
		for _, v := range viruses {
			vc := v.CollisionCircle()
			hit := false
			for _, bc := range p.CollisionCircles() {
				if bc.Overlaps(vc) {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}

			away := p.Position().Sub(v.Position).Normalize()
			if away == (Vec2{}) {
				away = Vec2{1, 0}
			}
			split := p.Split()
			p.Push(away.Scale(c.cfg.VirusImpulse))

			logger.Log.WithFields(logrus.Fields{
				"player": p.ID,
				"split":  split,
				"blobs":  p.BlobCount(),
			}).Debug("virus contact")
			break
		}
	}
}

// ResolvePlayerVsPlayer compares every blob pair across two players; the
// larger blob absorbs the smaller. Equal sizes leave both untouched.
func (c *CollisionSystem) ResolvePlayerVsPlayer(a, b *Player) {
	if a == b {
		return
	}
	var goneA, goneB []int
	for i := 0; i < a.BlobCount(); i++ {
		if containsInt(goneA, i) {
			continue
		}
		ba := a.Blob(i)
		for j := 0; j < b.BlobCount(); j++ {
			if containsInt(goneB, j) {
				continue
			}
			bb := b.Blob(j)
			if !ba.CollisionCircle().Overlaps(bb.CollisionCircle()) {
				continue
			}
			switch {
			case ba.Size > bb.Size:
				ba.Eat(bb.Size)
				goneB = append(goneB, j)
			case bb.Size > ba.Size:
				bb.Eat(ba.Size)
				goneA = append(goneA, i)
			}
			if containsInt(goneA, i) {
				break
			}
		}
	}

	a.RemoveBlobsAt(goneA)
	b.RemoveBlobsAt(goneB)
}

// ApplyWeaponHits checks every held weapon's bullets against the enemies and
// the other players. At most one target is hit per weapon per frame; the
// weapon's effect is applied to it.
func (c *CollisionSystem) ApplyWeaponHits(players []*Player, enemies []*Enemy) {
	for _, shooter := range players {
		w := shooter.Weapon()
		if w == nil || len(w.Bullets()) == 0 {
			continue
		}

		targets := make([]Target, 0, len(enemies)+len(players))
		circles := make([]Circle, 0, cap(targets))
		for _, e := range enemies {
			targets = append(targets, e)
			circles = append(circles, e.CollisionCircle())
		}
		for _, other := range players {
			if other == shooter || other.Eliminated() {
				continue
			}
			for _, bc := range other.CollisionCircles() {
				targets = append(targets, other)
				circles = append(circles, bc)
			}
		}

		idx, ok := w.CheckCollision(circles)
		if !ok {
			continue
		}
		w.Effect.Apply(targets[idx])

		logger.Log.WithFields(logrus.Fields{
			"player": shooter.ID,
			"effect": w.Effect.Kind.String(),
		}).Debug("bullet hit")
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
