package game

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blobarena/logger"
)

// Arena owns one running match: the world, every player, enemy and virus.
// Step advances all of them by one frame in a fixed order.
type Arena struct {
	world           *World
	collisionSystem *CollisionSystem
	catalog         *Catalog
	config          Config
	rng             *rand.Rand

	players   []*Player
	viewports []Viewport
	enemies   []*Enemy
	viruses   []*Virus

	frame int
	resets int
}

// NewArena builds a populated match for nPlayers local players.
// The screen is shared side by side between them.
func NewArena(config Config, catalog *Catalog, nPlayers int) *Arena {
	if nPlayers < 1 {
		nPlayers = 1
	}
	a := &Arena{
		catalog: catalog,
		config:  config,
		rng:     config.NewRand(),
	}
	a.populate(nPlayers)
	return a
}

// populate (re)creates the world and every entity in it
func (a *Arena) populate(nPlayers int) {
	a.world = NewWorld(a.config, a.catalog, a.rng)
	a.collisionSystem = NewCollisionSystem(a.world, a.catalog, a.config, a.rng)

	vp := Viewport{
		Width:  float64(a.config.ScreenWidth) / float64(nPlayers),
		Height: float64(a.config.ScreenHeight),
	}
	center := a.world.Bounds().Center()
	a.players = make([]*Player, nPlayers)
	a.viewports = make([]Viewport, nPlayers)
	for i := range a.players {
		offset := float64(i) - float64(nPlayers-1)/2
		pos := Vec2{center.X + offset*4*a.config.StartingSize, center.Y}
		a.players[i] = NewPlayer(uuid.NewString(), pos, a.catalog.RandomColor(a.rng), a.config, a.rng)
		a.viewports[i] = vp
	}

	size := int(a.world.Bounds().Width)
	lo := int(a.config.ChunkSize)
	a.enemies = make([]*Enemy, 0, a.config.EnemyCount)
	for i := 0; i < a.config.EnemyCount; i++ {
		pos := Vec2{
			X: float64(lo + a.rng.Intn(size-lo+1)),
			Y: float64(lo + a.rng.Intn(size-lo+1)),
		}
		sz := a.config.EnemyMinSize + a.rng.Intn(a.config.EnemyMaxSize-a.config.EnemyMinSize+1)
		a.enemies = append(a.enemies, NewEnemy(pos, float64(sz), a.catalog.RandomColor(a.rng), a.config.EnemySpeed))
	}

	a.viruses = make([]*Virus, 0, a.config.VirusCount)
	for i := 0; i < a.config.VirusCount; i++ {
		a.viruses = append(a.viruses, &Virus{
			Position: a.world.RandomChunk().RandomPos(),
			Size:     a.config.VirusSize,
		})
	}

	for _, w := range a.catalog.Weapons() {
		a.world.SpawnWeapon(w)
	}

	a.frame = 0

	logger.Log.WithFields(logrus.Fields{
		"players": nPlayers,
		"enemies": len(a.enemies),
		"viruses": len(a.viruses),
	}).Info("arena populated")
}

// Step advances the match by dt seconds. intents[i] drives player i; missing
// intents count as idle.
func (a *Arena) Step(intents []Intent, dt float64) {
	a.frame++

	for i, p := range a.players {
		var in Intent
		if i < len(intents) {
			in = intents[i]
		}
		p.Update(in, dt)
	}

	for _, p := range a.players {
		a.handleWeapon(p)
	}

	views := make([]View, len(a.players))
	for i, p := range a.players {
		views[i] = View{Player: p, Viewport: a.viewports[i]}
	}
	a.world.Update(views, a.enemies, dt)

	live := a.LivePlayers()
	a.collisionSystem.ApplyWeaponHits(live, a.enemies)

	for _, e := range a.enemies {
		e.Update(live, dt)
	}
	a.enemies = a.collisionSystem.ResolveBlobEnemies(live, a.enemies)
	a.collisionSystem.ResolveBlobViruses(a.LivePlayers(), a.viruses)

	for i := 0; i < len(a.players); i++ {
		for j := i + 1; j < len(a.players); j++ {
			a.collisionSystem.ResolvePlayerVsPlayer(a.players[i], a.players[j])
		}
	}

	for _, p := range a.players {
		p.recompute()
		if p.Eliminated() && p.weapon != nil {
			a.returnWeapon(p)
		}
	}

	if len(a.LivePlayers()) == 0 {
		a.reset()
	}
}

// handleWeapon returns a spent weapon to the world, or drops the held one on request
func (a *Arena) handleWeapon(p *Player) {
	w := p.weapon
	if w == nil {
		return
	}
	switch {
	case w.Spent():
		p.weapon = nil
		a.world.DiscardWeapon(w)
	case p.wantsDrop:
		a.world.DropWeapon(p)
	}
}

// returnWeapon puts the weapon of an eliminated player back into the world
// as a fresh copy of its template. The player has no position left to drop it at.
func (a *Arena) returnWeapon(p *Player) {
	w := p.weapon
	p.weapon = nil
	a.world.DiscardWeapon(w)
	logger.Log.WithFields(logrus.Fields{
		"player": p.ID,
		"weapon": w.Kind.String(),
	}).Debug("eliminated player's weapon returned to the world")
}

// reset rebuilds the match once every player has been eliminated
func (a *Arena) reset() {
	a.resets++
	logger.Log.WithFields(logrus.Fields{
		"frame":  a.frame,
		"resets": a.resets,
	}).Info("all players eliminated, resetting arena")
	a.populate(len(a.players))
}

// SetViewport changes the screen area player i is rendered into
func (a *Arena) SetViewport(i int, vp Viewport) {
	if i >= 0 && i < len(a.viewports) {
		a.viewports[i] = vp
	}
}

// Viewport returns the screen area of player i
func (a *Arena) Viewport(i int) Viewport {
	return a.viewports[i]
}

// World returns the chunk grid
func (a *Arena) World() *World {
	return a.world
}

// Players returns every player, eliminated or not
func (a *Arena) Players() []*Player {
	return a.players
}

// LivePlayers returns the players that still own at least one blob
func (a *Arena) LivePlayers() []*Player {
	live := make([]*Player, 0, len(a.players))
	for _, p := range a.players {
		if !p.Eliminated() {
			live = append(live, p)
		}
	}
	return live
}

// Enemies returns the current enemies
func (a *Arena) Enemies() []*Enemy {
	return a.enemies
}

// Viruses returns the viruses
func (a *Arena) Viruses() []*Virus {
	return a.viruses
}

// Frame returns the number of steps since the last (re)population
func (a *Arena) Frame() int {
	return a.frame
}

// Resets returns how many times the arena has been rebuilt
func (a *Arena) Resets() int {
	return a.resets
}
