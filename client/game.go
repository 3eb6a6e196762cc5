package client

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"blobarena/game"
	"blobarena/logger"
	"blobarena/netsync"
)

// Options configures the window adapter
type Options struct {
	// Players is the number of local split-screen players (1 or 2)
	Players int

	// Mirror, when set, receives the first player's state every frame and
	// supplies remote players to draw
	Mirror *netsync.Mirror

	// ProfileOnFPSDrop enables automatic profile capture when FPS falls below 55
	ProfileOnFPSDrop bool
}

// Game adapts an Arena to ebiten.Game
type Game struct {
	arena    *game.Arena
	renderer *Renderer
	inputs   []InputProvider
	config   game.Config
	debug    DebugState
	mirror   *netsync.Mirror

	// FPS tracking
	fps              float64
	fpsUpdateCounter int
	fpsUpdateTimer   float64

	profiler        *Profiler
	lastFPSDropTime time.Time
	fpsDropCooldown time.Duration
	gameStartTime   time.Time

	// Last update time for delta time calculation
	lastUpdateTime time.Time
}

// NewGame creates the arena and wires one input provider per local player
func NewGame(config game.Config, opts Options) *Game {
	if opts.Players < 1 {
		opts.Players = 1
	}
	if opts.Players > 2 {
		opts.Players = 2
	}

	inputs := []InputProvider{NewPlayerInput(WASDKeys, true, 0)}
	if opts.Players == 2 {
		inputs = append(inputs, NewPlayerInput(ArrowKeys, false, 1))
	}

	g := &Game{
		arena:           game.NewArena(config, game.NewCatalog(config), opts.Players),
		renderer:        NewRenderer(),
		inputs:          inputs,
		config:          config,
		mirror:          opts.Mirror,
		fps:             60,
		fpsDropCooldown: 10 * time.Second,
		gameStartTime:   time.Now(),
		lastUpdateTime:  time.Now(),
	}
	if opts.ProfileOnFPSDrop {
		g.profiler = NewProfiler("profiles")
	}
	return g
}

// Update advances the arena by the wall-clock time since the previous call
func (g *Game) Update() error {
	now := time.Now()
	deltaTime := now.Sub(g.lastUpdateTime).Seconds()
	g.lastUpdateTime = now

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug.ToggleGrid()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.debug.ToggleRadar()
	}

	g.trackFPS(deltaTime)

	players := g.arena.Players()
	intents := make([]game.Intent, len(players))
	for i, in := range g.inputs {
		if i >= len(players) {
			break
		}
		players[i].Camera().ZoomBy(in.Zoom())
		intents[i] = in.Poll(g.origin(i), g.arena.Viewport(i))
	}

	g.arena.Step(intents, deltaTime)
	g.publish()
	return nil
}

// publish mirrors the first player; a failed mirror is dropped for the rest of the session
func (g *Game) publish() {
	if g.mirror == nil {
		return
	}
	p := g.arena.Players()[0]
	if err := g.mirror.Publish(netsync.StateOf(p)); err != nil {
		logger.Log.WithError(err).Warn("mirror publish failed, disabling mirror")
		g.mirror.Close()
		g.mirror = nil
	}
}

func (g *Game) trackFPS(deltaTime float64) {
	g.fpsUpdateTimer += deltaTime
	g.fpsUpdateCounter++
	if g.fpsUpdateTimer < 0.5 {
		return
	}
	g.fps = float64(g.fpsUpdateCounter) / g.fpsUpdateTimer
	g.fpsUpdateCounter = 0
	g.fpsUpdateTimer = 0

	// Skip the first seconds after launch while assets warm up
	if g.profiler == nil || g.fps >= 55 || g.profiler.IsProfiling() ||
		time.Since(g.gameStartTime) < 3*time.Second ||
		time.Since(g.lastFPSDropTime) < g.fpsDropCooldown {
		return
	}
	g.lastFPSDropTime = time.Now()

	stats := StatsOf(g.arena, g.fps)
	logger.Log.WithFields(logrus.Fields{
		"fps":   g.fps,
		"blobs": stats.Blobs,
	}).Warn("FPS drop detected, capturing profile")
	if err := g.profiler.CaptureProfile(stats); err != nil {
		logger.Log.WithError(err).Debug("profile capture skipped")
	}
}

// origin returns the top-left screen corner of player i's viewport
func (g *Game) origin(i int) game.Vec2 {
	var x float64
	for j := 0; j < i; j++ {
		x += g.arena.Viewport(j).Width
	}
	return game.Vec2{X: x}
}

// Draw renders every local viewport
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 40, 255})

	var remote []netsync.PlayerState
	if g.mirror != nil {
		remote = g.mirror.Remote()
	}
	for i := range g.arena.Players() {
		g.renderer.Render(screen, g.arena, i, g.origin(i), remote, &g.debug)
		if i > 0 {
			g.renderer.renderDivider(screen, g.origin(i).X)
		}
	}
	if g.debug.ShowGrid {
		g.renderer.renderFPS(screen, g.fps)
	}
}

// Layout splits the window evenly between the local players
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	n := len(g.arena.Players())
	vp := game.Viewport{
		Width:  float64(outsideWidth) / float64(n),
		Height: float64(outsideHeight),
	}
	for i := 0; i < n; i++ {
		g.arena.SetViewport(i, vp)
	}
	return outsideWidth, outsideHeight
}
