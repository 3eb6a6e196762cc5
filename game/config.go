package game

import (
	"image/color"
	"math/rand"
	"time"
)

// Config holds every simulation tunable. Values are read-only after the
// arena is built.
type Config struct {
	// ChunkSize is the edge length of one grid chunk in world units
	ChunkSize float64

	// ChunksPerAxis is the grid dimension; the world is ChunksPerAxis² chunks
	ChunksPerAxis int

	// Food
	MaxFoodPerChunk      int
	FoodAttraction       float64 // distance food drifts toward a blob per frame
	FoodAttractionRadius float64
	FoodMinRadius        int
	FoodMaxRadius        int
	FoodRespawnInterval  float64 // seconds between respawn ticks

	// Player
	StartingSize     float64
	MaxSpeed         float64 // px/s per axis
	Acceleration     float64 // px/s²
	MinSize          float64
	MaxSize          float64
	MaxBlobs         int
	SplitCooldown    float64 // seconds
	CohesionStrength float64 // px/s pull toward the cluster centroid
	// ReabsorptionFrames is how many consecutive frames a blob may stay the
	// smallest before it is merged into its nearest sibling
	ReabsorptionFrames int
	// SplitAttempts bounds the rejection sampling per child pair
	SplitAttempts int
	// SplitWindow scales the sampling square: half-width is
	// SplitWindow * sqrt(blobCount) * parentRadius
	SplitWindow float64

	// Weapons
	BulletRadius       float64
	WeaponPickupRadius float64

	// Enemies
	EnemyCount    int
	EnemyMinSize  int
	EnemyMaxSize  int
	EnemySpeed    float64
	EnemyRegrowth bool // respawn eaten enemies scaled to the eater

	// Viruses
	VirusCount     int
	VirusSize      float64
	VirusImpulse   float64 // px/s knockback on contact
	KnockbackDecay float64 // fraction of knockback lost per second

	// Camera
	MinZoom float64
	MaxZoom float64

	// ScreenWidth is the window width in pixels
	ScreenWidth int

	// ScreenHeight is the window height in pixels
	ScreenHeight int

	// Seed drives every random decision; 0 picks a time based seed
	Seed int64
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		ChunkSize:     1000,
		ChunksPerAxis: 9,

		MaxFoodPerChunk:      100,
		FoodAttraction:       5,
		FoodAttractionRadius: 20,
		FoodMinRadius:        5,
		FoodMaxRadius:        20,
		FoodRespawnInterval:  0.5,

		StartingSize:       40,
		MaxSpeed:           200,
		Acceleration:       500,
		MinSize:            20,
		MaxSize:            1000,
		MaxBlobs:           16,
		SplitCooldown:      0.5,
		CohesionStrength:   30,
		ReabsorptionFrames: 600,
		SplitAttempts:      100,
		SplitWindow:        2,

		BulletRadius:       5,
		WeaponPickupRadius: 30,

		EnemyCount:    50,
		EnemyMinSize:  20,
		EnemyMaxSize:  80,
		EnemySpeed:    15,
		EnemyRegrowth: true,

		VirusCount:     20,
		VirusSize:      60,
		VirusImpulse:   400,
		KnockbackDecay: 3,

		MinZoom: 0.2,
		MaxZoom: 5,

		ScreenWidth:  1280,
		ScreenHeight: 720,
	}
}

// WorldSize returns the edge length of the square world
func (c Config) WorldSize() float64 {
	return c.ChunkSize * float64(c.ChunksPerAxis)
}

// NewRand returns the random source for a simulation built from c
func (c Config) NewRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Catalog is the immutable set of weapon templates and colours shared by the
// world and the arena. It is built once and passed by pointer.
type Catalog struct {
	weapons []Weapon
	palette []color.RGBA
}

// NewCatalog builds the canonical weapon set and colour palette
func NewCatalog(cfg Config) *Catalog {
	return &Catalog{
		weapons: []Weapon{
			newWeapon(WeaponKindGlock, SlowDown(0.5, 3), 4, 8, 600, cfg.BulletRadius),
			newWeapon(WeaponKindRaygun, Damage(10, 2), 1, 4, 400, cfg.BulletRadius),
		},
		palette: []color.RGBA{
			{255, 0, 0, 255},     // red
			{0, 255, 0, 255},     // green
			{0, 0, 255, 255},     // blue
			{255, 255, 0, 255},   // yellow
			{128, 0, 128, 255},   // purple
			{255, 165, 0, 255},   // orange
			{165, 42, 42, 255},   // brown
			{255, 192, 203, 255}, // pink
			{0, 255, 255, 255},   // cyan
		},
	}
}

// Weapons returns copies of every template
func (c *Catalog) Weapons() []*Weapon {
	out := make([]*Weapon, len(c.weapons))
	for i := range c.weapons {
		out[i] = c.weapons[i].Copy()
	}
	return out
}

// Equivalent returns a fresh copy of the template matching w on everything
// except position, ammo and bullets
func (c *Catalog) Equivalent(w *Weapon) (*Weapon, bool) {
	for i := range c.weapons {
		if c.weapons[i].sameKind(w) {
			return c.weapons[i].Copy(), true
		}
	}
	return nil, false
}

// Palette returns the shared colour list
func (c *Catalog) Palette() []color.RGBA {
	return c.palette
}

// RandomColor picks a palette entry
func (c *Catalog) RandomColor(rng *rand.Rand) color.RGBA {
	return c.palette[rng.Intn(len(c.palette))]
}
