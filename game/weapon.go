package game

// WeaponKind defines the different weapon templates
type WeaponKind int

const (
	WeaponKindGlock WeaponKind = iota
	WeaponKindRaygun
)

func (k WeaponKind) String() string {
	switch k {
	case WeaponKindGlock:
		return "glock"
	case WeaponKindRaygun:
		return "raygun"
	default:
		return "unknown"
	}
}

// Bullet is a projectile in flight
type Bullet struct {
	Position Vec2
	Velocity Vec2
	Radius   float64
}

// CollisionCircle returns the bullet's collision shape
func (b Bullet) CollisionCircle() Circle {
	return Circle{Center: b.Position, Radius: b.Radius}
}

// Weapon fires rate-limited, ammo-limited bullets that carry an Effect.
// A weapon lives either in a chunk (dropped) or in a player's hand.
type Weapon struct {
	Kind        WeaponKind
	Position    Vec2
	Effect      Effect
	FireRate    float64 // shots per second
	BulletSpeed float64

	ammo         int
	bullets      []Bullet
	bulletRadius float64

	// Cooldown tracking, advanced by Update
	sinceLastShot float64
	hasBeenFired  bool
}

func newWeapon(kind WeaponKind, effect Effect, fireRate float64, ammo int, bulletSpeed, bulletRadius float64) Weapon {
	return Weapon{
		Kind:         kind,
		Effect:       effect,
		FireRate:     fireRate,
		BulletSpeed:  bulletSpeed,
		ammo:         ammo,
		bulletRadius: bulletRadius,
	}
}

// Copy returns an independent weapon with the same stats and ammo but no
// bullets in flight and a fresh cooldown
func (w *Weapon) Copy() *Weapon {
	return &Weapon{
		Kind:         w.Kind,
		Position:     w.Position,
		Effect:       w.Effect,
		FireRate:     w.FireRate,
		BulletSpeed:  w.BulletSpeed,
		ammo:         w.ammo,
		bulletRadius: w.bulletRadius,
	}
}

// sameKind compares everything except position, ammo and bullets
func (w *Weapon) sameKind(o *Weapon) bool {
	return w.Kind == o.Kind &&
		w.FireRate == o.FireRate &&
		w.Effect == o.Effect &&
		w.BulletSpeed == o.BulletSpeed
}

// Ammo returns the remaining shots
func (w *Weapon) Ammo() int {
	return w.ammo
}

// Bullets returns the bullets in flight. The slice must not be modified.
func (w *Weapon) Bullets() []Bullet {
	return w.bullets
}

// Spent reports whether the weapon has no ammo left and nothing in flight
func (w *Weapon) Spent() bool {
	return w.ammo <= 0 && len(w.bullets) == 0
}

// CollisionCircle returns the pickup shape of a dropped weapon
func (w *Weapon) CollisionCircle(radius float64) Circle {
	return Circle{Center: w.Position, Radius: radius}
}

// CanShoot checks if the weapon is ready to fire.
// The very first shot is always allowed; after that 1/FireRate seconds must
// have passed since the previous shot.
func (w *Weapon) CanShoot() bool {
	if w.ammo <= 0 {
		return false
	}
	if !w.hasBeenFired {
		return true
	}
	if w.FireRate <= 0 {
		return false
	}
	return w.sinceLastShot >= 1/w.FireRate
}

// Fire spawns a bullet travelling along direction from the weapon's position.
// It returns false when the shot was rejected (cooldown, no ammo or no direction).
func (w *Weapon) Fire(direction Vec2) bool {
	dir := direction.Normalize()
	if dir == (Vec2{}) || !w.CanShoot() {
		return false
	}

	w.ammo--
	w.hasBeenFired = true
	w.sinceLastShot = 0
	w.bullets = append(w.bullets, Bullet{
		Position: w.Position,
		Velocity: dir.Scale(w.BulletSpeed),
		Radius:   w.bulletRadius,
	})
	return true
}

// Update advances every bullet by velocity*dt and drops the ones that left bounds
func (w *Weapon) Update(bounds Bounds, dt float64) {
	w.sinceLastShot += dt

	kept := w.bullets[:0]
	for _, b := range w.bullets {
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		if bounds.ContainsCircle(b.CollisionCircle()) {
			kept = append(kept, b)
		}
	}
	w.bullets = kept
}

// CheckCollision returns the index of the first target struck by any bullet.
// The striking bullet is consumed.
func (w *Weapon) CheckCollision(targets []Circle) (int, bool) {
	for ti, target := range targets {
		for bi, b := range w.bullets {
			if b.CollisionCircle().Overlaps(target) {
				w.bullets = append(w.bullets[:bi], w.bullets[bi+1:]...)
				return ti, true
			}
		}
	}
	return -1, false
}

// clearBullets drops everything in flight; used when the weapon changes hands
func (w *Weapon) clearBullets() {
	w.bullets = nil
}
