package game

import "testing"

func TestSlowDownRevertsAfterDuration(t *testing.T) {
	e := NewEnemy(Vec2{}, 40, testColor, 10)
	SlowDown(0.5, 3).Apply(e)

	if e.Status().SpeedFactor() != 0.5 {
		t.Fatalf("speed factor = %v, want 0.5", e.Status().SpeedFactor())
	}
	for i := 0; i < 2; i++ {
		e.Status().Tick(e, 1)
	}
	if e.Status().Active() != EffectSlowDown {
		t.Fatalf("effect cleared too early, %v remaining", e.Status().Remaining())
	}
	e.Status().Tick(e, 1)
	if e.Status().Active() != EffectNone {
		t.Fatalf("effect still active after its duration")
	}
	if e.Status().SpeedFactor() != 1 {
		t.Fatalf("speed factor after expiry = %v, want 1", e.Status().SpeedFactor())
	}
}

func TestDamageShrinksLinearly(t *testing.T) {
	e := NewEnemy(Vec2{}, 50, testColor, 10)
	Damage(10, 2).Apply(e)

	e.Status().Tick(e, 1)
	if e.Size != 45 {
		t.Fatalf("size after 1s = %v, want 45", e.Size)
	}
	// Overshooting dt only applies what is left of the effect
	e.Status().Tick(e, 5)
	if e.Size != 40 {
		t.Fatalf("size after expiry = %v, want 40", e.Size)
	}
	if e.Status().Active() != EffectNone {
		t.Fatalf("damage still active after its duration")
	}
}

func TestApplyReplacesRunningEffect(t *testing.T) {
	e := NewEnemy(Vec2{}, 50, testColor, 10)
	SlowDown(0.5, 3).Apply(e)
	e.Status().Tick(e, 2)
	SlowDown(0.25, 3).Apply(e)

	if e.Status().Remaining() != 3 {
		t.Fatalf("remaining = %v, want a fresh 3", e.Status().Remaining())
	}
	if e.Status().SpeedFactor() != 0.25 {
		t.Fatalf("speed factor = %v, want 0.25", e.Status().SpeedFactor())
	}
}

func TestEffectDuration(t *testing.T) {
	if d := SlowDown(0.5, 3).Duration(); d != 3 {
		t.Fatalf("slow down duration = %v", d)
	}
	if d := Damage(1, 2).Duration(); d != 2 {
		t.Fatalf("damage duration = %v", d)
	}
	if d := (Effect{}).Duration(); d != 0 {
		t.Fatalf("empty effect duration = %v", d)
	}
}

func TestSlowedPlayerMovesSlower(t *testing.T) {
	cfg := testConfig()
	free := newTestPlayer(cfg, Vec2{1500, 1500})
	slow := newTestPlayer(cfg, Vec2{1500, 1500})
	SlowDown(0.5, 3).Apply(slow)

	in := Intent{Move: Vec2{1, 0}}
	free.Update(in, 0.1)
	slow.Update(in, 0.1)

	dFree := free.Position().X - 1500
	dSlow := slow.Position().X - 1500
	if !approx(dSlow, dFree*0.5) {
		t.Fatalf("slowed displacement = %v, want half of %v", dSlow, dFree)
	}
}
