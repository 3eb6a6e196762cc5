package game

// EffectKind identifies an effect variant
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectSlowDown
	EffectDamage
)

func (k EffectKind) String() string {
	switch k {
	case EffectSlowDown:
		return "slow_down"
	case EffectDamage:
		return "damage"
	default:
		return "none"
	}
}

// Effect is a timed status modifier carried by a weapon and applied to
// whatever its bullets strike. Only the fields of the active Kind are used.
type Effect struct {
	Kind EffectKind

	// Factor multiplies the target's speed while a SlowDown is active
	Factor float64

	// Amount is the total size removed over the duration of a Damage
	Amount float64

	seconds float64
}

// SlowDown builds an effect that scales speed by factor for the given seconds
func SlowDown(factor, seconds float64) Effect {
	return Effect{Kind: EffectSlowDown, Factor: factor, seconds: seconds}
}

// Damage builds an effect that removes amount size linearly over the given seconds
func Damage(amount, seconds float64) Effect {
	return Effect{Kind: EffectDamage, Amount: amount, seconds: seconds}
}

// Duration returns how long the effect lasts in seconds
func (e Effect) Duration() float64 {
	switch e.Kind {
	case EffectSlowDown, EffectDamage:
		return e.seconds
	default:
		return 0
	}
}

// Target is anything a bullet can strike
type Target interface {
	Status() *Status
	Shrink(by float64)
}

// Apply starts the effect on t, replacing whatever effect t had
func (e Effect) Apply(t Target) {
	st := t.Status()
	switch e.Kind {
	case EffectSlowDown, EffectDamage:
		st.effect = e
		st.remaining = e.Duration()
	default:
		st.Clear()
	}
}

// Status is the effect slot embedded in every target
type Status struct {
	effect    Effect
	remaining float64
}

// Active returns the running effect kind
func (s *Status) Active() EffectKind {
	return s.effect.Kind
}

// Remaining returns the seconds left on the running effect
func (s *Status) Remaining() float64 {
	return s.remaining
}

// SpeedFactor returns the multiplier applied to movement speed
func (s *Status) SpeedFactor() float64 {
	switch s.effect.Kind {
	case EffectSlowDown:
		return s.effect.Factor
	default:
		return 1
	}
}

// Clear drops the running effect; modified state reverts with it
func (s *Status) Clear() {
	s.effect = Effect{}
	s.remaining = 0
}

// Tick advances the running effect by dt and clears it at zero remaining time
func (s *Status) Tick(t Target, dt float64) {
	if s.effect.Kind == EffectNone {
		return
	}
	step := dt
	if step > s.remaining {
		step = s.remaining
	}
	switch s.effect.Kind {
	case EffectDamage:
		if s.effect.seconds > 0 {
			t.Shrink(s.effect.Amount * step / s.effect.seconds)
		}
	}
	s.remaining -= step
	if s.remaining <= 0 {
		s.Clear()
	}
}
