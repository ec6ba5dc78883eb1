package game

import (
	"math"

	"arena-duel/internal/game/spatial"
)

// EffectKind identifies what produced a visual effect.
type EffectKind uint8

const (
	EffectGrenade EffectKind = iota
	EffectMine
	EffectBarrel
	EffectTeleport
)

func (k EffectKind) String() string {
	switch k {
	case EffectGrenade:
		return "grenade"
	case EffectMine:
		return "mine"
	case EffectBarrel:
		return "barrel"
	case EffectTeleport:
		return "teleport"
	default:
		return "unknown"
	}
}

// Effect durations and peak alpha.
const (
	ExplosionDuration = 0.35
	TeleportDuration  = 0.22
	TeleportRadius    = 34.0
	TeleportAlpha     = 220
)

// Effect is an expanding ring left by a detonation or teleport. It has no
// collision of its own; damage is applied once when the detonation happens.
type Effect struct {
	Kind      EffectKind
	Pos       spatial.Vec2
	MaxRadius float64
	Duration  float64
	Elapsed   float64
	PeakAlpha float64
}

// NewExplosion creates the standard detonation ring.
func NewExplosion(kind EffectKind, pos spatial.Vec2, radius float64) *Effect {
	return &Effect{
		Kind:      kind,
		Pos:       pos,
		MaxRadius: radius,
		Duration:  ExplosionDuration,
		PeakAlpha: 255,
	}
}

// NewTeleportFlash creates the short ring shown at both portal ends.
func NewTeleportFlash(pos spatial.Vec2) *Effect {
	return &Effect{
		Kind:      EffectTeleport,
		Pos:       pos,
		MaxRadius: TeleportRadius,
		Duration:  TeleportDuration,
		PeakAlpha: TeleportAlpha,
	}
}

// Update advances the effect. Returns false once it has finished.
func (e *Effect) Update(dt float64) bool {
	e.Elapsed += dt
	return !e.Done()
}

// Done reports whether the effect has run its full duration.
func (e *Effect) Done() bool {
	return e.Elapsed >= e.Duration
}

func (e *Effect) progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	return spatial.Clamp(e.Elapsed/e.Duration, 0, 1)
}

// Radius grows with an ease-out curve: max * (1-(1-p)^2).
func (e *Effect) Radius() float64 {
	p := e.progress()
	return e.MaxRadius * (1 - (1-p)*(1-p))
}

// Alpha fades linearly from PeakAlpha to zero.
func (e *Effect) Alpha() uint8 {
	return uint8(math.Round(e.PeakAlpha * (1 - e.progress())))
}

// Draw renders the effect as a translucent disc with a bright rim.
func (e *Effect) Draw(s Surface, v View) {
	r := e.Radius()
	if r <= 0 {
		return
	}
	c := v.Point(e.Pos)
	a := e.Alpha()
	switch e.Kind {
	case EffectTeleport:
		s.StrokeCircle(c, r, withAlpha(colorTeleport, a), 3)
	case EffectBarrel:
		s.FillCircle(c, r, withAlpha(colorShockwave, a/3))
		s.StrokeCircle(c, r, withAlpha(colorShockwave, a), 4)
	default:
		s.FillCircle(c, r, withAlpha(colorExplosion, a/3))
		s.StrokeCircle(c, r, withAlpha(colorExplosion, a), 3)
	}
}

// updateEffects ages effects in place and drops finished ones.
func updateEffects(effects []*Effect, dt float64) []*Effect {
	n := 0
	for _, e := range effects {
		if e.Update(dt) {
			effects[n] = e
			n++
		}
	}
	for i := n; i < len(effects); i++ {
		effects[i] = nil
	}
	return effects[:n]
}
