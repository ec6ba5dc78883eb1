package game

import (
	"image/color"
	"math"
	"math/rand"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// Poison is a shrinking safe rectangle. Players whose centre is outside it
// lose health continuously.
type Poison struct {
	hazardBase
	cfg config.PoisonConfig

	Safe   spatial.Rect
	arena  spatial.Rect
	minW   float64
	minH   float64
	acc    float64
	Shrunk int
}

// NewPoison creates the poison zone. SpawnInitial sizes it to the arena.
func NewPoison(cfg config.PoisonConfig) *Poison {
	return &Poison{cfg: cfg}
}

func (p *Poison) Name() string { return config.HazardPoison }

// SpawnInitial resets the safe zone to the whole margin-bounded arena.
func (p *Poison) SpawnInitial(w *World) {
	p.arena = w.Bounds()
	p.Safe = p.arena
	p.minW = math.Floor(w.Arena.Width * p.cfg.MinWidthPct)
	p.minH = math.Floor(w.Arena.Height * p.cfg.MinHeightPct)
	p.acc = 0
	p.Shrunk = 0
}

// Update shrinks the zone at most once per tick and applies damage to
// players outside it. Fractional damage is carried on the player between
// ticks.
func (p *Poison) Update(w *World, dt float64) {
	p.acc += dt
	if p.acc >= p.cfg.Interval {
		p.acc -= p.cfg.Interval
		p.shrink()
	}

	for _, pl := range w.Players {
		if p.Safe.ContainsPoint(pl.Center()) {
			continue
		}
		pl.PoisonCarry += p.cfg.DamagePerSec * dt
		take := int(pl.PoisonCarry)
		if take > 0 {
			w.Damage(pl, take, config.HazardPoison)
			pl.PoisonCarry -= float64(take)
		}
	}
}

// shrink pulls every edge in by Step around a fixed centre, never below
// the minimum size, and keeps the zone inside the arena.
func (p *Poison) shrink() {
	c := p.Safe.Center()
	nw := math.Max(p.minW, p.Safe.W-2*p.cfg.Step)
	nh := math.Max(p.minH, p.Safe.H-2*p.cfg.Step)
	p.Safe = spatial.RectAround(c, nw, nh).ClampInto(p.arena)
	p.Shrunk++
}

var (
	colorPoisonFog  = color.RGBA{90, 20, 110, 90}
	colorPoisonEdge = color.RGBA{190, 90, 255, 255}
)

// Draw tints the four bands outside the safe zone and outlines it.
func (p *Poison) Draw(s Surface, v View) {
	a, z := p.arena, p.Safe
	bands := []spatial.Rect{
		spatial.R(a.X, a.Y, a.W, z.Y-a.Y),
		spatial.R(a.X, z.Bottom(), a.W, a.Bottom()-z.Bottom()),
		spatial.R(a.X, z.Y, z.X-a.X, z.H),
		spatial.R(z.Right(), z.Y, a.Right()-z.Right(), z.H),
	}
	for _, b := range bands {
		if b.W > 0 && b.H > 0 {
			s.FillRect(v.Rect(b), colorPoisonFog, 0)
		}
	}
	s.StrokeRect(v.Rect(z), colorPoisonEdge, 3, 0)
}

// Mine is a proximity mine. It cannot trigger until ArmLeft reaches zero.
type Mine struct {
	Pos     spatial.Vec2
	Radius  float64
	ArmLeft float64
}

// Armed reports whether the mine can trigger.
func (m *Mine) Armed() bool { return m.ArmLeft <= 0 }

// Mine layout constants.
const (
	mineTriggerSlack = 10.0 // trigger distance beyond the radius
	minePlaceSlack   = 6.0  // clearance added to the radius when placing
	mineObstaclePad  = 12.0
)

// Mines is the set of proximity mines placed at round start.
type Mines struct {
	hazardBase
	cfg config.MineConfig
	rng *rand.Rand

	mines []*Mine
	clock float64
}

// NewMines creates the mine system. SpawnInitial places the mines.
func NewMines(cfg config.MineConfig, rng *rand.Rand) *Mines {
	return &Mines{cfg: cfg, rng: rng}
}

func (m *Mines) Name() string { return config.HazardMines }

// Mines returns the live mines.
func (m *Mines) Mines() []*Mine { return m.mines }

// Blast returns the mine blast parameters.
func (m *Mines) Blast() Blast {
	return Blast{Radius: m.cfg.Blast, MinDamage: m.cfg.MinDamage, MaxDamage: m.cfg.MaxDamage}
}

// SpawnInitial places up to Count mines; placements that fail are skipped.
func (m *Mines) SpawnInitial(w *World) {
	placer := w.NewPlacer(m.rng)
	opts := spatial.PlaceOptions{
		Attempts:    m.cfg.Attempts,
		ObstaclePad: mineObstaclePad,
		AvoidPad:    m.cfg.AvoidPad,
	}
	m.mines = m.mines[:0]
	for i := 0; i < m.cfg.Count; i++ {
		pos, ok := placer.FindFreePoint(m.cfg.Radius+minePlaceSlack, w.Obstacles(), w.SpawnZones(), nil, opts)
		if !ok {
			continue
		}
		m.mines = append(m.mines, &Mine{Pos: pos, Radius: m.cfg.Radius, ArmLeft: m.cfg.ArmDelay})
	}
}

// Update arms mines and detonates any armed mine a player centre comes
// within radius+10 of. The mine is removed before it explodes.
func (m *Mines) Update(w *World, dt float64) {
	m.clock += dt
	for _, mine := range m.mines {
		if mine.ArmLeft > 0 {
			mine.ArmLeft -= dt
		}
	}

	for i := 0; i < len(m.mines); {
		mine := m.mines[i]
		if !mine.Armed() || !m.triggered(w, mine) {
			i++
			continue
		}
		m.mines = append(m.mines[:i], m.mines[i+1:]...)
		w.Explode(mine.Pos, m.Blast(), EffectMine)
	}
}

func (m *Mines) triggered(w *World, mine *Mine) bool {
	reach := mine.Radius + mineTriggerSlack
	for _, pl := range w.Players {
		if pl.Center().Dist(mine.Pos) <= reach {
			return true
		}
	}
	return false
}

var (
	colorMineIdle  = color.RGBA{120, 120, 130, 255}
	colorMineArmed = color.RGBA{240, 90, 90, 255}
	colorMineGlow  = color.RGBA{255, 90, 90, 255}
	colorMineDot   = color.RGBA{245, 245, 245, 255}
)

func (m *Mines) Draw(s Surface, v View) {
	pulse := 0.5 + 0.5*math.Sin(m.clock*6)
	glowAlpha := uint8(60 + 90*pulse)
	for _, mine := range m.mines {
		c := v.Point(mine.Pos)
		core := colorMineIdle
		if mine.Armed() {
			s.FillCircle(c, mine.Radius+mineTriggerSlack, withAlpha(colorMineGlow, glowAlpha))
			core = colorMineArmed
		}
		s.FillCircle(c, mine.Radius, core)
		s.StrokeCircle(c, mine.Radius, colorOutline, 2)
		s.FillCircle(c, 3, colorMineDot)
	}
}
