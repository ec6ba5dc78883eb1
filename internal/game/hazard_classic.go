package game

import (
	"image/color"
	"math"
	"math/rand"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// Apple is a heal pickup lying on the floor.
type Apple struct {
	Rect spatial.Rect
	Heal int
}

// Apples spawns heal pickups on a random timer, up to a cap.
type Apples struct {
	hazardBase
	cfg config.AppleConfig
	rng *rand.Rand

	apples  []Apple
	spawnIn float64
}

// NewApples creates an empty apple spawner. The first apple appears after
// one full spawn delay.
func NewApples(cfg config.AppleConfig, rng *rand.Rand) *Apples {
	a := &Apples{cfg: cfg, rng: rng}
	a.spawnIn = a.nextDelay()
	return a
}

func (a *Apples) Name() string { return config.HazardApples }

// Apples returns the apples currently on the floor.
func (a *Apples) Apples() []Apple { return a.apples }

func (a *Apples) nextDelay() float64 {
	return a.cfg.SpawnMin + a.rng.Float64()*(a.cfg.SpawnMax-a.cfg.SpawnMin)
}

// Update runs the spawn timer and lets players pick up apples. A pickup is
// consumed even at full health.
func (a *Apples) Update(w *World, dt float64) {
	a.spawnIn -= dt
	if a.spawnIn <= 0 {
		if len(a.apples) < a.cfg.MaxApples {
			a.spawnOne(w)
		}
		a.spawnIn = a.nextDelay()
	}

	for _, p := range w.Players {
		hit := p.BodyHitbox()
		n := 0
		for _, ap := range a.apples {
			if hit.Intersects(ap.Rect) {
				w.Heal(p, ap.Heal)
				w.Play("apple", a.cfg.SoundVolume)
				continue
			}
			a.apples[n] = ap
			n++
		}
		a.apples = a.apples[:n]
	}
}

func (a *Apples) spawnOne(w *World) {
	placed := make([]spatial.Rect, len(a.apples))
	for i, ap := range a.apples {
		placed[i] = ap.Rect
	}
	r, ok := w.NewPlacer(a.rng).FindFreeRect(a.cfg.Size, a.cfg.Size,
		w.Obstacles(), w.SpawnZones(), placed,
		spatial.PlaceOptions{Attempts: a.cfg.Attempts, AvoidPad: a.cfg.AvoidPad})
	if !ok {
		return
	}
	a.apples = append(a.apples, Apple{Rect: r, Heal: a.cfg.Heal})
}

var (
	colorApple     = color.RGBA{235, 80, 80, 255}
	colorAppleLeaf = color.RGBA{90, 220, 120, 255}
	colorOutline   = color.RGBA{30, 30, 35, 255}
)

func (a *Apples) Draw(s Surface, v View) {
	for _, ap := range a.apples {
		c := v.Rect(ap.Rect).Center()
		s.FillCircle(c, 9, colorApple)
		s.StrokeCircle(c, 9, colorOutline, 2)
		s.FillCircle(c.Add(spatial.V(6, -8)), 3, colorAppleLeaf)
	}
}

// Portal is one end of a teleporter pair.
type Portal struct {
	Pos    spatial.Vec2
	Radius float64
}

// Portal layout constants.
const (
	portalTouchSlack   = 10.0  // contact distance beyond the radius
	portalFallbackGap  = 260.0 // B offset when no separated spot is found
	portalMinDrawRad   = 6.0
	portalNudge        = 28.0
	portalNudgeDiag    = 20.0
	teleportSoundLevel = 0.5
)

// exitNudges are tried around the destination when the forward exit point
// is blocked.
var exitNudges = []spatial.Vec2{
	{X: 0, Y: -portalNudge}, {X: 0, Y: portalNudge}, {X: portalNudge, Y: 0}, {X: -portalNudge, Y: 0},
	{X: portalNudgeDiag, Y: portalNudgeDiag}, {X: -portalNudgeDiag, Y: portalNudgeDiag},
	{X: portalNudgeDiag, Y: -portalNudgeDiag}, {X: -portalNudgeDiag, Y: -portalNudgeDiag},
}

// Portals is a linked pair of teleporters with a per-player cooldown.
type Portals struct {
	hazardBase
	cfg config.PortalConfig
	rng *rand.Rand

	A, B     *Portal
	cooldown [2]float64
	clock    float64
}

// NewPortals creates the portal system. SpawnInitial places the pair.
func NewPortals(cfg config.PortalConfig, rng *rand.Rand) *Portals {
	return &Portals{cfg: cfg, rng: rng}
}

func (p *Portals) Name() string { return config.HazardPortals }

// Cooldown returns the remaining teleport cooldown for a player.
func (p *Portals) Cooldown(id PlayerID) float64 {
	return p.cooldown[id-1]
}

// SpawnInitial places A, then searches for a B at least MinSeparation away.
// If that fails B is placed a fixed distance to the right of A.
func (p *Portals) SpawnInitial(w *World) {
	placer := w.NewPlacer(p.rng)
	opts := spatial.PlaceOptions{Attempts: p.cfg.Attempts, AvoidPad: p.cfg.AvoidPad}

	a, ok := placer.FindFreePoint(p.cfg.Radius, w.Obstacles(), w.SpawnZones(), nil, opts)
	if !ok {
		return
	}
	p.A = &Portal{Pos: a, Radius: p.cfg.Radius}

	for i := 0; i < p.cfg.PairAttempts; i++ {
		b, ok := placer.FindFreePoint(p.cfg.Radius, w.Obstacles(), w.SpawnZones(), nil, opts)
		if !ok {
			continue
		}
		if b.Dist(a) >= p.cfg.MinSeparation {
			p.B = &Portal{Pos: b, Radius: p.cfg.Radius}
			return
		}
	}
	p.B = &Portal{Pos: a.Add(spatial.V(portalFallbackGap, 0)), Radius: p.cfg.Radius}
}

func (p *Portals) inside(pl *Player, portal *Portal) bool {
	return pl.Center().Dist(portal.Pos) <= portal.Radius+portalTouchSlack
}

// Update ages the cooldowns and teleports any player touching a portal.
func (p *Portals) Update(w *World, dt float64) {
	p.clock += dt
	if p.A == nil || p.B == nil {
		return
	}

	for i := range p.cooldown {
		p.cooldown[i] = math.Max(0, p.cooldown[i]-dt)
	}

	for _, pl := range w.Players {
		idx := int(pl.ID) - 1
		if p.cooldown[idx] > 0 {
			continue
		}
		switch {
		case p.inside(pl, p.A):
			p.teleport(w, pl, p.B)
		case p.inside(pl, p.B):
			p.teleport(w, pl, p.A)
		default:
			continue
		}
		p.cooldown[idx] = p.cfg.Cooldown
	}
}

// teleport moves pl just past dest along its horizontal facing. If the
// body would land in a blocker the nudge offsets around dest are tried in
// order.
func (p *Portals) teleport(w *World, pl *Player, dest *Portal) {
	from := pl.Center()

	fx := 1.0
	if pl.Facing.X < 0 {
		fx = -1
	}
	w.Teleport(pl, dest.Pos.Add(spatial.V(fx*(dest.Radius+p.cfg.ExitOffset), 0)))

	blockers := w.Blockers()
	if blockers.Overlaps(pl.BodyHitbox()) {
		for _, n := range exitNudges {
			w.Teleport(pl, dest.Pos.Add(n))
			if !blockers.Overlaps(pl.BodyHitbox()) {
				break
			}
		}
	}

	to := pl.Center()
	w.AddEffect(NewTeleportFlash(from))
	w.AddEffect(NewTeleportFlash(to))
	w.Play("teleport", teleportSoundLevel)
	w.Emit(EventTypeTeleport, pl.ID, TeleportPayload{FromX: from.X, FromY: from.Y, ToX: to.X, ToY: to.Y})
}

// DrawRadius returns the breathing radius used for rendering only.
func (p *Portals) DrawRadius(portal *Portal) float64 {
	r := portal.Radius + p.cfg.BreathAmp*math.Sin(2*math.Pi*p.cfg.BreathHz*p.clock)
	return math.Max(portalMinDrawRad, r)
}

var (
	colorPortalAInner = color.RGBA{110, 140, 255, 255}
	colorPortalAOuter = color.RGBA{180, 200, 255, 255}
	colorPortalBInner = color.RGBA{255, 130, 90, 255}
	colorPortalBOuter = color.RGBA{255, 210, 180, 255}
)

func (p *Portals) Draw(s Surface, v View) {
	if p.A == nil || p.B == nil {
		return
	}
	p.drawOne(s, v, p.A, colorPortalAInner, colorPortalAOuter)
	p.drawOne(s, v, p.B, colorPortalBInner, colorPortalBOuter)
}

func (p *Portals) drawOne(s Surface, v View, portal *Portal, inner, outer color.RGBA) {
	c := v.Point(portal.Pos)
	r := p.DrawRadius(portal)
	s.StrokeCircle(c, r+6, outer, 4)
	s.FillCircle(c, r, inner)
	s.StrokeCircle(c, r, colorOutline, 2)
}
