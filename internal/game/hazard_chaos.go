package game

import (
	"image/color"
	"math/rand"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// Barrels are explosive blockers. A bullet hit removes the barrel and
// detonates it at its centre; any detonation chains to barrels nearby.
type Barrels struct {
	hazardBase
	cfg config.BarrelConfig
	rng *rand.Rand

	barrels []spatial.Rect
}

// NewBarrels creates the barrel system. SpawnInitial places the barrels.
func NewBarrels(cfg config.BarrelConfig, rng *rand.Rand) *Barrels {
	return &Barrels{cfg: cfg, rng: rng}
}

func (b *Barrels) Name() string { return config.HazardBarrels }

// Blast returns the barrel blast parameters.
func (b *Barrels) Blast() Blast {
	return Blast{Radius: b.cfg.Blast, MinDamage: b.cfg.MinDamage, MaxDamage: b.cfg.MaxDamage}
}

// SpawnInitial places up to Count barrels apart from each other.
func (b *Barrels) SpawnInitial(w *World) {
	placer := w.NewPlacer(b.rng)
	opts := spatial.PlaceOptions{Attempts: b.cfg.Attempts, AvoidPad: b.cfg.AvoidPad}
	b.barrels = b.barrels[:0]
	for i := 0; i < b.cfg.Count; i++ {
		r, ok := placer.FindFreeRect(b.cfg.Width, b.cfg.Height, w.Obstacles(), w.SpawnZones(), b.barrels, opts)
		if !ok {
			continue
		}
		b.barrels = append(b.barrels, r)
	}
}

// Blockers returns the intact barrels.
func (b *Barrels) Blockers() []spatial.Rect {
	return append([]spatial.Rect(nil), b.barrels...)
}

// HandleBulletHit detonates the first barrel the bullet touches.
func (b *Barrels) HandleBulletHit(w *World, bullet *Bullet) bool {
	for i, r := range b.barrels {
		if bullet.Hits(r) {
			b.barrels = append(b.barrels[:i], b.barrels[i+1:]...)
			w.Explode(r.Center(), b.Blast(), EffectBarrel)
			return true
		}
	}
	return false
}

// OnExplosion chains: every barrel whose centre lies within ChainRadius of
// the blast is removed, then each detonates at its own centre. Removal
// happens first so a barrel never explodes twice.
func (b *Barrels) OnExplosion(w *World, pos spatial.Vec2, _ float64) {
	var chain []spatial.Rect
	n := 0
	for _, r := range b.barrels {
		if r.Center().Dist(pos) <= b.cfg.ChainRadius {
			chain = append(chain, r)
			continue
		}
		b.barrels[n] = r
		n++
	}
	b.barrels = b.barrels[:n]

	for _, r := range chain {
		w.Explode(r.Center(), b.Blast(), EffectBarrel)
	}
}

var (
	colorBarrel     = color.RGBA{200, 60, 50, 255}
	colorBarrelBand = color.RGBA{240, 200, 70, 255}
)

func (b *Barrels) Draw(s Surface, v View) {
	for _, r := range b.barrels {
		vr := v.Rect(r)
		s.FillRect(vr, colorBarrel, 8)
		s.StrokeRect(vr, colorOutline, 2, 8)
		band := spatial.R(vr.X+3, vr.Y+vr.H*0.3, vr.W-6, 5)
		s.FillRect(band, colorBarrelBand, 0)
		s.FillRect(band.Translate(spatial.V(0, vr.H*0.35)), colorBarrelBand, 0)
	}
}

// TileState is a breakable floor tile's state.
type TileState uint8

const (
	TileIntact TileState = iota
	TileMud
	TilePit
)

func (s TileState) String() string {
	switch s {
	case TileIntact:
		return "intact"
	case TileMud:
		return "mud"
	case TilePit:
		return "pit"
	default:
		return "unknown"
	}
}

// Tile is a breakable floor tile. Broken is the state it turns into.
type Tile struct {
	Rect   spatial.Rect
	State  TileState
	Broken TileState
}

// Floor is the set of breakable tiles. Intact tiles break into mud (slow)
// or pit (blocking) when shot or caught near a detonation.
type Floor struct {
	hazardBase
	cfg config.FloorConfig
	rng *rand.Rand

	tiles []*Tile
}

// NewFloor creates the floor system. SpawnInitial places the tiles.
func NewFloor(cfg config.FloorConfig, rng *rand.Rand) *Floor {
	return &Floor{cfg: cfg, rng: rng}
}

func (f *Floor) Name() string { return config.HazardFloor }

// Tiles returns every tile.
func (f *Floor) Tiles() []*Tile { return f.tiles }

// SpawnInitial places up to Count tiles. A share start as mud; the rest
// start intact with their broken kind rolled up front.
func (f *Floor) SpawnInitial(w *World) {
	placer := w.NewPlacer(f.rng)
	opts := spatial.PlaceOptions{Attempts: f.cfg.Attempts, AvoidPad: f.cfg.AvoidPad}
	f.tiles = f.tiles[:0]
	var placed []spatial.Rect

	for i := 0; i < f.cfg.Count; i++ {
		tw := float64(randInt(f.rng, int(f.cfg.MinWidth), int(f.cfg.MaxWidth)))
		th := float64(randInt(f.rng, int(f.cfg.MinHeight), int(f.cfg.MaxHeight)))
		r, ok := placer.FindFreeRect(tw, th, w.Obstacles(), w.SpawnZones(), placed, opts)
		if !ok {
			continue
		}

		t := &Tile{Rect: r, State: TileMud, Broken: TileMud}
		if f.rng.Float64() >= f.cfg.InitialMud {
			t.State = TileIntact
			t.Broken = TilePit
			if f.rng.Float64() < f.cfg.MudChance {
				t.Broken = TileMud
			}
		}
		f.tiles = append(f.tiles, t)
		placed = append(placed, r)
	}
}

// Blockers returns the pits.
func (f *Floor) Blockers() []spatial.Rect {
	var out []spatial.Rect
	for _, t := range f.tiles {
		if t.State == TilePit {
			out = append(out, t.Rect)
		}
	}
	return out
}

// SpeedFactor returns MudSlow if the hitbox overlaps any mud tile.
func (f *Floor) SpeedFactor(hitbox spatial.Rect) float64 {
	for _, t := range f.tiles {
		if t.State == TileMud && hitbox.Intersects(t.Rect) {
			return f.cfg.MudSlow
		}
	}
	return 1
}

// HandleBulletHit breaks the first intact tile the bullet touches.
func (f *Floor) HandleBulletHit(w *World, b *Bullet) bool {
	for _, t := range f.tiles {
		if t.State == TileIntact && b.Hits(t.Rect) {
			f.breakTile(w, t)
			return true
		}
	}
	return false
}

// OnExplosion breaks intact tiles whose centre is within radius+BreakPad.
func (f *Floor) OnExplosion(w *World, pos spatial.Vec2, radius float64) {
	for _, t := range f.tiles {
		if t.State == TileIntact && t.Rect.Center().Dist(pos) <= radius+f.cfg.BreakPad {
			f.breakTile(w, t)
		}
	}
}

func (f *Floor) breakTile(w *World, t *Tile) {
	t.State = t.Broken
	c := t.Rect.Center()
	w.Emit(EventTypeTileBroken, 0, TilePayload{State: t.State.String(), X: c.X, Y: c.Y})
	if t.State == TilePit {
		w.InvalidateBlockers()
	}
}

var (
	colorWood     = color.RGBA{140, 96, 58, 255}
	colorWoodEdge = color.RGBA{60, 38, 20, 255}
	colorWoodX    = color.RGBA{25, 18, 12, 255}
	colorPit      = color.RGBA{12, 12, 16, 255}
	colorPitEdge  = color.RGBA{110, 110, 130, 255}
	colorMud      = color.RGBA{120, 95, 70, 255}
	colorMudSpot  = color.RGBA{170, 140, 110, 255}
)

func (f *Floor) Draw(s Surface, v View) {
	for _, t := range f.tiles {
		r := v.Rect(t.Rect)
		switch t.State {
		case TileIntact:
			s.FillRect(r, colorWood, 10)
			s.StrokeRect(r, colorWoodEdge, 2, 10)
			in := r.Inflate(-12, -12)
			if in.W > 0 && in.H > 0 {
				s.Line(spatial.V(in.Left(), in.Top()), spatial.V(in.Right(), in.Bottom()), colorWoodX, 4)
				s.Line(spatial.V(in.Left(), in.Bottom()), spatial.V(in.Right(), in.Top()), colorWoodX, 4)
			}
		case TilePit:
			s.FillRect(r, colorPit, 10)
			s.StrokeRect(r, colorPitEdge, 2, 10)
		default:
			s.FillRect(r, colorMud, 10)
			s.StrokeRect(r, colorOutline, 2, 10)
			// Spots derive from the rect so they do not flicker.
			c := r.Center()
			s.FillCircle(c.Add(spatial.V(-r.W/4, -r.H/5)), 3, colorMudSpot)
			s.FillCircle(c.Add(spatial.V(r.W/5, r.H/6)), 3, colorMudSpot)
			s.FillCircle(c.Add(spatial.V(r.W/3, -r.H/4)), 3, colorMudSpot)
		}
	}
}

// Fog darkens each split-screen view except for a circle around that
// view's player. It has no simulation effect.
type Fog struct {
	hazardBase
	cfg config.FogConfig
}

// NewFog creates the fog overlay.
func NewFog(cfg config.FogConfig) *Fog {
	return &Fog{cfg: cfg}
}

func (f *Fog) Name() string { return config.HazardFog }

// DrawOverlay fills the view outside radius+feather at full darkness, then
// steps the alpha down across the feather band so the edge is soft.
func (f *Fog) DrawOverlay(s Surface, viewBounds spatial.Rect, focus spatial.Vec2) {
	outer := f.cfg.Radius + f.cfg.Feather
	s.FillOutside(viewBounds, focus, outer, color.RGBA{A: f.cfg.Darkness})

	rings := f.cfg.Rings
	if rings <= 0 || f.cfg.Feather <= 0 {
		s.FillRing(focus, f.cfg.Radius, outer, color.RGBA{A: f.cfg.Darkness})
		return
	}
	step := f.cfg.Feather / float64(rings)
	for i := 1; i <= rings; i++ {
		inner := f.cfg.Radius + float64(i-1)*step
		a := uint8(int(f.cfg.Darkness) * i / (rings + 1))
		s.FillRing(focus, inner, inner+step, color.RGBA{A: a})
	}
}
