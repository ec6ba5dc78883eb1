package game

import (
	"math/rand"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// Hazard is a mode-specific world system (apples, portals, poison, mines,
// barrels, floor, fog). A round composes the hazards its mode enables and
// drives every one of them through this interface.
type Hazard interface {
	Name() string
	SpawnInitial(w *World)
	Update(w *World, dt float64)
	// HandleBulletHit returns true if the hazard consumed the bullet.
	HandleBulletHit(w *World, b *Bullet) bool
	OnExplosion(w *World, pos spatial.Vec2, radius float64)
	// Blockers returns rectangles that currently block movement and bullets.
	Blockers() []spatial.Rect
	Draw(s Surface, v View)
}

// SpeedModifier is implemented by hazards that scale player movement.
type SpeedModifier interface {
	SpeedFactor(hitbox spatial.Rect) float64
}

// ViewOverlay is implemented by hazards drawn per split-screen view on top
// of everything else, centred on that view's player.
type ViewOverlay interface {
	DrawOverlay(s Surface, viewBounds spatial.Rect, focus spatial.Vec2)
}

// hazardBase provides no-op defaults for the optional Hazard methods.
type hazardBase struct{}

func (hazardBase) SpawnInitial(*World) {}
func (hazardBase) Update(*World, float64) {}
func (hazardBase) HandleBulletHit(*World, *Bullet) bool { return false }
func (hazardBase) OnExplosion(*World, spatial.Vec2, float64) {}
func (hazardBase) Blockers() []spatial.Rect { return nil }
func (hazardBase) Draw(Surface, View) {}

// BuildHazards creates the hazards a mode enables, in config.HazardOrder.
// Each system gets its own RNG derived from the round seed so adding or
// removing one hazard does not reshuffle the others.
func BuildHazards(mode config.Mode, seed int64) []Hazard {
	var out []Hazard
	for i, key := range config.HazardOrder {
		if !mode.HasHazard(key) {
			continue
		}
		rng := rand.New(rand.NewSource(seed + int64(i+1)*7919))
		if h := newHazard(key, mode, rng); h != nil {
			out = append(out, h)
		}
	}
	return out
}

func newHazard(key string, mode config.Mode, rng *rand.Rand) Hazard {
	switch key {
	case config.HazardApples:
		return NewApples(mode.Apples, rng)
	case config.HazardPortals:
		return NewPortals(mode.Portals, rng)
	case config.HazardPoison:
		return NewPoison(mode.Poison)
	case config.HazardMines:
		return NewMines(mode.Mines, rng)
	case config.HazardBarrels:
		return NewBarrels(mode.Barrels, rng)
	case config.HazardFloor:
		return NewFloor(mode.Floor, rng)
	case config.HazardFog:
		return NewFog(mode.Fog)
	default:
		return nil
	}
}
