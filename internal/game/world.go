package game

import (
	"math/rand"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// Resource caps for transient simulation objects.
const (
	MaxBullets  = 512
	MaxGrenades = 32
	MaxEffects  = 64
)

// World is the simulation state shared between the round controller and the
// hazard systems. Hazards only reach the rest of the game through it.
type World struct {
	Mode    config.Mode
	Arena   *Arena
	Players [2]*Player
	Sound   SoundPlayer

	Tick    uint64
	Elapsed float64

	roundID  string
	rng      *rand.Rand
	hazards  []Hazard
	bullets  []*Bullet
	grenades []*Grenade
	effects  []*Effect
	sinks    []EventSink

	blockers      *spatial.Blockers
	blockersDirty bool
}

// Player returns the player with the given ID.
func (w *World) Player(id PlayerID) *Player {
	if id == P2 {
		return w.Players[1]
	}
	return w.Players[0]
}

// Hazards returns the composed hazard systems in update order.
func (w *World) Hazards() []Hazard { return w.hazards }

// Bullets returns the live bullets.
func (w *World) Bullets() []*Bullet { return w.bullets }

// Grenades returns the live grenades.
func (w *World) Grenades() []*Grenade { return w.grenades }

// Effects returns the active visual effects.
func (w *World) Effects() []*Effect { return w.effects }

// Bounds returns the margin-bounded play area.
func (w *World) Bounds() spatial.Rect { return w.Arena.Bounds() }

// Obstacles returns the static map obstacles.
func (w *World) Obstacles() []spatial.Rect { return w.Arena.Obstacles }

// SpawnZones returns the areas hazards must keep clear of at spawn time.
func (w *World) SpawnZones() []spatial.Rect {
	return w.Arena.SpawnZones[:]
}

// NewPlacer returns a placement helper for this arena driven by rng.
func (w *World) NewPlacer(rng *rand.Rand) *spatial.Placer {
	return spatial.NewPlacer(w.Arena.Width, w.Arena.Height, w.Arena.Margin, rng)
}

// Blockers returns the current blocking set: map obstacles plus hazard
// blockers. It is rebuilt lazily after a hazard changes its blockers.
func (w *World) Blockers() *spatial.Blockers {
	if w.blockers == nil || w.blockersDirty {
		var dynamic []spatial.Rect
		for _, h := range w.hazards {
			dynamic = append(dynamic, h.Blockers()...)
		}
		w.blockers = w.Arena.Blockers(dynamic)
		w.blockersDirty = false
	}
	return w.blockers
}

// InvalidateBlockers forces the next Blockers call to rebuild.
func (w *World) InvalidateBlockers() {
	w.blockersDirty = true
}

// Play forwards to the sound player, if any.
func (w *World) Play(name string, volume float64) {
	if w.Sound != nil {
		w.Sound.Play(name, volume)
	}
}

// AddEffect queues a visual effect. Excess effects are dropped.
func (w *World) AddEffect(e *Effect) {
	if len(w.effects) >= MaxEffects {
		return
	}
	w.effects = append(w.effects, e)
}

// Emit publishes an event to every sink. A zero player ID means the event
// is not tied to a player.
func (w *World) Emit(t EventType, player PlayerID, payload interface{}) {
	if len(w.sinks) == 0 {
		return
	}
	pid := ""
	if player != 0 {
		pid = player.String()
	}
	ev := NewEvent(t, w.Tick, pid, payload)
	ev.RoundID = w.roundID
	ev.Mode = w.Mode.Key
	for _, sink := range w.sinks {
		sink(ev)
	}
}

// Damage applies damage to p and emits a damage event for the amount taken.
func (w *World) Damage(p *Player, dmg int, source string) int {
	taken := p.TakeDamage(dmg)
	if taken > 0 {
		w.Emit(EventTypeDamage, p.ID, DamagePayload{
			Source:   source,
			VictimID: p.ID.String(),
			Damage:   taken,
			VictimHP: p.HP,
		})
	}
	return taken
}

// Heal restores health to p and emits a heal event for the amount restored.
func (w *World) Heal(p *Player, amount int) int {
	got := p.Heal(amount)
	if got > 0 {
		w.Emit(EventTypeHeal, p.ID, HealPayload{Amount: got, CurrentHP: p.HP})
	}
	return got
}

// Teleport moves p so its sprite is centred on dest, then clamps it into the
// arena.
func (w *World) Teleport(p *Player, dest spatial.Vec2) {
	p.Rect = p.Rect.WithCenter(dest).ClampInto(w.Bounds())
}
