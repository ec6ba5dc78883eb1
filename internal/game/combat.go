package game

import (
	"math"

	"arena-duel/internal/game/spatial"
)

// Sound volumes for combat cues.
const (
	VolumeShoot   = 0.25
	VolumeReload  = 0.20
	VolumeGrenade = 0.25
	VolumeHit     = 0.25
	VolumeBoom    = 0.35
	VolumeBarrel  = 0.30
)

// Blast describes an area detonation with linear damage falloff.
type Blast struct {
	Radius    float64
	MinDamage int
	MaxDamage int
}

// DamageAt returns the damage dealt at distance d from the centre:
// zero at or beyond the radius, otherwise min + (max-min)*(1-d/r) floored.
func (b Blast) DamageAt(d float64) int {
	if b.Radius <= 0 || d >= b.Radius {
		return 0
	}
	t := spatial.Clamp(1-d/b.Radius, 0, 1)
	return int(math.Floor(float64(b.MinDamage) + float64(b.MaxDamage-b.MinDamage)*t))
}

// Explode is the single detonation routine for grenades, mines and barrels.
// Each player takes falloff damage once, measured to their centre. Hazards
// are then notified so they can react (floor tiles break, barrels chain).
func (w *World) Explode(pos spatial.Vec2, blast Blast, kind EffectKind) {
	w.AddEffect(NewExplosion(kind, pos, blast.Radius))

	vol := VolumeBoom
	if kind == EffectBarrel {
		vol = VolumeBarrel
	}
	w.Play("boom", vol)

	w.Emit(EventTypeDetonation, 0, DetonationPayload{
		Kind:   kind.String(),
		X:      pos.X,
		Y:      pos.Y,
		Radius: blast.Radius,
	})

	for _, p := range w.Players {
		if dmg := blast.DamageAt(p.Center().Dist(pos)); dmg > 0 {
			w.Damage(p, dmg, kind.String())
		}
	}

	for _, h := range w.hazards {
		h.OnExplosion(w, pos, blast.Radius)
	}
	w.InvalidateBlockers()
}

// spawnBullets adds freshly fired bullets, respecting MaxBullets.
func (w *World) spawnBullets(bullets []*Bullet) {
	for _, b := range bullets {
		if len(w.bullets) >= MaxBullets {
			return
		}
		w.bullets = append(w.bullets, b)
	}
}

// spawnGrenade adds a thrown grenade, respecting MaxGrenades.
func (w *World) spawnGrenade(g *Grenade) bool {
	if g == nil || len(w.grenades) >= MaxGrenades {
		return false
	}
	w.grenades = append(w.grenades, g)
	return true
}

// updateBullets advances every bullet and resolves its first collision:
// world bounds, hazards in order, blockers, then the opposing body.
func (w *World) updateBullets(dt float64) {
	n := 0
	for _, b := range w.bullets {
		if w.stepBullet(b, dt) {
			w.bullets[n] = b
			n++
		}
	}
	for i := n; i < len(w.bullets); i++ {
		w.bullets[i] = nil
	}
	w.bullets = w.bullets[:n]
}

// stepBullet returns false once the bullet is consumed.
func (w *World) stepBullet(b *Bullet, dt float64) bool {
	b.Update(dt)

	if b.OutOfWorld(w.Arena.Width, w.Arena.Height) {
		return false
	}

	for _, h := range w.hazards {
		if h.HandleBulletHit(w, b) {
			w.InvalidateBlockers()
			return false
		}
	}

	if w.Blockers().Any(b.Bounds(), b.Hits) {
		return false
	}

	target := w.Player(b.Owner.Opponent())
	if target.Alive() && b.Hits(target.BodyHitbox()) {
		w.Damage(target, b.Damage, b.Weapon)
		w.Play("hit", VolumeHit)
		return false
	}

	return true
}

// updateGrenades moves grenades and detonates those touching a non-owner
// body or whose fuse has run out.
func (w *World) updateGrenades(dt float64) {
	// Detonations can append effects but never grenades, so filtering in
	// place is safe.
	n := 0
	for _, g := range w.grenades {
		g.Update(dt, w.Blockers(), w.Bounds())

		if w.grenadeContact(g) || g.Expired() {
			w.Explode(g.Pos, w.GrenadeBlast(), EffectGrenade)
			continue
		}
		w.grenades[n] = g
		n++
	}
	for i := n; i < len(w.grenades); i++ {
		w.grenades[i] = nil
	}
	w.grenades = w.grenades[:n]
}

func (w *World) grenadeContact(g *Grenade) bool {
	box := g.Hitbox()
	for _, p := range w.Players {
		if p.ID != g.Owner && p.Alive() && box.Intersects(p.BodyHitbox()) {
			return true
		}
	}
	return false
}

// GrenadeBlast returns the mode's grenade blast parameters.
func (w *World) GrenadeBlast() Blast {
	gc := w.Mode.Grenade
	return Blast{Radius: gc.Radius, MinDamage: gc.MinDamage, MaxDamage: gc.MaxDamage}
}
