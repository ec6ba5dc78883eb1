package game

import (
	"math"
	"math/rand"

	"arena-duel/internal/game/spatial"
)

// BaseBulletSpeed is the pistol muzzle velocity in px/s; other weapons scale it.
const BaseBulletSpeed = 640.0

// InfiniteReserve is the reserve given to every weapon in infinite-ammo modes.
const InfiniteReserve = 9999

// WeaponSpec is the static description of a weapon.
type WeaponSpec struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Cooldown    float64    `json:"cooldown"` // seconds between shots
	Damage      int        `json:"damage"`   // per bullet
	SpreadDeg   float64    `json:"spreadDeg"`
	Pellets     int        `json:"pellets"`
	MagSize     int        `json:"magSize"`
	Reserve     int        `json:"reserve"`
	ReloadTime  float64    `json:"reloadTime"`
	BulletSpeed float64    `json:"bulletSpeed"`
	BulletW     float64    `json:"bulletW"`
	BulletH     float64    `json:"bulletH"`
	Kind        BulletKind `json:"kind"`
	Thickness   float64    `json:"thickness"`
}

// WeaponSpecs is the table of all available weapons.
var WeaponSpecs = map[string]WeaponSpec{
	"pistol": {
		ID:          "pistol",
		Name:        "Pistol",
		Cooldown:    0.22,
		Damage:      10,
		SpreadDeg:   1.2,
		Pellets:     1,
		MagSize:     12,
		Reserve:     48,
		ReloadTime:  0.95,
		BulletSpeed: BaseBulletSpeed,
		BulletW:     10,
		BulletH:     5,
		Kind:        BulletRect,
		Thickness:   4,
	},
	"rifle": {
		ID:          "rifle",
		Name:        "Rifle",
		Cooldown:    0.10,
		Damage:      7,
		SpreadDeg:   2.0,
		Pellets:     1,
		MagSize:     30,
		Reserve:     120,
		ReloadTime:  1.25,
		BulletSpeed: BaseBulletSpeed * 1.08,
		BulletW:     26,
		BulletH:     2,
		Kind:        BulletLine,
		Thickness:   2,
	},
	"shotgun": {
		ID:          "shotgun",
		Name:        "Shotgun",
		Cooldown:    0.65,
		Damage:      6,
		SpreadDeg:   9.0,
		Pellets:     7,
		MagSize:     6,
		Reserve:     30,
		ReloadTime:  1.35,
		BulletSpeed: BaseBulletSpeed * 0.95,
		BulletW:     6,
		BulletH:     6,
		Kind:        BulletRect,
		Thickness:   4,
	},
}

// Loadout is the slot order every player starts with.
var Loadout = [3]string{"pistol", "rifle", "shotgun"}

// GetWeaponSpec returns a weapon by ID, defaulting to the pistol.
func GetWeaponSpec(id string) WeaponSpec {
	if w, ok := WeaponSpecs[id]; ok {
		return w
	}
	return WeaponSpecs["pistol"]
}

// Weapon is a weapon instance with its own ammo and timers.
//
// Firing and reloading are independent state machines: Ready→Fire→Ready on
// the cooldown timer, Idle→Reloading→Idle on the reload timer. Ammo only
// moves from reserve to magazine, so Mag+Reserve never grows.
type Weapon struct {
	WeaponSpec
	Mag     int
	Reserve int

	cooldownLeft float64
	reloadLeft   float64
	reloading    bool
}

// NewWeapon creates a weapon with a full magazine. infinite replaces the
// reserve with InfiniteReserve.
func NewWeapon(spec WeaponSpec, infinite bool) *Weapon {
	w := &Weapon{WeaponSpec: spec, Mag: spec.MagSize, Reserve: spec.Reserve}
	if infinite {
		w.Reserve = InfiniteReserve
	}
	return w
}

// NewLoadout builds the three default weapon slots.
func NewLoadout(infinite bool) [3]*Weapon {
	var out [3]*Weapon
	for i, id := range Loadout {
		out[i] = NewWeapon(GetWeaponSpec(id), infinite)
	}
	return out
}

// Reloading reports whether a reload is in progress.
func (w *Weapon) Reloading() bool { return w.reloading }

// ReloadProgress returns 0..1 while reloading, 0 otherwise.
func (w *Weapon) ReloadProgress() float64 {
	if !w.reloading || w.ReloadTime <= 0 {
		return 0
	}
	return 1 - w.reloadLeft/w.ReloadTime
}

// Update advances the cooldown and reload timers.
func (w *Weapon) Update(dt float64) {
	if w.cooldownLeft > 0 {
		w.cooldownLeft = math.Max(0, w.cooldownLeft-dt)
	}
	if w.reloading {
		w.reloadLeft = math.Max(0, w.reloadLeft-dt)
		if w.reloadLeft <= 0 {
			w.finishReload()
		}
	}
}

// CanFire reports whether Fire would produce bullets.
func (w *Weapon) CanFire() bool {
	return !w.reloading && w.cooldownLeft <= 0 && w.Mag > 0
}

// StartReload begins a timed reload. It is a no-op while already reloading,
// with a full magazine or with an empty reserve. Returns true if a reload
// started.
func (w *Weapon) StartReload() bool {
	if w.reloading || w.Mag >= w.MagSize || w.Reserve <= 0 {
		return false
	}
	w.reloading = true
	w.reloadLeft = w.ReloadTime
	return true
}

func (w *Weapon) finishReload() {
	w.reloading = false
	need := w.MagSize - w.Mag
	if need > w.Reserve {
		need = w.Reserve
	}
	if need > 0 {
		w.Mag += need
		w.Reserve -= need
	}
}

// Fire spends one magazine round and returns Pellets bullets spread
// uniformly within ±SpreadDeg of dir. Returns nil if the weapon cannot fire.
func (w *Weapon) Fire(origin, dir spatial.Vec2, owner PlayerID, rng *rand.Rand) []*Bullet {
	if !w.CanFire() {
		return nil
	}

	w.Mag--
	w.cooldownLeft = w.Cooldown

	base := dir.Normalize()
	if base.IsZero() {
		base = spatial.V(1, 0)
	}
	aim := base.Angle()

	pellets := w.Pellets
	if pellets < 1 {
		pellets = 1
	}
	bullets := make([]*Bullet, 0, pellets)
	for i := 0; i < pellets; i++ {
		spread := (rng.Float64()*2 - 1) * w.SpreadDeg
		angle := aim + spread*math.Pi/180
		vel := spatial.FromAngle(angle).Scale(w.BulletSpeed)
		b := NewBullet(origin, vel, w.BulletW, w.BulletH, owner, w.Damage, w.Kind, w.Thickness)
		b.Weapon = w.ID
		bullets = append(bullets, b)
	}
	return bullets
}
