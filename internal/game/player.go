package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// PlayerID identifies one of the two duelists.
type PlayerID int

const (
	P1 PlayerID = 1
	P2 PlayerID = 2
)

func (id PlayerID) String() string {
	return fmt.Sprintf("p%d", int(id))
}

// Opponent returns the other player's ID.
func (id PlayerID) Opponent() PlayerID {
	if id == P1 {
		return P2
	}
	return P1
}

// Spawn layout in world units.
const (
	SpawnInsetX      = 120.0 // distance from the world edge to the sprite
	MuzzleOffsetPct  = 0.55  // bullets start this fraction of the sprite width ahead
	GrenadeThrowDist = 24.0
)

// Player is one duelist. All mutation happens on the simulation goroutine.
type Player struct {
	ID     PlayerID
	Name   string
	Color  color.RGBA
	Rect   spatial.Rect // sprite bounds
	Facing spatial.Vec2 // unit vector

	HP    int
	MaxHP int
	Speed float64

	Weapons     [3]*Weapon
	WeaponIndex int

	Grenades        int
	GrenadeCooldown float64

	// SpeedFactor scales movement for the current tick (mud).
	SpeedFactor float64

	// PoisonCarry accumulates fractional poison damage between ticks.
	PoisonCarry float64
}

// NewPlayer creates a player at its spawn point for the given mode.
func NewPlayer(id PlayerID, name string, mode config.Mode) *Player {
	size := mode.PlayerSize
	y := mode.WorldHeight/2 - size/2
	x := SpawnInsetX
	facing := spatial.V(1, 0)
	col := colorPlayer1
	if id == P2 {
		x = mode.WorldWidth - SpawnInsetX - size
		facing = spatial.V(-1, 0)
		col = colorPlayer2
	}

	return &Player{
		ID:          id,
		Name:        name,
		Color:       col,
		Rect:        spatial.R(x, y, size, size),
		Facing:      facing,
		HP:          mode.MaxHP,
		MaxHP:       mode.MaxHP,
		Speed:       mode.PlayerSpeed,
		Weapons:     NewLoadout(mode.InfiniteAmmo),
		Grenades:    mode.Grenade.Charges,
		SpeedFactor: 1,
	}
}

// Center returns the sprite centre, which is the player's position.
func (p *Player) Center() spatial.Vec2 {
	return p.Rect.Center()
}

// Weapon returns the active weapon.
func (p *Player) Weapon() *Weapon {
	return p.Weapons[p.WeaponIndex]
}

// Alive reports whether the player has health left.
func (p *Player) Alive() bool {
	return p.HP > 0
}

// BodyHitbox is the reduced collision box centred on the sprite.
func (p *Player) BodyHitbox() spatial.Rect {
	w := math.Floor(p.Rect.W * BodyWidthRatio)
	h := math.Floor(p.Rect.H * BodyHeightRatio)
	return spatial.RectAround(p.Center(), w, h)
}

// SetWeapon switches slots; out-of-range indices are ignored.
func (p *Player) SetWeapon(idx int) bool {
	if idx < 0 || idx >= len(p.Weapons) || idx == p.WeaponIndex {
		return false
	}
	p.WeaponIndex = idx
	return true
}

// TakeDamage subtracts damage, clamping health at zero. Returns the damage
// actually applied.
func (p *Player) TakeDamage(dmg int) int {
	if dmg <= 0 || p.HP <= 0 {
		return 0
	}
	if dmg > p.HP {
		dmg = p.HP
	}
	p.HP -= dmg
	return dmg
}

// Heal adds health up to MaxHP. Returns the amount restored.
func (p *Player) Heal(amount int) int {
	if amount <= 0 || p.HP >= p.MaxHP {
		return 0
	}
	if p.HP+amount > p.MaxHP {
		amount = p.MaxHP - p.HP
	}
	p.HP += amount
	return amount
}

// Update ticks weapon and grenade timers, then moves the player per-axis:
// X first, reverted on collision, then Y. Finally the sprite is clamped
// into the arena.
func (p *Player) Update(dt float64, in Input, blockers *spatial.Blockers, arena spatial.Rect) {
	for _, w := range p.Weapons {
		w.Update(dt)
	}
	if p.GrenadeCooldown > 0 {
		p.GrenadeCooldown = math.Max(0, p.GrenadeCooldown-dt)
	}

	dir := in.Direction()
	if !dir.IsZero() {
		p.Facing = dir
	}
	move := dir.Scale(p.Speed * p.SpeedFactor * dt)
	p.moveAxis(spatial.V(move.X, 0), blockers)
	p.moveAxis(spatial.V(0, move.Y), blockers)

	p.Rect = p.Rect.ClampInto(arena)
}

func (p *Player) moveAxis(delta spatial.Vec2, blockers *spatial.Blockers) {
	if delta.IsZero() {
		return
	}
	prev := p.Rect
	p.Rect = p.Rect.Translate(delta)
	if blockers.Overlaps(p.BodyHitbox()) {
		p.Rect = prev
	}
}

// MuzzlePoint is where bullets are spawned.
func (p *Player) MuzzlePoint() spatial.Vec2 {
	return p.Center().Add(p.Facing.Scale(p.Rect.W * MuzzleOffsetPct))
}

// Shoot fires the active weapon along the facing direction.
func (p *Player) Shoot(rng *rand.Rand) []*Bullet {
	return p.Weapon().Fire(p.MuzzlePoint(), p.Facing, p.ID, rng)
}

// Reload starts reloading the active weapon. Returns true if a reload began.
func (p *Player) Reload() bool {
	return p.Weapon().StartReload()
}

// ThrowGrenade spends a charge and returns a grenade, or nil while on
// cooldown or out of charges.
func (p *Player) ThrowGrenade(cfg config.GrenadeConfig) *Grenade {
	if p.GrenadeCooldown > 0 || p.Grenades <= 0 {
		return nil
	}
	p.GrenadeCooldown = cfg.Cooldown
	p.Grenades--

	pos := p.Center().Add(p.Facing.Scale(GrenadeThrowDist))
	return NewGrenade(pos, p.Facing.Scale(cfg.Speed), p.ID, cfg)
}

// Draw renders the sprite and a facing marker.
func (p *Player) Draw(s Surface, v View) {
	s.FillRect(v.Rect(p.Rect), p.Color, 10)
	c := p.Center()
	tip := c.Add(p.Facing.Scale(18))
	s.Line(v.Point(c), v.Point(tip), color.RGBA{245, 245, 245, 255}, 3)
	s.FillCircle(v.Point(tip), 3, color.RGBA{245, 245, 245, 255})
}
