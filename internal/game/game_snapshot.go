package game

import (
	"fmt"
	"sync/atomic"
	"time"

	"arena-duel/internal/game/spatial"
)

// ResourceLimits caps what a snapshot may carry.
type ResourceLimits struct {
	MaxBullets     int
	MaxGrenades    int
	MaxEffects     int
	MaxHazardItems int
}

// DefaultLimits matches the simulation caps.
var DefaultLimits = ResourceLimits{
	MaxBullets:     MaxBullets,
	MaxGrenades:    MaxGrenades,
	MaxEffects:     MaxEffects,
	MaxHazardItems: 64,
}

// PlayerSnapshot is an immutable copy of player state for rendering.
type PlayerSnapshot struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Size            float64 `json:"size"`
	FacingX         float64 `json:"facingX"`
	FacingY         float64 `json:"facingY"`
	HP              int     `json:"hp"`
	MaxHP           int     `json:"maxHp"`
	Weapon          string  `json:"weapon"`
	WeaponIndex     int     `json:"weaponIndex"`
	Mag             int     `json:"mag"`
	Reserve         int     `json:"reserve"`
	Reloading       bool    `json:"reloading"`
	ReloadProgress  float64 `json:"reloadProgress"`
	Grenades        int     `json:"grenades"`
	GrenadeCooldown float64 `json:"grenadeCooldown"`
	SpeedFactor     float64 `json:"speedFactor"`
	Color           string  `json:"color"`
}

// BulletSnapshot is an immutable bullet.
type BulletSnapshot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Owner string  `json:"owner"`
	Line  bool    `json:"line,omitempty"`
}

// GrenadeSnapshot is an immutable grenade.
type GrenadeSnapshot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Fuse  float64 `json:"fuse"`
	Owner string  `json:"owner"`
}

// EffectSnapshot is an immutable visual effect.
type EffectSnapshot struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Alpha  uint8   `json:"alpha"`
}

// HazardItem is one hazard entity: an apple, portal end, mine, barrel,
// floor tile or the poison safe zone.
type HazardItem struct {
	Hazard string  `json:"hazard"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	State  string  `json:"state,omitempty"`
}

// hazardSnapshotter is implemented by hazards with entities worth
// publishing.
type hazardSnapshotter interface {
	AppendSnapshot(dst []HazardItem) []HazardItem
}

// GameSnapshot is a complete immutable round state for rendering and the
// API. Slices are pre-allocated and capped.
type GameSnapshot struct {
	Sequence   uint64    `json:"sequence"`
	Timestamp  time.Time `json:"timestamp"`
	TickNumber uint64    `json:"tick"`

	RoundID     string  `json:"roundId"`
	RoundNumber int     `json:"roundNumber"`
	Mode        string  `json:"mode"`
	State       string  `json:"state"`
	Seed        int64   `json:"seed"`
	Elapsed     float64 `json:"elapsed"`
	Winner      string  `json:"winner,omitempty"`

	WorldWidth  float64        `json:"worldWidth"`
	WorldHeight float64        `json:"worldHeight"`
	Obstacles   []spatial.Rect `json:"obstacles"`

	Players  [2]PlayerSnapshot `json:"players"`
	Bullets  []BulletSnapshot  `json:"bullets"`
	Grenades []GrenadeSnapshot `json:"grenades"`
	Effects  []EffectSnapshot  `json:"effects"`
	Hazards  []HazardItem      `json:"hazards"`
}

// Clone returns a deep copy safe to keep after the pool reuses the slot.
func (s *GameSnapshot) Clone() *GameSnapshot {
	c := *s
	c.Obstacles = append([]spatial.Rect(nil), s.Obstacles...)
	c.Bullets = append([]BulletSnapshot(nil), s.Bullets...)
	c.Grenades = append([]GrenadeSnapshot(nil), s.Grenades...)
	c.Effects = append([]EffectSnapshot(nil), s.Effects...)
	c.Hazards = append([]HazardItem(nil), s.Hazards...)
	return &c
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure.
// Uses triple buffering for lock-free producer/consumer.
type SnapshotPool struct {
	snapshots [3]GameSnapshot // Triple buffer
	limits    ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
	published atomic.Bool
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	for i := 0; i < 3; i++ {
		pool.snapshots[i] = GameSnapshot{
			Bullets:  make([]BulletSnapshot, 0, limits.MaxBullets),
			Grenades: make([]GrenadeSnapshot, 0, limits.MaxGrenades),
			Effects:  make([]EffectSnapshot, 0, limits.MaxEffects),
			Hazards:  make([]HazardItem, 0, limits.MaxHazardItems),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from game tick)
// Returns a snapshot with reset slices but preserved capacity
func (p *SnapshotPool) AcquireWrite() *GameSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Bullets = snap.Bullets[:0]
	snap.Grenades = snap.Grenades[:0]
	snap.Effects = snap.Effects[:0]
	snap.Hazards = snap.Hazards[:0]
	snap.Winner = ""

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks write complete and advances read pointer
// Called after snapshot is fully populated
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
	p.published.Store(true)
}

// AcquireRead gets the latest complete snapshot (consumer only).
// Returns nil if no snapshot has been published yet.
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	if !p.published.Load() {
		return nil
	}
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the resource limits
func (p *SnapshotPool) GetLimits() ResourceLimits {
	return p.limits
}

// FillSnapshot copies the round into snap, honouring the limits.
func (r *Round) FillSnapshot(snap *GameSnapshot, limits ResourceLimits) {
	snap.TickNumber = r.Tick
	snap.RoundID = r.ID
	snap.Mode = r.Mode.Key
	snap.State = r.State.String()
	snap.Seed = r.Seed
	snap.Elapsed = r.Elapsed
	if r.Winner != nil {
		snap.Winner = r.Winner.Name
	}
	snap.WorldWidth = r.Arena.Width
	snap.WorldHeight = r.Arena.Height
	// Obstacles never change within a round, so the slice is shared.
	snap.Obstacles = r.Arena.Obstacles

	for i, p := range r.Players {
		snap.Players[i] = snapshotPlayer(p)
	}

	for _, b := range r.bullets {
		if len(snap.Bullets) >= limits.MaxBullets {
			break
		}
		c := b.Center()
		snap.Bullets = append(snap.Bullets, BulletSnapshot{
			X: c.X, Y: c.Y, VX: b.Vel.X, VY: b.Vel.Y,
			Owner: b.Owner.String(),
			Line:  b.Kind == BulletLine,
		})
	}

	for _, g := range r.grenades {
		if len(snap.Grenades) >= limits.MaxGrenades {
			break
		}
		snap.Grenades = append(snap.Grenades, GrenadeSnapshot{
			X: g.Pos.X, Y: g.Pos.Y, Fuse: g.Fuse, Owner: g.Owner.String(),
		})
	}

	for _, e := range r.effects {
		if len(snap.Effects) >= limits.MaxEffects {
			break
		}
		snap.Effects = append(snap.Effects, EffectSnapshot{
			Kind: e.Kind.String(), X: e.Pos.X, Y: e.Pos.Y,
			Radius: e.Radius(), Alpha: e.Alpha(),
		})
	}

	for _, h := range r.hazards {
		if hs, ok := h.(hazardSnapshotter); ok {
			snap.Hazards = hs.AppendSnapshot(snap.Hazards)
		}
	}
	if len(snap.Hazards) > limits.MaxHazardItems {
		snap.Hazards = snap.Hazards[:limits.MaxHazardItems]
	}
}

func snapshotPlayer(p *Player) PlayerSnapshot {
	w := p.Weapon()
	return PlayerSnapshot{
		ID:              p.ID.String(),
		Name:            p.Name,
		X:               p.Rect.X,
		Y:               p.Rect.Y,
		Size:            p.Rect.W,
		FacingX:         p.Facing.X,
		FacingY:         p.Facing.Y,
		HP:              p.HP,
		MaxHP:           p.MaxHP,
		Weapon:          w.ID,
		WeaponIndex:     p.WeaponIndex,
		Mag:             w.Mag,
		Reserve:         w.Reserve,
		Reloading:       w.Reloading(),
		ReloadProgress:  w.ReloadProgress(),
		Grenades:        p.Grenades,
		GrenadeCooldown: p.GrenadeCooldown,
		SpeedFactor:     p.SpeedFactor,
		Color:           fmt.Sprintf("#%02x%02x%02x", p.Color.R, p.Color.G, p.Color.B),
	}
}

func (a *Apples) AppendSnapshot(dst []HazardItem) []HazardItem {
	for _, ap := range a.apples {
		dst = append(dst, HazardItem{Hazard: "apple", X: ap.Rect.X, Y: ap.Rect.Y, W: ap.Rect.W, H: ap.Rect.H})
	}
	return dst
}

func (p *Portals) AppendSnapshot(dst []HazardItem) []HazardItem {
	if p.A == nil || p.B == nil {
		return dst
	}
	for i, end := range []*Portal{p.A, p.B} {
		dst = append(dst, HazardItem{
			Hazard: "portal", X: end.Pos.X, Y: end.Pos.Y,
			Radius: p.DrawRadius(end), State: string(rune('A' + i)),
		})
	}
	return dst
}

func (p *Poison) AppendSnapshot(dst []HazardItem) []HazardItem {
	return append(dst, HazardItem{Hazard: "safe_zone", X: p.Safe.X, Y: p.Safe.Y, W: p.Safe.W, H: p.Safe.H})
}

func (m *Mines) AppendSnapshot(dst []HazardItem) []HazardItem {
	for _, mine := range m.mines {
		state := "arming"
		if mine.Armed() {
			state = "armed"
		}
		dst = append(dst, HazardItem{Hazard: "mine", X: mine.Pos.X, Y: mine.Pos.Y, Radius: mine.Radius, State: state})
	}
	return dst
}

func (b *Barrels) AppendSnapshot(dst []HazardItem) []HazardItem {
	for _, r := range b.barrels {
		dst = append(dst, HazardItem{Hazard: "barrel", X: r.X, Y: r.Y, W: r.W, H: r.H})
	}
	return dst
}

func (f *Floor) AppendSnapshot(dst []HazardItem) []HazardItem {
	for _, t := range f.tiles {
		dst = append(dst, HazardItem{Hazard: "tile", X: t.Rect.X, Y: t.Rect.Y, W: t.Rect.W, H: t.Rect.H, State: t.State.String()})
	}
	return dst
}
