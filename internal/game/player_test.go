package game

import (
	"math"
	"testing"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// TestNewPlayerSpawn verifies spawn positions and facing
func TestNewPlayerSpawn(t *testing.T) {
	mode := config.ClassicMode()
	p1 := NewPlayer(P1, "Alice", mode)
	p2 := NewPlayer(P2, "Bob", mode)

	if p1.Rect != spatial.R(120, 388, 44, 44) {
		t.Errorf("Unexpected P1 spawn %v", p1.Rect)
	}
	if p2.Rect != spatial.R(1236, 388, 44, 44) {
		t.Errorf("Unexpected P2 spawn %v", p2.Rect)
	}
	if p1.Facing != spatial.V(1, 0) || p2.Facing != spatial.V(-1, 0) {
		t.Errorf("Players should face each other, got %v and %v", p1.Facing, p2.Facing)
	}
	if p1.HP != 100 || p1.Grenades != 3 {
		t.Errorf("Expected 100 HP and 3 grenades, got %d and %d", p1.HP, p1.Grenades)
	}
	if !mode.HasHazard(config.HazardApples) {
		t.Error("Mode bundle should not be modified by NewPlayer")
	}
}

// TestBodyHitbox verifies the reduced body box
func TestBodyHitbox(t *testing.T) {
	p := NewPlayer(P1, "A", config.ClassicMode())
	hb := p.BodyHitbox()

	if hb.W != 19 || hb.H != 24 {
		t.Errorf("Expected 19x24, got %vx%v", hb.W, hb.H)
	}
	if hb.Center() != p.Center() {
		t.Errorf("Hitbox should be centred on the sprite")
	}
}

// TestDamageAndHealClamp tests health bounds
func TestDamageAndHealClamp(t *testing.T) {
	p := NewPlayer(P1, "A", config.ClassicMode())

	if got := p.TakeDamage(30); got != 30 || p.HP != 70 {
		t.Errorf("Expected 30 taken and 70 HP, got %d and %d", got, p.HP)
	}
	if got := p.Heal(50); got != 30 || p.HP != 100 {
		t.Errorf("Heal should clamp at max, got %d and %d", got, p.HP)
	}
	if got := p.TakeDamage(500); got != 100 || p.HP != 0 {
		t.Errorf("Damage should clamp at zero, got %d and %d", got, p.HP)
	}
	if p.Alive() {
		t.Error("Player with 0 HP should be dead")
	}
	if got := p.TakeDamage(10); got != 0 {
		t.Errorf("Dead player should take no damage, got %d", got)
	}
}

// TestMovementSlidesAlongWall verifies per-axis collision
func TestMovementSlidesAlongWall(t *testing.T) {
	mode := config.ClassicMode()
	p := NewPlayer(P1, "A", mode)
	p.Rect = spatial.R(100, 100, 44, 44)

	wall := spatial.R(132, 0, 50, 400)
	blockers := spatial.NewBlockers(spatial.NewIndex([]spatial.Rect{wall}), nil)
	arena := spatial.R(40, 40, 1320, 740)

	p.Update(0.1, Input{Right: true, Down: true}, blockers, arena)

	if p.Rect.X != 100 {
		t.Errorf("X move into the wall should be reverted, got x=%.2f", p.Rect.X)
	}
	wantY := 100 + 260*0.1/math.Sqrt2
	if math.Abs(p.Rect.Y-wantY) > 1e-9 {
		t.Errorf("Expected y=%.2f, got %.2f", wantY, p.Rect.Y)
	}
	if p.Facing.X <= 0 || p.Facing.Y <= 0 {
		t.Errorf("Facing should follow input, got %v", p.Facing)
	}
}

// TestMovementClampedToArena verifies the margin clamp
func TestMovementClampedToArena(t *testing.T) {
	p := NewPlayer(P1, "A", config.ClassicMode())
	p.Rect = spatial.R(45, 200, 44, 44)
	arena := spatial.R(40, 40, 1320, 740)

	p.Update(0.5, Input{Left: true}, nil, arena)
	if p.Rect.X != 40 {
		t.Errorf("Expected clamp at x=40, got %.2f", p.Rect.X)
	}
}

// TestFacingKeptWithoutInput verifies idle players keep their facing
func TestFacingKeptWithoutInput(t *testing.T) {
	p := NewPlayer(P2, "B", config.ClassicMode())
	p.Update(0.1, Input{}, nil, spatial.R(0, 0, 2000, 2000))
	if p.Facing != spatial.V(-1, 0) {
		t.Errorf("Expected facing to stay left, got %v", p.Facing)
	}
}

// TestSpeedFactorScalesMovement verifies mud slowdown
func TestSpeedFactorScalesMovement(t *testing.T) {
	p := NewPlayer(P1, "A", config.ClassicMode())
	p.Rect = spatial.R(200, 200, 44, 44)
	p.SpeedFactor = 0.5

	p.Update(0.1, Input{Right: true}, nil, spatial.R(0, 0, 2000, 2000))
	if math.Abs(p.Rect.X-213) > 1e-9 {
		t.Errorf("Expected x=213, got %.2f", p.Rect.X)
	}
}

// TestSetWeapon tests slot switching
func TestSetWeapon(t *testing.T) {
	p := NewPlayer(P1, "A", config.ClassicMode())

	tests := []struct {
		idx  int
		want bool
		slot int
	}{
		{2, true, 2},
		{2, false, 2},
		{3, false, 2},
		{-1, false, 2},
		{0, true, 0},
	}
	for _, tt := range tests {
		if got := p.SetWeapon(tt.idx); got != tt.want || p.WeaponIndex != tt.slot {
			t.Errorf("SetWeapon(%d): expected %v/slot %d, got %v/slot %d", tt.idx, tt.want, tt.slot, got, p.WeaponIndex)
		}
	}
}

// TestThrowGrenade tests charges and cooldown
func TestThrowGrenade(t *testing.T) {
	mode := config.ClassicMode()
	p := NewPlayer(P1, "A", mode)

	g := p.ThrowGrenade(mode.Grenade)
	if g == nil {
		t.Fatal("First throw should succeed")
	}
	if g.Owner != P1 || g.Vel != spatial.V(mode.Grenade.Speed, 0) {
		t.Errorf("Unexpected grenade %+v", g)
	}
	if p.ThrowGrenade(mode.Grenade) != nil {
		t.Error("Throw during cooldown should fail")
	}

	for i := 0; i < 2; i++ {
		p.Update(mode.Grenade.Cooldown, Input{}, nil, spatial.R(0, 0, 2000, 2000))
		if p.ThrowGrenade(mode.Grenade) == nil {
			t.Fatalf("Throw %d should succeed", i+2)
		}
	}
	p.Update(mode.Grenade.Cooldown, Input{}, nil, spatial.R(0, 0, 2000, 2000))
	if p.ThrowGrenade(mode.Grenade) != nil || p.Grenades != 0 {
		t.Errorf("Out of charges should fail, charges=%d", p.Grenades)
	}
}

// TestInputDirection verifies normalization and cancelling keys
func TestInputDirection(t *testing.T) {
	if d := (Input{Left: true, Right: true}).Direction(); !d.IsZero() {
		t.Errorf("Opposite keys should cancel, got %v", d)
	}
	d := Input{Up: true, Right: true}.Direction()
	if math.Abs(d.Len()-1) > 1e-9 {
		t.Errorf("Diagonal should be normalized, got %v", d)
	}
}
