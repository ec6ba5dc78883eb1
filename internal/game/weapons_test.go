package game

import (
	"math"
	"math/rand"
	"testing"

	"arena-duel/internal/game/spatial"
)

// TestGetWeaponSpec tests weapon retrieval
func TestGetWeaponSpec(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"pistol", "Pistol"},
		{"rifle", "Rifle"},
		{"shotgun", "Shotgun"},
		{"bazooka", "Pistol"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			spec := GetWeaponSpec(tt.id)
			if spec.Name != tt.expected {
				t.Errorf("Expected name '%s', got '%s'", tt.expected, spec.Name)
			}
		})
	}
}

// TestLoadoutOrder verifies slot order and full magazines
func TestLoadoutOrder(t *testing.T) {
	loadout := NewLoadout(false)
	for i, id := range Loadout {
		if loadout[i].ID != id {
			t.Errorf("Slot %d: expected %s, got %s", i, id, loadout[i].ID)
		}
		if loadout[i].Mag != loadout[i].MagSize {
			t.Errorf("%s should start with a full magazine", id)
		}
	}

	infinite := NewLoadout(true)
	for _, w := range infinite {
		if w.Reserve != InfiniteReserve {
			t.Errorf("Expected infinite reserve for %s, got %d", w.ID, w.Reserve)
		}
	}
}

// TestPistolEmptyAndReload walks the pistol through a full magazine and a reload
func TestPistolEmptyAndReload(t *testing.T) {
	w := NewWeapon(GetWeaponSpec("pistol"), false)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 12; i++ {
		if bullets := w.Fire(spatial.V(0, 0), spatial.V(1, 0), P1, rng); len(bullets) != 1 {
			t.Fatalf("Shot %d: expected 1 bullet, got %d", i, len(bullets))
		}
		w.Update(w.Cooldown)
	}
	if w.Mag != 0 || w.Reserve != 48 {
		t.Fatalf("Expected 0/48, got %d/%d", w.Mag, w.Reserve)
	}
	if bullets := w.Fire(spatial.V(0, 0), spatial.V(1, 0), P1, rng); bullets != nil {
		t.Error("Empty magazine should not fire")
	}

	if !w.StartReload() {
		t.Fatal("Reload should start")
	}
	if w.StartReload() {
		t.Error("Second reload should be a no-op")
	}
	w.Update(0.5)
	if p := w.ReloadProgress(); p <= 0.5 || p >= 0.6 {
		t.Errorf("Expected progress around 0.53, got %.2f", p)
	}
	if w.CanFire() {
		t.Error("Should not fire while reloading")
	}
	w.Update(0.45)

	if w.Reloading() {
		t.Error("Reload should have finished")
	}
	if w.Mag != 12 || w.Reserve != 36 {
		t.Errorf("Expected 12/36, got %d/%d", w.Mag, w.Reserve)
	}
}

// TestReloadNoOps covers full magazine and empty reserve
func TestReloadNoOps(t *testing.T) {
	w := NewWeapon(GetWeaponSpec("rifle"), false)
	if w.StartReload() {
		t.Error("Full magazine should not reload")
	}

	w.Mag = 3
	w.Reserve = 0
	if w.StartReload() {
		t.Error("Empty reserve should not reload")
	}

	w.Reserve = 2
	w.StartReload()
	w.Update(w.ReloadTime)
	if w.Mag != 5 || w.Reserve != 0 {
		t.Errorf("Partial reload: expected 5/0, got %d/%d", w.Mag, w.Reserve)
	}
}

// TestAmmoConservation checks Mag+Reserve never grows
func TestAmmoConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, id := range Loadout {
		w := NewWeapon(GetWeaponSpec(id), false)
		total := w.Mag + w.Reserve
		for i := 0; i < 2000; i++ {
			switch rng.Intn(3) {
			case 0:
				w.Fire(spatial.V(0, 0), spatial.V(1, 0), P1, rng)
			case 1:
				w.StartReload()
			default:
				w.Update(rng.Float64() * 0.3)
			}
			if now := w.Mag + w.Reserve; now > total {
				t.Fatalf("%s: ammo grew from %d to %d", id, total, now)
			} else {
				total = now
			}
			if w.Mag < 0 || w.Mag > w.MagSize || w.Reserve < 0 {
				t.Fatalf("%s: invalid ammo %d/%d", id, w.Mag, w.Reserve)
			}
		}
	}
}

// TestShotgunSpread verifies pellet count and spread bounds
func TestShotgunSpread(t *testing.T) {
	w := NewWeapon(GetWeaponSpec("shotgun"), false)
	bullets := w.Fire(spatial.V(100, 100), spatial.V(0, 1), P2, rand.New(rand.NewSource(3)))

	if len(bullets) != 7 {
		t.Fatalf("Expected 7 pellets, got %d", len(bullets))
	}
	if w.Mag != 5 {
		t.Errorf("One shot should spend one round, mag is %d", w.Mag)
	}
	for _, b := range bullets {
		deg := math.Abs(b.Vel.Angle()-math.Pi/2) * 180 / math.Pi
		if deg > w.SpreadDeg+1e-9 {
			t.Errorf("Pellet %.2f° off axis exceeds spread %.1f°", deg, w.SpreadDeg)
		}
		if math.Abs(b.Vel.Len()-w.BulletSpeed) > 1e-6 {
			t.Errorf("Expected speed %.1f, got %.1f", w.BulletSpeed, b.Vel.Len())
		}
		if b.Owner != P2 || b.Weapon != "shotgun" {
			t.Errorf("Unexpected owner/weapon %v/%s", b.Owner, b.Weapon)
		}
	}
}

// TestCooldownBlocksFire verifies the fire rate
func TestCooldownBlocksFire(t *testing.T) {
	w := NewWeapon(GetWeaponSpec("pistol"), false)
	rng := rand.New(rand.NewSource(1))
	w.Fire(spatial.V(0, 0), spatial.V(1, 0), P1, rng)
	if w.Fire(spatial.V(0, 0), spatial.V(1, 0), P1, rng) != nil {
		t.Error("Second shot inside cooldown should fail")
	}
	w.Update(0.1)
	if w.CanFire() {
		t.Error("Cooldown should still be running")
	}
	w.Update(0.2)
	if !w.CanFire() {
		t.Error("Cooldown should have elapsed")
	}
}
