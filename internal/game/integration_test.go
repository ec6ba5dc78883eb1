package game

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"arena-duel/internal/config"
)

// =============================================================================
// INTEGRATION TESTS: FULL BOT ROUNDS
// These tests drive whole rounds through the engine in every mode
// =============================================================================

// checkRoundInvariants fails the test if any per-tick invariant is broken.
func checkRoundInvariants(t *testing.T, r *Round) {
	t.Helper()
	for _, p := range r.Players {
		if p.HP < 0 || p.HP > p.MaxHP {
			t.Fatalf("%s HP out of range: %d/%d", p.Name, p.HP, p.MaxHP)
		}
		c := p.Center()
		if c.X < 0 || c.Y < 0 || c.X > r.Arena.Width || c.Y > r.Arena.Height {
			t.Fatalf("%s left the world: %+v", p.Name, c)
		}
		for _, w := range p.Weapons {
			if w.Mag < 0 || w.Mag > w.MagSize || w.Reserve < 0 {
				t.Fatalf("%s %s ammo out of range: %d/%d", p.Name, w.ID, w.Mag, w.Reserve)
			}
		}
		if p.Grenades < 0 {
			t.Fatalf("%s has negative grenades", p.Name)
		}
	}
	if len(r.bullets) > MaxBullets || len(r.grenades) > MaxGrenades || len(r.effects) > MaxEffects {
		t.Fatalf("caps exceeded: bullets=%d grenades=%d effects=%d", len(r.bullets), len(r.grenades), len(r.effects))
	}
	if r.State >= RoundOver && r.Winner == nil {
		t.Fatal("round over without a winner")
	}
}

// TestIntegration_BotRounds plays bot-driven rounds in every mode with a
// fixed clock and checks the invariants on every tick.
func TestIntegration_BotRounds(t *testing.T) {
	const dt = 1.0 / 60
	ticks := 60 * 90
	if testing.Short() {
		ticks = 60 * 15
	}

	for _, mode := range config.DefaultModes() {
		mode := mode
		t.Run(mode.Key, func(t *testing.T) {
			engine := NewEngine(mode, EngineOptions{
				Seed:        11,
				AutoRestart: true,
				P1Name:      "Ada",
				P2Name:      "Grace",
			})

			for i := 0; i < ticks; i++ {
				engine.Step(dt)
				engine.WithRound(func(r *Round) { checkRoundInvariants(t, r) })
			}

			stats := engine.GetStats()
			t.Logf("%s: %v rounds finished in %d ticks", mode.Key, stats["rounds"], ticks)

			snap := engine.GetSnapshot()
			if snap.Mode != mode.Key {
				t.Errorf("Expected snapshot mode %s, got %s", mode.Key, snap.Mode)
			}
			if snap.Players[0].Name != "Ada" || snap.Players[1].Name != "Grace" {
				t.Errorf("Unexpected names: %s vs %s", snap.Players[0].Name, snap.Players[1].Name)
			}
		})
	}
}

// TestIntegration_SameSeedSameRound verifies a seeded engine with scripted
// input replays identically.
func TestIntegration_SameSeedSameRound(t *testing.T) {
	run := func() GameSnapshot {
		engine := NewEngine(config.ChaosMode(), EngineOptions{Seed: 99, Input: NewBot(99)})
		for i := 0; i < 600; i++ {
			engine.Step(1.0 / 60)
		}
		var snap GameSnapshot
		engine.WithRound(func(r *Round) { r.FillSnapshot(&snap, DefaultLimits) })
		return snap
	}

	a, b := run(), run()
	if a.Players != b.Players {
		t.Errorf("Players diverged:\n%+v\n%+v", a.Players, b.Players)
	}
	if len(a.Bullets) != len(b.Bullets) || len(a.Hazards) != len(b.Hazards) {
		t.Errorf("Entity counts diverged: bullets %d/%d hazards %d/%d",
			len(a.Bullets), len(b.Bullets), len(a.Hazards), len(b.Hazards))
	}
}

// TestIntegration_EngineWithReaders runs the real ticker while readers copy
// the round the way the renderer and API do.
func TestIntegration_EngineWithReaders(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping real-time test in short mode")
	}

	var snapshots int64
	engine := NewEngine(config.HardcoreMode(), EngineOptions{TickRate: 120, Seed: 5, AutoRestart: true})
	engine.Start()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := GameSnapshot{}
			for {
				select {
				case <-stop:
					return
				default:
				}
				engine.WithRound(func(r *Round) {
					local.Bullets = local.Bullets[:0]
					local.Grenades = local.Grenades[:0]
					local.Effects = local.Effects[:0]
					local.Hazards = local.Hazards[:0]
					r.FillSnapshot(&local, DefaultLimits)
				})
				atomic.AddInt64(&snapshots, 1)
				time.Sleep(time.Millisecond)
			}
		}()
	}

	time.Sleep(500 * time.Millisecond)
	close(stop)
	wg.Wait()
	engine.Stop()

	ticks := engine.GetStats()["ticks"].(int64)
	t.Logf("ticks=%d snapshots=%d", ticks, atomic.LoadInt64(&snapshots))
	if ticks == 0 {
		t.Error("Expected the engine to tick under read pressure")
	}
	if atomic.LoadInt64(&snapshots) == 0 {
		t.Error("Expected readers to make progress")
	}
}
