package game

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"arena-duel/internal/config"
)

// =============================================================================
// STRESS TEST SUITE: WORST-CASE INPUT
// Run with: go test -v -run=TestStress -timeout=120s ./internal/game/...
// =============================================================================

// StressTestResult contains metrics from stress tests
type StressTestResult struct {
	TotalTicks  int
	Rounds      int
	AvgTickTime time.Duration
	MaxTickTime time.Duration
	P99TickTime time.Duration
	PeakBullets int
	PeakEffects int
}

// spamInput mashes every action while wandering randomly.
func spamInput(seed int64) InputSource {
	rng := rand.New(rand.NewSource(seed))
	return InputFunc(func(r *Round) [2]Input {
		var out [2]Input
		for i := range out {
			out[i] = Input{
				Up:      rng.Intn(3) == 0,
				Down:    rng.Intn(3) == 0,
				Left:    rng.Intn(3) == 0,
				Right:   rng.Intn(3) == 0,
				Fire:    true,
				Reload:  rng.Intn(20) == 0,
				Grenade: true,
				Weapon:  rng.Intn(4),
			}
		}
		return out
	})
}

func runStress(t *testing.T, mode config.Mode, input InputSource, ticks int) StressTestResult {
	t.Helper()
	engine := NewEngine(mode, EngineOptions{Seed: 17, AutoRestart: true, Input: input})

	var res StressTestResult
	durations := make([]time.Duration, 0, ticks)
	for i := 0; i < ticks; i++ {
		start := time.Now()
		engine.Step(1.0 / 60)
		d := time.Since(start)
		durations = append(durations, d)
		if d > res.MaxTickTime {
			res.MaxTickTime = d
		}

		engine.WithRound(func(r *Round) {
			checkRoundInvariants(t, r)
			if n := len(r.bullets); n > res.PeakBullets {
				res.PeakBullets = n
			}
			if n := len(r.effects); n > res.PeakEffects {
				res.PeakEffects = n
			}
		})
	}

	res.TotalTicks = ticks
	res.Rounds = engine.GetStats()["rounds"].(int)

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	res.AvgTickTime = total / time.Duration(len(durations))
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	res.P99TickTime = durations[len(durations)*99/100]
	return res
}

// TestStress_ActionSpam fires and throws on every tick in every mode.
func TestStress_ActionSpam(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	for _, mode := range config.DefaultModes() {
		mode := mode
		t.Run(mode.Key, func(t *testing.T) {
			res := runStress(t, mode, spamInput(3), 60*120)

			t.Logf("ticks=%d rounds=%d avg=%v p99=%v max=%v peakBullets=%d peakEffects=%d",
				res.TotalTicks, res.Rounds, res.AvgTickTime, res.P99TickTime, res.MaxTickTime,
				res.PeakBullets, res.PeakEffects)

			if res.P99TickTime > 50*time.Millisecond {
				t.Errorf("P99 tick time %v is far beyond a 60 TPS budget", res.P99TickTime)
			}
		})
	}
}

// TestStress_InfiniteAmmoCaps keeps chaos firing with infinite ammo and no
// deaths so the transient caps are actually reached.
func TestStress_InfiniteAmmoCaps(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	mode := config.ChaosMode()
	mode.MaxHP = 1 << 20
	res := runStress(t, mode, spamInput(8), 60*60)

	if res.PeakBullets > MaxBullets {
		t.Errorf("Bullets exceeded cap: %d", res.PeakBullets)
	}
	if res.PeakEffects > MaxEffects {
		t.Errorf("Effects exceeded cap: %d", res.PeakEffects)
	}
	if res.Rounds != 0 {
		t.Errorf("Expected no deaths with %d HP, got %d rounds", mode.MaxHP, res.Rounds)
	}
}
