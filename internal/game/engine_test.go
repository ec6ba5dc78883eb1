package game

import (
	"testing"
	"time"

	"arena-duel/internal/config"
)

func idleInput() InputSource {
	return InputFunc(func(r *Round) [2]Input { return [2]Input{} })
}

// TestNewEngine verifies engine creation with correct defaults
func TestNewEngine(t *testing.T) {
	tests := []struct {
		name     string
		tickRate int
		want     int
	}{
		{"default", 0, 60},
		{"standard 30 TPS", 30, 30},
		{"high 120 TPS", 120, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(config.ClassicMode(), EngineOptions{TickRate: tt.tickRate, Seed: 1})
			if engine == nil {
				t.Fatal("NewEngine returned nil")
			}
			if got := engine.GetStats()["tickRate"]; got != tt.want {
				t.Errorf("Expected tick rate %d, got %v", tt.want, got)
			}
			if engine.GetSnapshot() == nil {
				t.Error("First round should publish a snapshot")
			}
		})
	}
}

// TestEngineStartStop verifies engine can start and stop without panics
func TestEngineStartStop(t *testing.T) {
	engine := NewEngine(config.ClassicMode(), EngineOptions{TickRate: 60, Seed: 1})

	engine.Start()
	engine.Start()
	if !engine.IsRunning() {
		t.Fatal("Engine should be running")
	}
	time.Sleep(100 * time.Millisecond)

	engine.Stop()
	if engine.IsRunning() {
		t.Error("Engine should be stopped")
	}

	// Should not panic on double stop
	engine.Stop()

	if ticks := engine.GetStats()["ticks"].(int64); ticks == 0 {
		t.Error("Expected the ticker to advance the round")
	}
}

// TestStepCapsDT verifies the frame clock cap
func TestStepCapsDT(t *testing.T) {
	engine := NewEngine(config.ClassicMode(), EngineOptions{Seed: 1, MaxDT: 0.05, Input: idleInput()})
	engine.Step(3)
	engine.Step(-1)

	engine.WithRound(func(r *Round) {
		if r.Elapsed != 0.05 {
			t.Errorf("Expected 0.05s elapsed, got %v", r.Elapsed)
		}
		if r.Tick != 2 {
			t.Errorf("Expected 2 ticks, got %d", r.Tick)
		}
	})
}

// TestSnapshotSequenceAdvances verifies one snapshot per step
func TestSnapshotSequenceAdvances(t *testing.T) {
	var ticks int
	engine := NewEngine(config.ClassicMode(), EngineOptions{
		Seed:   1,
		Input:  idleInput(),
		OnTick: func(time.Duration) { ticks++ },
	})
	before := engine.GetSnapshot().Sequence
	for i := 0; i < 5; i++ {
		engine.Step(1.0 / 60)
	}
	snap := engine.GetSnapshot()
	if snap.Sequence != before+5 {
		t.Errorf("Expected sequence %d, got %d", before+5, snap.Sequence)
	}
	if snap.TickNumber != 5 {
		t.Errorf("Expected tick 5, got %d", snap.TickNumber)
	}
	if ticks != 5 {
		t.Errorf("Expected 5 OnTick calls, got %d", ticks)
	}
}

// killPlayerOne ends the current round in favour of player two.
func killPlayerOne(e *Engine) {
	e.mu.Lock()
	e.round.Players[0].HP = 0
	e.mu.Unlock()
}

func currentRoundID(e *Engine) string {
	var id string
	e.WithRound(func(r *Round) { id = r.ID })
	return id
}

// TestAutoRestart verifies a new round follows the win delay
func TestAutoRestart(t *testing.T) {
	rec := &fakeRecorder{}
	engine := NewEngine(config.ClassicMode(), EngineOptions{
		Seed:        3,
		AutoRestart: true,
		Input:       idleInput(),
		Recorder:    rec,
		P2Name:      "Bob",
	})
	first := currentRoundID(engine)

	killPlayerOne(engine)
	for i := 0; i < 30 && currentRoundID(engine) == first; i++ {
		engine.Step(0.1)
	}

	if currentRoundID(engine) == first {
		t.Fatal("Expected a new round after the win delay")
	}
	if rounds := engine.GetStats()["rounds"]; rounds != 1 {
		t.Errorf("Expected 1 finished round, got %v", rounds)
	}
	if len(rec.calls) != 1 || rec.calls[0] != "classic/Bob" {
		t.Errorf("Expected one recorded win for Bob, got %v", rec.calls)
	}
	if engine.GetSnapshot().RoundNumber != 2 {
		t.Errorf("Expected round number 2, got %d", engine.GetSnapshot().RoundNumber)
	}
	select {
	case <-engine.Done():
		t.Error("Done should stay open while auto-restarting")
	default:
	}
}

// TestMaxRoundsClosesDone verifies the session end signal
func TestMaxRoundsClosesDone(t *testing.T) {
	engine := NewEngine(config.HardcoreMode(), EngineOptions{
		Seed:        5,
		AutoRestart: true,
		MaxRounds:   1,
		Input:       idleInput(),
	})

	killPlayerOne(engine)
	for i := 0; i < 30; i++ {
		engine.Step(0.1)
	}

	select {
	case <-engine.Done():
	default:
		t.Fatal("Done should close after the last round")
	}
	if state := engine.GetSnapshot().State; state != "finished" {
		t.Errorf("Expected finished state, got %s", state)
	}
}

// TestRestartSwitchesMode verifies manual restarts
func TestRestartSwitchesMode(t *testing.T) {
	engine := NewEngine(config.ClassicMode(), EngineOptions{Seed: 1, Input: idleInput()})
	chaos := config.ChaosMode()

	engine.Restart(&chaos, 77)

	if engine.Mode().Key != config.ModeChaos {
		t.Errorf("Expected chaos, got %s", engine.Mode().Key)
	}
	snap := engine.GetSnapshot()
	if snap.Mode != config.ModeChaos || snap.Seed != 77 {
		t.Errorf("Snapshot not updated: %s seed=%d", snap.Mode, snap.Seed)
	}

	engine.Restart(nil, 0)
	if engine.Mode().Key != config.ModeChaos {
		t.Error("Restart without a mode should keep the current one")
	}
	if engine.GetSnapshot().Seed == 0 {
		t.Error("Zero seed should be replaced")
	}
}

// TestEngineEventLog verifies the journal is wired as a sink
func TestEngineEventLog(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatal(err)
	}
	defer el.Stop()

	engine := NewEngine(config.ClassicMode(), EngineOptions{Seed: 1, EventLog: el, Input: idleInput()})
	engine.Step(0.016)

	if el.GetTotalCount() == 0 {
		t.Error("Expected the round start event in the journal")
	}
	if _, ok := engine.GetStats()["events"]; !ok {
		t.Error("Stats should include the event log")
	}
}

// TestEngineRestartAfterStop verifies the ticker runs again after Stop
func TestEngineRestartAfterStop(t *testing.T) {
	engine := NewEngine(config.ClassicMode(), EngineOptions{TickRate: 120, Seed: 1, Input: idleInput()})

	engine.Start()
	time.Sleep(50 * time.Millisecond)
	engine.Stop()
	first := engine.GetStats()["ticks"].(int64)

	engine.Start()
	if !engine.IsRunning() {
		t.Fatal("Engine should be running again")
	}
	time.Sleep(100 * time.Millisecond)
	engine.Stop()

	if second := engine.GetStats()["ticks"].(int64); second <= first {
		t.Errorf("Expected ticks to advance after restart, got %d then %d", first, second)
	}
}

// TestLatestSnapshotIsStable verifies published copies are never reused
func TestLatestSnapshotIsStable(t *testing.T) {
	engine := NewEngine(config.ClassicMode(), EngineOptions{Seed: 1, Input: idleInput()})
	engine.Step(1.0 / 60)

	held := engine.LatestSnapshot()
	if held == nil {
		t.Fatal("Expected a published snapshot")
	}
	seq, tick := held.Sequence, held.TickNumber

	for i := 0; i < 10; i++ {
		engine.Step(1.0 / 60)
	}

	if held.Sequence != seq || held.TickNumber != tick {
		t.Errorf("Held snapshot changed: seq %d->%d tick %d->%d", seq, held.Sequence, tick, held.TickNumber)
	}
	latest := engine.LatestSnapshot()
	if latest.Sequence != seq+10 {
		t.Errorf("Expected sequence %d, got %d", seq+10, latest.Sequence)
	}
	if latest == held {
		t.Error("Each publish should store a new copy")
	}
}
