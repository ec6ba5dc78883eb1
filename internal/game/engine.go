package game

import (
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"arena-duel/internal/config"
)

// EngineOptions configures the real-time driver. Zero values fall back to
// sensible defaults.
type EngineOptions struct {
	TickRate    int
	MaxDT       float64 // cap on the wall-clock step, seconds
	Seed        int64
	AutoRestart bool
	MaxRounds   int // 0 = unlimited

	P1Name, P2Name string

	Input    InputSource
	Sound    SoundPlayer
	Recorder Recorder
	Sinks    []EventSink
	EventLog *EventLog

	// OnTick is called after every tick with the time spent simulating.
	OnTick func(d time.Duration)
}

// Engine owns the current round and drives it from a ticker goroutine.
// Every mutation happens on that goroutine under mu; observers use
// WithRound or the lock-free snapshots.
type Engine struct {
	mu    sync.RWMutex
	mode  config.Mode
	opts  EngineOptions
	round *Round

	tickRate int
	maxDT    float64
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	lastTick time.Time

	// Stats
	rounds       int
	countedRound string
	tickCount    int64
	done         chan struct{}
	doneOnce     sync.Once

	snapshotPool *SnapshotPool
	latest       atomic.Pointer[GameSnapshot]
	seeds        *rand.Rand
}

// NewEngine creates an engine and its first round in the given mode.
func NewEngine(mode config.Mode, opts EngineOptions) *Engine {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.MaxDT <= 0 {
		opts.MaxDT = 0.1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Input == nil {
		opts.Input = NewBot(opts.Seed)
	}

	e := &Engine{
		mode:         mode,
		opts:         opts,
		tickRate:     opts.TickRate,
		maxDT:        opts.MaxDT,
		done:         make(chan struct{}),
		snapshotPool: NewSnapshotPool(DefaultLimits),
		seeds:        rand.New(rand.NewSource(opts.Seed)),
	}
	e.newRound(opts.Seed)
	return e
}

// newRound replaces the current round. Caller holds mu or is the constructor.
func (e *Engine) newRound(seed int64) {
	sinks := append([]EventSink(nil), e.opts.Sinks...)
	if e.opts.EventLog != nil {
		sinks = append(sinks, e.opts.EventLog.Sink())
	}
	e.round = NewRound(e.mode, RoundOptions{
		Seed:     seed,
		P1Name:   e.opts.P1Name,
		P2Name:   e.opts.P2Name,
		Sound:    e.opts.Sound,
		Recorder: e.opts.Recorder,
		Sinks:    sinks,
	})
	e.round.Start()
	e.produceSnapshot()
}

// Start begins the game loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.lastTick = time.Now()
	// A fresh channel per run so the engine can be restarted after Stop.
	stop := make(chan struct{})
	e.stopChan = stop
	ticker := time.NewTicker(time.Second / time.Duration(e.tickRate))
	e.ticker = ticker
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				e.tick()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Duel engine started at %d TPS (%s)", e.tickRate, e.mode.Key)
}

// Stop stops the game loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Duel engine stopped")
}

// tick measures the wall-clock step and advances the simulation.
func (e *Engine) tick() {
	now := time.Now()
	e.mu.Lock()
	dt := now.Sub(e.lastTick).Seconds()
	e.lastTick = now
	e.mu.Unlock()

	e.Step(dt)
}

// Step advances the current round by dt seconds (capped at MaxDT). It is
// what the ticker calls, and what headless callers and tests drive directly.
func (e *Engine) Step(dt float64) {
	start := time.Now()

	e.mu.Lock()
	if dt > e.maxDT {
		dt = e.maxDT
	}
	if dt < 0 {
		dt = 0
	}

	e.tickCount++
	r := e.round
	r.Update(dt, e.opts.Input.Inputs(r))

	if r.Finished() && e.countedRound != r.ID {
		e.countedRound = r.ID
		e.roundFinished()
	}
	e.produceSnapshot()
	e.mu.Unlock()

	if e.opts.OnTick != nil {
		e.opts.OnTick(time.Since(start))
	}
}

// roundFinished counts the round and either restarts or signals Done.
// Caller holds mu.
func (e *Engine) roundFinished() {
	e.rounds++
	limitReached := e.opts.MaxRounds > 0 && e.rounds >= e.opts.MaxRounds
	if e.opts.AutoRestart && !limitReached {
		e.newRound(e.seeds.Int63())
		return
	}
	e.doneOnce.Do(func() {
		log.Printf("🏁 Duel finished after %d round(s)", e.rounds)
		close(e.done)
	})
}

// Done is closed once the last round finishes and no restart follows.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Restart discards the current round and starts a fresh one, optionally
// switching mode. A zero seed picks the next seed from the engine.
func (e *Engine) Restart(mode *config.Mode, seed int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mode != nil {
		e.mode = *mode
	}
	if seed == 0 {
		seed = e.seeds.Int63()
	}
	e.newRound(seed)
}

// WithRound runs fn with read access to the current round. fn must not
// retain the round or mutate it.
func (e *Engine) WithRound(fn func(r *Round)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.round)
}

// Mode returns the active mode.
func (e *Engine) Mode() config.Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// IsRunning reports whether the ticker goroutine is active.
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// GetStats returns engine counters for the API.
func (e *Engine) GetStats() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	stats := map[string]interface{}{
		"mode":      e.mode.Key,
		"tickRate":  e.tickRate,
		"ticks":     e.tickCount,
		"rounds":    e.rounds,
		"roundId":   e.round.ID,
		"state":     e.round.State.String(),
		"running":   e.running,
		"elapsed":   e.round.Elapsed,
		"bullets":   len(e.round.bullets),
		"grenades":  len(e.round.grenades),
		"effects":   len(e.round.effects),
		"obstacles": len(e.round.Arena.Obstacles),
	}
	if e.opts.EventLog != nil {
		stats["events"] = e.opts.EventLog.GetStats()
	}
	return stats
}

// produceSnapshot publishes the current round. Caller holds mu.
func (e *Engine) produceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	e.round.FillSnapshot(snap, e.snapshotPool.GetLimits())
	snap.RoundNumber = e.rounds + 1
	e.snapshotPool.PublishWrite()
	e.latest.Store(snap.Clone())
}

// GetSnapshot returns the latest published snapshot. It is read-only and
// only valid until the engine writes two more; Clone it to keep it.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshotPool.AcquireRead()
}

// LatestSnapshot returns a private copy of the latest snapshot that stays
// valid forever. Use it from goroutines other than the engine's.
func (e *Engine) LatestSnapshot() *GameSnapshot {
	return e.latest.Load()
}
