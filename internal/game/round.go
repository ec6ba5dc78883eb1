package game

import (
	"log"
	"math/rand"

	"github.com/google/uuid"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// RoundState is the round lifecycle: Setup → Active → Over → Finished.
type RoundState uint8

const (
	RoundSetup RoundState = iota
	RoundActive
	RoundOver
	RoundFinished
)

func (s RoundState) String() string {
	switch s {
	case RoundSetup:
		return "setup"
	case RoundActive:
		return "active"
	case RoundOver:
		return "over"
	case RoundFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Default player names used when none are configured.
const (
	DefaultP1Name = "Player 1"
	DefaultP2Name = "Player 2"
)

// Recorder persists round results. Failures are logged by the round and
// never interrupt play.
type Recorder interface {
	RecordWin(mode, name string) error
}

// RoundOptions configures a new round. Zero values are valid.
type RoundOptions struct {
	Seed     int64
	P1Name   string
	P2Name   string
	Sound    SoundPlayer
	Recorder Recorder
	Sinks    []EventSink
}

// Round is one duel from spawn to winner. It is not safe for concurrent
// use; the Engine serializes access.
type Round struct {
	World

	ID     string
	Seed   int64
	State  RoundState
	Winner *Player

	recorder  Recorder
	overTimer float64
	recorded  bool
}

// NewRound generates the arena, spawns both players and lets every hazard
// place its initial entities. The round starts in Setup.
func NewRound(mode config.Mode, opts RoundOptions) *Round {
	p1Name, p2Name := opts.P1Name, opts.P2Name
	if p1Name == "" {
		p1Name = DefaultP1Name
	}
	if p2Name == "" {
		p2Name = DefaultP2Name
	}
	sound := opts.Sound
	if sound == nil {
		sound = NoSound{}
	}

	r := &Round{
		ID:       uuid.NewString(),
		Seed:     opts.Seed,
		State:    RoundSetup,
		recorder: opts.Recorder,
	}
	r.World = World{
		Mode:    mode,
		Arena:   GenerateArena(mode, opts.Seed),
		Players: [2]*Player{NewPlayer(P1, p1Name, mode), NewPlayer(P2, p2Name, mode)},
		Sound:   sound,
		roundID: r.ID,
		rng:     rand.New(rand.NewSource(opts.Seed ^ 0x5eed)),
		sinks:   opts.Sinks,
	}

	r.hazards = BuildHazards(mode, opts.Seed)
	for _, h := range r.hazards {
		h.SpawnInitial(&r.World)
	}
	r.InvalidateBlockers()

	return r
}

// AddSink attaches another event sink.
func (r *Round) AddSink(sink EventSink) {
	r.sinks = append(r.sinks, sink)
}

// Start moves the round from Setup to Active.
func (r *Round) Start() {
	if r.State != RoundSetup {
		return
	}
	r.State = RoundActive

	names := make([]string, 0, len(r.hazards))
	for _, h := range r.hazards {
		names = append(names, h.Name())
	}
	r.Emit(EventTypeRoundStart, 0, RoundStartPayload{
		Seed:      r.Seed,
		Obstacles: len(r.Arena.Obstacles),
		Hazards:   names,
		Players:   []string{r.Players[0].Name, r.Players[1].Name},
	})
	log.Printf("🎮 Round %s started: %s seed=%d obstacles=%d hazards=%v",
		r.ID[:8], r.Mode.Key, r.Seed, len(r.Arena.Obstacles), names)
}

// Finished reports whether the post-round delay has elapsed.
func (r *Round) Finished() bool {
	return r.State == RoundFinished
}

// Update advances the round by dt seconds using both players' inputs.
func (r *Round) Update(dt float64, inputs [2]Input) {
	switch r.State {
	case RoundActive:
		r.step(dt, inputs)
	case RoundOver:
		r.Elapsed += dt
		r.effects = updateEffects(r.effects, dt)
		r.overTimer += dt
		if r.overTimer >= r.Mode.WinDelay {
			r.State = RoundFinished
		}
	}
}

// step runs one Active tick: actions, movement, bullets, grenades, hazards,
// win check, effects.
func (r *Round) step(dt float64, inputs [2]Input) {
	r.Tick++
	r.Elapsed += dt

	for _, p := range r.Players {
		p.SpeedFactor = r.speedFactor(p)
	}

	for i, p := range r.Players {
		r.applyActions(p, inputs[i])
	}
	for i, p := range r.Players {
		if p.Alive() {
			p.Update(dt, inputs[i], r.Blockers(), r.Bounds())
		}
	}

	r.updateBullets(dt)
	r.updateGrenades(dt)

	for _, h := range r.hazards {
		h.Update(&r.World, dt)
	}

	r.checkWinner()
	r.effects = updateEffects(r.effects, dt)
}

// speedFactor multiplies the factors of every SpeedModifier hazard.
func (r *Round) speedFactor(p *Player) float64 {
	f := 1.0
	hitbox := p.BodyHitbox()
	for _, h := range r.hazards {
		if sm, ok := h.(SpeedModifier); ok {
			f *= sm.SpeedFactor(hitbox)
		}
	}
	return f
}

// applyActions handles the edge-triggered inputs. Invalid actions are
// silent no-ops.
func (r *Round) applyActions(p *Player, in Input) {
	if !p.Alive() {
		return
	}

	if in.Weapon > 0 {
		p.SetWeapon(in.Weapon - 1)
	}

	if in.Reload && p.Reload() {
		r.Play("reload", VolumeReload)
	}

	if in.Fire {
		if bullets := p.Shoot(r.rng); len(bullets) > 0 {
			r.spawnBullets(bullets)
			r.Play("shoot", VolumeShoot)
			w := p.Weapon()
			r.Emit(EventTypeFire, p.ID, FirePayload{Weapon: w.ID, Bullets: len(bullets), Mag: w.Mag})
		}
	}

	if in.Grenade {
		if g := p.ThrowGrenade(r.Mode.Grenade); g != nil && r.spawnGrenade(g) {
			r.Play("grenade", VolumeGrenade)
			r.Emit(EventTypeGrenadeThrown, p.ID, nil)
		}
	}
}

// checkWinner ends the round when a player is out of health. Player 1 is
// checked first, so player 2 wins when both fall on the same tick.
func (r *Round) checkWinner() {
	p1, p2 := r.Players[0], r.Players[1]
	switch {
	case !p1.Alive():
		r.finish(p2)
	case !p2.Alive():
		r.finish(p1)
	}
}

func (r *Round) finish(winner *Player) {
	r.State = RoundOver
	r.Winner = winner
	r.overTimer = 0

	if r.recorder != nil {
		if err := r.recorder.RecordWin(r.Mode.Key, winner.Name); err != nil {
			log.Printf("⚠️ Failed to record win for %s: %v", winner.Name, err)
		} else {
			r.recorded = true
		}
	}

	log.Printf("🏆 %s wins the %s round with %d HP (%.1fs)", winner.Name, r.Mode.Key, winner.HP, r.Elapsed)
	r.Emit(EventTypeRoundOver, winner.ID, RoundOverPayload{
		Winner:   winner.Name,
		WinnerID: winner.ID.String(),
		WinnerHP: winner.HP,
		Duration: r.Elapsed,
		Recorded: r.recorded,
	})
}

// Draw renders the world for one view in back-to-front order: arena,
// hazards, bullets, grenades, players, effects.
func (r *Round) Draw(s Surface, v View) {
	r.Arena.Draw(s, v)
	for _, h := range r.hazards {
		h.Draw(s, v)
	}
	for _, b := range r.bullets {
		b.Draw(s, v)
	}
	for _, g := range r.grenades {
		g.Draw(s, v)
	}
	for _, p := range r.Players {
		p.Draw(s, v)
	}
	for _, e := range r.effects {
		e.Draw(s, v)
	}
}

// DrawOverlays applies every ViewOverlay hazard to one view.
func (r *Round) DrawOverlays(s Surface, viewBounds spatial.Rect, focus spatial.Vec2) {
	for _, h := range r.hazards {
		if o, ok := h.(ViewOverlay); ok {
			o.DrawOverlay(s, viewBounds, focus)
		}
	}
}
