package game

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

type fakeRecorder struct {
	err   error
	calls []string
}

func (f *fakeRecorder) RecordWin(mode, name string) error {
	f.calls = append(f.calls, mode+"/"+name)
	return f.err
}

func TestNewRoundStartsInSetup(t *testing.T) {
	events := &eventCollector{}
	r := NewRound(config.ChaosMode(), RoundOptions{Seed: 9, Sinks: []EventSink{events.Sink()}})

	assert.Equal(t, RoundSetup, r.State)
	assert.Equal(t, DefaultP1Name, r.Players[0].Name)
	assert.Equal(t, DefaultP2Name, r.Players[1].Name)
	assert.Len(t, r.Hazards(), 3)
	assert.NotEmpty(t, r.ID)

	// Setup ignores updates.
	r.Update(0.1, [2]Input{{Right: true}, {}})
	assert.Equal(t, uint64(0), r.Tick)

	r.Start()
	assert.Equal(t, RoundActive, r.State)
	assert.Equal(t, 1, events.Count(EventTypeRoundStart))

	r.Start()
	assert.Equal(t, 1, events.Count(EventTypeRoundStart), "Start is idempotent")
}

func TestSimultaneousDeathGoesToPlayerTwo(t *testing.T) {
	r := newTestRound(bareMode())
	r.Players[0].HP = 0
	r.Players[1].HP = 0

	r.Update(1.0/60, [2]Input{})

	assert.Equal(t, RoundOver, r.State)
	require.NotNil(t, r.Winner)
	assert.Equal(t, P2, r.Winner.ID)
}

func TestGrenadeKillsBothOnSameTick(t *testing.T) {
	r := newTestRound(bareMode())
	p1, p2 := r.Players[0], r.Players[1]
	p1.HP, p2.HP = 5, 5
	p2.Rect = p1.Rect.Translate(spatial.V(50, 0))

	g := NewGrenade(p1.Center().Add(spatial.V(25, 0)), spatial.V(0, 0), P1, r.Mode.Grenade)
	g.Fuse = 0.001
	r.spawnGrenade(g)

	r.Update(1.0/60, [2]Input{})

	assert.False(t, p1.Alive())
	assert.False(t, p2.Alive())
	assert.Equal(t, P2, r.Winner.ID)
}

func TestWinDelayThenFinished(t *testing.T) {
	r := newTestRound(bareMode())
	r.Players[1].HP = 0
	r.Update(0.016, [2]Input{})
	require.Equal(t, RoundOver, r.State)
	assert.Equal(t, P1, r.Winner.ID)

	// Actions are ignored once the round is over.
	r.Update(0.5, [2]Input{{Fire: true}, {}})
	assert.Empty(t, r.Bullets())
	assert.Equal(t, RoundOver, r.State)
	assert.False(t, r.Finished())

	r.Update(0.8, [2]Input{})
	assert.True(t, r.Finished())
}

func TestRecorderCalledOnce(t *testing.T) {
	rec := &fakeRecorder{}
	events := &eventCollector{}
	r := newTestRound(bareMode())
	r.recorder = rec
	r.sinks = []EventSink{events.Sink()}

	r.Players[0].HP = 0
	r.Update(0.016, [2]Input{})
	r.Update(0.016, [2]Input{})

	assert.Equal(t, []string{"classic/Bob"}, rec.calls)
	assert.True(t, r.recorded)

	var over RoundOverPayload
	for _, e := range events.events {
		if e.Type == EventTypeRoundOver {
			require.NoError(t, json.Unmarshal(e.Payload, &over))
		}
	}
	assert.Equal(t, "Bob", over.Winner)
	assert.True(t, over.Recorded)
}

func TestRecorderErrorDoesNotStopRound(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	r := newTestRound(bareMode())
	r.recorder = rec

	r.Players[1].HP = 0
	r.Update(0.016, [2]Input{})
	r.Update(2, [2]Input{})

	assert.Len(t, rec.calls, 1)
	assert.False(t, r.recorded)
	assert.True(t, r.Finished())
}

func TestActionsSpawnBulletsAndGrenades(t *testing.T) {
	r := newTestRound(bareMode())
	events := &eventCollector{}
	sounds := &soundCollector{}
	r.sinks = []EventSink{events.Sink()}
	r.Sound = sounds

	r.Update(0.016, [2]Input{{Fire: true, Grenade: true}, {Weapon: 3, Fire: true}})

	assert.Equal(t, 2, r.Players[1].WeaponIndex)
	assert.Len(t, r.Bullets(), 1+7)
	assert.Len(t, r.Grenades(), 1)
	assert.Equal(t, 2, events.Count(EventTypeFire))
	assert.Equal(t, 1, events.Count(EventTypeGrenadeThrown))
	assert.Contains(t, sounds.played, "shoot")
	assert.Contains(t, sounds.played, "grenade")
}

func TestReloadAction(t *testing.T) {
	r := newTestRound(bareMode())
	w := r.Players[0].Weapon()
	w.Mag = 2

	r.Update(0.016, [2]Input{{Reload: true}, {}})
	assert.True(t, w.Reloading())

	for i := 0; i < 70; i++ {
		r.Update(1.0/60, [2]Input{})
	}
	assert.Equal(t, 12, w.Mag)
	assert.Equal(t, 38, w.Reserve)
}

func TestFillSnapshot(t *testing.T) {
	r := NewRound(config.ChaosMode(), RoundOptions{Seed: 4, P1Name: "Ada", P2Name: "Lin"})
	r.Start()
	r.Update(0.016, [2]Input{{Fire: true}, {}})

	pool := NewSnapshotPool(DefaultLimits)
	snap := pool.AcquireWrite()
	r.FillSnapshot(snap, pool.GetLimits())
	pool.PublishWrite()

	got := pool.AcquireRead()
	require.NotNil(t, got)
	assert.Equal(t, r.ID, got.RoundID)
	assert.Equal(t, "chaos", got.Mode)
	assert.Equal(t, "active", got.State)
	assert.Equal(t, "Ada", got.Players[0].Name)
	assert.Equal(t, 120, got.Players[1].HP)
	assert.Equal(t, len(r.Arena.Obstacles), len(got.Obstacles))
	assert.Len(t, got.Bullets, len(r.Bullets()))

	kinds := map[string]bool{}
	for _, h := range got.Hazards {
		kinds[h.Hazard] = true
	}
	assert.True(t, kinds["barrel"])
	assert.True(t, kinds["tile"])

	clone := got.Clone()
	got.Bullets = got.Bullets[:0]
	assert.Len(t, clone.Bullets, len(r.Bullets()))
}

func TestSnapshotPoolEmptyUntilPublished(t *testing.T) {
	pool := NewSnapshotPool(DefaultLimits)
	assert.Nil(t, pool.AcquireRead())

	first := pool.AcquireWrite()
	pool.PublishWrite()
	second := pool.AcquireWrite()
	pool.PublishWrite()

	assert.Equal(t, second.Sequence, pool.AcquireRead().Sequence)
	assert.Greater(t, second.Sequence, first.Sequence)
}

func TestRoundDrawOrder(t *testing.T) {
	r := NewRound(config.ChaosMode(), RoundOptions{Seed: 2})
	r.Start()
	s := &recordingSurface{}

	r.Draw(s, identityView{})
	assert.NotEmpty(t, s.calls)
	for _, c := range s.calls {
		assert.NotEqual(t, "fillOutside", c.op, "fog belongs to the overlay pass")
	}

	s.calls = nil
	r.DrawOverlays(s, spatial.R(0, 0, 500, 600), spatial.V(250, 300))
	require.NotEmpty(t, s.calls)
	assert.Equal(t, "fillOutside", s.calls[0].op)
}
