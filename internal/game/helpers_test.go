package game

import (
	"image/color"
	"math/rand"
	"sync"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// bareMode is Classic without hazards, so tests control every entity.
func bareMode() config.Mode {
	m := config.ClassicMode()
	m.Hazards = nil
	m.ObstacleCount = 0
	return m
}

// newTestWorld builds a world over a hand-made arena.
func newTestWorld(mode config.Mode, obstacles ...spatial.Rect) *World {
	a := &Arena{
		Width:      mode.WorldWidth,
		Height:     mode.WorldHeight,
		Margin:     mode.Margin,
		Obstacles:  obstacles,
		SpawnZones: SpawnZones(mode.WorldWidth, mode.WorldHeight, mode.Margin),
		index:      spatial.NewIndex(obstacles),
	}
	return &World{
		Mode:    mode,
		Arena:   a,
		Players: [2]*Player{NewPlayer(P1, "Alice", mode), NewPlayer(P2, "Bob", mode)},
		Sound:   NoSound{},
		roundID: "test-round",
		rng:     rand.New(rand.NewSource(1)),
	}
}

// newTestRound wraps a test world in an active round.
func newTestRound(mode config.Mode, obstacles ...spatial.Rect) *Round {
	r := &Round{ID: "test-round", Seed: 1, State: RoundActive}
	r.World = *newTestWorld(mode, obstacles...)
	return r
}

// eventCollector records every event it receives.
type eventCollector struct {
	mu     sync.Mutex
	events []Event
}

func (c *eventCollector) Sink() EventSink {
	return func(e Event) {
		c.mu.Lock()
		c.events = append(c.events, e)
		c.mu.Unlock()
	}
}

func (c *eventCollector) Count(t EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// soundCollector records sound names.
type soundCollector struct {
	played []string
}

func (s *soundCollector) Play(name string, _ float64) {
	s.played = append(s.played, name)
}

// drawCall is one recorded Surface call.
type drawCall struct {
	op     string
	radius float64
	inner  float64
	color  color.RGBA
}

// recordingSurface is a Surface that remembers what was drawn.
type recordingSurface struct {
	calls []drawCall
}

func (s *recordingSurface) FillRect(r spatial.Rect, c color.RGBA, _ float64) {
	s.calls = append(s.calls, drawCall{op: "fillRect", color: c})
}

func (s *recordingSurface) StrokeRect(r spatial.Rect, c color.RGBA, _, _ float64) {
	s.calls = append(s.calls, drawCall{op: "strokeRect", color: c})
}

func (s *recordingSurface) FillCircle(_ spatial.Vec2, radius float64, c color.RGBA) {
	s.calls = append(s.calls, drawCall{op: "fillCircle", radius: radius, color: c})
}

func (s *recordingSurface) StrokeCircle(_ spatial.Vec2, radius float64, c color.RGBA, _ float64) {
	s.calls = append(s.calls, drawCall{op: "strokeCircle", radius: radius, color: c})
}

func (s *recordingSurface) Line(_, _ spatial.Vec2, c color.RGBA, _ float64) {
	s.calls = append(s.calls, drawCall{op: "line", color: c})
}

func (s *recordingSurface) FillRing(_ spatial.Vec2, inner, outer float64, c color.RGBA) {
	s.calls = append(s.calls, drawCall{op: "fillRing", inner: inner, radius: outer, color: c})
}

func (s *recordingSurface) FillOutside(_ spatial.Rect, _ spatial.Vec2, radius float64, c color.RGBA) {
	s.calls = append(s.calls, drawCall{op: "fillOutside", radius: radius, color: c})
}

// identityView maps world space onto itself.
type identityView struct{}

func (identityView) Rect(r spatial.Rect) spatial.Rect { return r }
func (identityView) Point(p spatial.Vec2) spatial.Vec2 { return p }
