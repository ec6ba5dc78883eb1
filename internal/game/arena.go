package game

import (
	"math/rand"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// Generator limits.
const (
	MaxArenaAttempts = 2000
	obstacleMinW     = 50
	obstacleMaxW     = 150
	obstacleMinH     = 22
	obstacleMaxH     = 90
	obstacleInset    = 40 // candidate inset from the margin
	obstacleEdgeGap  = 10 // keep-out strip along the far edges
	obstacleSpacing  = 12 // total inflation when testing against placed obstacles

	pillarW    = 56
	pillarH    = 280
	spawnZoneW = 220
	spawnZoneH = 240
)

// Arena is the generated map. Obstacles never change after generation.
type Arena struct {
	Width, Height float64
	Margin        float64
	Obstacles     []spatial.Rect
	SpawnZones    [2]spatial.Rect
	Seed          int64

	index *spatial.Index
}

// SpawnZones returns the two corridors kept free around the spawn points.
func SpawnZones(w, h, margin float64) [2]spatial.Rect {
	return [2]spatial.Rect{
		spatial.R(margin, h/2-spawnZoneH/2, spawnZoneW, spawnZoneH),
		spatial.R(w-margin-spawnZoneW, h/2-spawnZoneH/2, spawnZoneW, spawnZoneH),
	}
}

// GenerateArena builds the obstacle layout for a mode. The same seed and
// mode always yield the same layout. If the attempt budget runs out the
// arena simply has fewer obstacles.
func GenerateArena(mode config.Mode, seed int64) *Arena {
	rng := rand.New(rand.NewSource(seed))
	w, h, m := mode.WorldWidth, mode.WorldHeight, mode.Margin

	a := &Arena{
		Width:      w,
		Height:     h,
		Margin:     m,
		SpawnZones: SpawnZones(w, h, m),
		Seed:       seed,
	}

	pillar := spatial.R(float64(int(w/2))-pillarW/2, float64(int(h/2))-pillarH/2, pillarW, pillarH)
	a.Obstacles = append(a.Obstacles, pillar)

	want := 1 + mode.ObstacleCount
	for attempts := 0; len(a.Obstacles) < want && attempts < MaxArenaAttempts; attempts++ {
		ow := randInt(rng, obstacleMinW, obstacleMaxW)
		oh := randInt(rng, obstacleMinH, obstacleMaxH)
		xMax := int(w-m) - obstacleInset - ow
		yMax := int(h-m) - obstacleInset - oh
		lo := int(m) + obstacleInset
		if xMax < lo || yMax < lo {
			continue
		}
		r := spatial.R(float64(randInt(rng, lo, xMax)), float64(randInt(rng, lo, yMax)), float64(ow), float64(oh))

		if r.Intersects(a.SpawnZones[0]) || r.Intersects(a.SpawnZones[1]) {
			continue
		}
		if r.Right() > w-m-obstacleEdgeGap || r.Bottom() > h-m-obstacleEdgeGap {
			continue
		}
		if spatial.OverlapsAny(r.Inflate(obstacleSpacing, obstacleSpacing), a.Obstacles) {
			continue
		}
		a.Obstacles = append(a.Obstacles, r)
	}

	a.index = spatial.NewIndex(a.Obstacles)
	return a
}

// randInt returns an int in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Bounds returns the margin-bounded play area.
func (a *Arena) Bounds() spatial.Rect {
	return spatial.R(a.Margin, a.Margin, a.Width-2*a.Margin, a.Height-2*a.Margin)
}

// Index returns the R-tree over the static obstacles.
func (a *Arena) Index() *spatial.Index {
	return a.index
}

// Blockers combines the static obstacles with this tick's hazard blockers.
func (a *Arena) Blockers(dynamic []spatial.Rect) *spatial.Blockers {
	return spatial.NewBlockers(a.index, dynamic)
}

// Draw renders the arena floor and obstacles.
func (a *Arena) Draw(s Surface, v View) {
	s.StrokeRect(v.Rect(a.Bounds()), colorObstacleEdge, 2, 0)
	for _, o := range a.Obstacles {
		r := v.Rect(o)
		s.FillRect(r, colorObstacle, 10)
		s.StrokeRect(r, colorObstacleEdge, 1.5, 10)
	}
}
