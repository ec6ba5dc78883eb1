package api

import (
	"io"
	"sync"
	"time"

	"arena-duel/internal/config"
	"arena-duel/internal/game"
	"arena-duel/internal/render"
)

// EngineFrames renders the engine's current round on demand.
type EngineFrames struct {
	mu     sync.Mutex
	engine *game.Engine
	screen *render.SplitScreen
}

// NewEngineFrames creates a frame source with its own split-screen canvas.
func NewEngineFrames(engine *game.Engine, cfg config.RenderConfig) *EngineFrames {
	return &EngineFrames{engine: engine, screen: render.NewSplitScreen(cfg)}
}

// WriteFramePNG renders under the engine's read lock and encodes outside it.
func (f *EngineFrames) WriteFramePNG(w io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()
	f.engine.WithRound(func(r *game.Round) {
		f.screen.Render(r)
	})
	RecordRender(time.Since(start))
	return f.screen.EncodePNG(w)
}
