package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"arena-duel/internal/config"
	"arena-duel/internal/game"
)

// SnapshotInterval is how often spectators receive the round state.
const SnapshotInterval = 100 * time.Millisecond

// Server is the HTTP API server with WebSocket support.
type Server struct {
	engine      *game.Engine
	router      *chi.Mux
	hub         *Hub
	rateLimiter *IPRateLimiter
	httpServer  *http.Server
}

// ServerOptions are the optional collaborators of the API.
type ServerOptions struct {
	Modes       map[string]config.Mode
	Leaderboard LeaderboardInterface
	Render      *config.RenderConfig // nil disables /api/frame.png
}

// NewServer builds the API around engine. Background workers do NOT start
// until Start is called.
func NewServer(engine *game.Engine, cfg config.ServerConfig, opts ServerOptions) *Server {
	s := &Server{
		engine:      engine,
		hub:         NewHub(cfg.CORSOrigins),
		rateLimiter: NewIPRateLimiter(DefaultRateLimitConfig),
	}

	var frames FrameSource
	if opts.Render != nil {
		frames = NewEngineFrames(engine, *opts.Render)
	}

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		Modes:       opts.Modes,
		Leaderboard: opts.Leaderboard,
		Frames:      frames,
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.CORSOrigins,
	})
	s.router.Get("/ws", s.hub.HandleWebSocket)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// EventSink returns the hub's sink so spectators see round events. Pass it
// to the engine's sinks.
func (s *Server) EventSink() game.EventSink {
	return s.hub.Sink()
}

// Hub returns the spectator hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins the background workers and serves until Shutdown. It
// returns nil after a clean shutdown.
func (s *Server) Start() error {
	go s.hub.Run()
	s.hub.StartBroadcastLoop(s.engine, SnapshotInterval)

	log.Printf("🌐 API server starting on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrapf(err, "serve %s", s.httpServer.Addr)
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Shutdown stops the listener, the hub and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	s.rateLimiter.Stop()
	return errors.Wrap(s.httpServer.Shutdown(ctx), "shutdown api")
}
