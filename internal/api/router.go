package api

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"arena-duel/internal/config"
	"arena-duel/internal/game"
	"arena-duel/internal/leaderboard"
)

// EngineInterface is the part of the duel engine the API uses. Tests
// substitute a fake.
type EngineInterface interface {
	// LatestSnapshot returns an immutable copy of the latest snapshot (nil before the first)
	LatestSnapshot() *game.GameSnapshot
	// GetStats returns engine counters
	GetStats() map[string]interface{}
	// Mode returns the active mode
	Mode() config.Mode
	// Restart starts a fresh round, optionally in another mode
	Restart(mode *config.Mode, seed int64)
}

// LeaderboardInterface is the read side of the win store.
type LeaderboardInterface interface {
	Top(mode string, limit int) []leaderboard.Entry
}

// FrameSource renders the current round as a PNG.
type FrameSource interface {
	WriteFramePNG(w io.Writer) error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
//	router := api.NewRouter(api.RouterConfig{Engine: fake, Modes: config.DefaultModes()})
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the duel engine (required)
	Engine EngineInterface

	// Modes are the mode bundles /api/modes lists and /api/restart accepts.
	// If nil, the built-in modes are used.
	Modes map[string]config.Mode

	// Leaderboard is optional; without it the leaderboard route returns 404.
	Leaderboard LeaderboardInterface

	// Frames is optional; without it /api/frame.png returns 404.
	Frames FrameSource

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is only used if RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins defaults to localhost on any port.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

type routerHandlers struct {
	engine      EngineInterface
	modes       map[string]config.Mode
	leaderboard LeaderboardInterface
	frames      FrameSource
	limiter     *IPRateLimiter
}

// NewRouter constructs the HTTP router with all middleware and routes.
// It starts no goroutines besides the rate limiter's cleanup and opens no
// listeners, so it is safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting before CORS to reject early
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	modes := cfg.Modes
	if modes == nil {
		modes = config.DefaultModes()
	}
	h := &routerHandlers{
		engine:      cfg.Engine,
		modes:       modes,
		leaderboard: cfg.Leaderboard,
		frames:      cfg.Frames,
		limiter:     rateLimiter,
	}

	r.Route("/api", func(r chi.Router) {
		// Round state
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/frame.png", h.handleGetFrame)

		// Static data
		r.Get("/modes", h.handleGetModes)
		r.Get("/weapons", h.handleGetWeapons)
		r.Get("/leaderboard/{mode}", h.handleGetLeaderboard)

		// Control
		r.Post("/restart", h.handleRestart)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	return r
}

// metricsMiddleware records latency per route pattern, never per raw URL.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, pattern, status, time.Since(start))
	})
}
