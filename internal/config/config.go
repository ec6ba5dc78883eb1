// Package config provides centralized configuration management.
// Everything the duel binary needs is declared here with a default and an
// optional environment override; per-mode gameplay bundles live in modes.go.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig controls the real-time engine driving rounds.
type SimConfig struct {
	TickRate    int     // Target ticks per second
	MaxDT       float64 // Frame clock cap in seconds
	Mode        string  // Mode key: classic, hardcore, chaos
	Seed        int64   // 0 picks a time-based seed
	AutoRestart bool    // Start a new round once the previous one finishes
	MaxRounds   int     // 0 = unlimited
	Player1     string
	Player2     string
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:    60,
		MaxDT:       0.1,
		Mode:        ModeClassic,
		AutoRestart: true,
		Player1:     "Player 1",
		Player2:     "Player 2",
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("DUEL_TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if dt := getEnvFloat("DUEL_MAX_DT", 0); dt > 0 {
		cfg.MaxDT = dt
	}
	if m := strings.ToLower(os.Getenv("DUEL_MODE")); m != "" {
		cfg.Mode = m
	}
	if s := getEnvInt("DUEL_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}
	cfg.AutoRestart = getEnvBool("DUEL_AUTO_RESTART", cfg.AutoRestart)
	if r := getEnvInt("DUEL_MAX_ROUNDS", -1); r >= 0 {
		cfg.MaxRounds = r
	}
	if n := os.Getenv("DUEL_PLAYER1"); n != "" {
		cfg.Player1 = n
	}
	if n := os.Getenv("DUEL_PLAYER2"); n != "" {
		cfg.Player2 = n
	}

	return cfg
}

// =============================================================================
// RENDER CONFIGURATION
// =============================================================================

// RenderConfig holds split-screen frame settings.
type RenderConfig struct {
	Width      int    // Full frame width (each view gets half)
	Height     int    // Frame height
	FrameDir   string // Where PNG frames are dumped; empty disables dumping
	FrameEvery int    // Dump one frame every N ticks
}

// DefaultRender returns the default render configuration.
func DefaultRender() RenderConfig {
	return RenderConfig{
		Width:      1000,
		Height:     600,
		FrameEvery: 30,
	}
}

// RenderFromEnv returns render configuration with environment variable overrides.
func RenderFromEnv() RenderConfig {
	cfg := DefaultRender()

	if w := getEnvInt("DUEL_SCREEN_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("DUEL_SCREEN_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if dir := os.Getenv("DUEL_FRAME_DIR"); dir != "" {
		cfg.FrameDir = dir
	}
	if n := getEnvInt("DUEL_FRAME_EVERY", 0); n > 0 {
		cfg.FrameEvery = n
	}

	return cfg
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds sound-effect settings.
type AudioConfig struct {
	SampleRate int     // Mixer sample rate in Hz
	Volume     float64 // Master volume (0.0 to 1.0)
	Enabled    bool    // Whether sound effects are loaded at all
	SoundsDir  string  // Directory holding <name>.wav / <name>.ogg
	RecordPath string  // Optional WAV file receiving the mixed session audio
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		SampleRate: 44100,
		Volume:     0.8,
		Enabled:    true,
		SoundsDir:  "assets/sounds",
	}
}

// AudioFromEnv returns audio configuration with environment variable overrides.
func AudioFromEnv() AudioConfig {
	cfg := DefaultAudio()

	if v := getEnvFloat("DUEL_VOLUME", -1); v >= 0 {
		cfg.Volume = v
	}
	if os.Getenv("DUEL_SOUND_ENABLED") == "false" {
		cfg.Enabled = false
	}
	if dir := os.Getenv("DUEL_SOUNDS_DIR"); dir != "" {
		cfg.SoundsDir = dir
	}
	if p := os.Getenv("DUEL_AUDIO_RECORD"); p != "" {
		cfg.RecordPath = p
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds the inspection API settings.
type ServerConfig struct {
	Enabled     bool
	Port        int
	CORSOrigins []string
	DebugAddr   string // pprof + /metrics, localhost only
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Enabled:     true,
		Port:        3000,
		CORSOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		DebugAddr:   "127.0.0.1:6060",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	cfg.Enabled = getEnvBool("DUEL_API_ENABLED", cfg.Enabled)
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if origins := os.Getenv("DUEL_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}
	if addr := os.Getenv("DUEL_DEBUG_ADDR"); addr != "" {
		cfg.DebugAddr = addr
	}

	return cfg
}

// =============================================================================
// STORAGE CONFIGURATION
// =============================================================================

// StorageConfig holds file locations for persisted data.
type StorageConfig struct {
	LeaderboardPath string
	EventLogPath    string // NDJSON event journal; empty disables it
	ModesFile       string // Optional YAML overrides for mode bundles
}

// DefaultStorage returns the default storage configuration.
func DefaultStorage() StorageConfig {
	return StorageConfig{
		LeaderboardPath: "leaderboard.json",
	}
}

// StorageFromEnv returns storage configuration with environment variable overrides.
func StorageFromEnv() StorageConfig {
	cfg := DefaultStorage()

	if p := os.Getenv("DUEL_LEADERBOARD"); p != "" {
		cfg.LeaderboardPath = p
	}
	if p := os.Getenv("DUEL_EVENT_LOG"); p != "" {
		cfg.EventLogPath = p
	}
	if p := os.Getenv("DUEL_MODES_FILE"); p != "" {
		cfg.ModesFile = p
	}

	return cfg
}

// =============================================================================
// AGGREGATE CONFIGURATION
// =============================================================================

// AppConfig aggregates all configuration for easy access.
type AppConfig struct {
	Sim     SimConfig
	Render  RenderConfig
	Audio   AudioConfig
	Server  ServerConfig
	Storage StorageConfig
}

// Load returns the complete application configuration with env overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:     SimFromEnv(),
		Render:  RenderFromEnv(),
		Audio:   AudioFromEnv(),
		Server:  ServerFromEnv(),
		Storage: StorageFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
