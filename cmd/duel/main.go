package main

import (
	"context"
	"image"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"arena-duel/internal/api"
	"arena-duel/internal/audio"
	"arena-duel/internal/config"
	"arena-duel/internal/game"
	"arena-duel/internal/leaderboard"
	"arena-duel/internal/render"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  ARENA DUEL")
	log.Println("🎮 ================================")

	appConfig := config.Load()
	simCfg := appConfig.Sim
	renderCfg := appConfig.Render

	modes := config.DefaultModes()
	if appConfig.Storage.ModesFile != "" {
		loaded, err := config.LoadModes(appConfig.Storage.ModesFile)
		if err != nil {
			log.Printf("⚠️ Mode overrides ignored: %v", err)
		} else {
			modes = loaded
			log.Printf("📄 Modes loaded from %s", appConfig.Storage.ModesFile)
		}
	}
	mode, ok := modes[simCfg.Mode]
	if !ok {
		log.Printf("⚠️ Unknown mode %q, falling back to %s (available: %v)", simCfg.Mode, config.ModeClassic, config.ModeKeys(modes))
		mode = modes[config.ModeClassic]
	}

	board, err := leaderboard.Open(appConfig.Storage.LeaderboardPath)
	if err != nil {
		log.Printf("⚠️ Leaderboard starts empty: %v", err)
	}

	bank := audio.NewBank(appConfig.Audio)
	var capture *audio.Capture
	if appConfig.Audio.RecordPath != "" {
		capture = audio.NewCapture(bank, appConfig.Audio.RecordPath)
		capture.Start()
		log.Printf("🎙️ Recording session audio to %s", appConfig.Audio.RecordPath)
	}

	eventLog := game.NewEventLog()
	if appConfig.Storage.EventLogPath != "" {
		if err := eventLog.Start(appConfig.Storage.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", appConfig.Storage.EventLogPath)
		}
	}

	var dumper *render.FrameDumper
	if renderCfg.FrameDir != "" {
		d, err := render.NewFrameDumper(renderCfg.FrameDir, renderCfg.FrameEvery)
		if err != nil {
			log.Printf("⚠️ Frame dumping disabled: %v", err)
		} else {
			dumper = d
			dumper.Start()
			log.Printf("🖼️ Dumping every %d ticks to %s", renderCfg.FrameEvery, renderCfg.FrameDir)
		}
	}

	// The API server needs the engine and the engine needs the server's
	// event sink, so the hub sink is bound late.
	var hubSink game.EventSink
	sinks := []game.EventSink{
		api.MetricsSink(),
		func(e game.Event) {
			if hubSink != nil {
				hubSink(e)
			}
		},
	}

	var engine *game.Engine
	screen := render.NewSplitScreen(renderCfg)
	engine = game.NewEngine(mode, game.EngineOptions{
		TickRate:    simCfg.TickRate,
		MaxDT:       simCfg.MaxDT,
		Seed:        simCfg.Seed,
		AutoRestart: simCfg.AutoRestart,
		MaxRounds:   simCfg.MaxRounds,
		P1Name:      simCfg.Player1,
		P2Name:      simCfg.Player2,
		Sound:       bank,
		Recorder:    board,
		Sinks:       sinks,
		EventLog:    eventLog,
		OnTick: func(d time.Duration) {
			api.RecordTick(d)
			snap := engine.GetSnapshot()
			api.UpdateWorldGauges(snap)
			api.UpdateEventLogStats(eventLog.GetTotalCount(), eventLog.GetDroppedCount())

			if dumper == nil || snap == nil || !dumper.Due(snap.TickNumber) {
				return
			}
			start := time.Now()
			var (
				roundID string
				tick    uint64
				frame   *image.RGBA
			)
			engine.WithRound(func(r *game.Round) {
				roundID, tick = r.ID, r.Tick
				frame = render.CloneFrame(screen.Render(r))
			})
			api.RecordRender(time.Since(start))
			dumper.Submit(roundID, tick, frame)
		},
	})

	var server *api.Server
	if appConfig.Server.Enabled {
		server = api.NewServer(engine, appConfig.Server, api.ServerOptions{
			Modes:       modes,
			Leaderboard: board,
			Render:      &renderCfg,
		})
		hubSink = server.EventSink()
		go func() {
			log.Printf("🌐 API server on http://localhost:%d", appConfig.Server.Port)
			if err := server.Start(); err != nil {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
	}

	debugCfg := api.DefaultObservabilityConfig()
	debugCfg.ListenAddr = appConfig.Server.DebugAddr
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	engine.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Duel ready! Press Ctrl+C to stop.")
	select {
	case <-quit:
	case <-engine.Done():
	}

	log.Println("🛑 Shutting down...")
	engine.Stop()
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("⚠️ Server shutdown: %v", err)
		}
		cancel()
	}
	if dumper != nil {
		dumper.Stop()
	}
	eventLog.Stop()
	if capture != nil {
		if err := capture.Close(); err != nil {
			log.Printf("⚠️ Audio recording lost: %v", err)
		}
	}
	final := engine.Mode().Key
	log.Printf("🏁 Leaderboard (%s):", final)
	for _, e := range board.Top(final, 5) {
		log.Printf("   %d. %s: %d wins", e.Rank, e.Name, e.Wins)
	}
	log.Println("👋 Goodbye!")
}
