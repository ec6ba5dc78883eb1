package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"arena-duel/internal/config"
	"arena-duel/internal/game"
)

// Handler methods for routerHandlers

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.LatestSnapshot()
	if snap == nil {
		writeError(w, "no round yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.GetStats()
	stats["rateLimit"] = h.limiter.GetStats()
	writeJSON(w, stats)
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	if h.frames == nil {
		writeError(w, "rendering disabled", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := h.frames.WriteFramePNG(&buf); err != nil {
		writeError(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// modeSummary is the public view of a mode bundle.
type modeSummary struct {
	Key          string   `json:"key"`
	Title        string   `json:"title"`
	WorldWidth   float64  `json:"worldWidth"`
	WorldHeight  float64  `json:"worldHeight"`
	MaxHP        int      `json:"maxHp"`
	InfiniteAmmo bool     `json:"infiniteAmmo"`
	Grenades     int      `json:"grenades"`
	Hazards      []string `json:"hazards"`
	Active       bool     `json:"active"`
}

func (h *routerHandlers) handleGetModes(w http.ResponseWriter, r *http.Request) {
	active := h.engine.Mode().Key
	out := make([]modeSummary, 0, len(h.modes))
	for _, key := range config.ModeKeys(h.modes) {
		m := h.modes[key]
		out = append(out, modeSummary{
			Key:          m.Key,
			Title:        m.Title,
			WorldWidth:   m.WorldWidth,
			WorldHeight:  m.WorldHeight,
			MaxHP:        m.MaxHP,
			InfiniteAmmo: m.InfiniteAmmo,
			Grenades:     m.Grenade.Charges,
			Hazards:      m.Hazards,
			Active:       m.Key == active,
		})
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleGetWeapons(w http.ResponseWriter, r *http.Request) {
	out := make([]game.WeaponSpec, 0, len(game.Loadout))
	for _, id := range game.Loadout {
		out = append(out, game.GetWeaponSpec(id))
	}
	writeJSON(w, out)
}

func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.leaderboard == nil {
		writeError(w, "leaderboard disabled", http.StatusNotFound)
		return
	}
	mode := chi.URLParam(r, "mode")
	if _, ok := h.modes[mode]; !ok {
		writeError(w, "unknown mode", http.StatusNotFound)
		return
	}

	limit := 10
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, "limit must be 1-100", http.StatusBadRequest)
			return
		}
		limit = n
	}

	writeJSON(w, map[string]interface{}{
		"mode":    mode,
		"entries": h.leaderboard.Top(mode, limit),
	})
}

type restartRequest struct {
	Mode string `json:"mode"`
	Seed int64  `json:"seed"`
}

func (h *routerHandlers) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req restartRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
			writeError(w, "invalid JSON", http.StatusBadRequest)
			return
		}
	}

	var mode *config.Mode
	if req.Mode != "" {
		m, ok := h.modes[req.Mode]
		if !ok {
			writeError(w, "unknown mode", http.StatusBadRequest)
			return
		}
		mode = &m
	}

	h.engine.Restart(mode, req.Seed)
	writeJSONStatus(w, http.StatusAccepted, map[string]interface{}{
		"mode": h.engine.Mode().Key,
		"seed": req.Seed,
	})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
