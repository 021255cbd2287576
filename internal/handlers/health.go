package handlers

import (
	"net/http"
	"runtime"
	"time"
)

// HealthHandler reports service liveness and a runtime health snapshot.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// ServeHTTP handles GET /health
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"alloc_mb":       m.Alloc / 1024 / 1024,
		"sys_mb":         m.Sys / 1024 / 1024,
		"num_gc":         m.NumGC,
	})
}
