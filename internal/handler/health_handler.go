package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status              string    `json:"status"`
	Timestamp           time.Time `json:"timestamp"`
	Runtime             string    `json:"runtime"`
	Database            string    `json:"database,omitempty"`
	Goroutines          int       `json:"goroutines"`
	AvailableProcessors int       `json:"availableProcessors"`
	TotalMemory         uint64    `json:"totalMemory"`
	HeapAlloc           uint64    `json:"heapAlloc"`
	FreeMemory          uint64    `json:"freeMemory"`
}

// HealthHandler serves liveness and runtime information.
type HealthHandler struct {
	db     Pinger
	logger zerolog.Logger
}

// NewHealthHandler creates a health handler. db may be nil.
func NewHealthHandler(db Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Check handles GET /health requests. A failing database ping turns the
// response into a 503.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	resp := HealthResponse{
		Status:              "ok",
		Timestamp:           time.Now().UTC(),
		Runtime:             runtime.Version(),
		Goroutines:          runtime.NumGoroutine(),
		AvailableProcessors: runtime.NumCPU(),
		TotalMemory:         mem.Sys,
		HeapAlloc:           mem.HeapAlloc,
		FreeMemory:          mem.Sys - mem.HeapInuse,
	}

	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp.Database = "up"
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("database ping failed")
			resp.Status = "degraded"
			resp.Database = "down"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
