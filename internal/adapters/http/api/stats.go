// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// StatsDependencies defines the interface for service statistics.
type StatsDependencies interface {
	Stats(ctx context.Context) (queued, stored int)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	deps StatsDependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

type statsResponse struct {
	QueuedScreenings int `json:"queued_screenings"`
	StoredReports    int `json:"stored_reports"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	queued, stored := h.deps.Stats(r.Context())
	writeJSON(w, http.StatusOK, statsResponse{
		QueuedScreenings: queued,
		StoredReports:    stored,
	})
}
