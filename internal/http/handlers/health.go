package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/reward-points/internal/http/respond"
	"github.com/hongminglow/reward-points/internal/rewards"
)

// HealthHandler returns uptime, basic status and reconciliation counters.
type HealthHandler struct {
	startedAt time.Time
	stats     func() rewards.ReconcilerStats
}

// NewHealthHandler creates a health endpoint handler. stats may be nil.
func NewHealthHandler(startedAt time.Time, stats func() rewards.ReconcilerStats) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, stats: stats}
}

// Register wires the handler into the router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
}

type healthResponse struct {
	Status         string                   `json:"status"`
	Uptime         string                   `json:"uptime"`
	Reconciliation *rewards.ReconcilerStats `json:"reconciliation,omitempty"`
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	body := healthResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Truncate(time.Second).String(),
	}
	if h.stats != nil {
		stats := h.stats()
		body.Reconciliation = &stats
	}
	respond.JSON(w, http.StatusOK, "healthy", body)
}
