package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/dtroode/linkverify-server/internal/logger"
)

const healthTimeout = 2 * time.Second

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports service liveness together with the store connectivity.
type Health struct {
	store  Pinger
	logger *logger.Logger
}

// NewHealth creates a new Health handler.
func NewHealth(store Pinger, logger *logger.Logger) *Health {
	return &Health{store: store, logger: logger}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Check handles GET /healthz.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	resp := healthResponse{Status: "ok", Store: "ok"}
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Health handler: store ping failed",
			"error", err.Error())
		status = http.StatusServiceUnavailable
		resp = healthResponse{Status: "unavailable", Store: "unreachable"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Health handler: failed to write response",
			"error", err.Error())
	}
}
