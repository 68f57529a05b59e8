package handler

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/linkverify-server/internal/logger"
)

// ServiceName is the health service name of the verification workflow.
const ServiceName = "linkverify.Redirect"

const (
	defaultProbeInterval = 10 * time.Second
	probeTimeout         = 2 * time.Second
)

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter keeps the gRPC health status in line with store connectivity.
type HealthReporter struct {
	server   *health.Server
	store    Pinger
	interval time.Duration
	logger   *logger.Logger

	mu      sync.Mutex
	serving bool
}

// NewHealthReporter creates a reporter probing store every interval.
func NewHealthReporter(store Pinger, interval time.Duration, logger *logger.Logger) *HealthReporter {
	if interval <= 0 {
		interval = defaultProbeInterval
	}

	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthReporter{
		server:   srv,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Server returns the health service implementation to register.
func (h *HealthReporter) Server() *health.Server {
	return h.server
}

// Probe pings the store once and publishes the result.
func (h *HealthReporter) Probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := h.store.Ping(ctx)
	serving := err == nil

	h.mu.Lock()
	changed := serving != h.serving
	h.serving = serving
	h.mu.Unlock()

	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)

	if changed && !serving {
		h.logger.Warn("Health reporter: store unreachable",
			"error", err.Error())
	}
	if changed && serving {
		h.logger.Info("Health reporter: store reachable")
	}
}

// Run probes until ctx is done, then marks every service as not serving.
func (h *HealthReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}
