package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/linkverify-server/internal/model"
)

const namespace = "linkverify"

var _ model.Recorder = (*Recorder)(nil)

// Recorder exports redirect workflow metrics to Prometheus.
type Recorder struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	shorten  *prometheus.HistogramVec
}

// NewRecorder creates a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_requests_total",
		Help:      "Verification requests by outcome.",
	}, []string{"outcome"})

	shorten := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "shortener_request_duration_seconds",
		Help:      "Latency of URL shortener calls.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
	}, []string{"result"})

	registry.MustRegister(outcomes, shorten)

	return &Recorder{
		registry: registry,
		outcomes: outcomes,
		shorten:  shorten,
	}
}

// ObserveOutcome counts a finished verification request.
func (r *Recorder) ObserveOutcome(outcome model.Outcome) {
	r.outcomes.WithLabelValues(string(outcome)).Inc()
}

// ObserveShorten records a shortener call.
func (r *Recorder) ObserveShorten(duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.shorten.WithLabelValues(result).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
