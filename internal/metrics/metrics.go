// Package metrics provides Prometheus metrics for the transport service.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OptimizeRunsTotal  *prometheus.CounterVec
	EngineCallDuration prometheus.Histogram
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transport_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transport_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	optimizeRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transport_optimize_runs_total",
			Help: "Route optimization runs by outcome",
		},
		[]string{"outcome"},
	)

	engineCallDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transport_engine_call_duration_seconds",
			Help:    "Routing engine call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		optimizeRunsTotal,
		engineCallDuration,
	)

	return &Metrics{
		Registry:            registry,
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		OptimizeRunsTotal:   optimizeRunsTotal,
		EngineCallDuration:  engineCallDuration,
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// InstrumentedEngine wraps a RouteEngine and observes call durations.
type InstrumentedEngine struct {
	Engine  ports.RouteEngine
	Metrics *Metrics
}

func (e *InstrumentedEngine) OptimizeWaypoints(ctx context.Context, req ports.EngineRequest) (ports.EngineRoute, error) {
	start := time.Now()
	route, err := e.Engine.OptimizeWaypoints(ctx, req)
	e.Metrics.EngineCallDuration.Observe(time.Since(start).Seconds())
	return route, err
}
