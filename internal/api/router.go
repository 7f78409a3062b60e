package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kinnovative-other-websites/transport-field-check/internal/api/handlers"
	"github.com/kinnovative-other-websites/transport-field-check/internal/metrics"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	stops ports.StopRepository,
	results ports.ResultRepository,
	engine ports.RouteEngine,
	m *metrics.Metrics,
) http.Handler {
	mux := http.NewServeMux()
	validate := validator.New()

	locationsHandler := &handlers.LocationsHandler{Stops: stops, Validate: validate}
	optimizeHandler := &handlers.OptimizeHandler{
		Stops:    stops,
		Results:  results,
		Engine:   &metrics.InstrumentedEngine{Engine: engine, Metrics: m},
		Metrics:  m,
		Validate: validate,
	}
	resultsHandler := &handlers.ResultsHandler{Stops: stops, Results: results}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", m.Handler())

	mux.HandleFunc("/api/stats", locationsHandler.Stats)
	mux.HandleFunc("/api/branches", locationsHandler.Branches)
	mux.HandleFunc("/api/routes", locationsHandler.Routes)
	mux.HandleFunc("/api/locations", locationsHandler.List)
	mux.HandleFunc("/api/pending", locationsHandler.Pending)
	mux.HandleFunc("/api/log-location", locationsHandler.Log)
	mux.HandleFunc("/api/clear-locations", locationsHandler.Clear)

	mux.HandleFunc("/api/optimize-route", optimizeHandler.Optimize)
	mux.HandleFunc("/api/optimize-route-by-name", optimizeHandler.OptimizeByName)
	mux.HandleFunc("/api/vehicle-route", resultsHandler.Latest)
	mux.HandleFunc("/api/optimized-route", resultsHandler.OptimizedView)

	return requestIDMiddleware(loggingMiddleware(m, mux))
}
