package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kinnovative-other-websites/transport-field-check/internal/api/dto"
	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/metrics"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
	"github.com/kinnovative-other-websites/transport-field-check/internal/services"
)

// OptimizeHandler triggers route optimization runs.
// Failures are surfaced raw to the operator; this endpoint never degrades
// silently the way the map view endpoints do.
type OptimizeHandler struct {
	Stops    ports.StopRepository
	Results  ports.ResultRepository
	Engine   ports.RouteEngine
	Metrics  *metrics.Metrics
	Validate *validator.Validate
}

// Optimize runs one optimization for an explicit vehicle and branch id.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.run(w, r, req.VehicleID, req.BranchID)
}

// OptimizeByName resolves a branch and route pair to its vehicle first, then
// runs the optimization. Used by the dashboard, which works with names.
func (h *OptimizeHandler) OptimizeByName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeByNameRequest
	if !h.decode(w, r, &req) {
		return
	}

	branch, err := h.Stops.GetBranchByName(r.Context(), req.BranchName)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	vehicleID, err := h.Stops.ResolveVehicleForRoute(r.Context(), req.BranchName, req.RouteName)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.run(w, r, vehicleID, branch.ID)
}

func (h *OptimizeHandler) run(w http.ResponseWriter, r *http.Request, vehicleID, branchID int64) {
	result, err := services.OptimizeRoute(r.Context(), vehicleID, branchID, h.Stops, h.Results, h.Engine)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Metrics.OptimizeRunsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, r, http.StatusOK, toResultResponse(result))
}

func (h *OptimizeHandler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// fail maps domain errors onto HTTP statuses and records the run outcome.
func (h *OptimizeHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("optimize route failed: %v", err)

	var notFound *domain.NotFoundError
	var cfgErr *domain.ConfigurationError
	var noStops *domain.NoStopsError
	var capErr *domain.CapacityExceededError
	var svcErr *domain.ExternalServiceError
	var ambiguous *domain.AmbiguousRouteError

	switch {
	case errors.As(err, &notFound):
		h.Metrics.OptimizeRunsTotal.WithLabelValues("not_found").Inc()
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.As(err, &ambiguous):
		h.Metrics.OptimizeRunsTotal.WithLabelValues("ambiguous_route").Inc()
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &cfgErr):
		h.Metrics.OptimizeRunsTotal.WithLabelValues("not_configured").Inc()
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &noStops):
		h.Metrics.OptimizeRunsTotal.WithLabelValues("no_stops").Inc()
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &capErr):
		h.Metrics.OptimizeRunsTotal.WithLabelValues("capacity").Inc()
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &svcErr):
		h.Metrics.OptimizeRunsTotal.WithLabelValues("engine_error").Inc()
		writeError(w, r, http.StatusBadGateway, err.Error())
	default:
		h.Metrics.OptimizeRunsTotal.WithLabelValues("internal").Inc()
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toResultResponse(result *domain.RouteOptimizationResult) dto.ResultResponse {
	stops := make([]dto.StopVisitResponse, 0, len(result.StopOrder))
	for _, v := range result.StopOrder {
		stops = append(stops, dto.StopVisitResponse{
			StudentID:   v.StudentID,
			StudentCode: v.StudentCode,
			StudentName: v.StudentName,
			Lat:         v.Location.Lat,
			Lng:         v.Location.Lng,
			Position:    v.Position,
		})
	}

	return dto.ResultResponse{
		ID:                   result.ID,
		VehicleID:            result.VehicleID,
		RouteID:              result.RouteID,
		Polyline:             result.Polyline,
		StopOrder:            stops,
		TotalDistanceMeters:  result.TotalDistanceMeters,
		TotalDurationSeconds: result.TotalDurationSeconds,
		CreatedAt:            result.CreatedAt,
	}
}
