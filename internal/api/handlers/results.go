package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/kinnovative-other-websites/transport-field-check/internal/api/dto"
	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
	"github.com/kinnovative-other-websites/transport-field-check/internal/services"
)

// ResultsHandler exposes read access to persisted optimization results.
type ResultsHandler struct {
	Stops   ports.StopRepository
	Results ports.ResultRepository
}

// Latest returns the most recent result for a vehicle id.
func (h *ResultsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	vehicleID, err := strconv.ParseInt(r.URL.Query().Get("vehicle_id"), 10, 64)
	if err != nil || vehicleID <= 0 {
		writeError(w, r, http.StatusBadRequest, "vehicle_id must be a positive integer")
		return
	}

	result, err := h.Results.GetLatest(r.Context(), vehicleID)
	if err != nil {
		log.Printf("get latest result failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if result == nil {
		writeJSON(w, r, http.StatusNotFound, map[string]string{"message": "No optimized route found"})
		return
	}

	writeJSON(w, r, http.StatusOK, toResultResponse(result))
}

// OptimizedView returns the latest result for a branch and route pair with
// the decoded path attached. Missing configuration or a not-yet-computed
// route responds with a JSON null body so map rendering falls back to raw
// stops without an error banner.
func (h *ResultsHandler) OptimizedView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	branch := r.URL.Query().Get("branch")
	route := r.URL.Query().Get("route")
	if branch == "" || route == "" {
		writeJSON(w, r, http.StatusOK, nil)
		return
	}

	view, err := services.GetOptimizedView(r.Context(), branch, route, h.Stops, h.Results)
	if err != nil {
		log.Printf("get optimized view failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if view == nil {
		writeJSON(w, r, http.StatusOK, nil)
		return
	}

	writeJSON(w, r, http.StatusOK, toViewResponse(view))
}

func toViewResponse(view *domain.OptimizedRouteView) dto.OptimizedViewResponse {
	path := make([][]float64, 0, len(view.Path))
	for _, p := range view.Path {
		path = append(path, p.CoordsToList())
	}

	return dto.OptimizedViewResponse{
		ResultResponse: toResultResponse(&view.RouteOptimizationResult),
		Path:           path,
	}
}
