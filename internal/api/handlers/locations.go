package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kinnovative-other-websites/transport-field-check/internal/api/dto"
	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
	"github.com/kinnovative-other-websites/transport-field-check/internal/services"
)

// LocationsHandler exposes stop coordinate reads and writes for field staff
// and map views.
type LocationsHandler struct {
	Stops    ports.StopRepository
	Validate *validator.Validate
}

// List returns fully located stops, optionally filtered by branch and route.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := ports.StopLocationFilter{
		BranchName: r.URL.Query().Get("branch"),
		RouteName:  r.URL.Query().Get("route"),
	}

	locations, err := services.ListStops(r.Context(), filter, h.Stops)
	if err != nil {
		log.Printf("list locations failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListLocationsResponse{Locations: make([]dto.LocationResponse, 0, len(locations))}
	for _, loc := range locations {
		res.Locations = append(res.Locations, dto.LocationResponse{
			StudentID:   loc.StudentID,
			StudentCode: loc.StudentCode,
			StudentName: loc.StudentName,
			BranchName:  loc.BranchName,
			RouteName:   loc.RouteName,
			Latitude:    loc.Location.Lat,
			Longitude:   loc.Location.Lng,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Pending lists students of a branch still missing a coordinate, the
// worklist field staff work through when logging stops.
func (h *LocationsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	branch := r.URL.Query().Get("branch")
	if branch == "" {
		writeError(w, r, http.StatusBadRequest, "branch is required")
		return
	}

	pending, err := services.ListPendingStudents(r.Context(), branch, r.URL.Query().Get("route"), h.Stops)
	if err != nil {
		log.Printf("list pending students failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPendingResponse{Students: make([]dto.PendingStudentResponse, 0, len(pending))}
	for _, p := range pending {
		res.Students = append(res.Students, dto.PendingStudentResponse{
			StudentID:     p.StudentID,
			StudentCode:   p.StudentCode,
			StudentName:   p.StudentName,
			SectionName:   p.SectionName,
			BranchName:    p.BranchName,
			RouteName:     p.RouteName,
			VehicleNumber: p.VehicleNumber,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Log records one coordinate against a batch of student codes.
func (h *LocationsHandler) Log(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.LogLocationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	loc := domain.Coordinates{Lat: *req.Latitude, Lng: *req.Longitude}
	updated, err := h.Stops.LogLocation(r.Context(), req.StudentCodes, loc, req.BranchName)
	if err != nil {
		log.Printf("log location failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UpdatedResponse{
		Updated: updated,
		Message: "Location logged successfully",
	})
}

// Clear removes the logged coordinate for a batch of student codes.
func (h *LocationsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ClearLocationsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.Stops.ClearLocations(r.Context(), req.StudentCodes)
	if err != nil {
		log.Printf("clear locations failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UpdatedResponse{
		Updated: updated,
		Message: fmt.Sprintf("Cleared locations for %d student(s)", updated),
	})
}

// Stats reports coordinate logging progress across all students.
func (h *LocationsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := h.Stops.Stats(r.Context())
	if err != nil {
		log.Printf("stats failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StatsResponse{
		Total:   stats.Total,
		Logged:  stats.Logged,
		Pending: stats.Pending,
	})
}

// Branches lists branch names for the branch picker.
func (h *LocationsHandler) Branches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	names, err := h.Stops.ListBranchNames(r.Context())
	if err != nil {
		log.Printf("list branches failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, names)
}

// Routes lists route names within a branch for the route picker.
func (h *LocationsHandler) Routes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	branch := r.URL.Query().Get("branch")
	if branch == "" {
		writeError(w, r, http.StatusBadRequest, "branch is required")
		return
	}

	names, err := h.Stops.ListRouteNames(r.Context(), branch)
	if err != nil {
		log.Printf("list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, names)
}

func (h *LocationsHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
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
