package dto

import "time"

type StopVisitResponse struct {
	StudentID   string  `json:"student_id"`
	StudentCode string  `json:"student_code"`
	StudentName string  `json:"student_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Position    int     `json:"position"`
}

type ResultResponse struct {
	ID                   int64               `json:"id"`
	VehicleID            int64               `json:"vehicle_id"`
	RouteID              *int64              `json:"route_id"`
	Polyline             string              `json:"polyline"`
	StopOrder            []StopVisitResponse `json:"stop_order"`
	TotalDistanceMeters  int                 `json:"total_distance"`
	TotalDurationSeconds int                 `json:"total_duration"`
	CreatedAt            time.Time           `json:"created_at"`
}

// OptimizedViewResponse adds the decoded overview path as [lat, lng] pairs
// ready for map rendering.
type OptimizedViewResponse struct {
	ResultResponse
	Path [][]float64 `json:"path"`
}
