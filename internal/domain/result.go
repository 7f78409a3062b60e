package domain

import "time"

// Represents one visited stop inside an optimization result.
// Position is 1-based within the optimized circuit.
type StopVisit struct {
	StudentID   string
	StudentCode string
	StudentName string
	Location    Coordinates
	Position    int
}

// Represents the persisted outcome of a single optimization run.
// A RouteOptimizationResult is append-only history: it is never mutated after
// creation, and "current" for a vehicle means the row with the greatest
// CreatedAt. The stop order is a permutation of exactly the students that were
// eligible when the run executed; later coordinate edits do not invalidate it.
type RouteOptimizationResult struct {
	ID                   int64
	VehicleID            int64
	RouteID              *int64
	Polyline             string
	StopOrder            []StopVisit
	TotalDistanceMeters  int
	TotalDurationSeconds int
	CreatedAt            time.Time
}

// OptimizedRouteView decorates a result with its decoded path geometry for
// map rendering.
type OptimizedRouteView struct {
	RouteOptimizationResult
	Path []Coordinates
}
