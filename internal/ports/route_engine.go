package ports

import (
	"context"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
)

// Single leg of a computed route.
type RouteLeg struct {
	DistanceMeters  int
	DurationSeconds int
}

// EngineRequest describes one round trip to be ordered by the routing engine:
// origin and destination are the same branch coordinate and every waypoint is
// an eligible stop.
type EngineRequest struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
	Waypoints   []domain.Coordinates
	Optimize    bool
}

// EngineRoute is the engine's answer for one request. WaypointOrder holds
// indices into the submitted waypoint slice in visiting order, and Polyline is
// the engine's overview geometry verbatim.
type EngineRoute struct {
	Polyline      string
	WaypointOrder []int
	Legs          []RouteLeg
}

// Contract for the external routing engine that orders waypoints.
type RouteEngine interface {
	// Compute an optimized round trip. Implementations must bound the call
	// with a timeout and surface failures as *domain.ExternalServiceError.
	OptimizeWaypoints(ctx context.Context, req EngineRequest) (EngineRoute, error)
}
