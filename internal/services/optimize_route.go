package services

import (
	"context"
	"fmt"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/platform/obs"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// MaxWaypoints is the routing engine's ceiling on waypoints per request
// (origin and destination excluded). It is a hard limit of the engine, not a
// tunable: runs above it fail instead of silently truncating the stop list.
const MaxWaypoints = 25

// OptimizeRoute runs one route optimization for a vehicle within a branch.
//
// It selects the students currently eligible as stops (assigned to both the
// vehicle and the branch with a fully logged coordinate), submits them to the
// routing engine as a round trip from the branch origin, maps the engine's
// waypoint permutation back to student identities and persists the outcome.
//
// The reads in the early steps and the final insert are not one transaction:
// coordinates edited concurrently between selection and the engine call are
// accepted, and two overlapping runs for the same vehicle both persist, with
// "latest" decided by creation timestamp. Every failure is returned to the
// caller synchronously; nothing is retried.
func OptimizeRoute(
	ctx context.Context,
	vehicleID int64,
	branchID int64,
	stops ports.StopRepository,
	results ports.ResultRepository,
	engine ports.RouteEngine,
) (_ *domain.RouteOptimizationResult, err error) {
	defer obs.Time(ctx, "optimizer.OptimizeRoute")(&err)

	if _, err := stops.GetVehicle(ctx, vehicleID); err != nil {
		return nil, fmt.Errorf("optimize route: resolve vehicle: %w", err)
	}

	branch, err := stops.GetBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("optimize route: resolve branch: %w", err)
	}

	// Fail before any external call when the branch has no origin.
	if branch.Location == nil {
		return nil, &domain.ConfigurationError{
			Reason: fmt.Sprintf("branch %q has no coordinates set; set the branch location first", branch.Name),
		}
	}

	eligible, err := stops.ListEligibleStops(ctx, vehicleID, branchID)
	if err != nil {
		return nil, fmt.Errorf("optimize route: list eligible stops: %w", err)
	}

	if len(eligible) == 0 {
		return nil, &domain.NoStopsError{VehicleID: vehicleID, BranchID: branchID}
	}

	if len(eligible) > MaxWaypoints {
		return nil, &domain.CapacityExceededError{Count: len(eligible), Limit: MaxWaypoints}
	}

	waypoints := make([]domain.Coordinates, 0, len(eligible))
	for _, s := range eligible {
		waypoints = append(waypoints, *s.Location)
	}

	// Round trip: the circuit starts and ends at the branch origin.
	engineRoute, err := engine.OptimizeWaypoints(ctx, ports.EngineRequest{
		Origin:      *branch.Location,
		Destination: *branch.Location,
		Waypoints:   waypoints,
		Optimize:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	totalDistance := 0
	totalDuration := 0
	for _, leg := range engineRoute.Legs {
		totalDistance += leg.DistanceMeters
		totalDuration += leg.DurationSeconds
	}

	stopOrder, err := mapWaypointOrder(eligible, engineRoute.WaypointOrder)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	// Route id of the run: the first eligible student's assignment. Eligible
	// students disagreeing on route id is tolerated; any of them is stored.
	var routeID *int64
	if eligible[0].RouteID != nil {
		id := *eligible[0].RouteID
		routeID = &id
	}

	result := &domain.RouteOptimizationResult{
		VehicleID:            vehicleID,
		RouteID:              routeID,
		Polyline:             engineRoute.Polyline,
		StopOrder:            stopOrder,
		TotalDistanceMeters:  totalDistance,
		TotalDurationSeconds: totalDuration,
	}

	saved, err := results.Insert(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("optimize route: persist result: %w", err)
	}

	return saved, nil
}

// mapWaypointOrder translates the engine's permutation of submitted waypoint
// indices into an ordered stop list with 1-based positions. A reply that is
// not a permutation of the submitted stops is treated as an engine fault.
func mapWaypointOrder(eligible []*domain.Student, order []int) ([]domain.StopVisit, error) {
	if len(order) != len(eligible) {
		return nil, &domain.ExternalServiceError{
			Status:  "INVALID_RESPONSE",
			Message: fmt.Sprintf("waypoint order has %d entries for %d submitted stops", len(order), len(eligible)),
		}
	}

	seen := make(map[int]struct{}, len(order))
	visits := make([]domain.StopVisit, 0, len(order))

	for pos, idx := range order {
		if idx < 0 || idx >= len(eligible) {
			return nil, &domain.ExternalServiceError{
				Status:  "INVALID_RESPONSE",
				Message: fmt.Sprintf("waypoint order index %d out of range", idx),
			}
		}
		if _, dup := seen[idx]; dup {
			return nil, &domain.ExternalServiceError{
				Status:  "INVALID_RESPONSE",
				Message: fmt.Sprintf("waypoint order repeats index %d", idx),
			}
		}
		seen[idx] = struct{}{}

		student := eligible[idx]
		visits = append(visits, domain.StopVisit{
			StudentID:   student.StudentID,
			StudentCode: student.StudentCode,
			StudentName: student.StudentName,
			Location:    *student.Location,
			Position:    pos + 1,
		})
	}

	return visits, nil
}
