package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/geo"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// ListStops returns every fully located stop matching the optional branch and
// route filters, ordered by route name then student code for deterministic
// map grouping.
func ListStops(ctx context.Context, filter ports.StopLocationFilter, stops ports.StopRepository) ([]domain.StopLocation, error) {
	locations, err := stops.ListLocations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}
	return locations, nil
}

// ListPendingStudents returns the worklist of students in a branch whose stop
// coordinate has not been logged yet, optionally narrowed to one route.
func ListPendingStudents(ctx context.Context, branchName, routeName string, stops ports.StopRepository) ([]domain.PendingStudent, error) {
	pending, err := stops.ListPendingStudents(ctx, branchName, routeName)
	if err != nil {
		return nil, fmt.Errorf("list pending students: %w", err)
	}
	return pending, nil
}

// GetOptimizedView returns the latest optimization result for the single
// vehicle serving a branch and route, decorated with the decoded path
// geometry.
//
// Missing configuration is not an error for map rendering: an unknown branch,
// a route served by zero or several vehicles, and a vehicle that was never
// optimized all yield (nil, nil) so the view degrades to raw stops. Other
// failures (storage, decoding the stop list) are surfaced.
func GetOptimizedView(
	ctx context.Context,
	branchName string,
	routeName string,
	stops ports.StopRepository,
	results ports.ResultRepository,
) (*domain.OptimizedRouteView, error) {
	vehicleID, err := stops.ResolveVehicleForRoute(ctx, branchName, routeName)
	if err != nil {
		var notFound *domain.NotFoundError
		var ambiguous *domain.AmbiguousRouteError
		if errors.As(err, &notFound) || errors.As(err, &ambiguous) {
			return nil, nil
		}
		return nil, fmt.Errorf("get optimized view: resolve vehicle: %w", err)
	}

	result, err := results.GetLatest(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("get optimized view: latest result for vehicle %d: %w", vehicleID, err)
	}
	if result == nil {
		return nil, nil
	}

	return &domain.OptimizedRouteView{
		RouteOptimizationResult: *result,
		Path:                    geo.DecodePath(result.Polyline),
	}, nil
}
