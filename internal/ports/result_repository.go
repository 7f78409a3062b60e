package ports

import (
	"context"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
)

// Port: append-only storage of optimization results.
type ResultRepository interface {
	// Persist a new result row and return it with id and creation timestamp
	// filled in. Results are never updated or deleted.
	Insert(ctx context.Context, result *domain.RouteOptimizationResult) (*domain.RouteOptimizationResult, error)

	// Return the most recent result for a vehicle, or (nil, nil) when the
	// vehicle has never been optimized. Absence is a normal outcome here,
	// not an error.
	GetLatest(ctx context.Context, vehicleID int64) (*domain.RouteOptimizationResult, error)
}
