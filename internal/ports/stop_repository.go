package ports

import (
	"context"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
)

// StopLocationFilter narrows location listings to one branch and/or route by
// name. Zero values mean "no filter".
type StopLocationFilter struct {
	BranchName string
	RouteName  string
}

// CoordinateStats summarizes logging progress across all students.
type CoordinateStats struct {
	Total   int
	Logged  int
	Pending int
}

// Port: a boundary for reading and writing per-student stop coordinate state.
type StopRepository interface {
	// Resolve a vehicle by id; absent vehicles yield *domain.NotFoundError.
	GetVehicle(ctx context.Context, vehicleID int64) (*domain.Vehicle, error)

	// Resolve a branch by id; absent branches yield *domain.NotFoundError.
	GetBranch(ctx context.Context, branchID int64) (*domain.Branch, error)

	// Resolve a branch by (case-insensitive) name.
	GetBranchByName(ctx context.Context, name string) (*domain.Branch, error)

	// Return students assigned to both vehicle and branch whose coordinate is
	// fully set. The returned order is the order waypoints are submitted in.
	ListEligibleStops(ctx context.Context, vehicleID, branchID int64) ([]*domain.Student, error)

	// Return the single vehicle id serving the given branch and route via
	// student assignments. Zero or multiple candidates yield
	// *domain.AmbiguousRouteError.
	ResolveVehicleForRoute(ctx context.Context, branchName, routeName string) (int64, error)

	// Return all fully located stops matching the filter, ordered by route
	// name then student code.
	ListLocations(ctx context.Context, filter StopLocationFilter) ([]domain.StopLocation, error)

	// Return students of the named branch whose coordinate is missing or
	// partial, optionally narrowed to one route. Empty routeName means the
	// whole branch.
	ListPendingStudents(ctx context.Context, branchName, routeName string) ([]domain.PendingStudent, error)

	// Record one logged coordinate against every matching student code within
	// the named branch. Returns the number of students updated.
	LogLocation(ctx context.Context, studentCodes []string, loc domain.Coordinates, branchName string) (int64, error)

	// Clear the logged coordinate of every matching student code. Returns the
	// number of students updated.
	ClearLocations(ctx context.Context, studentCodes []string) (int64, error)

	// Return total/logged/pending coordinate counts.
	Stats(ctx context.Context) (CoordinateStats, error)

	// Return branch names ascending.
	ListBranchNames(ctx context.Context) ([]string, error)

	// Return route names for a branch ascending.
	ListRouteNames(ctx context.Context, branchName string) ([]string, error)
}
