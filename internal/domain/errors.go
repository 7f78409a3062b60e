package domain

import "fmt"

// NotFoundError reports a missing vehicle or branch.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConfigurationError reports required branch setup that has not been done yet,
// such as a missing branch origin coordinate.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// NoStopsError reports that no student assigned to the vehicle and branch has
// a fully logged coordinate.
type NoStopsError struct {
	VehicleID int64
	BranchID  int64
}

func (e *NoStopsError) Error() string {
	return fmt.Sprintf("no students with locations found for vehicle %d in branch %d", e.VehicleID, e.BranchID)
}

// CapacityExceededError reports more eligible stops than the routing engine
// accepts in one request. The limit is a hard ceiling of the engine, not a
// tunable; callers must split the route instead of truncating it.
type CapacityExceededError struct {
	Count int
	Limit int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("too many stops (%d > %d) for a single optimization request", e.Count, e.Limit)
}

// ExternalServiceError reports a failed routing engine call: a non-success
// provider status, a transport failure, or a timeout.
type ExternalServiceError struct {
	Status  string
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("routing engine error: %s - %s", e.Status, e.Message)
	}
	return fmt.Sprintf("routing engine error: %s", e.Status)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// AmbiguousRouteError reports that a branch and route pair resolves to zero
// or more than one vehicle. Views treat this as "not configured".
type AmbiguousRouteError struct {
	BranchName string
	RouteName  string
	Vehicles   int
}

func (e *AmbiguousRouteError) Error() string {
	return fmt.Sprintf(
		"branch %q route %q resolves to %d vehicles, want exactly 1",
		e.BranchName, e.RouteName, e.Vehicles,
	)
}
