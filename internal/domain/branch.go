package domain

// Represents a school branch. The branch origin coordinate is the start and
// end of every optimized vehicle circuit; route optimization refuses to run
// while it is unset.
type Branch struct {
	ID       int64
	Name     string
	Location *Coordinates
}

// Represents a transport vehicle. One vehicle may serve many students; views
// assume at most one vehicle per route.
type Vehicle struct {
	ID     int64
	Number string
}
