package domain

// Represents a student registered on a transport route.
// A Student may be unassigned (nil branch/route/vehicle) until bulk import or
// an operator links them, and has no Location until field staff log one.
// Latitude and longitude are always set together; a Student with a partial
// coordinate never leaves the repository layer.
type Student struct {
	ID          int64
	StudentID   string // external identity from the school system
	StudentCode string
	StudentName string
	SectionName string
	BranchID    *int64
	RouteID     *int64
	VehicleID   *int64
	Location    *Coordinates
}

// HasLocation reports whether both coordinate fields are set.
func (s *Student) HasLocation() bool { return s.Location != nil }

// PendingStudent is a student still missing a logged coordinate, joined with
// branch, route and vehicle names for the field-staff worklist.
type PendingStudent struct {
	StudentID     string
	StudentCode   string
	StudentName   string
	SectionName   string
	BranchName    string
	RouteName     string
	VehicleNumber string
}

// StopLocation is a student's logged stop joined with its branch and route
// names, as consumed by map views.
type StopLocation struct {
	StudentID   string
	StudentCode string
	StudentName string
	BranchName  string
	RouteName   string
	Location    Coordinates
}
