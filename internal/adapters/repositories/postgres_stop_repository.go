package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/ports"
)

// Postgres-backed implementation of the StopRepository port.
//
// Reads here are not snapshot-isolated from concurrent coordinate edits:
// eligible stops fetched for an optimization run may change before the engine
// is called, which the optimizer accepts.
type PostgresStopRepository struct{ DB *sql.DB }

func NewPostgresStopRepository(db *sql.DB) *PostgresStopRepository {
	return &PostgresStopRepository{DB: db}
}

func (s *PostgresStopRepository) GetVehicle(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	query := `
	SELECT id, vehicle_number
	FROM vehicles
	WHERE id = $1;
	`

	var v domain.Vehicle
	err := s.DB.QueryRowContext(ctx, query, vehicleID).Scan(&v.ID, &v.Number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "vehicle", ID: vehicleID}
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle: query vehicles table: %w", err)
	}

	return &v, nil
}

func (s *PostgresStopRepository) GetBranch(ctx context.Context, branchID int64) (*domain.Branch, error) {
	query := `
	SELECT id, name, latitude, longitude
	FROM branches
	WHERE id = $1;
	`

	return s.scanBranch(s.DB.QueryRowContext(ctx, query, branchID), branchID)
}

func (s *PostgresStopRepository) GetBranchByName(ctx context.Context, name string) (*domain.Branch, error) {
	query := `
	SELECT id, name, latitude, longitude
	FROM branches
	WHERE UPPER(name) = UPPER($1);
	`

	return s.scanBranch(s.DB.QueryRowContext(ctx, query, name), 0)
}

func (s *PostgresStopRepository) scanBranch(row *sql.Row, id int64) (*domain.Branch, error) {
	var b domain.Branch
	var lat, lng sql.NullFloat64

	err := row.Scan(&b.ID, &b.Name, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "branch", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get branch: query branches table: %w", err)
	}

	if lat.Valid && lng.Valid {
		b.Location = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}

	return &b, nil
}

// Return students eligible as stops for an optimization run. The returned
// order is stable (by row id) so the engine's waypoint indices map back
// unambiguously.
func (s *PostgresStopRepository) ListEligibleStops(ctx context.Context, vehicleID, branchID int64) ([]*domain.Student, error) {
	query := `
	SELECT id, student_id, student_code, student_name, section_name,
	       branch_id, route_id, vehicle_id, latitude, longitude
	FROM students
	WHERE vehicle_id = $1
	  AND branch_id = $2
	  AND latitude IS NOT NULL
	  AND longitude IS NOT NULL
	ORDER BY id;
	`

	rows, err := s.DB.QueryContext(ctx, query, vehicleID, branchID)
	if err != nil {
		return nil, fmt.Errorf("list eligible stops: query students table: %w", err)
	}
	defer rows.Close()

	students := make([]*domain.Student, 0, 32)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("list eligible stops: %w", err)
		}
		students = append(students, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list eligible stops: row iteration: %w", err)
	}

	return students, nil
}

func scanStudent(rows *sql.Rows) (*domain.Student, error) {
	var st domain.Student
	var branchID, routeID, vehicleID sql.NullInt64
	var lat, lng sql.NullFloat64

	err := rows.Scan(
		&st.ID, &st.StudentID, &st.StudentCode, &st.StudentName, &st.SectionName,
		&branchID, &routeID, &vehicleID, &lat, &lng,
	)
	if err != nil {
		return nil, fmt.Errorf("scan student row: %w", err)
	}

	if branchID.Valid {
		st.BranchID = &branchID.Int64
	}
	if routeID.Valid {
		st.RouteID = &routeID.Int64
	}
	if vehicleID.Valid {
		st.VehicleID = &vehicleID.Int64
	}
	if lat.Valid && lng.Valid {
		st.Location = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}

	return &st, nil
}

// Resolve the one vehicle serving a branch and route through student
// assignments. The system assumes a single vehicle per route; zero or several
// candidates both come back as *domain.AmbiguousRouteError.
func (s *PostgresStopRepository) ResolveVehicleForRoute(ctx context.Context, branchName, routeName string) (int64, error) {
	query := `
	SELECT DISTINCT s.vehicle_id
	FROM students s
	JOIN routes r ON s.route_id = r.id
	JOIN branches b ON s.branch_id = b.id
	WHERE UPPER(b.name) = UPPER($1)
	  AND r.route_name = $2
	  AND s.vehicle_id IS NOT NULL;
	`

	rows, err := s.DB.QueryContext(ctx, query, branchName, routeName)
	if err != nil {
		return 0, fmt.Errorf("resolve vehicle: query students table: %w", err)
	}
	defer rows.Close()

	vehicleIDs := make([]int64, 0, 2)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("resolve vehicle: scan row: %w", err)
		}
		vehicleIDs = append(vehicleIDs, id)
	}

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("resolve vehicle: row iteration: %w", err)
	}

	if len(vehicleIDs) != 1 {
		return 0, &domain.AmbiguousRouteError{
			BranchName: branchName,
			RouteName:  routeName,
			Vehicles:   len(vehicleIDs),
		}
	}

	return vehicleIDs[0], nil
}

// Return every fully located stop matching the filter, ordered by route name
// then student code for deterministic map grouping.
func (s *PostgresStopRepository) ListLocations(ctx context.Context, filter ports.StopLocationFilter) ([]domain.StopLocation, error) {
	query := `
	SELECT s.student_id, s.student_code, s.student_name,
	       COALESCE(b.name, ''), COALESCE(r.route_name, ''),
	       s.latitude, s.longitude
	FROM students s
	LEFT JOIN branches b ON s.branch_id = b.id
	LEFT JOIN routes r ON s.route_id = r.id
	WHERE s.latitude IS NOT NULL
	  AND s.longitude IS NOT NULL
	  AND ($1 = '' OR b.name = $1)
	  AND ($2 = '' OR r.route_name = $2)
	ORDER BY r.route_name ASC, s.student_code ASC;
	`

	rows, err := s.DB.QueryContext(ctx, query, filter.BranchName, filter.RouteName)
	if err != nil {
		return nil, fmt.Errorf("list locations: query students table: %w", err)
	}
	defer rows.Close()

	locations := make([]domain.StopLocation, 0, 64)
	for rows.Next() {
		var loc domain.StopLocation
		err := rows.Scan(
			&loc.StudentID, &loc.StudentCode, &loc.StudentName,
			&loc.BranchName, &loc.RouteName,
			&loc.Location.Lat, &loc.Location.Lng,
		)
		if err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return locations, nil
}

// Return the worklist of students in a branch whose coordinate is missing or
// partial. A student with only one coordinate column set counts as pending.
func (s *PostgresStopRepository) ListPendingStudents(ctx context.Context, branchName, routeName string) ([]domain.PendingStudent, error) {
	query := `
	SELECT s.student_id, s.student_code, s.student_name, COALESCE(s.section_name, ''),
	       COALESCE(b.name, ''), COALESCE(r.route_name, ''), COALESCE(v.vehicle_number, '')
	FROM students s
	LEFT JOIN branches b ON s.branch_id = b.id
	LEFT JOIN routes r ON s.route_id = r.id
	LEFT JOIN vehicles v ON s.vehicle_id = v.id
	WHERE UPPER(b.name) = UPPER($1)
	  AND ($2 = '' OR r.route_name = $2)
	  AND (s.latitude IS NULL OR s.longitude IS NULL)
	ORDER BY r.route_name ASC, s.student_code ASC;
	`

	rows, err := s.DB.QueryContext(ctx, query, branchName, routeName)
	if err != nil {
		return nil, fmt.Errorf("list pending students: query students table: %w", err)
	}
	defer rows.Close()

	pending := make([]domain.PendingStudent, 0, 64)
	for rows.Next() {
		var p domain.PendingStudent
		err := rows.Scan(
			&p.StudentID, &p.StudentCode, &p.StudentName, &p.SectionName,
			&p.BranchName, &p.RouteName, &p.VehicleNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("list pending students: scan row: %w", err)
		}
		pending = append(pending, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending students: row iteration: %w", err)
	}

	return pending, nil
}

// Record one logged coordinate against every matching student code within the
// named branch.
func (s *PostgresStopRepository) LogLocation(ctx context.Context, studentCodes []string, loc domain.Coordinates, branchName string) (int64, error) {
	if len(studentCodes) == 0 {
		return 0, errors.New("log location: student codes must not be empty")
	}

	query := `
	UPDATE students s
	SET latitude = $1, longitude = $2
	FROM branches b
	WHERE s.branch_id = b.id
	  AND s.student_code = ANY($3::text[])
	  AND UPPER(b.name) = UPPER($4);
	`

	res, err := s.DB.ExecContext(ctx, query, loc.Lat, loc.Lng, studentCodes, branchName)
	if err != nil {
		return 0, fmt.Errorf("log location: update students table: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("log location: rows affected: %w", err)
	}

	return n, nil
}

// Clear the logged coordinate of every matching student code.
func (s *PostgresStopRepository) ClearLocations(ctx context.Context, studentCodes []string) (int64, error) {
	if len(studentCodes) == 0 {
		return 0, errors.New("clear locations: student codes must not be empty")
	}

	query := `
	UPDATE students
	SET latitude = NULL, longitude = NULL
	WHERE student_code = ANY($1::text[]);
	`

	res, err := s.DB.ExecContext(ctx, query, studentCodes)
	if err != nil {
		return 0, fmt.Errorf("clear locations: update students table: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear locations: rows affected: %w", err)
	}

	return n, nil
}

func (s *PostgresStopRepository) Stats(ctx context.Context) (ports.CoordinateStats, error) {
	query := `
	SELECT COUNT(*),
	       COUNT(*) FILTER (WHERE latitude IS NOT NULL AND longitude IS NOT NULL)
	FROM students;
	`

	var stats ports.CoordinateStats
	if err := s.DB.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Logged); err != nil {
		return ports.CoordinateStats{}, fmt.Errorf("stats: query students table: %w", err)
	}

	stats.Pending = stats.Total - stats.Logged
	return stats, nil
}

func (s *PostgresStopRepository) ListBranchNames(ctx context.Context) ([]string, error) {
	query := `
	SELECT name FROM branches ORDER BY name ASC;
	`

	return s.listNames(ctx, query)
}

func (s *PostgresStopRepository) ListRouteNames(ctx context.Context, branchName string) ([]string, error) {
	query := `
	SELECT r.route_name
	FROM routes r
	JOIN branches b ON r.branch_id = b.id
	WHERE UPPER(b.name) = UPPER($1)
	ORDER BY r.route_name ASC;
	`

	return s.listNames(ctx, query, branchName)
}

func (s *PostgresStopRepository) listNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list names: query: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0, 16)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list names: scan row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list names: row iteration: %w", err)
	}

	return names, nil
}
