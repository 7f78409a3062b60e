package repositories

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Initialize the postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createBranchesQuery := `
	CREATE TABLE IF NOT EXISTS branches (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		id BIGSERIAL PRIMARY KEY,
		branch_id BIGINT NOT NULL REFERENCES branches(id),
		route_name TEXT NOT NULL,
		UNIQUE (branch_id, route_name)
	);
	`

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id BIGSERIAL PRIMARY KEY,
		vehicle_number TEXT NOT NULL UNIQUE
	);
	`

	createStudentsQuery := `
	CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		student_id TEXT NOT NULL UNIQUE,
		student_code TEXT NOT NULL,
		student_name TEXT NOT NULL,
		section_name TEXT NOT NULL DEFAULT '',
		branch_id BIGINT REFERENCES branches(id),
		route_id BIGINT REFERENCES routes(id),
		vehicle_id BIGINT REFERENCES vehicles(id),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION
	);
	`

	createResultsQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_route_results (
		id BIGSERIAL PRIMARY KEY,
		vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
		route_id BIGINT REFERENCES routes(id),
		polyline TEXT NOT NULL,
		stop_order JSONB NOT NULL,
		total_distance INTEGER NOT NULL,
		total_duration INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createStudentsIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_students_vehicle_branch
	ON students(vehicle_id, branch_id);
	`

	createResultsIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_vehicle_route_results_vehicle_created
	ON vehicle_route_results(vehicle_id, created_at DESC);
	`

	statements := []string{
		createBranchesQuery,
		createRoutesQuery,
		createVehiclesQuery,
		createStudentsQuery,
		createResultsQuery,
		createStudentsIndexQuery,
		createResultsIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedReport summarizes the outcome of a CSV import.
type SeedReport struct {
	Inserted int
	Updated  int
	Total    int
}

// requiredColumns must all be present in the CSV header; vehicle_number is
// optional so routing-only imports work with the dashboard template.
var requiredColumns = []string{"student_id", "student_code", "student_name", "branch_name", "route_name"}

// SeedStudentsFromCSV bulk-imports students, upserting branches, routes and
// vehicles referenced by name along the way. The whole file imports in one
// transaction; a bad row aborts everything.
func SeedStudentsFromCSV(db *sql.DB, csvPath string) (SeedReport, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed students: open %q: %w", csvPath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed students: read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	missing := make([]string, 0)
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return SeedReport{}, fmt.Errorf("seed students: missing columns: %s", strings.Join(missing, ", "))
	}

	tx, err := db.Begin()
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed students: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertBranch := `
	INSERT INTO branches (name) VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
	RETURNING id;
	`

	upsertRoute := `
	INSERT INTO routes (branch_id, route_name) VALUES ($1, $2)
	ON CONFLICT (branch_id, route_name) DO UPDATE SET route_name = EXCLUDED.route_name
	RETURNING id;
	`

	upsertVehicle := `
	INSERT INTO vehicles (vehicle_number) VALUES ($1)
	ON CONFLICT (vehicle_number) DO UPDATE SET vehicle_number = EXCLUDED.vehicle_number
	RETURNING id;
	`

	upsertStudent := `
	INSERT INTO students (student_id, student_code, student_name, section_name, branch_id, route_id, vehicle_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (student_id) DO UPDATE SET
		student_code = EXCLUDED.student_code,
		student_name = EXCLUDED.student_name,
		section_name = EXCLUDED.section_name,
		branch_id = EXCLUDED.branch_id,
		route_id = EXCLUDED.route_id,
		vehicle_id = EXCLUDED.vehicle_id
	RETURNING (xmax = 0) AS is_insert;
	`

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var report SeedReport
	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return SeedReport{}, fmt.Errorf("seed students: read line %d: %w", line+1, err)
		}
		line++

		studentID := field(record, "student_id")
		studentCode := field(record, "student_code")
		studentName := field(record, "student_name")
		if studentID == "" || studentCode == "" || studentName == "" {
			continue
		}

		branchName := field(record, "branch_name")
		routeName := field(record, "route_name")
		if branchName == "" || routeName == "" {
			return SeedReport{}, fmt.Errorf("seed students: line %d: branch_name and route_name are required", line)
		}

		var branchID int64
		if err := tx.QueryRow(upsertBranch, branchName).Scan(&branchID); err != nil {
			return SeedReport{}, fmt.Errorf("seed students: line %d: upsert branch %q: %w", line, branchName, err)
		}

		var routeID int64
		if err := tx.QueryRow(upsertRoute, branchID, routeName).Scan(&routeID); err != nil {
			return SeedReport{}, fmt.Errorf("seed students: line %d: upsert route %q: %w", line, routeName, err)
		}

		var vehicleID *int64
		if number := field(record, "vehicle_number"); number != "" {
			var id int64
			if err := tx.QueryRow(upsertVehicle, number).Scan(&id); err != nil {
				return SeedReport{}, fmt.Errorf("seed students: line %d: upsert vehicle %q: %w", line, number, err)
			}
			vehicleID = &id
		}

		var isInsert bool
		err = tx.QueryRow(
			upsertStudent,
			studentID, studentCode, studentName, field(record, "section_name"),
			branchID, routeID, vehicleID,
		).Scan(&isInsert)
		if err != nil {
			return SeedReport{}, fmt.Errorf("seed students: line %d: upsert student %q: %w", line, studentID, err)
		}

		if isInsert {
			report.Inserted++
		} else {
			report.Updated++
		}
		report.Total++
	}

	if err := tx.Commit(); err != nil {
		return SeedReport{}, fmt.Errorf("seed students: commit tx: %w", err)
	}

	return report, nil
}
