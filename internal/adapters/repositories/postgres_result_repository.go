package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kinnovative-other-websites/transport-field-check/internal/domain"
	"github.com/kinnovative-other-websites/transport-field-check/internal/platform/obs"
)

// Postgres-backed implementation of the ResultRepository port.
//
// vehicle_route_results is append-only history. The stop order travels as an
// opaque JSON column in the row; (de)serialization stays confined to this
// boundary and the rest of the system only sees typed StopVisit slices.
type PostgresResultRepository struct{ DB *sql.DB }

func NewPostgresResultRepository(db *sql.DB) *PostgresResultRepository {
	return &PostgresResultRepository{DB: db}
}

// stopVisitRecord is the wire form of one stop inside the stop_order column.
type stopVisitRecord struct {
	StudentID   string  `json:"student_id"`
	StudentCode string  `json:"student_code"`
	StudentName string  `json:"student_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Position    int     `json:"position"`
}

func encodeStopOrder(visits []domain.StopVisit) ([]byte, error) {
	records := make([]stopVisitRecord, 0, len(visits))
	for _, v := range visits {
		records = append(records, stopVisitRecord{
			StudentID:   v.StudentID,
			StudentCode: v.StudentCode,
			StudentName: v.StudentName,
			Lat:         v.Location.Lat,
			Lng:         v.Location.Lng,
			Position:    v.Position,
		})
	}

	b, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode stop order: %w", err)
	}

	return b, nil
}

func decodeStopOrder(raw []byte) ([]domain.StopVisit, error) {
	var records []stopVisitRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode stop order: %w", err)
	}

	visits := make([]domain.StopVisit, 0, len(records))
	for _, r := range records {
		visits = append(visits, domain.StopVisit{
			StudentID:   r.StudentID,
			StudentCode: r.StudentCode,
			StudentName: r.StudentName,
			Location:    domain.Coordinates{Lat: r.Lat, Lng: r.Lng},
			Position:    r.Position,
		})
	}

	return visits, nil
}

// Persist a new result row. The insert is the optimizer's sole atomic unit;
// callers get the row back with id and creation timestamp assigned by the
// database.
func (r *PostgresResultRepository) Insert(ctx context.Context, result *domain.RouteOptimizationResult) (_ *domain.RouteOptimizationResult, err error) {
	defer obs.Time(ctx, "results.Insert")(&err)

	stopOrder, err := encodeStopOrder(result.StopOrder)
	if err != nil {
		return nil, fmt.Errorf("insert result: %w", err)
	}

	query := `
	INSERT INTO vehicle_route_results
		(vehicle_id, route_id, polyline, stop_order, total_distance, total_duration)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at;
	`

	saved := *result
	err = r.DB.QueryRowContext(
		ctx, query,
		result.VehicleID, result.RouteID, result.Polyline, stopOrder,
		result.TotalDistanceMeters, result.TotalDurationSeconds,
	).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert result: insert vehicle_route_results row: %w", err)
	}

	return &saved, nil
}

// Return the most recent result for a vehicle. "No result yet" is a normal
// outcome reported as (nil, nil), never an error.
func (r *PostgresResultRepository) GetLatest(ctx context.Context, vehicleID int64) (_ *domain.RouteOptimizationResult, err error) {
	defer obs.Time(ctx, "results.GetLatest")(&err)

	query := `
	SELECT id, vehicle_id, route_id, polyline, stop_order, total_distance, total_duration, created_at
	FROM vehicle_route_results
	WHERE vehicle_id = $1
	ORDER BY created_at DESC
	LIMIT 1;
	`

	var result domain.RouteOptimizationResult
	var routeID sql.NullInt64
	var stopOrder []byte

	err = r.DB.QueryRowContext(ctx, query, vehicleID).Scan(
		&result.ID, &result.VehicleID, &routeID, &result.Polyline, &stopOrder,
		&result.TotalDistanceMeters, &result.TotalDurationSeconds, &result.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest result: query vehicle_route_results table: %w", err)
	}

	if routeID.Valid {
		result.RouteID = &routeID.Int64
	}

	result.StopOrder, err = decodeStopOrder(stopOrder)
	if err != nil {
		return nil, fmt.Errorf("get latest result: %w", err)
	}

	return &result, nil
}
