package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// RouteRepository handles database operations for route segments
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// UpsertBatchTx writes route segments inside an existing transaction.
func (r *RouteRepository) UpsertBatchTx(tx *sql.Tx, routes []models.RouteSegment) error {
	if len(routes) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO route_segments (
			id, user_id, trip_id, start_time, end_time,
			start_lat, start_lon, end_lat, end_lon, transport, distance_m, path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			trip_id = excluded.trip_id,
			transport = excluded.transport,
			distance_m = excluded.distance_m,
			path = excluded.path
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, seg := range routes {
		path, err := json.Marshal(seg.Path)
		if err != nil {
			return fmt.Errorf("failed to marshal path: %w", err)
		}
		_, err = stmt.Exec(
			seg.ID, seg.UserID, seg.TripID, seg.StartTime, seg.EndTime,
			seg.StartLat, seg.StartLon, seg.EndLat, seg.EndLon,
			string(seg.Transport), seg.DistanceMeters, string(path),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert route: %w", err)
		}
	}

	return nil
}

// List retrieves route segments matching the filter with pagination, newest first.
func (r *RouteRepository) List(filter models.RouteFilter) ([]models.RouteSegment, int64, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.UserID != "" {
		where += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.TripID != "" {
		where += " AND trip_id = ?"
		args = append(args, filter.TripID)
	}
	if filter.Transport != "" {
		where += " AND transport = ?"
		args = append(args, filter.Transport)
	}
	if filter.StartTime > 0 {
		where += " AND start_time >= ?"
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		where += " AND start_time <= ?"
		args = append(args, filter.EndTime)
	}
	if filter.MinDistance > 0 {
		where += " AND distance_m >= ?"
		args = append(args, filter.MinDistance)
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM route_segments "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count routes: %w", err)
	}

	page, pageSize := NormalizePage(filter.Page, filter.PageSize)
	query := `
		SELECT id, user_id, trip_id, start_time, end_time,
		       start_lat, start_lon, end_lat, end_lon, transport, distance_m, path
		FROM route_segments ` + where + ` ORDER BY start_time DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []models.RouteSegment
	for rows.Next() {
		seg, err := scanRoute(rows)
		if err != nil {
			return nil, 0, err
		}
		routes = append(routes, seg)
	}

	return routes, total, rows.Err()
}

// GetByTrip retrieves the route segments of a trip ordered by start time.
func (r *RouteRepository) GetByTrip(tripID string) ([]models.RouteSegment, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, trip_id, start_time, end_time,
		       start_lat, start_lon, end_lat, end_lon, transport, distance_m, path
		FROM route_segments
		WHERE trip_id = ?
		ORDER BY start_time
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []models.RouteSegment
	for rows.Next() {
		seg, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, seg)
	}

	return routes, rows.Err()
}

func scanRoute(rows *sql.Rows) (models.RouteSegment, error) {
	var seg models.RouteSegment
	var transport, path string
	err := rows.Scan(
		&seg.ID, &seg.UserID, &seg.TripID, &seg.StartTime, &seg.EndTime,
		&seg.StartLat, &seg.StartLon, &seg.EndLat, &seg.EndLon,
		&transport, &seg.DistanceMeters, &path,
	)
	if err != nil {
		return seg, fmt.Errorf("failed to scan route: %w", err)
	}
	seg.Transport = models.TransportMode(transport)
	if err := json.Unmarshal([]byte(path), &seg.Path); err != nil {
		return seg, fmt.Errorf("failed to unmarshal path: %w", err)
	}
	return seg, nil
}
