package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// SampleRepository handles database operations for location samples
type SampleRepository struct {
	db *sql.DB
}

// NewSampleRepository creates a new sample repository
func NewSampleRepository(db *sql.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

// InsertBatch inserts samples, silently skipping duplicate IDs.
// Returns the number of newly inserted rows.
func (r *SampleRepository) InsertBatch(samples []models.LocationSample) (int64, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO location_samples (
			id, user_id, device_id, timestamp, latitude, longitude,
			accuracy, speed, bearing, altitude, source, trip_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, s := range samples {
		result, err := stmt.Exec(
			s.ID, s.UserID, s.DeviceID, s.Timestamp, s.Latitude, s.Longitude,
			s.Accuracy, s.Speed, s.Bearing, s.Altitude, s.Source, s.TripID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert sample: %w", err)
		}
		n, _ := result.RowsAffected()
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// GetRange retrieves all samples for a user between startTime and endTime
// (inclusive), ordered by timestamp. Zero endTime means no upper bound.
func (r *SampleRepository) GetRange(userID string, startTime, endTime int64) ([]models.LocationSample, error) {
	query := `
		SELECT id, user_id, device_id, timestamp, latitude, longitude,
		       accuracy, speed, bearing, altitude, source, trip_id
		FROM location_samples
		WHERE user_id = ? AND timestamp >= ?
	`
	args := []interface{}{userID, startTime}
	if endTime > 0 {
		query += " AND timestamp <= ?"
		args = append(args, endTime)
	}
	query += " ORDER BY timestamp"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []models.LocationSample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// List retrieves samples matching the filter with pagination.
func (r *SampleRepository) List(filter models.SampleFilter) ([]models.LocationSample, int64, error) {
	where := "WHERE user_id = ?"
	args := []interface{}{filter.UserID}
	if filter.StartTime > 0 {
		where += " AND timestamp >= ?"
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		where += " AND timestamp <= ?"
		args = append(args, filter.EndTime)
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM location_samples "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count samples: %w", err)
	}

	page, pageSize := NormalizePage(filter.Page, filter.PageSize)
	query := `
		SELECT id, user_id, device_id, timestamp, latitude, longitude,
		       accuracy, speed, bearing, altitude, source, trip_id
		FROM location_samples ` + where + ` ORDER BY timestamp LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []models.LocationSample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, 0, err
		}
		samples = append(samples, s)
	}

	return samples, total, rows.Err()
}

func scanSample(rows *sql.Rows) (models.LocationSample, error) {
	var s models.LocationSample
	err := rows.Scan(
		&s.ID, &s.UserID, &s.DeviceID, &s.Timestamp, &s.Latitude, &s.Longitude,
		&s.Accuracy, &s.Speed, &s.Bearing, &s.Altitude, &s.Source, &s.TripID,
	)
	if err != nil {
		return s, fmt.Errorf("failed to scan sample: %w", err)
	}
	return s, nil
}

// NormalizePage clamps pagination parameters to sane values.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	if pageSize > 1000 {
		pageSize = 1000
	}
	return page, pageSize
}
