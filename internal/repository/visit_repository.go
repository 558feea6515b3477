package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// VisitRepository handles database operations for place visits
type VisitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *sql.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// UpsertBatchTx writes visits inside an existing transaction. Visit IDs are
// content-derived, so re-running a batch updates rows in place instead of
// duplicating them. Re-upserting clears the deleted flag: a reprocessing run
// resurrects soft-deleted visits.
func (r *VisitRepository) UpsertBatchTx(tx *sql.Tx, visits []models.PlaceVisit) error {
	if len(visits) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO place_visits (
			id, user_id, trip_id, start_time, end_time, latitude, longitude,
			radius, confidence, city, country, country_code, poi_name, sample_ids, deleted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET
			trip_id = excluded.trip_id,
			radius = excluded.radius,
			confidence = excluded.confidence,
			city = excluded.city,
			country = excluded.country,
			country_code = excluded.country_code,
			poi_name = excluded.poi_name,
			sample_ids = excluded.sample_ids,
			deleted = 0
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, v := range visits {
		sampleIDs, err := json.Marshal(v.SampleIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal sample ids: %w", err)
		}
		_, err = stmt.Exec(
			v.ID, v.UserID, v.TripID, v.StartTime, v.EndTime, v.Latitude, v.Longitude,
			v.Radius, v.Confidence, v.City, v.Country, v.CountryCode, v.PointOfInterest, string(sampleIDs),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert visit: %w", err)
		}
	}

	return nil
}

// List retrieves visits matching the filter with pagination, newest first.
func (r *VisitRepository) List(filter models.VisitFilter) ([]models.PlaceVisit, int64, error) {
	where := "WHERE deleted = 0"
	args := []interface{}{}
	if filter.UserID != "" {
		where += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.TripID != "" {
		where += " AND trip_id = ?"
		args = append(args, filter.TripID)
	}
	if filter.StartTime > 0 {
		where += " AND start_time >= ?"
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		where += " AND start_time <= ?"
		args = append(args, filter.EndTime)
	}
	if filter.City != "" {
		where += " AND city = ?"
		args = append(args, filter.City)
	}
	if filter.CountryCode != "" {
		where += " AND country_code = ?"
		args = append(args, filter.CountryCode)
	}
	if filter.MinDuration > 0 {
		where += " AND (end_time - start_time) >= ?"
		args = append(args, filter.MinDuration)
	}
	if filter.MinConfidence > 0 {
		where += " AND confidence >= ?"
		args = append(args, filter.MinConfidence)
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM place_visits "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count visits: %w", err)
	}

	page, pageSize := NormalizePage(filter.Page, filter.PageSize)
	query := `
		SELECT id, user_id, trip_id, start_time, end_time, latitude, longitude,
		       radius, confidence, city, country, country_code, poi_name, sample_ids, deleted
		FROM place_visits ` + where + ` ORDER BY start_time DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []models.PlaceVisit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, 0, err
		}
		visits = append(visits, v)
	}

	return visits, total, rows.Err()
}

// GetByTrip retrieves the visits of a trip ordered by start time.
func (r *VisitRepository) GetByTrip(tripID string) ([]models.PlaceVisit, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, trip_id, start_time, end_time, latitude, longitude,
		       radius, confidence, city, country, country_code, poi_name, sample_ids, deleted
		FROM place_visits
		WHERE trip_id = ? AND deleted = 0
		ORDER BY start_time
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []models.PlaceVisit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// SoftDelete marks a visit as deleted without removing the row.
func (r *VisitRepository) SoftDelete(id string) error {
	result, err := r.db.Exec("UPDATE place_visits SET deleted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete visit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("visit not found: %s", id)
	}
	return nil
}

func scanVisit(rows *sql.Rows) (models.PlaceVisit, error) {
	var v models.PlaceVisit
	var sampleIDs string
	var deleted int
	err := rows.Scan(
		&v.ID, &v.UserID, &v.TripID, &v.StartTime, &v.EndTime, &v.Latitude, &v.Longitude,
		&v.Radius, &v.Confidence, &v.City, &v.Country, &v.CountryCode, &v.PointOfInterest,
		&sampleIDs, &deleted,
	)
	if err != nil {
		return v, fmt.Errorf("failed to scan visit: %w", err)
	}
	if err := json.Unmarshal([]byte(sampleIDs), &v.SampleIDs); err != nil {
		return v, fmt.Errorf("failed to unmarshal sample ids: %w", err)
	}
	v.Deleted = deleted != 0
	return v, nil
}
