package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// TripRepository handles database operations for trips
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// UpsertBatchTx writes trips inside an existing transaction. An ongoing trip
// keeps its ID across processing runs, so reprocessing extends it in place.
func (r *TripRepository) UpsertBatchTx(tx *sql.Tx, trips []models.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO trips (
			id, user_id, start_time, end_time, visit_ids, countries, cities,
			main_destination, total_distance_m
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			end_time = excluded.end_time,
			visit_ids = excluded.visit_ids,
			countries = excluded.countries,
			cities = excluded.cities,
			main_destination = excluded.main_destination,
			total_distance_m = excluded.total_distance_m
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range trips {
		visitIDs, err := json.Marshal(t.VisitIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal visit ids: %w", err)
		}
		countries, err := json.Marshal(t.Countries)
		if err != nil {
			return fmt.Errorf("failed to marshal countries: %w", err)
		}
		cities, err := json.Marshal(t.Cities)
		if err != nil {
			return fmt.Errorf("failed to marshal cities: %w", err)
		}
		_, err = stmt.Exec(
			t.ID, t.UserID, t.StartTime, t.EndTime, string(visitIDs), string(countries),
			string(cities), t.MainDestination, t.TotalDistanceMeters,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert trip: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a single trip.
func (r *TripRepository) GetByID(id string) (*models.Trip, error) {
	row := r.db.QueryRow(`
		SELECT id, user_id, start_time, end_time, visit_ids, countries, cities,
		       main_destination, total_distance_m
		FROM trips WHERE id = ?
	`, id)

	t, err := scanTrip(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// List retrieves trips matching the filter with pagination, newest first.
func (r *TripRepository) List(filter models.TripFilter) ([]models.Trip, int64, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.UserID != "" {
		where += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.StartTime > 0 {
		where += " AND start_time >= ?"
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		where += " AND start_time <= ?"
		args = append(args, filter.EndTime)
	}
	if filter.Country != "" {
		// countries is a JSON array of strings
		where += " AND countries LIKE ?"
		args = append(args, fmt.Sprintf(`%%"%s"%%`, filter.Country))
	}
	if filter.Destination != "" {
		where += " AND main_destination = ?"
		args = append(args, filter.Destination)
	}
	if filter.MinDistance > 0 {
		where += " AND total_distance_m >= ?"
		args = append(args, filter.MinDistance)
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trips "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	page, pageSize := NormalizePage(filter.Page, filter.PageSize)
	query := `
		SELECT id, user_id, start_time, end_time, visit_ids, countries, cities,
		       main_destination, total_distance_m
		FROM trips ` + where + ` ORDER BY start_time DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, err
		}
		trips = append(trips, t)
	}

	return trips, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrip(row rowScanner) (models.Trip, error) {
	var t models.Trip
	var visitIDs, countries, cities string
	err := row.Scan(
		&t.ID, &t.UserID, &t.StartTime, &t.EndTime, &visitIDs, &countries,
		&cities, &t.MainDestination, &t.TotalDistanceMeters,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return t, err
		}
		return t, fmt.Errorf("failed to scan trip: %w", err)
	}
	if err := json.Unmarshal([]byte(visitIDs), &t.VisitIDs); err != nil {
		return t, fmt.Errorf("failed to unmarshal visit ids: %w", err)
	}
	if err := json.Unmarshal([]byte(countries), &t.Countries); err != nil {
		return t, fmt.Errorf("failed to unmarshal countries: %w", err)
	}
	if err := json.Unmarshal([]byte(cities), &t.Cities); err != nil {
		return t, fmt.Errorf("failed to unmarshal cities: %w", err)
	}
	return t, nil
}
