package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/journeys-backend-go/internal/models"
)

// TripDayRepository handles database operations for per-day trip timelines
type TripDayRepository struct {
	db *sql.DB
}

// NewTripDayRepository creates a new trip day repository
func NewTripDayRepository(db *sql.DB) *TripDayRepository {
	return &TripDayRepository{db: db}
}

// ReplaceForTripTx rewrites the days of a trip inside an existing transaction.
// Trip days are derived data: dropping the old rows and inserting the fresh
// aggregation is simpler than diffing them.
func (r *TripDayRepository) ReplaceForTripTx(tx *sql.Tx, tripID string, days []models.TripDay) error {
	if _, err := tx.Exec("DELETE FROM trip_days WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to clear trip days: %w", err)
	}

	if len(days) == 0 {
		return nil
	}

	stmt, err := tx.Prepare("INSERT INTO trip_days (id, trip_id, date, items) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, day := range days {
		items, err := models.MarshalTimelineItems(day.Items)
		if err != nil {
			return fmt.Errorf("failed to marshal timeline items: %w", err)
		}
		if _, err := stmt.Exec(day.ID, day.TripID, day.Date, string(items)); err != nil {
			return fmt.Errorf("failed to insert trip day: %w", err)
		}
	}

	return nil
}

// GetByTrip retrieves the days of a trip ordered by date.
func (r *TripDayRepository) GetByTrip(tripID string) ([]models.TripDay, error) {
	rows, err := r.db.Query(`
		SELECT id, trip_id, date, items
		FROM trip_days
		WHERE trip_id = ?
		ORDER BY date
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip days: %w", err)
	}
	defer rows.Close()

	var days []models.TripDay
	for rows.Next() {
		var day models.TripDay
		var items string
		if err := rows.Scan(&day.ID, &day.TripID, &day.Date, &items); err != nil {
			return nil, fmt.Errorf("failed to scan trip day: %w", err)
		}
		day.Items, err = models.UnmarshalTimelineItems([]byte(items))
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal timeline items: %w", err)
		}
		days = append(days, day)
	}

	return days, rows.Err()
}
