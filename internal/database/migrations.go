package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are embedded so the binary is self-contained. Append only;
// never edit an applied migration.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_location_samples",
		SQL: `
			CREATE TABLE IF NOT EXISTS location_samples (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				device_id TEXT NOT NULL DEFAULT '',
				timestamp INTEGER NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				accuracy REAL NOT NULL DEFAULT 0,
				speed REAL,
				bearing REAL,
				altitude REAL,
				source TEXT NOT NULL DEFAULT 'SATELLITE',
				trip_id TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_samples_user_time ON location_samples(user_id, timestamp);
		`,
	},
	{
		Version: 2,
		Name:    "create_place_visits",
		SQL: `
			CREATE TABLE IF NOT EXISTS place_visits (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				trip_id TEXT,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				radius REAL NOT NULL DEFAULT 0,
				confidence REAL NOT NULL DEFAULT 0,
				city TEXT,
				country TEXT,
				country_code TEXT,
				poi_name TEXT,
				sample_ids TEXT NOT NULL DEFAULT '[]',
				deleted INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_visits_user_time ON place_visits(user_id, start_time);
			CREATE INDEX IF NOT EXISTS idx_visits_trip ON place_visits(trip_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_route_segments",
		SQL: `
			CREATE TABLE IF NOT EXISTS route_segments (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				trip_id TEXT,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				start_lat REAL NOT NULL,
				start_lon REAL NOT NULL,
				end_lat REAL NOT NULL,
				end_lon REAL NOT NULL,
				transport TEXT NOT NULL DEFAULT 'UNKNOWN',
				distance_m REAL NOT NULL DEFAULT 0,
				path TEXT NOT NULL DEFAULT '[]'
			);
			CREATE INDEX IF NOT EXISTS idx_routes_user_time ON route_segments(user_id, start_time);
		`,
	},
	{
		Version: 4,
		Name:    "create_trips",
		SQL: `
			CREATE TABLE IF NOT EXISTS trips (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				start_time INTEGER NOT NULL,
				end_time INTEGER,
				visit_ids TEXT NOT NULL DEFAULT '[]',
				countries TEXT NOT NULL DEFAULT '[]',
				cities TEXT NOT NULL DEFAULT '[]',
				main_destination TEXT NOT NULL DEFAULT '',
				total_distance_m REAL NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_trips_user_time ON trips(user_id, start_time);
		`,
	},
	{
		Version: 5,
		Name:    "create_trip_days",
		SQL: `
			CREATE TABLE IF NOT EXISTS trip_days (
				id TEXT PRIMARY KEY,
				trip_id TEXT NOT NULL,
				date TEXT NOT NULL,
				items TEXT NOT NULL DEFAULT '[]'
			);
			CREATE INDEX IF NOT EXISTS idx_trip_days_trip ON trip_days(trip_id, date);
		`,
	},
	{
		Version: 6,
		Name:    "create_geocache",
		SQL: `
			CREATE TABLE IF NOT EXISTS geocache (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				formatted_address TEXT NOT NULL DEFAULT '',
				city TEXT NOT NULL DEFAULT '',
				state TEXT NOT NULL DEFAULT '',
				country TEXT NOT NULL DEFAULT '',
				country_code TEXT NOT NULL DEFAULT '',
				postal_code TEXT NOT NULL DEFAULT '',
				poi_name TEXT NOT NULL DEFAULT '',
				cached_at INTEGER NOT NULL,
				expires_at INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_geocache_latlon ON geocache(latitude, longitude);
		`,
	},
	{
		Version: 7,
		Name:    "create_processing_tasks",
		SQL: `
			CREATE TABLE IF NOT EXISTS processing_tasks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				total_samples INTEGER NOT NULL DEFAULT 0,
				visit_count INTEGER NOT NULL DEFAULT 0,
				route_count INTEGER NOT NULL DEFAULT 0,
				trip_count INTEGER NOT NULL DEFAULT 0,
				error_message TEXT,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				started_at TIMESTAMP,
				completed_at TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_tasks_user ON processing_tasks(user_id, created_at);
		`,
	},
}

// Migrate applies all pending migrations in version order.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		log.Printf("[Database] Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return err
	}

	return tx.Commit()
}
