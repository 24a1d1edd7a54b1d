package storage

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	// Migration 1: scenario runs
	`CREATE TABLE IF NOT EXISTS scenario_runs (
		id                TEXT PRIMARY KEY,
		source            TEXT NOT NULL,
		profile           TEXT NOT NULL DEFAULT 'default',
		row_count         INTEGER NOT NULL DEFAULT 0,
		params            TEXT NOT NULL DEFAULT '{}',
		total_bill        REAL NOT NULL DEFAULT 0.0,
		observed_discount REAL NOT NULL DEFAULT 0.0,
		current_coverage  REAL NOT NULL DEFAULT 0.0,
		result            TEXT NOT NULL DEFAULT '{}',
		created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON scenario_runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_profile ON scenario_runs(profile);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON scenario_runs(created_at);`,
}

// runMigrations applies pending schema migrations.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		if err := applyMigration(db, i+1, migrations[i]); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(db *sql.DB, version int, stmt string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("run migration %d: %w", version, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", version, err)
	}
	return nil
}
