package database

import (
	"fmt"
	"log"
)

// Migrate creates the schema when missing.
func Migrate() error {
	db := GetDB()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS simulations (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			config_json TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS frames (
			simulation_id TEXT NOT NULL REFERENCES simulations(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			time_hours REAL NOT NULL,
			frame_json TEXT NOT NULL,
			PRIMARY KEY (simulation_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_simulations_status ON simulations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_simulations_created ON simulations(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Printf("Database migrations applied")
	return nil
}
