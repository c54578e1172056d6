package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

// Config holds the simulation store configuration.
type Config struct {
	// Path to the sqlite file holding simulation runs and their frames.
	// The parent directory is created if missing.
	Path string
}

// Init opens the simulation store. The write pattern is one goroutine per
// running simulation appending frames while API readers poll and stream,
// so the store runs in WAL mode (readers never block the appenders) with a
// busy timeout to absorb contention between concurrent runs.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				err = fmt.Errorf("failed to create data directory: %w", err)
				return
			}
		}

		db, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return
		}

		// Frame appends are small and frequent; a handful of connections
		// is plenty and keeps sqlite lock churn down.
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)

		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
			// Frames are reproducible from the run config, so a lost
			// transaction on power failure is acceptable.
			"PRAGMA synchronous=NORMAL",
			"PRAGMA foreign_keys=ON",
		}
		for _, p := range pragmas {
			if _, err = db.Exec(p); err != nil {
				err = fmt.Errorf("failed to apply %q: %w", p, err)
				return
			}
		}

		if err = db.Ping(); err != nil {
			return
		}

		log.Printf("Simulation store ready: %s", cfg.Path)
	})

	return err
}

// GetDB returns the simulation store handle.
func GetDB() *sql.DB {
	if db == nil {
		log.Fatal("Simulation store not initialized. Call Init() first.")
	}
	return db
}

// Close closes the simulation store.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Transaction executes a function within a database transaction.
func Transaction(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
