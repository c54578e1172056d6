package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port            string
	DBPath          string
	RetentionHours  time.Duration // how long finished simulations are kept
	CreateRateLimit int           // simulation creations per client per minute
}

// Load reads configuration from the environment, with a .env file if one
// exists.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded configuration from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/firesim.db"
	}

	retention := 72
	if v := os.Getenv("RETENTION_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			retention = n
		}
	}

	rateLimit := 10
	if v := os.Getenv("CREATE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimit = n
		}
	}

	return &Config{
		Port:            port,
		DBPath:          dbPath,
		RetentionHours:  time.Duration(retention) * time.Hour,
		CreateRateLimit: rateLimit,
	}
}
