// Package config reads application settings from the environment,
// with an optional .env file for development.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Backend names for the backing store
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all application settings
type Config struct {
	// Backend selects the backing store: sqlite (default) or redis
	Backend string

	// DataDir overrides the XDG data directory for the SQLite file
	DataDir string

	// RedisAddr is the Redis server address, used when Backend is redis
	RedisAddr string

	// LogFile is the log destination; empty picks a file next to the
	// database
	LogFile string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present; missing files are
// not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Backend:   os.Getenv("TASKBOARD_BACKEND"),
		DataDir:   os.Getenv("TASKBOARD_DATA_DIR"),
		RedisAddr: os.Getenv("TASKBOARD_REDIS_ADDR"),
		LogFile:   os.Getenv("TASKBOARD_LOG_FILE"),
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSQLite
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	return cfg
}
