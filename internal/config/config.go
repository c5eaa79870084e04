package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage modes for the flashcard/deck repositories.
const (
	StorageModeSQLite = "sqlite"
	StorageModeLocal  = "local" // offline-first, key-value backed
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	StorageMode     string
	DueLimitDefault int
	SeedSampleData  bool
	SeedUserID      string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	cfg := Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:cardy.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		StorageMode:     envOr("STORAGE_MODE", StorageModeSQLite),
		DueLimitDefault: envIntOr("DUE_LIMIT_DEFAULT", 20),
		SeedSampleData:  envBoolOr("SEED_SAMPLE_DATA", false),
		SeedUserID:      envOr("SEED_USER_ID", "local-user"),
	}

	if cfg.StorageMode != StorageModeSQLite && cfg.StorageMode != StorageModeLocal {
		log.Printf("invalid STORAGE_MODE=%q, using %q", cfg.StorageMode, StorageModeSQLite)
		cfg.StorageMode = StorageModeSQLite
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
