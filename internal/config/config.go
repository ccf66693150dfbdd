package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"coinquest/internal/store"
)

// Config carries the few process-wide settings. Values come from the
// environment, optionally seeded by a .env file in the working directory.
type Config struct {
	// StorePath is the SQLite file backing the store.
	StorePath string
	// Debug enables operation-level debug logging.
	Debug bool
}

// Load reads the environment. A missing .env is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		StorePath: os.Getenv("COINQUEST_DB"),
	}
	if cfg.StorePath == "" {
		path, err := store.DefaultPath()
		if err != nil {
			return Config{}, err
		}
		cfg.StorePath = path
	}
	if v := os.Getenv("COINQUEST_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err == nil {
			cfg.Debug = debug
		}
	}
	return cfg, nil
}
