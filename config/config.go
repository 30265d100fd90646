package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tasknest/utils"
)

// Config describes the whole process: which backend to run against, where
// the local store lives, and how the remote gateway retries. Values come
// from an optional YAML file with environment variables layered on top.
type Config struct {
	Port   string `yaml:"port"`
	DBPath string `yaml:"db_path"`

	// RemoteURL switches the backend: empty means the local store,
	// anything else means the remote gateway pointed at that base URL.
	RemoteURL     string        `yaml:"remote_url"`
	RemoteTimeout time.Duration `yaml:"remote_timeout"`

	// RedisURL, when set, persists the gateway's fallback snapshot in
	// Redis instead of process memory.
	RedisURL string        `yaml:"redis_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`

	RetryMaxAttempts   int           `yaml:"retry_max_attempts"`
	RetryInitialDelay  time.Duration `yaml:"retry_initial_delay"`
	RetryMaxDelay      time.Duration `yaml:"retry_max_delay"`
	RetryBackoffFactor float64       `yaml:"retry_backoff_factor"`
}

func defaults() Config {
	return Config{
		Port:               "8080",
		DBPath:             "tasknest.db",
		RemoteTimeout:      10 * time.Second,
		CacheTTL:           24 * time.Hour,
		RetryMaxAttempts:   3,
		RetryInitialDelay:  time.Second,
		RetryMaxDelay:      10 * time.Second,
		RetryBackoffFactor: 2,
	}
}

// Load builds the config from defaults, an optional YAML file (path in
// TASKNEST_CONFIG, falling back to ./tasknest.yaml), then env overrides.
func Load() (Config, error) {
	cfg := defaults()

	path := utils.GetEnvAsString("TASKNEST_CONFIG", "tasknest.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// config file is optional
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.Port = utils.GetEnvAsString("PORT", cfg.Port)
	cfg.DBPath = utils.GetEnvAsString("TASKNEST_DB_PATH", cfg.DBPath)
	cfg.RemoteURL = utils.GetEnvAsString("TASKNEST_REMOTE_URL", cfg.RemoteURL)
	cfg.RemoteTimeout = utils.GetEnvAsDuration("TASKNEST_REMOTE_TIMEOUT", cfg.RemoteTimeout)
	cfg.RedisURL = utils.GetEnvAsString("TASKNEST_REDIS_URL", cfg.RedisURL)
	cfg.CacheTTL = utils.GetEnvAsDuration("TASKNEST_CACHE_TTL", cfg.CacheTTL)
	cfg.RetryMaxAttempts = utils.GetEnvAsInt("TASKNEST_RETRY_MAX_ATTEMPTS", cfg.RetryMaxAttempts)
	cfg.RetryInitialDelay = utils.GetEnvAsDuration("TASKNEST_RETRY_INITIAL_DELAY", cfg.RetryInitialDelay)
	cfg.RetryMaxDelay = utils.GetEnvAsDuration("TASKNEST_RETRY_MAX_DELAY", cfg.RetryMaxDelay)
	cfg.RetryBackoffFactor = utils.GetEnvAsFloat("TASKNEST_RETRY_BACKOFF_FACTOR", cfg.RetryBackoffFactor)

	return cfg, nil
}
