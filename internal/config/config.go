// Package config loads the scheduler's environment-variable configuration
// (spec.md §6). The core never reads the environment itself — every
// constructor in pkg/scheduler, pkg/storageclient, pkg/geoclient, and
// pkg/kv takes an explicit value — but a single ambient loader is kept
// here so the composition root (cmd/scheduler-service) has one place to
// turn environment variables into typed config, the same way kubernaut's
// internal/database.Config separates DefaultConfig/LoadFromEnv/Validate.
package config

import (
	"os"
	"strconv"
	"time"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
)

// RedisPoolConfig holds go-redis connection-pool sizing, sourced from
// REDIS__POOL__* environment variables.
type RedisPoolConfig struct {
	MaxSize     int
	Timeout     time.Duration
	MinIdle     int
}

// Config is the scheduler's full runtime configuration.
type Config struct {
	// DockerPortGRPC is the listen port for the (out-of-scope) RPC surface;
	// kept here only so the composition root can bind it.
	DockerPortGRPC int

	StorageHostGRPC string
	StoragePortGRPC int

	GISHostGRPC string
	GISPortGRPC int

	RedisURL  string
	RedisPool RedisPoolConfig

	// LogConfigPath is a path to a YAML logging configuration file; when
	// set, obslog.LoadOptions overlays its level and outputPaths onto the
	// logger options.
	LogConfigPath string
}

// DefaultConfig returns the configuration used when no environment
// variable overrides are present.
func DefaultConfig() *Config {
	return &Config{
		DockerPortGRPC:  50051,
		StorageHostGRPC: "localhost",
		StoragePortGRPC: 50052,
		GISHostGRPC:     "localhost",
		GISPortGRPC:     50053,
		RedisURL:        "redis://localhost:6379",
		RedisPool: RedisPoolConfig{
			MaxSize: 16,
			Timeout: 5 * time.Second,
			MinIdle: 2,
		},
	}
}

// LoadFromEnv overlays environment variables onto the config in place.
// Invalid integer values are ignored and the existing (default) value is
// kept, matching kubernaut's internal/database.Config.LoadFromEnv behavior.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("DOCKER_PORT_GRPC"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.DockerPortGRPC = port
		}
	}
	if v := os.Getenv("STORAGE_HOST_GRPC"); v != "" {
		c.StorageHostGRPC = v
	}
	if v := os.Getenv("STORAGE_PORT_GRPC"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.StoragePortGRPC = port
		}
	}
	if v := os.Getenv("GIS_HOST_GRPC"); v != "" {
		c.GISHostGRPC = v
	}
	if v := os.Getenv("GIS_PORT_GRPC"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.GISPortGRPC = port
		}
	}
	if v := os.Getenv("REDIS__URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("REDIS__POOL__MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisPool.MaxSize = n
		}
	}
	if v := os.Getenv("REDIS__POOL__MIN_IDLE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisPool.MinIdle = n
		}
	}
	if v := os.Getenv("REDIS__POOL__TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisPool.Timeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("LOG_CONFIG"); v != "" {
		c.LogConfigPath = v
	}
}

// Validate returns an *errors.AppError describing the first invalid field,
// or nil when the configuration is usable.
func (c *Config) Validate() error {
	if c.DockerPortGRPC < 1 || c.DockerPortGRPC > 65535 {
		return apperrors.NewValidationError("grpc port must be between 1 and 65535")
	}
	if c.StorageHostGRPC == "" {
		return apperrors.NewValidationError("storage host is required")
	}
	if c.StoragePortGRPC < 1 || c.StoragePortGRPC > 65535 {
		return apperrors.NewValidationError("storage port must be between 1 and 65535")
	}
	if c.GISHostGRPC == "" {
		return apperrors.NewValidationError("gis host is required")
	}
	if c.GISPortGRPC < 1 || c.GISPortGRPC > 65535 {
		return apperrors.NewValidationError("gis port must be between 1 and 65535")
	}
	if c.RedisURL == "" {
		return apperrors.NewValidationError("redis url is required")
	}
	if c.RedisPool.MaxSize < 1 {
		return apperrors.NewValidationError("redis pool max size must be at least 1")
	}
	return nil
}

// Load builds a Config from defaults overlaid with the environment and
// validates it.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
