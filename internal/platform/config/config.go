// Package config loads application configuration from environment variables.
// All variables use the CBT_ prefix.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted by CBT_STORAGE_DRIVER.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var drivers = []string{DriverFile, DriverMemory, DriverRedis, DriverPostgres}

// Config holds all application configuration.
type Config struct {
	Data     DataConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Log      LogConfig
}

// DataConfig says where question files come from.
type DataConfig struct {
	Dir     string
	URL     string        // when set, wins over Dir
	Timeout time.Duration // zero means no timeout
	Folders []string      // fallback catalogue
}

// StorageConfig selects the backend for the blacklist and result documents.
type StorageConfig struct {
	Driver string
	Dir    string // file driver; empty means the user's home directory
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis connection settings. TTL applies to cached question files;
// zero disables that cache.
type CacheConfig struct {
	URL string
	TTL time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// Load reads configuration from environment variables with CBT_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{
			Dir:     envStr("CBT_DATA_DIR", "./data"),
			URL:     envStr("CBT_DATA_URL", ""),
			Timeout: envDuration("CBT_FETCH_TIMEOUT", 0),
			Folders: envList("CBT_FOLDERS"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(envStr("CBT_STORAGE_DRIVER", DriverFile)),
			Dir:    envStr("CBT_STORAGE_DIR", ""),
		},
		Database: DatabaseConfig{
			URL:      envStr("CBT_DATABASE_URL", ""),
			MaxConns: envInt("CBT_DATABASE_MAX_CONNS", 4),
			MinConns: envInt("CBT_DATABASE_MIN_CONNS", 0),
		},
		Cache: CacheConfig{
			URL: envStr("CBT_CACHE_URL", ""),
			TTL: envDuration("CBT_CACHE_TTL", 0),
		},
		Log: LogConfig{
			Level:     envStr("CBT_LOG_LEVEL", "warn"),
			Format:    envStr("CBT_LOG_FORMAT", "text"),
			AddSource: envBool("CBT_LOG_SOURCE", false),
		},
	}

	return cfg, nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	if !slices.Contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("CBT_STORAGE_DRIVER must be one of %s, got %q", strings.Join(drivers, ", "), c.Storage.Driver)
	}

	if c.Storage.Driver == DriverPostgres && c.Database.URL == "" {
		return fmt.Errorf("CBT_DATABASE_URL is required for the postgres driver")
	}

	if c.Storage.Driver == DriverRedis && c.Cache.URL == "" {
		return fmt.Errorf("CBT_CACHE_URL is required for the redis driver")
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("CBT_DATABASE_MIN_CONNS (%d) exceeds CBT_DATABASE_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.Data.Dir == "" && c.Data.URL == "" {
		return fmt.Errorf("one of CBT_DATA_DIR or CBT_DATA_URL is required")
	}

	if c.Data.Timeout < 0 || c.Cache.TTL < 0 {
		return fmt.Errorf("CBT_FETCH_TIMEOUT and CBT_CACHE_TTL must not be negative")
	}

	return nil
}

// PartCacheEnabled reports whether fetched question files should be cached in Redis.
func (c *Config) PartCacheEnabled() bool {
	return c.Cache.URL != "" && c.Cache.TTL > 0
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

// envDuration accepts Go durations ("30s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if s, err := strconv.Atoi(v); err == nil {
		return time.Duration(s) * time.Second
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
