// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"packtracer/internal/draft/tracer"
)

// Config represents the application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Loader LoaderConfig `toml:"loader"`
	Trace  TraceConfig  `toml:"trace"`
}

// ServerConfig contains API server settings.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"` // e.g. ":8080"
}

// LoaderConfig contains export loading settings. ExportDir and S3 are
// alternatives; when both are set, S3 wins and ExportDir is ignored.
type LoaderConfig struct {
	ExportDir string      `toml:"export_dir"` // directory of export JSON files
	S3        S3Config    `toml:"s3"`
	Cache     CacheConfig `toml:"cache"`
}

// S3Config contains S3-compatible blob store settings.
type S3Config struct {
	Enabled         bool   `toml:"enabled"`
	Endpoint        string `toml:"endpoint"` // custom endpoint for R2-style providers
	Region          string `toml:"region"`
	Bucket          string `toml:"bucket"`
	KeyPrefix       string `toml:"key_prefix"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// CacheConfig contains export cache settings.
type CacheConfig struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`           // SQLite file path
	TTL           string `toml:"ttl"`            // e.g. "0s" (never expire), "24h"
	FetchInterval string `toml:"fetch_interval"` // min spacing between upstream fetches
}

// TraceConfig contains the tracer's tunable limits.
type TraceConfig struct {
	MaxBoosterSize     int `toml:"max_booster_size"`
	DriftTolerance     int `toml:"drift_tolerance"`
	MaxCandidateStarts int `toml:"max_candidate_starts"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	trace := tracer.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Loader: LoaderConfig{
			ExportDir: "",
			Cache: CacheConfig{
				Enabled:       false,
				Path:          "",
				TTL:           "0s",
				FetchInterval: "1s",
			},
		},
		Trace: TraceConfig{
			MaxBoosterSize:     trace.MaxBoosterSize,
			DriftTolerance:     trace.DriftTolerance,
			MaxCandidateStarts: trace.MaxCandidateStarts,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".packtracer")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from the default location. Returns the default
// config if no file exists yet.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &config, nil
}

// Save writes the configuration to the default location.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Loader.Cache.Enabled {
		if c.Loader.Cache.Path == "" {
			return fmt.Errorf("cache enabled but no cache path set")
		}
		if _, err := time.ParseDuration(c.Loader.Cache.TTL); err != nil {
			return fmt.Errorf("invalid cache TTL %q: %w", c.Loader.Cache.TTL, err)
		}
		if _, err := time.ParseDuration(c.Loader.Cache.FetchInterval); err != nil {
			return fmt.Errorf("invalid fetch interval %q: %w", c.Loader.Cache.FetchInterval, err)
		}
	}
	if c.Loader.S3.Enabled && c.Loader.S3.Bucket == "" {
		return fmt.Errorf("s3 enabled but no bucket set")
	}
	if c.Trace.MaxBoosterSize <= 0 {
		return fmt.Errorf("max booster size must be positive: %d", c.Trace.MaxBoosterSize)
	}
	if c.Trace.DriftTolerance < 0 {
		return fmt.Errorf("drift tolerance cannot be negative: %d", c.Trace.DriftTolerance)
	}
	if c.Trace.MaxCandidateStarts <= 0 {
		return fmt.Errorf("max candidate starts must be positive: %d", c.Trace.MaxCandidateStarts)
	}
	return nil
}

// TracerConfig converts the trace section into tracer limits.
func (c *Config) TracerConfig() tracer.Config {
	return tracer.Config{
		MaxBoosterSize:     c.Trace.MaxBoosterSize,
		DriftTolerance:     c.Trace.DriftTolerance,
		MaxCandidateStarts: c.Trace.MaxCandidateStarts,
	}
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Loader.Cache.TTL)
}

// GetFetchInterval returns the upstream fetch interval as a duration.
func (c *Config) GetFetchInterval() (time.Duration, error) {
	return time.ParseDuration(c.Loader.Cache.FetchInterval)
}
