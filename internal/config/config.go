// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Database: DuckDB configuration (path, memory, mock data)
//     - Server: HTTP server configuration (port, host, timeout)
//
//  2. Dashboard:
//     - API: Trip listing limits
//     - Insights: Top-zones ranking size, sampling, response caching, GeoJSON source
//     - ETL: Input files for the loader
//
//  3. Security & Observability:
//     - Security: CORS and rate limiting
//     - Logging: Log levels and output formats
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	db, err := database.New(&cfg.Database)
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Insights InsightsConfig `koanf:"insights"`
	ETL      ETLConfig      `koanf:"etl"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedMockData           bool   `koanf:"seed_mock_data"`           // Seed synthetic zones and trips into an empty database
	SkipIndexes            bool   `koanf:"skip_indexes"`             // Skip index creation (fast test setup)
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds trip listing limits.
type APIConfig struct {
	DefaultTripLimit int `koanf:"default_trip_limit"`
	MaxTripLimit     int `koanf:"max_trip_limit"`
}

// InsightsConfig holds settings for the aggregate insight endpoints.
//
// Environment Variables:
//   - TOP_ZONES_K: Default number of zones ranked by /api/insights/top-zones (default: 15)
//   - TOP_ZONES_MAX_K: Largest k a client may request (default: 100)
//   - INSIGHTS_SAMPLE_MODULUS: Trips with id % m = 0 form the sample (default: 10)
//   - INSIGHTS_CACHE_TTL: Response cache lifetime (default: 5m)
//   - GEOJSON_PATH: Taxi zone boundaries in GeoJSON (EPSG:4326)
type InsightsConfig struct {
	TopZonesK     int           `koanf:"top_zones_k"`
	MaxTopZonesK  int           `koanf:"max_top_zones_k"`
	SampleModulus int           `koanf:"sample_modulus"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	GeoJSONPath   string        `koanf:"geojson_path"`
}

// ETLConfig holds input and output paths for the loader.
type ETLConfig struct {
	ZoneLookupPath  string `koanf:"zone_lookup_path"`
	RawTripsPath    string `koanf:"raw_trips_path"`
	CleaningLogPath string `koanf:"cleaning_log_path"`
}

// SecurityConfig holds cross-origin and rate limiting settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from all sources in order:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
