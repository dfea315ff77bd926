// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "DUCKDB_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -2 }, "DUCKDB_THREADS"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "HTTP_TIMEOUT"},
		{"default limit above max", func(c *Config) { c.API.DefaultTripLimit = c.API.MaxTripLimit + 1 }, "API_DEFAULT_TRIP_LIMIT"},
		{"zero max limit", func(c *Config) { c.API.MaxTripLimit = 0 }, "API_MAX_TRIP_LIMIT"},
		{"zero k is allowed", func(c *Config) { c.Insights.TopZonesK = 0 }, ""},
		{"negative k", func(c *Config) { c.Insights.TopZonesK = -1 }, "TOP_ZONES_K"},
		{"k above max", func(c *Config) { c.Insights.TopZonesK = 101 }, "TOP_ZONES_K"},
		{"zero sample modulus", func(c *Config) { c.Insights.SampleModulus = 0 }, "INSIGHTS_SAMPLE_MODULUS"},
		{"negative cache ttl", func(c *Config) { c.Insights.CacheTTL = -time.Second }, "INSIGHTS_CACHE_TTL"},
		{"no cors origins", func(c *Config) { c.Security.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"mixed wildcard in production", func(c *Config) {
			c.Server.Environment = "production"
			c.Security.CORSOrigins = []string{"*", "https://a.example"}
		}, "CORS_ORIGINS"},
		{"rate limit too low", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit window too long", func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, "RATE_LIMIT_WINDOW"},
		{"rate limit ignored when disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"empty log format", func(c *Config) { c.Logging.Format = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEnvironmentModes(t *testing.T) {
	tests := []struct {
		env         string
		production  bool
		development bool
	}{
		{"", false, true},
		{"development", false, true},
		{"dev", false, true},
		{"staging", false, false},
		{"production", true, false},
		{"PROD", true, false},
	}

	for _, tt := range tests {
		cfg := defaultConfig()
		cfg.Server.Environment = tt.env
		if got := cfg.IsProduction(); got != tt.production {
			t.Errorf("IsProduction(%q) = %v, want %v", tt.env, got, tt.production)
		}
		if got := cfg.IsDevelopment(); got != tt.development {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tt.env, got, tt.development)
		}
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in development should not warn")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in production should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://dash.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}
