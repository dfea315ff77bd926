// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package config provides centralized configuration management for Tripatlas.

Configuration is layered with Koanf v2: built-in defaults, then an optional YAML
file, then environment variables. The merged result is validated once and is
read-only afterwards.

# Configuration File

The first existing file wins: $CONFIG_PATH, ./config.yaml, ./config.yml,
/etc/tripatlas/config.yaml, /etc/tripatlas/config.yml.

	server:
	  port: 3857
	database:
	  path: /data/tripatlas.duckdb
	insights:
	  top_zones_k: 15
	  sample_modulus: 10
	  geojson_path: /data/taxi_zones.geojson
	security:
	  cors_origins: ["https://dashboard.example"]

# Environment Variables

Database:
  - DUCKDB_PATH: Database file path (default: /data/tripatlas.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
  - DUCKDB_THREADS: Worker threads, 0 = NumCPU (default: 0)
  - SEED_MOCK_DATA: Seed synthetic data into an empty database (default: false)

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, ENVIRONMENT

Insights:
  - TOP_ZONES_K, TOP_ZONES_MAX_K, INSIGHTS_SAMPLE_MODULUS, INSIGHTS_CACHE_TTL, GEOJSON_PATH

ETL:
  - ZONE_LOOKUP_PATH, RAW_TRIPS_PATH, CLEANING_LOG_PATH

Security:
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Unknown environment variables are ignored.
*/
package config
