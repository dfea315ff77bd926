// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package main is the Tripatlas HTTP server.

It serves NYC taxi trips and aggregate insights from a DuckDB database that
was populated by cmd/loader:

	RootSupervisor ("tripatlas")
	├── DataSupervisor ("data-layer")
	│   ├── db-checkpoint (every 5m)
	│   ├── cache-sweeper (every INSIGHTS_CACHE_TTL)
	│   └── uptime
	└── APISupervisor ("api-layer")
	    └── http-server

Startup order:

 1. Configuration (koanf: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. DuckDB, with optional synthetic data when SEED_MOCK_DATA=true
 4. Insight service, GeoJSON store, chi router
 5. Supervisor tree

SIGINT or SIGTERM cancels the tree. The HTTP server drains in-flight
requests, then the database is closed (Close checkpoints the WAL first).

# Example

	export DUCKDB_PATH=/data/tripatlas.duckdb
	export GEOJSON_PATH=/data/taxi_zones.geojson
	export LOG_FORMAT=console
	./tripatlas

The default port 3857 references EPSG:3857 (Web Mercator), the projection
used by the web map.
*/
package main
