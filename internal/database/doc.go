// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

// Package database provides the DuckDB-backed trip store and the ETL loader
// that fills it.
//
// # Architecture
//
//   - database.go: connection lifecycle (open, initialize, close)
//   - database_schema.go: zones and trips tables, secondary indexes
//   - database_connection.go: pool configuration, connection error detection
//   - database_utils.go: checkpoint, analyze, scan helpers, query metrics
//   - filter.go: TripFilter and WHERE clause construction
//   - zones.go, trips.go, insights.go: read queries
//   - seed.go: deterministic mock data
//   - etl.go: raw file cleaning and loading
//
// # Sampling
//
// Top-zones and borough-summary aggregate only trips whose id is a multiple
// of the configured sample modulus (10 by default). Borough totals are scaled
// back up by the modulus; top-zone counts are reported as sampled.
//
// # Thread Safety
//
// DB is safe for concurrent use. Loader is not; run one load at a time.
//
// # Usage Example
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	hour := 8
//	hours, err := db.GetHourlyInsights(ctx, database.TripFilter{Hour: &hour})
package database
