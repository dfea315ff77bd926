// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
database_schema.go - Database Schema Management

Tables:
  - zones: taxi zone lookup (dimension table, 265 rows for NYC)
  - trips: cleaned trip records with derived features (fact table)

trips.id comes from trips_id_seq so ids are dense and stable; the insight
queries sample on id modulo a small number.

Index Strategy:
Indexes cover the filter and join columns (pickup time, pickup and dropoff
zone, time of day, pickup hour). Bulk loads drop them first and the loader's
Optimize step recreates them.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// indexNames lists every secondary index, in creation order.
var indexNames = []string{
	"idx_trips_pickup_datetime",
	"idx_trips_pu_location",
	"idx_trips_do_location",
	"idx_trips_time_of_day",
	"idx_trips_pickup_hour",
}

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the zones and trips tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS zones (
			location_id INTEGER PRIMARY KEY,
			borough VARCHAR,
			zone_name VARCHAR,
			service_zone VARCHAR
		);`,
		`CREATE SEQUENCE IF NOT EXISTS trips_id_seq START 1;`,
		`CREATE TABLE IF NOT EXISTS trips (
			id BIGINT PRIMARY KEY DEFAULT nextval('trips_id_seq'),
			pickup_datetime TIMESTAMP NOT NULL,
			dropoff_datetime TIMESTAMP NOT NULL,
			passenger_count INTEGER,
			trip_distance DOUBLE,
			pu_location_id INTEGER,
			do_location_id INTEGER,
			fare_amount DOUBLE,
			tip_amount DOUBLE,
			total_amount DOUBLE,
			payment_type INTEGER,
			trip_duration_minutes DOUBLE,
			speed_mph DOUBLE,
			fare_per_mile DOUBLE,
			pickup_hour INTEGER,
			time_of_day VARCHAR,
			is_weekend BOOLEAN
		);`,
	}
}

// createIndexes creates the secondary indexes.
// Skipped when cfg.SkipIndexes is set, which keeps test setup fast.
func (db *DB) createIndexes() error {
	if db.cfg != nil && db.cfg.SkipIndexes {
		return nil
	}
	return db.CreateIndexes(context.Background())
}

// CreateIndexes creates all secondary indexes regardless of configuration.
func (db *DB) CreateIndexes(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	for _, query := range getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// DropIndexes removes the secondary indexes ahead of a bulk load.
func (db *DB) DropIndexes(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return dropIndexes(ctx, db.conn)
}

// execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// dropIndexes runs on ex so a caller holding a pinned connection does not
// wait on the pool for a second one.
func dropIndexes(ctx context.Context, ex execer) error {
	for _, name := range indexNames {
		if _, err := ex.ExecContext(ctx, "DROP INDEX IF EXISTS "+name); err != nil {
			return fmt.Errorf("failed to drop index %s: %w", name, err)
		}
	}
	return nil
}

func getIndexQueries() []string {
	columns := []string{
		"pickup_datetime",
		"pu_location_id",
		"do_location_id",
		"time_of_day",
		"pickup_hour",
	}
	queries := make([]string, len(indexNames))
	for i, name := range indexNames {
		queries[i] = fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON trips(%s);", name, columns[i])
	}
	return queries
}
