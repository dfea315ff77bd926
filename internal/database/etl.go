// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
etl.go - Raw Trip Cleaning and Loading

The loader reads a raw TLC yellow-taxi file (parquet or CSV) into a staging
table on a single pinned connection, since DuckDB temp tables are
connection-scoped. Cleaning runs as ordered DELETE statements so each rule's
dropped-row count is exact and the report sums to raw minus final:

 1. duplicates
 2. missing pickup/dropoff time, location ids, fare or distance
 3. dropoff not after pickup
 4. distance, fare or passenger count out of range
 5. pickup or dropoff zone not in the zone lookup
 6. duration outside (1, 180) minutes
 7. speed of 80 mph or more

Surviving rows get their derived features and replace the trips table.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripatlas/internal/logging"
	"github.com/tomtom215/tripatlas/internal/metrics"
	"github.com/tomtom215/tripatlas/internal/models"
)

// Cleaning thresholds. Bounds are exclusive except MaxPassengers.
const (
	MinDistance        = 0.0
	MaxDistance        = 100.0
	MinFare            = 0.0
	MaxFare            = 500.0
	MaxPassengers      = 6
	MinDurationMinutes = 1.0
	MaxDurationMinutes = 180.0
	MaxSpeedMPH        = 80.0
)

const (
	rawTable     = "trips_raw"
	stagingTable = "trips_staging"

	// durationExpr is the trip duration in minutes for a staging row.
	durationExpr = "(date_diff('second', pickup_datetime, dropoff_datetime) / 60.0)"
)

// cleaningRule is one ordered DELETE against the staging table.
type cleaningRule struct {
	name        string
	description string
	where       string
}

var cleaningRules = []cleaningRule{
	{
		name:        "missing_fields",
		description: "Rows dropped (missing critical fields)",
		where: `pickup_datetime IS NULL OR dropoff_datetime IS NULL
			OR pu_location_id IS NULL OR do_location_id IS NULL
			OR fare_amount IS NULL OR trip_distance IS NULL`,
	},
	{
		name:        "dropoff_before_pickup",
		description: "Rows dropped (dropoff before pickup)",
		where:       "dropoff_datetime <= pickup_datetime",
	},
	{
		name:        "outliers",
		description: "Rows dropped (outliers)",
		where: fmt.Sprintf(`NOT (trip_distance > %g AND trip_distance < %g
			AND fare_amount > %g AND fare_amount < %g
			AND COALESCE(passenger_count, 0) > 0 AND COALESCE(passenger_count, 0) <= %d)`,
			MinDistance, MaxDistance, MinFare, MaxFare, MaxPassengers),
	},
	{
		name:        "invalid_location",
		description: "Rows dropped (invalid location IDs)",
		where: `pu_location_id NOT IN (SELECT location_id FROM zones)
			OR do_location_id NOT IN (SELECT location_id FROM zones)`,
	},
	{
		name:        "bad_duration",
		description: "Rows dropped (bad duration)",
		where: fmt.Sprintf("NOT (%s > %g AND %s < %g)",
			durationExpr, MinDurationMinutes, durationExpr, MaxDurationMinutes),
	},
	{
		name:        "speed",
		description: fmt.Sprintf("Rows dropped (speed over %gmph)", MaxSpeedMPH),
		where:       fmt.Sprintf("trip_distance / (%s / 60.0) >= %g", durationExpr, MaxSpeedMPH),
	},
}

// Loader runs the zone and trip ETL against a DB.
type Loader struct {
	db     *DB
	runID  string
	logger zerolog.Logger
}

// NewLoader creates a loader with a fresh run id for log correlation.
func NewLoader(db *DB) *Loader {
	runID := logging.GenerateRunID()
	return &Loader{
		db:     db,
		runID:  runID,
		logger: logging.WithComponent("loader").With().Str("run_id", runID).Logger(),
	}
}

// RunID returns the id stamped on this loader's logs and reports.
func (l *Loader) RunID() string {
	return l.runID
}

// LoadZones replaces the zones table with the zone lookup CSV
// (LocationID, Borough, Zone, service_zone) and returns the zone count.
func (l *Loader) LoadZones(ctx context.Context, csvPath string) (int64, error) {
	ctx, cancel := l.db.ensureContext(ctx)
	defer cancel()

	conn, err := l.db.conn.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer closeQuietly(conn)

	if _, err := conn.ExecContext(ctx, "DELETE FROM zones"); err != nil {
		return 0, fmt.Errorf("clear zones: %w", err)
	}

	res, err := conn.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO zones (location_id, borough, zone_name, service_zone)
		SELECT CAST("LocationID" AS INTEGER), "Borough", "Zone", "service_zone"
		FROM read_csv_auto(%s, header = true)
		WHERE "LocationID" IS NOT NULL`, sqlLiteral(csvPath)))
	if err != nil {
		return 0, fmt.Errorf("load zones from %s: %w", csvPath, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("zones rows affected: %w", err)
	}

	l.logger.Info().Int64("zones", n).Str("path", csvPath).Msg("Loaded zone lookup")
	return n, nil
}

// CleanAndLoadTrips reads a raw trip file, applies the cleaning rules in
// order, derives features and replaces the trips table with the result.
func (l *Loader) CleanAndLoadTrips(ctx context.Context, rawPath string) (*models.CleaningReport, error) {
	source, err := rawSource(rawPath)
	if err != nil {
		return nil, err
	}

	conn, err := l.db.conn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer closeQuietly(conn)
	defer l.dropStaging(conn)

	var zoneCount int64
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM zones").Scan(&zoneCount); err != nil {
		return nil, fmt.Errorf("count zones: %w", err)
	}
	if zoneCount == 0 {
		return nil, ErrNoZones
	}

	report := &models.CleaningReport{RunID: l.runID}

	if _, err := conn.ExecContext(ctx, fmt.Sprintf(
		"CREATE OR REPLACE TEMP TABLE %s AS SELECT * FROM %s", rawTable, source)); err != nil {
		return nil, fmt.Errorf("read raw trips from %s: %w", rawPath, err)
	}
	if report.RawRows, err = countRows(ctx, conn, rawTable); err != nil {
		return nil, err
	}
	l.logger.Info().Int64("rows", report.RawRows).Str("path", rawPath).Msg("Raw trips loaded")

	// Duplicates are judged on every raw column, before projection.
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(`
		CREATE OR REPLACE TEMP TABLE %s AS
		SELECT
			TRY_CAST(tpep_pickup_datetime AS TIMESTAMP) AS pickup_datetime,
			TRY_CAST(tpep_dropoff_datetime AS TIMESTAMP) AS dropoff_datetime,
			TRY_CAST(passenger_count AS INTEGER) AS passenger_count,
			TRY_CAST(trip_distance AS DOUBLE) AS trip_distance,
			TRY_CAST("PULocationID" AS INTEGER) AS pu_location_id,
			TRY_CAST("DOLocationID" AS INTEGER) AS do_location_id,
			TRY_CAST(fare_amount AS DOUBLE) AS fare_amount,
			TRY_CAST(tip_amount AS DOUBLE) AS tip_amount,
			TRY_CAST(total_amount AS DOUBLE) AS total_amount,
			TRY_CAST(payment_type AS INTEGER) AS payment_type
		FROM (SELECT DISTINCT * FROM %s)`, stagingTable, rawTable)); err != nil {
		return nil, fmt.Errorf("stage trips: %w", err)
	}
	staged, err := countRows(ctx, conn, stagingTable)
	if err != nil {
		return nil, err
	}
	l.recordStep(report, "duplicates", "Duplicates removed", report.RawRows-staged)

	for _, rule := range cleaningRules {
		res, err := conn.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", stagingTable, rule.where))
		if err != nil {
			return nil, fmt.Errorf("cleaning step %s: %w", rule.name, err)
		}
		dropped, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("cleaning step %s rows affected: %w", rule.name, err)
		}
		l.recordStep(report, rule.name, rule.description, dropped)
	}

	if err := l.replaceTrips(ctx, conn); err != nil {
		return nil, err
	}
	if report.FinalRows, err = countRows(ctx, conn, "trips"); err != nil {
		return nil, err
	}

	l.logger.Info().
		Int64("raw_rows", report.RawRows).
		Int64("dropped", report.TotalDropped()).
		Int64("final_rows", report.FinalRows).
		Msg("Final clean rows")
	return report, nil
}

// replaceTrips swaps the trips table contents for the cleaned staging rows.
func (l *Loader) replaceTrips(ctx context.Context, conn *sql.Conn) error {
	if err := dropIndexes(ctx, conn); err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trips"); err != nil {
		return fmt.Errorf("clear trips: %w", err)
	}

	// DuckDB dayofweek: Sunday = 0, Saturday = 6.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO trips (%s)
		SELECT pickup_datetime, dropoff_datetime, passenger_count, trip_distance,
			pu_location_id, do_location_id, fare_amount, tip_amount, total_amount, payment_type,
			duration,
			trip_distance / (duration / 60.0),
			fare_amount / trip_distance,
			hour(pickup_datetime),
			CASE
				WHEN hour(pickup_datetime) BETWEEN 5 AND 11 THEN '%s'
				WHEN hour(pickup_datetime) BETWEEN 12 AND 16 THEN '%s'
				WHEN hour(pickup_datetime) BETWEEN 17 AND 20 THEN '%s'
				ELSE '%s'
			END,
			dayofweek(pickup_datetime) IN (0, 6)
		FROM (SELECT *, %s AS duration FROM %s)
		ORDER BY pickup_datetime, pu_location_id, do_location_id`,
		tripColumns,
		models.TimeOfDayMorning, models.TimeOfDayAfternoon, models.TimeOfDayEvening, models.TimeOfDayNight,
		durationExpr, stagingTable)); err != nil {
		return fmt.Errorf("insert cleaned trips: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trips: %w", err)
	}
	return nil
}

// Optimize recreates the secondary indexes and refreshes planner statistics.
func (l *Loader) Optimize(ctx context.Context) error {
	if err := l.db.CreateIndexes(ctx); err != nil {
		return err
	}
	if err := l.db.Analyze(ctx); err != nil {
		return err
	}
	l.logger.Info().Int("indexes", len(indexNames)).Msg("Store optimized")
	return nil
}

func (l *Loader) recordStep(report *models.CleaningReport, name, description string, dropped int64) {
	report.Steps = append(report.Steps, models.CleaningStep{
		Name:        name,
		Description: description,
		RowsDropped: dropped,
	})
	metrics.ETLRowsDropped.WithLabelValues(name).Add(float64(dropped))
	l.logger.Info().Str("step", name).Int64("dropped", dropped).Msg(description)
}

func (l *Loader) dropStaging(conn *sql.Conn) {
	for _, table := range []string{stagingTable, rawTable} {
		if _, err := conn.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+table); err != nil {
			l.logger.Warn().Err(err).Str("table", table).Msg("Failed to drop staging table")
		}
	}
}

// rawSource returns the DuckDB table function reading path.
func rawSource(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return fmt.Sprintf("read_parquet(%s)", sqlLiteral(path)), nil
	case ".csv":
		return fmt.Sprintf("read_csv_auto(%s, header = true)", sqlLiteral(path)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// sqlLiteral quotes s as a SQL string literal. Table function arguments
// cannot be bound as parameters.
func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func countRows(ctx context.Context, conn *sql.Conn, table string) (int64, error) {
	var n int64
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
