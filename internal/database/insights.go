// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/tripatlas/internal/models"
)

// GetHourlyInsights returns trip count, average fare and average duration per
// pickup hour, ordered by hour. Hours with no matching trips are absent, as
// are trips without a pickup hour. An average over only NULL values is 0.
func (db *DB) GetHourlyInsights(ctx context.Context, filter TripFilter) (hours []models.HourlyInsight, err error) {
	defer func(start time.Time) { observe("hourly_insights", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	whereClause, args := filter.buildWhere(0)
	q := fmt.Sprintf(`
		SELECT t.pickup_hour,
			COUNT(*) AS trip_count,
			AVG(t.fare_amount) AS avg_fare,
			AVG(t.trip_duration_minutes) AS avg_duration
		FROM trips t
		LEFT JOIN zones z ON t.pu_location_id = z.location_id
		%s
		GROUP BY t.pickup_hour
		HAVING t.pickup_hour IS NOT NULL
		ORDER BY t.pickup_hour`, whereClause)

	hours = []models.HourlyInsight{}
	err = db.queryAndScan(ctx, q, args, func(rows *sql.Rows) error {
		var h models.HourlyInsight
		var avgFare, avgDuration sql.NullFloat64
		if err := rows.Scan(&h.PickupHour, &h.TripCount, &avgFare, &avgDuration); err != nil {
			return err
		}
		h.AvgFare = avgFare.Float64
		h.AvgDuration = avgDuration.Float64
		hours = append(hours, h)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hourly insights: %w", err)
	}
	return hours, nil
}

// StreamZoneTripCounts aggregates the id sample per pickup zone and hands each
// row to fn as it is read. Rows arrive in no particular order; ranking is the
// caller's job. Trips whose pickup zone is unknown are excluded. A non-nil
// error from fn stops the scan and is returned wrapped.
func (db *DB) StreamZoneTripCounts(ctx context.Context, filter TripFilter, sampleModulus int, fn func(models.ZoneTripCount) error) (err error) {
	defer func(start time.Time) { observe("zone_trip_counts", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	whereClause, args := filter.buildWhere(sampleModulus)
	q := fmt.Sprintf(`
		SELECT t.pu_location_id,
			COALESCE(ANY_VALUE(z.zone_name), ''),
			COALESCE(ANY_VALUE(z.borough), ''),
			COUNT(*) AS trip_count,
			AVG(t.fare_amount) AS avg_fare
		FROM trips t
		JOIN zones z ON t.pu_location_id = z.location_id
		%s
		GROUP BY t.pu_location_id`, whereClause)

	err = db.queryAndScan(ctx, q, args, func(rows *sql.Rows) error {
		var zc models.ZoneTripCount
		if err := rows.Scan(&zc.LocationID, &zc.ZoneName, &zc.Borough, &zc.TripCount, &zc.AvgFare); err != nil {
			return err
		}
		return fn(zc)
	})
	if err != nil {
		return fmt.Errorf("zone trip counts: %w", err)
	}
	return nil
}

// GetBoroughSummary aggregates the id sample per pickup borough. TotalTrips is
// the sample count multiplied by sampleModulus.
func (db *DB) GetBoroughSummary(ctx context.Context, filter TripFilter, sampleModulus int) (summaries []models.BoroughSummary, err error) {
	defer func(start time.Time) { observe("borough_summary", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	scale := sampleModulus
	if scale < 1 {
		scale = 1
	}

	whereClause, args := filter.buildWhere(sampleModulus)
	q := fmt.Sprintf(`
		SELECT COALESCE(z.borough, ''),
			COUNT(*) * %d AS total_trips,
			AVG(t.trip_distance) AS avg_distance,
			AVG(t.fare_amount) AS avg_fare,
			AVG(t.trip_duration_minutes) AS avg_duration
		FROM trips t
		JOIN zones z ON t.pu_location_id = z.location_id
		%s
		GROUP BY z.borough
		ORDER BY z.borough`, scale, whereClause)

	summaries = []models.BoroughSummary{}
	err = db.queryAndScan(ctx, q, args, func(rows *sql.Rows) error {
		var b models.BoroughSummary
		if err := rows.Scan(&b.Borough, &b.TotalTrips, &b.AvgDistance, &b.AvgFare, &b.AvgDuration); err != nil {
			return err
		}
		summaries = append(summaries, b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("borough summary: %w", err)
	}
	return summaries, nil
}

// GetPickupCounts returns the full-table trip count per pickup location id.
func (db *DB) GetPickupCounts(ctx context.Context) (counts map[int]int64, err error) {
	defer func(start time.Time) { observe("pickup_counts", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	counts = make(map[int]int64)
	err = db.queryAndScan(ctx, `
		SELECT pu_location_id, COUNT(*)
		FROM trips
		WHERE pu_location_id IS NOT NULL
		GROUP BY pu_location_id`, nil, func(rows *sql.Rows) error {
		var (
			id    int
			count int64
		)
		if err := rows.Scan(&id, &count); err != nil {
			return err
		}
		counts[id] = count
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pickup counts: %w", err)
	}
	return counts, nil
}

// GetSummaryStats returns the headline totals over all trips. Averages are
// nil when there are no trips.
func (db *DB) GetSummaryStats(ctx context.Context) (stats *models.SummaryStats, err error) {
	defer func(start time.Time) { observe("summary_stats", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var avgFare, avgDistance, avgSpeed sql.NullFloat64
	stats = &models.SummaryStats{}
	err = db.queryRowWithContext(ctx, `
		SELECT COUNT(*), AVG(fare_amount), AVG(trip_distance), AVG(speed_mph)
		FROM trips`, nil, &stats.TotalTrips, &avgFare, &avgDistance, &avgSpeed)
	if err != nil {
		return nil, fmt.Errorf("summary stats: %w", err)
	}
	stats.AvgFare = nullFloat(avgFare)
	stats.AvgDistance = nullFloat(avgDistance)
	stats.AvgSpeed = nullFloat(avgSpeed)
	return stats, nil
}
