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

// tripColumns is the trips projection shared by the reader and the seeder.
const tripColumns = `pickup_datetime, dropoff_datetime, passenger_count, trip_distance,
	pu_location_id, do_location_id, fare_amount, tip_amount, total_amount, payment_type,
	trip_duration_minutes, speed_mph, fare_per_mile, pickup_hour, time_of_day, is_weekend`

// GetTrips returns filtered trips joined with their pickup and dropoff zone
// names. Rows whose zone ids have no zone row keep nil zone fields.
func (db *DB) GetTrips(ctx context.Context, filter TripFilter) (trips []models.TripDetail, err error) {
	defer func(start time.Time) { observe("get_trips", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	whereClause, args := filter.buildWhere(0)
	q := fmt.Sprintf(`
		SELECT t.id, t.pickup_datetime, t.dropoff_datetime, t.passenger_count, t.trip_distance,
			t.pu_location_id, t.do_location_id, t.fare_amount, t.tip_amount, t.total_amount,
			t.payment_type, t.trip_duration_minutes, t.speed_mph, t.fare_per_mile,
			t.pickup_hour, t.time_of_day, t.is_weekend,
			z.zone_name, z.borough, d.zone_name, d.borough
		FROM trips t
		LEFT JOIN zones z ON t.pu_location_id = z.location_id
		LEFT JOIN zones d ON t.do_location_id = d.location_id
		%s
		ORDER BY t.id
		LIMIT ?`, whereClause)
	args = append(args, filter.Limit)

	trips = []models.TripDetail{}
	err = db.queryAndScan(ctx, q, args, func(rows *sql.Rows) error {
		var (
			td                               models.TripDetail
			tip, total                       sql.NullFloat64
			payment                          sql.NullInt64
			puZone, puBorough, doZone, doBor sql.NullString
		)
		if err := rows.Scan(
			&td.ID, &td.PickupDatetime, &td.DropoffDatetime, &td.PassengerCount, &td.TripDistance,
			&td.PULocationID, &td.DOLocationID, &td.FareAmount, &tip, &total,
			&payment, &td.TripDurationMinutes, &td.SpeedMPH, &td.FarePerMile,
			&td.PickupHour, &td.TimeOfDay, &td.IsWeekend,
			&puZone, &puBorough, &doZone, &doBor,
		); err != nil {
			return err
		}
		td.TipAmount = nullFloat(tip)
		td.TotalAmount = nullFloat(total)
		if payment.Valid {
			p := int(payment.Int64)
			td.PaymentType = &p
		}
		td.PickupZone = nullString(puZone)
		td.PickupBorough = nullString(puBorough)
		td.DropoffZone = nullString(doZone)
		td.DropoffBorough = nullString(doBor)
		trips = append(trips, td)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get trips: %w", err)
	}
	return trips, nil
}

// InsertTrips appends cleaned trips in a single transaction. Ids come from
// trips_id_seq; the ID field of each input is ignored.
func (db *DB) InsertTrips(ctx context.Context, trips []models.Trip) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trips (`+tripColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare trip insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range trips {
		tr := &trips[i]
		if _, err := stmt.ExecContext(ctx,
			tr.PickupDatetime, tr.DropoffDatetime, tr.PassengerCount, tr.TripDistance,
			tr.PULocationID, tr.DOLocationID, tr.FareAmount, derefArg(tr.TipAmount), derefArg(tr.TotalAmount), derefArg(tr.PaymentType),
			tr.TripDurationMinutes, tr.SpeedMPH, tr.FarePerMile, tr.PickupHour, tr.TimeOfDay, tr.IsWeekend,
		); err != nil {
			return fmt.Errorf("insert trip %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trips: %w", err)
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// derefArg turns an optional value into a bind argument, nil for NULL.
func derefArg[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
