// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/tripatlas/internal/logging"
	"github.com/tomtom215/tripatlas/internal/models"
)

// MockTripCount is the number of trips SeedMockData inserts.
const MockTripCount = 2000

// mockZones is a subset of the NYC TLC zone lookup covering every borough.
var mockZones = []models.Zone{
	{LocationID: 1, Borough: "EWR", ZoneName: "Newark Airport", ServiceZone: "EWR"},
	{LocationID: 4, Borough: "Manhattan", ZoneName: "Alphabet City", ServiceZone: "Yellow Zone"},
	{LocationID: 7, Borough: "Queens", ZoneName: "Astoria", ServiceZone: "Boro Zone"},
	{LocationID: 13, Borough: "Manhattan", ZoneName: "Battery Park City", ServiceZone: "Yellow Zone"},
	{LocationID: 33, Borough: "Brooklyn", ZoneName: "Brooklyn Heights", ServiceZone: "Boro Zone"},
	{LocationID: 43, Borough: "Manhattan", ZoneName: "Central Park", ServiceZone: "Yellow Zone"},
	{LocationID: 48, Borough: "Manhattan", ZoneName: "Clinton East", ServiceZone: "Yellow Zone"},
	{LocationID: 61, Borough: "Brooklyn", ZoneName: "Crown Heights North", ServiceZone: "Boro Zone"},
	{LocationID: 79, Borough: "Manhattan", ZoneName: "East Village", ServiceZone: "Yellow Zone"},
	{LocationID: 132, Borough: "Queens", ZoneName: "JFK Airport", ServiceZone: "Airports"},
	{LocationID: 138, Borough: "Queens", ZoneName: "LaGuardia Airport", ServiceZone: "Airports"},
	{LocationID: 161, Borough: "Manhattan", ZoneName: "Midtown Center", ServiceZone: "Yellow Zone"},
	{LocationID: 162, Borough: "Manhattan", ZoneName: "Midtown East", ServiceZone: "Yellow Zone"},
	{LocationID: 168, Borough: "Bronx", ZoneName: "Mott Haven/Port Morris", ServiceZone: "Boro Zone"},
	{LocationID: 186, Borough: "Manhattan", ZoneName: "Penn Station/Madison Sq West", ServiceZone: "Yellow Zone"},
	{LocationID: 230, Borough: "Manhattan", ZoneName: "Times Sq/Theatre District", ServiceZone: "Yellow Zone"},
	{LocationID: 236, Borough: "Manhattan", ZoneName: "Upper East Side North", ServiceZone: "Yellow Zone"},
	{LocationID: 237, Borough: "Manhattan", ZoneName: "Upper East Side South", ServiceZone: "Yellow Zone"},
	{LocationID: 245, Borough: "Staten Island", ZoneName: "West Brighton", ServiceZone: "Boro Zone"},
	{LocationID: 264, Borough: "Unknown", ZoneName: "N/A", ServiceZone: "N/A"},
}

// SeedMockData fills an empty store with deterministic synthetic zones and
// trips for demos and tests. It is a no-op when trips already exist.
func (db *DB) SeedMockData(ctx context.Context) error {
	_, tripCount, err := db.GetRecordCounts(ctx)
	if err != nil {
		return err
	}
	if tripCount > 0 {
		logging.Info().Int64("trips", tripCount).Msg("Store already has trips, skipping mock seed")
		return nil
	}

	logging.Info().Int("zones", len(mockZones)).Int("trips", MockTripCount).Msg("Seeding store with mock data")

	if err := db.InsertZones(ctx, mockZones); err != nil {
		return fmt.Errorf("seed zones: %w", err)
	}
	if err := db.InsertTrips(ctx, MockTrips(MockTripCount)); err != nil {
		return fmt.Errorf("seed trips: %w", err)
	}
	return nil
}

// MockTrips generates n clean trips over January 2024. The same n always
// yields the same trips. Pickup zones are skewed so rankings are non-trivial.
func MockTrips(n int) []models.Trip {
	rng := rand.New(rand.NewPCG(2024, 1)) //nolint:gosec // synthetic data

	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	trips := make([]models.Trip, 0, n)

	for len(trips) < n {
		// Squaring the uniform draw favors low indexes.
		u := rng.Float64()
		pu := mockZones[int(u*u*float64(len(mockZones)))]
		do := mockZones[rng.IntN(len(mockZones))]

		pickup := base.Add(time.Duration(rng.IntN(31*24*60)) * time.Minute)
		durationMin := 3 + rng.Float64()*50
		mph := 6 + rng.Float64()*30
		distance := mph * durationMin / 60
		fare := 3 + distance*2.5 + durationMin*0.5

		tr := models.Trip{
			PickupDatetime:  pickup,
			DropoffDatetime: pickup.Add(time.Duration(durationMin * float64(time.Minute))),
			PassengerCount:  1 + rng.IntN(4),
			TripDistance:    round2(distance),
			PULocationID:    pu.LocationID,
			DOLocationID:    do.LocationID,
			FareAmount:      round2(fare),
		}
		tip := round2(fare * 0.15 * rng.Float64())
		total := round2(fare + tip + 2.5)
		payment := 1 + rng.IntN(2)
		tr.TipAmount = &tip
		tr.TotalAmount = &total
		tr.PaymentType = &payment

		DeriveFeatures(&tr)
		if !IsClean(&tr) {
			continue
		}
		trips = append(trips, tr)
	}
	return trips
}

// DeriveFeatures fills the derived columns of t from its raw fields, using
// the same rules as the loader's SQL.
func DeriveFeatures(t *models.Trip) {
	t.TripDurationMinutes = t.DropoffDatetime.Sub(t.PickupDatetime).Minutes()
	if t.TripDurationMinutes > 0 {
		t.SpeedMPH = t.TripDistance / (t.TripDurationMinutes / 60)
	}
	if t.TripDistance > 0 {
		t.FarePerMile = t.FareAmount / t.TripDistance
	}
	t.PickupHour = t.PickupDatetime.Hour()
	t.TimeOfDay = models.TimeOfDay(t.PickupHour)
	wd := t.PickupDatetime.Weekday()
	t.IsWeekend = wd == time.Saturday || wd == time.Sunday
}

// IsClean reports whether t passes the range rules applied by the loader
// (zone membership excluded).
func IsClean(t *models.Trip) bool {
	return t.DropoffDatetime.After(t.PickupDatetime) &&
		t.TripDistance > MinDistance && t.TripDistance < MaxDistance &&
		t.FareAmount > MinFare && t.FareAmount < MaxFare &&
		t.PassengerCount > 0 && t.PassengerCount <= MaxPassengers &&
		t.TripDurationMinutes > MinDurationMinutes && t.TripDurationMinutes < MaxDurationMinutes &&
		t.SpeedMPH < MaxSpeedMPH
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
