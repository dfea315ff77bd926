// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/tripatlas/internal/config"
	"github.com/tomtom215/tripatlas/internal/models"
)

// testDBSemaphore serializes DuckDB tests. Concurrent CGO connections under
// CI resource pressure can hang, so only one test holds a store at a time.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory store that is closed when the test ends.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:        ":memory:",
		MaxMemory:   "512MB",
		Threads:     2,
		SkipIndexes: true,
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(cfg)
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

// setupSeededDB returns a store filled by SeedMockData.
func setupSeededDB(t *testing.T) *DB {
	t.Helper()
	db := setupTestDB(t)
	checkNoError(t, db.SeedMockData(context.Background()))
	return db
}

// insertFixtureTrips loads three zones and a small set of hand-built trips.
//
//	id 1: zone 1 -> 2, 08:00 Monday, fare 10
//	id 2: zone 1 -> 3, 08:30 Monday, fare 20
//	id 3: zone 2 -> 1, 18:00 Saturday, fare 30
//	id 4: zone 999 -> 1, 23:00 Monday, fare 40 (no zone row)
func insertFixtureTrips(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	checkNoError(t, db.InsertZones(ctx, []models.Zone{
		{LocationID: 1, Borough: "Manhattan", ZoneName: "Alphabet City", ServiceZone: "Yellow Zone"},
		{LocationID: 2, Borough: "Queens", ZoneName: "Astoria", ServiceZone: "Boro Zone"},
		{LocationID: 3, Borough: "Brooklyn", ZoneName: "Bushwick", ServiceZone: "Boro Zone"},
	}))

	monday := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)
	mk := func(pickup time.Time, pu, do int, fare float64) models.Trip {
		tr := models.Trip{
			PickupDatetime:  pickup,
			DropoffDatetime: pickup.Add(20 * time.Minute),
			PassengerCount:  1,
			TripDistance:    2,
			PULocationID:    pu,
			DOLocationID:    do,
			FareAmount:      fare,
		}
		DeriveFeatures(&tr)
		return tr
	}

	checkNoError(t, db.InsertTrips(ctx, []models.Trip{
		mk(monday.Add(8*time.Hour), 1, 2, 10),
		mk(monday.Add(8*time.Hour+30*time.Minute), 1, 3, 20),
		mk(saturday.Add(18*time.Hour), 2, 1, 30),
		mk(monday.Add(23*time.Hour), 999, 1, 40),
	}))
}

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	const eps = 1e-9
	if got < want-eps || got > want+eps {
		t.Errorf("%s: expected %v, got %v", name, want, got)
	}
}

func intPtr(v int) *int { return &v }
