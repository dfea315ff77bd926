// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package database

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/tomtom215/tripatlas/internal/config"
	"github.com/tomtom215/tripatlas/internal/models"
)

func TestNew_FileDatabaseReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trips.duckdb")
	cfg := &config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1}

	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	db, err := New(cfg)
	checkNoError(t, err)
	checkNoError(t, db.InsertZones(context.Background(), []models.Zone{{LocationID: 7, Borough: "Queens", ZoneName: "Astoria"}}))
	checkNoError(t, db.Close())

	// Schema creation must be idempotent across restarts.
	db, err = New(cfg)
	checkNoError(t, err)
	defer db.Close()

	zones, err := db.GetZones(context.Background())
	checkNoError(t, err)
	if len(zones) != 1 || zones[0].LocationID != 7 {
		t.Errorf("expected persisted zone 7, got %+v", zones)
	}
	if got := db.GetDatabasePath(); got != path {
		t.Errorf("GetDatabasePath() = %q, want %q", got, path)
	}
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	checkNoError(t, db.Ping(context.Background()))

	var nilDB DB
	if err := nilDB.Ping(context.Background()); err == nil {
		t.Error("expected error pinging a nil connection")
	}
}

func TestIndexes_CreateAndDrop(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	checkNoError(t, db.CreateIndexes(ctx))
	// Creation is idempotent.
	checkNoError(t, db.CreateIndexes(ctx))

	var n int
	checkNoError(t, db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM duckdb_indexes() WHERE table_name = 'trips'").Scan(&n))
	if n != len(indexNames) {
		t.Errorf("expected %d indexes, got %d", len(indexNames), n)
	}

	checkNoError(t, db.DropIndexes(ctx))
	checkNoError(t, db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM duckdb_indexes() WHERE table_name = 'trips'").Scan(&n))
	if n != 0 {
		t.Errorf("expected no indexes after drop, got %d", n)
	}
}

func TestGetZones_Ordered(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	checkNoError(t, db.InsertZones(ctx, []models.Zone{
		{LocationID: 30, Borough: "Queens", ZoneName: "Broad Channel", ServiceZone: "Boro Zone"},
		{LocationID: 4, Borough: "Manhattan", ZoneName: "Alphabet City", ServiceZone: "Yellow Zone"},
	}))

	zones, err := db.GetZones(ctx)
	checkNoError(t, err)
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	if zones[0].LocationID != 4 || zones[1].LocationID != 30 {
		t.Errorf("zones not ordered by location id: %+v", zones)
	}
	if zones[0].ZoneName != "Alphabet City" || zones[0].ServiceZone != "Yellow Zone" {
		t.Errorf("unexpected zone fields: %+v", zones[0])
	}
}

func TestGetZones_Empty(t *testing.T) {
	db := setupTestDB(t)

	zones, err := db.GetZones(context.Background())
	checkNoError(t, err)
	if zones == nil || len(zones) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", zones)
	}
}

func TestGetTrips(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)
	ctx := context.Background()

	tests := []struct {
		name    string
		filter  TripFilter
		wantIDs []int64
	}{
		{"no filter", TripFilter{Limit: 10}, []int64{1, 2, 3, 4}},
		{"limit", TripFilter{Limit: 2}, []int64{1, 2}},
		{"hour", TripFilter{Hour: intPtr(8), Limit: 10}, []int64{1, 2}},
		{"hour zero matches nothing", TripFilter{Hour: intPtr(0), Limit: 10}, nil},
		{"borough", TripFilter{Borough: "Queens", Limit: 10}, []int64{3}},
		{"time of day", TripFilter{TimeOfDay: models.TimeOfDayNight, Limit: 10}, []int64{4}},
		{"combined", TripFilter{Hour: intPtr(8), Borough: "Queens", Limit: 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trips, err := db.GetTrips(ctx, tt.filter)
			checkNoError(t, err)
			if len(trips) != len(tt.wantIDs) {
				t.Fatalf("expected %d trips, got %d", len(tt.wantIDs), len(trips))
			}
			for i, id := range tt.wantIDs {
				if trips[i].ID != id {
					t.Errorf("trip %d: expected id %d, got %d", i, id, trips[i].ID)
				}
			}
		})
	}
}

func TestGetTrips_ZoneJoin(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)

	trips, err := db.GetTrips(context.Background(), TripFilter{Limit: 10})
	checkNoError(t, err)

	first := trips[0]
	if first.PickupZone == nil || *first.PickupZone != "Alphabet City" {
		t.Errorf("expected pickup zone Alphabet City, got %v", first.PickupZone)
	}
	if first.DropoffBorough == nil || *first.DropoffBorough != "Queens" {
		t.Errorf("expected dropoff borough Queens, got %v", first.DropoffBorough)
	}
	if first.TimeOfDay != models.TimeOfDayMorning || first.PickupHour != 8 || first.IsWeekend {
		t.Errorf("unexpected derived fields: %+v", first.Trip)
	}
	checkFloat(t, "duration", first.TripDurationMinutes, 20)
	checkFloat(t, "speed", first.SpeedMPH, 6)
	if first.TipAmount != nil || first.PaymentType != nil {
		t.Errorf("expected NULL tip and payment, got %v %v", first.TipAmount, first.PaymentType)
	}

	unknown := trips[3]
	if unknown.PickupZone != nil || unknown.PickupBorough != nil {
		t.Errorf("expected nil pickup zone for unknown id, got %v", unknown.PickupZone)
	}
	if unknown.DropoffZone == nil {
		t.Error("expected dropoff zone for known id")
	}

	weekend := trips[2]
	if !weekend.IsWeekend || weekend.TimeOfDay != models.TimeOfDayEvening {
		t.Errorf("expected Saturday evening trip, got %+v", weekend.Trip)
	}
}

func TestGetHourlyInsights(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)
	ctx := context.Background()

	hours, err := db.GetHourlyInsights(ctx, TripFilter{})
	checkNoError(t, err)
	if len(hours) != 3 {
		t.Fatalf("expected 3 hours, got %d: %+v", len(hours), hours)
	}
	if hours[0].PickupHour != 8 || hours[0].TripCount != 2 {
		t.Errorf("unexpected first hour: %+v", hours[0])
	}
	checkFloat(t, "avg fare", hours[0].AvgFare, 15)
	checkFloat(t, "avg duration", hours[0].AvgDuration, 20)
	if hours[1].PickupHour != 18 || hours[2].PickupHour != 23 {
		t.Errorf("hours not ordered: %+v", hours)
	}

	filtered, err := db.GetHourlyInsights(ctx, TripFilter{Borough: "Manhattan"})
	checkNoError(t, err)
	if len(filtered) != 1 || filtered[0].TripCount != 2 {
		t.Errorf("expected only Manhattan pickups, got %+v", filtered)
	}
}

func TestGetHourlyInsights_NullColumns(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)
	ctx := context.Background()

	// A row with no derived features, plus one whose hour is known but whose
	// fare and duration are not.
	_, err := db.conn.ExecContext(ctx, `INSERT INTO trips (id, pickup_datetime, dropoff_datetime, pu_location_id)
		VALUES (100, TIMESTAMP '2024-01-02 05:00:00', TIMESTAMP '2024-01-02 05:10:00', 1)`)
	checkNoError(t, err)
	_, err = db.conn.ExecContext(ctx, `INSERT INTO trips (id, pickup_datetime, dropoff_datetime, pu_location_id, pickup_hour)
		VALUES (101, TIMESTAMP '2024-01-02 05:00:00', TIMESTAMP '2024-01-02 05:10:00', 1, 5)`)
	checkNoError(t, err)

	hours, err := db.GetHourlyInsights(ctx, TripFilter{})
	checkNoError(t, err)
	if len(hours) != 4 {
		t.Fatalf("expected 4 hours, got %d: %+v", len(hours), hours)
	}
	first := hours[0]
	if first.PickupHour != 5 || first.TripCount != 1 {
		t.Errorf("unexpected first hour: %+v", first)
	}
	checkFloat(t, "avg fare", first.AvgFare, 0)
	checkFloat(t, "avg duration", first.AvgDuration, 0)
	for _, h := range hours {
		if h.PickupHour == 0 {
			t.Errorf("trip without pickup hour reported as hour 0: %+v", h)
		}
	}
}

func TestStreamZoneTripCounts(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)
	ctx := context.Background()

	var got []models.ZoneTripCount
	err := db.StreamZoneTripCounts(ctx, TripFilter{}, 1, func(zc models.ZoneTripCount) error {
		got = append(got, zc)
		return nil
	})
	checkNoError(t, err)

	// Zone 999 has no zone row and is excluded.
	sort.Slice(got, func(i, j int) bool { return got[i].LocationID < got[j].LocationID })
	if len(got) != 2 {
		t.Fatalf("expected 2 zones, got %+v", got)
	}
	if got[0].LocationID != 1 || got[0].TripCount != 2 || got[0].ZoneName != "Alphabet City" {
		t.Errorf("unexpected zone 1 row: %+v", got[0])
	}
	checkFloat(t, "zone 1 avg fare", got[0].AvgFare, 15)
	if got[1].Borough != "Queens" || got[1].TripCount != 1 {
		t.Errorf("unexpected zone 2 row: %+v", got[1])
	}
}

func TestStreamZoneTripCounts_Sample(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)

	// Modulus 2 keeps ids 2 and 4; id 4 has no zone.
	var got []models.ZoneTripCount
	err := db.StreamZoneTripCounts(context.Background(), TripFilter{}, 2, func(zc models.ZoneTripCount) error {
		got = append(got, zc)
		return nil
	})
	checkNoError(t, err)
	if len(got) != 1 || got[0].LocationID != 1 || got[0].TripCount != 1 {
		t.Errorf("expected one sampled trip in zone 1, got %+v", got)
	}
}

func TestStreamZoneTripCounts_CallbackError(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)

	stop := errors.New("stop")
	calls := 0
	err := db.StreamZoneTripCounts(context.Background(), TripFilter{}, 1, func(models.ZoneTripCount) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected scan to stop after first row, got %d calls", calls)
	}
}

func TestGetBoroughSummary(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)
	ctx := context.Background()

	full, err := db.GetBoroughSummary(ctx, TripFilter{}, 1)
	checkNoError(t, err)
	if len(full) != 2 {
		t.Fatalf("expected 2 boroughs, got %+v", full)
	}
	if full[0].Borough != "Manhattan" || full[0].TotalTrips != 2 {
		t.Errorf("unexpected Manhattan row: %+v", full[0])
	}
	checkFloat(t, "Manhattan avg distance", full[0].AvgDistance, 2)

	sampled, err := db.GetBoroughSummary(ctx, TripFilter{}, 2)
	checkNoError(t, err)
	if len(sampled) != 1 || sampled[0].TotalTrips != 2 {
		t.Errorf("expected one sampled trip scaled by 2, got %+v", sampled)
	}
}

func TestGetPickupCounts(t *testing.T) {
	db := setupTestDB(t)
	insertFixtureTrips(t, db)

	counts, err := db.GetPickupCounts(context.Background())
	checkNoError(t, err)

	want := map[int]int64{1: 2, 2: 1, 999: 1}
	if len(counts) != len(want) {
		t.Fatalf("expected %v, got %v", want, counts)
	}
	for id, n := range want {
		if counts[id] != n {
			t.Errorf("zone %d: expected %d, got %d", id, n, counts[id])
		}
	}
}

func TestGetSummaryStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	empty, err := db.GetSummaryStats(ctx)
	checkNoError(t, err)
	if empty.TotalTrips != 0 || empty.AvgFare != nil || empty.AvgSpeed != nil {
		t.Errorf("expected zero count and nil averages, got %+v", empty)
	}

	insertFixtureTrips(t, db)
	stats, err := db.GetSummaryStats(ctx)
	checkNoError(t, err)
	if stats.TotalTrips != 4 {
		t.Errorf("expected 4 trips, got %d", stats.TotalTrips)
	}
	if stats.AvgFare == nil {
		t.Fatal("expected avg fare")
	}
	checkFloat(t, "avg fare", *stats.AvgFare, 25)
	checkFloat(t, "avg distance", *stats.AvgDistance, 2)
}

func TestSeedMockData(t *testing.T) {
	db := setupSeededDB(t)
	ctx := context.Background()

	zones, trips, err := db.GetRecordCounts(ctx)
	checkNoError(t, err)
	if zones != int64(len(mockZones)) || trips != MockTripCount {
		t.Errorf("expected %d zones and %d trips, got %d and %d", len(mockZones), MockTripCount, zones, trips)
	}

	// A second seed is a no-op.
	checkNoError(t, db.SeedMockData(ctx))
	_, again, err := db.GetRecordCounts(ctx)
	checkNoError(t, err)
	if again != trips {
		t.Errorf("second seed changed trip count from %d to %d", trips, again)
	}
}

func TestMockTrips_DeterministicAndClean(t *testing.T) {
	a := MockTrips(200)
	b := MockTrips(200)

	if len(a) != 200 {
		t.Fatalf("expected 200 trips, got %d", len(a))
	}
	valid := make(map[int]bool, len(mockZones))
	for _, z := range mockZones {
		valid[z.LocationID] = true
	}
	for i := range a {
		if !a[i].PickupDatetime.Equal(b[i].PickupDatetime) || a[i].FareAmount != b[i].FareAmount {
			t.Fatalf("trip %d differs between runs", i)
		}
		if !IsClean(&a[i]) {
			t.Errorf("trip %d fails cleaning rules: %+v", i, a[i])
		}
		if !valid[a[i].PULocationID] || !valid[a[i].DOLocationID] {
			t.Errorf("trip %d references unknown zone", i)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("sql: database is closed"), true},
		{errors.New("driver: bad connection"), true},
		{errors.New("Binder Error: column not found"), false},
	}
	for _, tt := range tests {
		if got := IsConnectionError(tt.err); got != tt.want {
			t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestConnectionString(t *testing.T) {
	cfg := &config.DatabaseConfig{Path: "/data/trips.duckdb", MaxMemory: "1GB", Threads: 3}
	got := connectionString(cfg)
	for _, want := range []string{
		"/data/trips.duckdb?",
		"threads=3",
		"max_memory=1GB",
		"preserve_insertion_order=false",
		"autoinstall_known_extensions=false",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("connection string %q missing %q", got, want)
		}
	}
}
