// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package database

import (
	"github.com/tomtom215/tripatlas/internal/database/query"
)

// TripFilter narrows trip and insight queries. Zero values mean "no filter".
// Filters combine with AND; Borough matches the pickup zone's borough.
//
// Example:
//
//	hour := 8
//	filter := TripFilter{Hour: &hour, Borough: "Manhattan", Limit: 100}
//
// Generated SQL (aliases: t = trips, z = pickup zone):
//
//	WHERE t.pickup_hour = ? AND z.borough = ?
type TripFilter struct {
	Hour      *int   // pickup hour 0-23; nil for any hour
	Borough   string // pickup borough
	TimeOfDay string // Morning, Afternoon, Evening or Night
	Limit     int    // GetTrips only; 0 uses the configured default
}

// IsEmpty reports whether no filter dimension is set (Limit is ignored).
func (f TripFilter) IsEmpty() bool {
	return f.Hour == nil && f.Borough == "" && f.TimeOfDay == ""
}

// apply adds the filter's conditions to wb, using tripAlias for the trips
// table and zoneAlias for the pickup zone join.
func (f TripFilter) apply(wb *query.WhereBuilder, tripAlias, zoneAlias string) *query.WhereBuilder {
	return wb.
		AddHour(tripAlias+".pickup_hour", f.Hour).
		AddEquals(tripAlias+".time_of_day", f.TimeOfDay).
		AddEquals(zoneAlias+".borough", f.Borough)
}

// buildWhere returns the full WHERE clause for f on the t/z aliases,
// optionally restricted to the id sample.
func (f TripFilter) buildWhere(sampleModulus int) (string, []interface{}) {
	wb := query.NewWhereBuilder().AddSample("t.id", sampleModulus)
	return f.apply(wb, "t", "z").BuildWithPrefix()
}
