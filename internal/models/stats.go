// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package models

// HealthStatus is returned by /api/health.
type HealthStatus struct {
	Status            string  `json:"status"` // "healthy" or "degraded"
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	GeoJSONLoaded     bool    `json:"geojson_loaded"`
	CircuitState      string  `json:"circuit_state"`
	Uptime            float64 `json:"uptime_seconds"`
}

// SummaryStats holds the headline numbers for the dashboard cards.
// Averages are nil when the trips table is empty.
type SummaryStats struct {
	TotalTrips  int64    `json:"total_trips"`
	AvgFare     *float64 `json:"avg_fare"`
	AvgDistance *float64 `json:"avg_distance"`
	AvgSpeed    *float64 `json:"avg_speed"`
}
