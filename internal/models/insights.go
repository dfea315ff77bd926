// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package models

import (
	"fmt"
	"io"
)

// HourlyInsight aggregates trips by pickup hour.
type HourlyInsight struct {
	PickupHour  int     `json:"pickup_hour"`
	TripCount   int64   `json:"trip_count"`
	AvgFare     float64 `json:"avg_fare"`
	AvgDuration float64 `json:"avg_duration"`
}

// ZoneTripCount is one pickup zone's aggregate on the sampled trips.
// It is the input row for the top-zones ranking.
type ZoneTripCount struct {
	LocationID int
	ZoneName   string
	Borough    string
	TripCount  int64
	AvgFare    float64
}

// ZoneRanking is one entry of the busiest-zones ranking, highest trip count first.
type ZoneRanking struct {
	Rank       int     `json:"rank"`
	LocationID int     `json:"location_id"`
	ZoneName   string  `json:"zone_name"`
	Borough    string  `json:"borough"`
	TripCount  int64   `json:"trip_count"`
	AvgFare    float64 `json:"avg_fare"`
}

// BoroughSummary aggregates sampled trips by pickup borough.
// TotalTrips is the sample count scaled back up by the sample modulus.
type BoroughSummary struct {
	Borough     string  `json:"borough"`
	TotalTrips  int64   `json:"total_trips"`
	AvgDistance float64 `json:"avg_distance"`
	AvgFare     float64 `json:"avg_fare"`
	AvgDuration float64 `json:"avg_duration"`
}

// CleaningStep records how many raw rows one cleaning rule removed.
type CleaningStep struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RowsDropped int64  `json:"rows_dropped"`
}

// CleaningReport summarizes one ETL run.
type CleaningReport struct {
	RunID     string         `json:"run_id"`
	RawRows   int64          `json:"raw_rows"`
	Steps     []CleaningStep `json:"steps"`
	FinalRows int64          `json:"final_rows"`
}

// TotalDropped returns the number of raw rows removed across all steps.
func (r *CleaningReport) TotalDropped() int64 {
	var total int64
	for _, s := range r.Steps {
		total += s.RowsDropped
	}
	return total
}

// WriteLog writes the human-readable cleaning log: the raw row count, one
// line per step and the final clean row count.
func (r *CleaningReport) WriteLog(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Raw trips loaded: %d\n", r.RawRows); err != nil {
		return err
	}
	for _, s := range r.Steps {
		if _, err := fmt.Fprintf(w, "%s: %d\n", s.Description, s.RowsDropped); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Final clean rows: %d\n", r.FinalRows)
	return err
}
