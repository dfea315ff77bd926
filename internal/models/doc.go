// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package models defines the data structures shared by the store, the insights
service and the HTTP API.

  - Zone, Trip, TripDetail: rows of the zones and trips tables
  - HourlyInsight, ZoneTripCount, ZoneRanking, BoroughSummary, SummaryStats: aggregates
  - CleaningReport: result of an ETL run
  - APIResponse, APIError, Metadata: the JSON envelope
*/
package models
