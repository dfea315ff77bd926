// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

// Package insights answers the dashboard's questions over the trip store.
//
// The busiest-zones ranking streams per-zone counts out of DuckDB without an
// ORDER BY and keeps the k largest in a topk.Selector, so memory stays
// bounded by k no matter how many zones match the filter.
//
// All store access goes through a sony/gobreaker circuit breaker named
// "trip-store". While it is open, calls fail immediately with ErrUnavailable,
// which the API maps to 503.
package insights
