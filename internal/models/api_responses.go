// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package models

import (
	"time"
)

// APIResponse is the envelope every JSON endpoint returns, apart from the raw
// GeoJSON document served by /api/geojson.
//
// Status is "success" or "error". Error is set only when Status is "error".
//
//	{
//	  "status": "success",
//	  "data": [{"location_id": 237, "zone_name": "Upper East Side South", "trip_count": 4210}],
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z", "query_time_ms": 18}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing and cache information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Count       *int      `json:"count,omitempty"`
}

// APIError represents a structured error.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid query parameters (400)
//   - DATABASE_ERROR: query failed (500)
//   - SERVICE_UNAVAILABLE: store circuit open (503)
//   - QUERY_TIMEOUT: query exceeded the server timeout (504)
//   - GEOJSON_UNAVAILABLE: zone boundaries could not be loaded (404)
//   - RATE_LIMIT_EXCEEDED: too many requests (429)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
