// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import "errors"

// Error codes carried in models.APIError.Code.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDatabase           = "DATABASE_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "QUERY_TIMEOUT"
	CodeGeoJSONUnavailable = "GEOJSON_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrGeoJSONNotConfigured is returned when no boundary file path is set.
var ErrGeoJSONNotConfigured = errors.New("geojson path not configured")
