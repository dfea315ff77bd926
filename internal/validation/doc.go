// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

// Package validation validates API query parameters using go-playground/validator v10.
//
// A single validator instance is created lazily and shared. Field errors are
// reported under their query parameter names (taken from the `query` struct tag)
// and translated into the VALIDATION_ERROR shape of the API envelope.
//
// # Request Types
//
//   - FilterQuery: hour (0-23), borough, time_of_day (Morning|Afternoon|Evening|Night)
//   - TripQuery: FilterQuery plus limit (1..configured max)
//   - TopZonesQuery: FilterQuery plus k (0..configured max)
//
// Upper bounds that come from configuration are checked after the tag pass, so a
// request gets either a tag error or a bound error, never both.
//
// # Usage
//
//	q, verr := validation.ParseTripQuery(r.URL.Query(), cfg.API.DefaultTripLimit, cfg.API.MaxTripLimit)
//	if verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
