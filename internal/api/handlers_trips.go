// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/tripatlas/internal/validation"
)

// Zones returns every taxi zone ordered by location ID.
//
// Method: GET
// Path: /api/zones
func (h *Handler) Zones(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	zones, err := h.svc.Zones(r.Context())
	if err != nil {
		respondServiceError(w, r, "zones", err)
		return
	}

	resp := success(zones, start, false)
	count := len(zones)
	resp.Metadata.Count = &count
	respondJSON(w, r, http.StatusOK, resp)
}

// Trips returns filtered trips joined with pickup and dropoff zone names.
//
// Method: GET
// Path: /api/trips
//
// Query Parameters:
//   - hour: pickup hour 0-23
//   - borough: pickup borough
//   - time_of_day: Morning, Afternoon, Evening or Night
//   - limit: 1..api.max_trip_limit (default api.default_trip_limit)
func (h *Handler) Trips(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	q, verr := validation.ParseTripQuery(r.URL.Query(), h.config.API.DefaultTripLimit, h.config.API.MaxTripLimit)
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	trips, err := h.svc.Trips(r.Context(), toTripFilter(q.FilterQuery, q.Limit))
	if err != nil {
		respondServiceError(w, r, "trips", err)
		return
	}

	resp := success(trips, start, false)
	count := len(trips)
	resp.Metadata.Count = &count
	respondJSON(w, r, http.StatusOK, resp)
}
