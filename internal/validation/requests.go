// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FilterQuery holds the filter parameters shared by the trip and insight endpoints.
type FilterQuery struct {
	Hour      *int   `query:"hour" validate:"omitempty,min=0,max=23"`
	Borough   string `query:"borough" validate:"omitempty,max=64,printascii"`
	TimeOfDay string `query:"time_of_day" validate:"omitempty,oneof=Morning Afternoon Evening Night"`
}

// TripQuery is the parameter set for GET /api/trips.
type TripQuery struct {
	FilterQuery
	Limit int `query:"limit" validate:"min=1"`
}

// TopZonesQuery is the parameter set for the top-zones and overview endpoints.
type TopZonesQuery struct {
	FilterQuery
	K int `query:"k" validate:"min=0"`
}

// ParseFilterQuery reads and validates the shared filter parameters.
func ParseFilterQuery(values url.Values) (FilterQuery, *RequestValidationError) {
	q, verr := parseFilter(values)
	if verr != nil {
		return q, verr
	}
	return q, ValidateStruct(&q)
}

// ParseTripQuery reads the filter plus limit. A missing limit takes defaultLimit;
// anything above maxLimit is rejected rather than clamped.
func ParseTripQuery(values url.Values, defaultLimit, maxLimit int) (TripQuery, *RequestValidationError) {
	var q TripQuery
	var verr *RequestValidationError

	if q.FilterQuery, verr = parseFilter(values); verr != nil {
		return q, verr
	}
	if q.Limit, verr = parseInt(values, "limit", defaultLimit); verr != nil {
		return q, verr
	}
	if verr = ValidateStruct(&q); verr != nil {
		return q, verr
	}
	return q, checkMax("limit", q.Limit, maxLimit)
}

// ParseTopZonesQuery reads the filter plus k, bounded by maxK.
func ParseTopZonesQuery(values url.Values, defaultK, maxK int) (TopZonesQuery, *RequestValidationError) {
	var q TopZonesQuery
	var verr *RequestValidationError

	if q.FilterQuery, verr = parseFilter(values); verr != nil {
		return q, verr
	}
	if q.K, verr = parseInt(values, "k", defaultK); verr != nil {
		return q, verr
	}
	if verr = ValidateStruct(&q); verr != nil {
		return q, verr
	}
	return q, checkMax("k", q.K, maxK)
}

func parseFilter(values url.Values) (FilterQuery, *RequestValidationError) {
	q := FilterQuery{
		Borough:   strings.TrimSpace(values.Get("borough")),
		TimeOfDay: strings.TrimSpace(values.Get("time_of_day")),
	}

	if raw := strings.TrimSpace(values.Get("hour")); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil {
			return q, NewFieldError("hour", "number", "", raw, "hour must be an integer")
		}
		q.Hour = &hour
	}
	return q, nil
}

func parseInt(values url.Values, name string, fallback int) (int, *RequestValidationError) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewFieldError(name, "number", "", raw, name+" must be an integer")
	}
	return n, nil
}

func checkMax(field string, value, limit int) *RequestValidationError {
	if value <= limit {
		return nil
	}
	param := strconv.Itoa(limit)
	return NewFieldError(field, "max", param, value, fmt.Sprintf("%s must be at most %s", field, param))
}
