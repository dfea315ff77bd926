// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tripatlas/internal/database"
	"github.com/tomtom215/tripatlas/internal/insights"
	"github.com/tomtom215/tripatlas/internal/logging"
	"github.com/tomtom215/tripatlas/internal/models"
	"github.com/tomtom215/tripatlas/internal/validation"
)

const (
	contentTypeJSON   = "application/json"
	cacheControlData  = "public, max-age=60"
	cacheControlNever = "no-store"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends the envelope. For 200 responses the ETag is computed over
// the data payload only, so the changing timestamp does not defeat
// If-None-Match revalidation.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	data, err := json.Marshal(response.Data)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if status == http.StatusOK {
		etag := generateETag(data)
		w.Header().Set("ETag", etag)
		setDefaultCacheControl(w, cacheControlData)
		if notModified(r, etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	} else {
		w.Header().Set("Cache-Control", cacheControlNever)
	}

	envelope := *response
	envelope.Data = json.RawMessage(data)
	body, err := json.Marshal(&envelope)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeBody(w, r, status, contentTypeJSON, body)
}

// respondRaw sends a pre-encoded document with the same ETag handling as respondJSON.
func respondRaw(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	etag := generateETag(body)
	w.Header().Set("ETag", etag)
	setDefaultCacheControl(w, cacheControlData)
	if notModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeBody(w, r, http.StatusOK, contentType, body)
}

// setDefaultCacheControl leaves a handler-chosen Cache-Control untouched.
func setDefaultCacheControl(w http.ResponseWriter, value string) {
	if w.Header().Get("Cache-Control") == "" {
		w.Header().Set("Cache-Control", value)
	}
}

func writeBody(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Vary", "Accept-Encoding")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write response")
	}
}

// generateETag returns a strong ETag from an FNV-1a hash of data.
func generateETag(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf(`"%016x"`, h.Sum64())
}

// notModified reports whether If-None-Match matches etag.
func notModified(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// success wraps data in a success envelope.
func success(data interface{}, start time.Time, cached bool) *models.APIResponse {
	return &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	}
}

// respondError sends an error envelope. err, when set, is logged but never
// exposed to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondErrorDetails(w, r, status, code, message, nil, err)
}

func respondErrorDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("path", r.URL.Path).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondValidationError sends a 400 VALIDATION_ERROR with field details.
func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondErrorDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
}

// respondServiceError maps insights and store errors to HTTP responses.
func respondServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, insights.ErrUnavailable):
		w.Header().Set("Retry-After", "30")
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable,
			"Trip store temporarily unavailable", err)
	case errors.Is(err, insights.ErrInvalidK):
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		logging.Ctx(r.Context()).Debug().Str("operation", operation).Msg("Request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, CodeTimeout,
			fmt.Sprintf("Query timed out: %s", operation), err)
	default:
		respondError(w, r, http.StatusInternalServerError, CodeDatabase,
			fmt.Sprintf("Failed to execute query: %s", operation), err)
	}
}

// toTripFilter converts validated query parameters into a store filter.
func toTripFilter(q validation.FilterQuery, limit int) database.TripFilter {
	return database.TripFilter{
		Hour:      q.Hour,
		Borough:   q.Borough,
		TimeOfDay: q.TimeOfDay,
		Limit:     limit,
	}
}
