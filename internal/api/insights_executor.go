// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/tripatlas/internal/cache"
	"github.com/tomtom215/tripatlas/internal/metrics"
)

// InsightQueryFunc executes one insight query. The result must be
// JSON-serializable; it is cached and returned inside the envelope.
type InsightQueryFunc func(ctx context.Context) (interface{}, error)

// executeCached implements the cache-first flow shared by the insight handlers:
//
//  1. Derive a cache key from endpoint + validated parameters
//  2. Return the cached result if present (metadata.cached = true)
//  3. Otherwise run queryFunc, cache the result and respond
//
// Errors are never cached.
func (h *Handler) executeCached(
	w http.ResponseWriter,
	r *http.Request,
	endpoint string,
	params interface{},
	queryFunc InsightQueryFunc,
) {
	start := time.Now()
	key := cache.GenerateKey(endpoint, params)

	if cached, found := h.cache.Get(key); found {
		metrics.RecordCacheLookup(endpoint, true)
		respondJSON(w, r, http.StatusOK, success(cached, start, true))
		return
	}
	metrics.RecordCacheLookup(endpoint, false)

	data, err := queryFunc(r.Context())
	if err != nil {
		respondServiceError(w, r, endpoint, err)
		return
	}

	h.cache.Set(key, data)
	metrics.CacheEntries.Set(float64(h.cache.Len()))

	respondJSON(w, r, http.StatusOK, success(data, start, false))
}
