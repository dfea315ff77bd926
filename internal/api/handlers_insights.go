// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/tripatlas/internal/validation"
)

// Insight endpoints share the trip filter parameters and go through the
// response cache:
//   - InsightsHourly: trip count, average fare and duration per pickup hour
//   - InsightsTopZones: the k busiest pickup zones, ranked by a bounded selector
//   - InsightsBoroughSummary: sample-scaled totals and averages per borough
//   - InsightsOverview: all of the above plus headline stats in one round trip
//   - StatsSummary: headline totals over the full table

// InsightsHourly handles GET /api/insights/hourly.
func (h *Handler) InsightsHourly(w http.ResponseWriter, r *http.Request) {
	q, verr := validation.ParseFilterQuery(r.URL.Query())
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	h.executeCached(w, r, "insights_hourly", q, func(ctx context.Context) (interface{}, error) {
		return h.svc.Hourly(ctx, toTripFilter(q, 0))
	})
}

// InsightsTopZones handles GET /api/insights/top-zones.
//
// Query Parameters: the shared filter plus k (0..insights.max_top_zones_k,
// default insights.top_zones_k). Results are ordered by trip count
// descending with rank starting at 1.
func (h *Handler) InsightsTopZones(w http.ResponseWriter, r *http.Request) {
	q, verr := validation.ParseTopZonesQuery(r.URL.Query(), h.config.Insights.TopZonesK, h.config.Insights.MaxTopZonesK)
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	h.executeCached(w, r, "insights_top_zones", q, func(ctx context.Context) (interface{}, error) {
		return h.svc.TopZones(ctx, toTripFilter(q.FilterQuery, 0), q.K)
	})
}

// InsightsBoroughSummary handles GET /api/insights/borough-summary.
func (h *Handler) InsightsBoroughSummary(w http.ResponseWriter, r *http.Request) {
	q, verr := validation.ParseFilterQuery(r.URL.Query())
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	h.executeCached(w, r, "insights_borough_summary", q, func(ctx context.Context) (interface{}, error) {
		return h.svc.BoroughSummary(ctx, toTripFilter(q, 0))
	})
}

// InsightsOverview handles GET /api/insights/overview.
func (h *Handler) InsightsOverview(w http.ResponseWriter, r *http.Request) {
	q, verr := validation.ParseFilterQuery(r.URL.Query())
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	h.executeCached(w, r, "insights_overview", q, func(ctx context.Context) (interface{}, error) {
		return h.svc.Overview(ctx, toTripFilter(q, 0))
	})
}

// StatsSummary handles GET /api/stats/summary.
func (h *Handler) StatsSummary(w http.ResponseWriter, r *http.Request) {
	h.executeCached(w, r, "stats_summary", nil, func(ctx context.Context) (interface{}, error) {
		return h.svc.Summary(ctx)
	})
}
