// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import (
	"time"

	"github.com/tomtom215/tripatlas/internal/cache"
	"github.com/tomtom215/tripatlas/internal/config"
	"github.com/tomtom215/tripatlas/internal/geo"
	"github.com/tomtom215/tripatlas/internal/insights"
	"github.com/tomtom215/tripatlas/internal/metrics"
)

// Handler serves the trip and insight endpoints.
type Handler struct {
	svc       *insights.Service
	geo       *geo.Store
	config    *config.Config
	cache     *cache.Cache[interface{}]
	version   string
	startTime time.Time
}

// NewHandler creates a handler with all required dependencies.
//
// Dependencies:
//   - svc: insights service wrapping the trip store behind a circuit breaker
//   - geoStore: zone boundary file for /api/geojson (nil disables the endpoint)
//   - cfg: application configuration (limits, top-k bounds, cache TTL)
//   - version: reported by /api/health
//
// The response cache uses insights.cache_ttl and is swept by the supervisor.
//
// Example:
//
//	handler := api.NewHandler(svc, geo.NewStore(cfg.Insights.GeoJSONPath), cfg, version)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(svc *insights.Service, geoStore *geo.Store, cfg *config.Config, version string) *Handler {
	return &Handler{
		svc:       svc,
		geo:       geoStore,
		config:    cfg,
		cache:     cache.New[interface{}](cfg.Insights.CacheTTL),
		version:   version,
		startTime: time.Now(),
	}
}

// Cache exposes the response cache so the supervisor can sweep it.
func (h *Handler) Cache() *cache.Cache[interface{}] {
	return h.cache
}

// ClearCache drops every cached insight response, for use after a reload.
func (h *Handler) ClearCache() {
	h.cache.Clear()
	metrics.CacheEntries.Set(0)
}
