// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package middleware provides HTTP middleware shared by the API router.

Components:

  - RequestID: propagates or generates X-Request-ID and stores it in the
    logging context, so logging.Ctx(r.Context()) carries request_id
  - AccessLog: one structured log line per request, warn above a slow threshold
  - PrometheusMetrics: request count, duration and in-flight gauge labelled by
    chi route pattern

All middleware use the func(http.Handler) http.Handler shape and can be passed
to chi's r.Use directly. Status capture goes through chi's WrapResponseWriter.

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(middleware.DefaultSlowThreshold))
	r.Route("/api", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Get("/zones", h.Zones)
	})

See Also:

  - internal/api: router and handlers wrapped by this middleware
  - internal/metrics: Prometheus metric definitions
*/
package middleware
