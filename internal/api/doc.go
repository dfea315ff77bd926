// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package api provides the HTTP interface for taxi trip analytics.

Routing uses chi. Every JSON endpoint returns the models.APIResponse envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": ..., "query_time_ms": 12, "cached": true}}

/api/geojson is the exception: it returns the enriched FeatureCollection
itself so mapping libraries can load it directly.

# Endpoints

	GET /api/health                    health summary (database, circuit, geojson)
	GET /api/health/live               liveness probe
	GET /api/health/ready              readiness probe (503 until the store answers)
	GET /api/zones                     all taxi zones
	GET /api/trips                     filtered trips with zone names
	GET /api/insights/hourly           per-hour counts and averages
	GET /api/insights/top-zones        k busiest pickup zones via bounded top-k selection
	GET /api/insights/borough-summary  per-borough totals on the id sample
	GET /api/insights/overview         summary, hourly, boroughs and top zones in one call
	GET /api/stats/summary             headline totals
	GET /api/geojson                   zone boundaries with trip_count per feature
	GET /metrics                       Prometheus exposition

Filter parameters (hour, borough, time_of_day, limit, k) are parsed and
validated by internal/validation; failures return 400 VALIDATION_ERROR with
per-field details.

# Middleware

Global: request ID, RealIP, access log, panic recovery, CORS, gzip.
Data routes add IP rate limiting (429 RATE_LIMIT_EXCEEDED), security headers,
Prometheus metrics and a request timeout.

# Caching

Insight responses are cached in memory keyed by endpoint and validated
parameters, with the TTL from insights.cache_ttl. Successful responses carry
an ETag computed over the data payload; a matching If-None-Match yields 304.

# Errors

  - insights.ErrUnavailable (circuit open): 503 SERVICE_UNAVAILABLE with Retry-After
  - context deadline: 504 QUERY_TIMEOUT
  - other store failures: 500 DATABASE_ERROR; details are logged, not returned
*/
package api
