// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

Database:
  - duckdb_query_duration_seconds{operation}
  - duckdb_query_errors_total{operation}

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Top-K selection:
  - topk_candidates_total{selection, outcome}
  - topk_selection_duration_seconds{selection}

Response cache:
  - response_cache_hits_total{endpoint}, response_cache_misses_total{endpoint}
  - response_cache_entries

Circuit breaker:
  - circuit_breaker_state{name}
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

ETL and GeoJSON:
  - etl_rows_dropped_total{step}
  - geojson_reloads_total{result}

System:
  - app_info{version, go_version}
  - app_uptime_seconds

# Example PromQL

	# p95 top-zones latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket{endpoint="/api/insights/top-zones"}[5m]))

	# fraction of top-k candidates rejected at the root
	rate(topk_candidates_total{outcome="rejected"}[5m]) / ignoring(outcome) sum without(outcome) (rate(topk_candidates_total[5m]))
*/
package metrics
