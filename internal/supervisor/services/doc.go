// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package services adapts Tripatlas components to suture's Serve(ctx) error
model.

HTTPServerService wraps an *http.Server: ListenAndServe runs in a goroutine
and context cancellation triggers Shutdown with a bounded drain timeout.

PeriodicService runs a Task on a ticker. Task errors are logged, not
returned, so one bad run does not count as a service failure. Constructors
cover the server's maintenance work:

  - NewCheckpointService: flushes the DuckDB WAL
  - NewCacheSweeper: drops expired response cache entries
  - NewUptimeService: refreshes the app_uptime_seconds gauge
*/
package services
