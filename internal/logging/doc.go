// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

// Package logging provides centralized zerolog-based structured logging for Tripatlas.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("path", cfg.Database.Path).Msg("Opening database")
//	logging.Error().Err(err).Msg("Query failed")
//
// Request-scoped logging picks up the request ID set by the HTTP middleware:
//
//	logging.Ctx(r.Context()).Warn().Msg("GeoJSON unavailable")
//
// # Configuration
//
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// # slog
//
// NewSlogLogger returns a *slog.Logger that writes through zerolog. The
// supervisor tree uses it for its sutureslog event hook.
//
// Always terminate event chains with Msg() or Send(); an unterminated event is
// never written.
package logging
