// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package database

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tomtom215/tripatlas/internal/logging"
)

var (
	// ErrUnsupportedFormat is returned when a raw trip file is neither parquet nor CSV.
	ErrUnsupportedFormat = errors.New("unsupported trip file format")

	// ErrNoZones is returned when trips are loaded before the zone lookup.
	ErrNoZones = errors.New("zones table is empty; load the zone lookup first")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, logger *slog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		if logger != nil {
			logger.Error("failed to close resource",
				"type", resourceType,
				"error", err)
		} else {
			logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
		}
	}
}

// closeQuietly closes a resource in error paths where Close errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
