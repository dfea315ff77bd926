// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package geo

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tomtom215/tripatlas/internal/logging"
	"github.com/tomtom215/tripatlas/internal/metrics"
)

// Store serves the zone boundary collection from a file, re-reading it only
// when the file's modification time or size changes.
type Store struct {
	path string

	mu      sync.Mutex
	fc      *FeatureCollection
	modTime time.Time
	size    int64

	// Stat of the last version that failed to parse.
	badModTime time.Time
	badSize    int64
}

// NewStore creates a store for path. Nothing is read until the first Get.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current collection. The result is shared and must not be
// modified; use Enrich to derive a response copy.
func (s *Store) Get() (*FeatureCollection, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat geojson %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fc != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return s.fc, nil
	}

	fc, err := LoadFeatureCollection(s.path)
	if err != nil {
		s.badModTime, s.badSize = info.ModTime(), info.Size()
		metrics.GeoJSONReloads.WithLabelValues("failure").Inc()
		return nil, err
	}

	s.fc = fc
	s.modTime = info.ModTime()
	s.size = info.Size()
	metrics.GeoJSONReloads.WithLabelValues("success").Inc()
	logging.Info().Str("path", s.path).Int("features", len(fc.Features)).Msg("Loaded zone boundaries")
	return fc, nil
}

// Available reports whether the file exists and is not a version already
// known to be unparseable. It only stats the file; parsing waits for Get.
func (s *Store) Available() bool {
	info, err := os.Stat(s.path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return !(info.ModTime().Equal(s.badModTime) && info.Size() == s.badSize)
}
