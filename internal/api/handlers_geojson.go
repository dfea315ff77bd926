// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tripatlas/internal/geo"
)

// errGeoJSONLoad marks a failure on the boundary-file side of the fan-out.
var errGeoJSONLoad = errors.New("geojson load failed")

// GeoJSON returns the taxi zone boundaries as a raw FeatureCollection with a
// trip_count property added to every feature.
//
// Method: GET
// Path: /api/geojson
//
// The boundary file and the per-zone pickup counts are fetched concurrently.
// Unlike the other endpoints the body is the GeoJSON document itself, not the
// envelope, so mapping libraries can consume it directly. A missing or
// malformed file yields 404 GEOJSON_UNAVAILABLE.
func (h *Handler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	if h.geo == nil {
		respondError(w, r, http.StatusNotFound, CodeGeoJSONUnavailable,
			"Zone boundaries are not available", ErrGeoJSONNotConfigured)
		return
	}

	var (
		fc     *geo.FeatureCollection
		counts map[int]int64
	)

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		loaded, err := h.geo.Get()
		if err != nil {
			return errors.Join(errGeoJSONLoad, err)
		}
		fc = loaded
		return nil
	})
	g.Go(func() (err error) {
		counts, err = h.svc.PickupCounts(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, errGeoJSONLoad) {
			respondError(w, r, http.StatusNotFound, CodeGeoJSONUnavailable,
				"Zone boundaries are not available", err)
			return
		}
		respondServiceError(w, r, "geojson", err)
		return
	}

	body, err := json.Marshal(geo.Enrich(fc, counts))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal,
			"Failed to encode zone boundaries", err)
		return
	}

	respondRaw(w, r, "application/geo+json", body)
}

// geoJSONAvailable reports whether the boundary file is present and not known
// to be unparseable. It does not read the file.
func (h *Handler) geoJSONAvailable() bool {
	return h.geo != nil && h.geo.Available()
}
