// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package geo

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
)

// LocationIDProperty is the feature property holding the TLC zone id.
const LocationIDProperty = "LocationID"

// TripCountProperty is the property Enrich adds to each feature.
const TripCountProperty = "trip_count"

// ErrFeatureCollection is returned when a document is not a GeoJSON FeatureCollection.
var ErrFeatureCollection = errors.New("not a GeoJSON FeatureCollection")

// FeatureCollection is a GeoJSON FeatureCollection. Geometry and any foreign
// members are kept as raw JSON and written back unchanged.
type FeatureCollection struct {
	Type     string          `json:"type"`
	Name     string          `json:"name,omitempty"`
	CRS      json.RawMessage `json:"crs,omitempty"`
	Features []Feature       `json:"features"`
}

// Feature is a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	ID         json.RawMessage        `json:"id,omitempty"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   json.RawMessage        `json:"geometry"`
}

// LocationID returns the feature's zone id. Ids stored as JSON numbers or
// numeric strings are accepted.
func (f *Feature) LocationID() (int, bool) {
	switch v := f.Properties[LocationIDProperty].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := strconv.Atoi(v.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

// Parse decodes a FeatureCollection.
func Parse(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q", ErrFeatureCollection, fc.Type)
	}
	for i := range fc.Features {
		if fc.Features[i].Properties == nil {
			fc.Features[i].Properties = map[string]interface{}{}
		}
	}
	return &fc, nil
}

// LoadFeatureCollection reads and decodes the GeoJSON file at path.
func LoadFeatureCollection(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("read geojson %s: %w", path, err)
	}
	return Parse(data)
}

// Enrich returns a copy of fc whose features carry a trip_count property
// looked up by LocationID, 0 when the zone has no trips or no usable id.
// fc itself is not modified; geometry is shared since it is never mutated.
func Enrich(fc *FeatureCollection, counts map[int]int64) *FeatureCollection {
	out := &FeatureCollection{
		Type:     fc.Type,
		Name:     fc.Name,
		CRS:      fc.CRS,
		Features: make([]Feature, len(fc.Features)),
	}

	for i := range fc.Features {
		src := &fc.Features[i]
		props := make(map[string]interface{}, len(src.Properties)+1)
		for k, v := range src.Properties {
			props[k] = v
		}

		var count int64
		if id, ok := src.LocationID(); ok {
			count = counts[id]
		}
		props[TripCountProperty] = count

		out.Features[i] = Feature{
			Type:       src.Type,
			ID:         src.ID,
			Properties: props,
			Geometry:   src.Geometry,
		}
	}
	return out
}
