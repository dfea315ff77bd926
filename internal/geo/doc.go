// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

// Package geo loads NYC taxi zone boundaries as GeoJSON and joins them with
// per-zone trip counts for the choropleth map.
//
// The boundary file is expected in WGS84 (EPSG:4326). Converting the TLC
// shapefile is a one-off offline step, for example:
//
//	ogr2ogr -f GeoJSON -t_srs EPSG:4326 taxi_zones.geojson taxi_zones.shp
package geo
