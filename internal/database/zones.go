// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/tripatlas/internal/models"
)

// GetZones returns every taxi zone ordered by location id
func (db *DB) GetZones(ctx context.Context) (zones []models.Zone, err error) {
	defer func(start time.Time) { observe("get_zones", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	zones = []models.Zone{}
	err = db.queryAndScan(ctx, `
		SELECT location_id, COALESCE(borough, ''), COALESCE(zone_name, ''), COALESCE(service_zone, '')
		FROM zones
		ORDER BY location_id`, nil, func(rows *sql.Rows) error {
		var z models.Zone
		if err := rows.Scan(&z.LocationID, &z.Borough, &z.ZoneName, &z.ServiceZone); err != nil {
			return err
		}
		zones = append(zones, z)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get zones: %w", err)
	}
	return zones, nil
}

// InsertZones upserts zones in a single transaction
func (db *DB) InsertZones(ctx context.Context, zones []models.Zone) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO zones (location_id, borough, zone_name, service_zone)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare zone insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, z := range zones {
		if _, err := stmt.ExecContext(ctx, z.LocationID, z.Borough, z.ZoneName, z.ServiceZone); err != nil {
			return fmt.Errorf("insert zone %d: %w", z.LocationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit zones: %w", err)
	}
	return nil
}
