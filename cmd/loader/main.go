// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

// Command loader populates the Tripatlas database: it loads the taxi zone
// lookup, cleans a raw trip file into the trips table, writes the cleaning
// log and rebuilds indexes.
//
// Paths default to ZONE_LOOKUP_PATH, RAW_TRIPS_PATH and CLEANING_LOG_PATH and
// can be overridden per run:
//
//	loader -zones taxi_zone_lookup.csv -trips yellow_tripdata_2023-01.parquet -log cleaning_log.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tripatlas/internal/config"
	"github.com/tomtom215/tripatlas/internal/database"
	"github.com/tomtom215/tripatlas/internal/logging"
	"github.com/tomtom215/tripatlas/internal/models"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Fatal().Err(err).Msg("Load failed")
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	opts, err := parseFlags(args, cfg.ETL)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	start := time.Now()
	loader := database.NewLoader(db)
	ctx = logging.ContextWithRunID(ctx, loader.RunID())

	if _, err := loader.LoadZones(ctx, opts.ZoneLookupPath); err != nil {
		return err
	}

	report, err := loader.CleanAndLoadTrips(ctx, opts.RawTripsPath)
	if err != nil {
		return err
	}

	if err := writeCleaningLog(opts.CleaningLogPath, report); err != nil {
		return err
	}

	if err := loader.Optimize(ctx); err != nil {
		return err
	}

	logging.Ctx(ctx).Info().
		Int64("raw_rows", report.RawRows).
		Int64("dropped", report.TotalDropped()).
		Int64("final_rows", report.FinalRows).
		Dur("elapsed", time.Since(start)).
		Str("cleaning_log", opts.CleaningLogPath).
		Msg("Load complete")
	return nil
}

// parseFlags overlays command-line paths on the configured ETL paths.
func parseFlags(args []string, defaults config.ETLConfig) (config.ETLConfig, error) {
	opts := defaults

	fs := flag.NewFlagSet("loader", flag.ContinueOnError)
	fs.StringVar(&opts.ZoneLookupPath, "zones", defaults.ZoneLookupPath, "taxi zone lookup CSV")
	fs.StringVar(&opts.RawTripsPath, "trips", defaults.RawTripsPath, "raw trip file (.parquet or .csv)")
	fs.StringVar(&opts.CleaningLogPath, "log", defaults.CleaningLogPath, "cleaning log output path")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.ZoneLookupPath == "" {
		return opts, fmt.Errorf("zone lookup path is required (-zones or ZONE_LOOKUP_PATH)")
	}
	if opts.RawTripsPath == "" {
		return opts, fmt.Errorf("raw trips path is required (-trips or RAW_TRIPS_PATH)")
	}
	if opts.CleaningLogPath == "" {
		return opts, fmt.Errorf("cleaning log path is required (-log or CLEANING_LOG_PATH)")
	}
	return opts, nil
}

func writeCleaningLog(path string, report *models.CleaningReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cleaning log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close cleaning log: %w", cerr)
		}
	}()

	if err := report.WriteLog(f); err != nil {
		return fmt.Errorf("write cleaning log: %w", err)
	}
	return nil
}
