// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tripatlas/internal/api"
	"github.com/tomtom215/tripatlas/internal/config"
	"github.com/tomtom215/tripatlas/internal/database"
	"github.com/tomtom215/tripatlas/internal/geo"
	"github.com/tomtom215/tripatlas/internal/insights"
	"github.com/tomtom215/tripatlas/internal/logging"
	"github.com/tomtom215/tripatlas/internal/metrics"
	"github.com/tomtom215/tripatlas/internal/supervisor"
	"github.com/tomtom215/tripatlas/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	checkpointInterval = 5 * time.Minute
	uptimeInterval     = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Tripatlas")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin in production")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock data seeding enabled (SEED_MOCK_DATA=true)")
		if err := db.SeedMockData(context.Background()); err != nil {
			return err
		}
	}

	zones, trips, err := db.GetRecordCounts(context.Background())
	if err != nil {
		logging.Warn().Err(err).Msg("Could not read record counts")
	} else {
		logging.Info().Int64("zones", zones).Int64("trips", trips).Msg("Database ready")
		if trips == 0 {
			logging.Warn().Msg("No trips loaded; run the loader before serving insights")
		}
	}

	svc := insights.NewService(db, cfg.Insights)
	geoStore := geo.NewStore(cfg.Insights.GeoJSONPath)
	if !geoStore.Available() {
		logging.Warn().Str("path", cfg.Insights.GeoJSONPath).Msg("GeoJSON file not found; /api/geojson will return 404")
	}

	handler := api.NewHandler(svc, geoStore, cfg, version)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	tree.AddDataService(services.NewCheckpointService(db, checkpointInterval))
	if cfg.Insights.CacheTTL > 0 {
		tree.AddDataService(services.NewCacheSweeper(handler.Cache(), cfg.Insights.CacheTTL))
	}
	tree.AddDataService(services.NewUptimeService(startTime, uptimeInterval))
	tree.AddAPIService(services.NewHTTPServerService(server.Addr, server, services.DefaultShutdownTimeout))

	metrics.SetAppInfo(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, s := range unstopped {
			logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Tripatlas stopped")
	return nil
}
