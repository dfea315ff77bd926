// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tripatlas/internal/config"
	"github.com/tomtom215/tripatlas/internal/database"
	"github.com/tomtom215/tripatlas/internal/logging"
	"github.com/tomtom215/tripatlas/internal/metrics"
	"github.com/tomtom215/tripatlas/internal/models"
	"github.com/tomtom215/tripatlas/internal/topk"
)

var (
	// ErrUnavailable is returned while the store circuit is open.
	ErrUnavailable = errors.New("trip store unavailable")

	// ErrInvalidK is returned for a top-zones k outside [0, max_top_zones_k].
	ErrInvalidK = errors.New("k out of range")
)

// Store is the subset of *database.DB the service reads from.
type Store interface {
	Ping(ctx context.Context) error
	GetZones(ctx context.Context) ([]models.Zone, error)
	GetTrips(ctx context.Context, filter database.TripFilter) ([]models.TripDetail, error)
	GetHourlyInsights(ctx context.Context, filter database.TripFilter) ([]models.HourlyInsight, error)
	StreamZoneTripCounts(ctx context.Context, filter database.TripFilter, sampleModulus int, fn func(models.ZoneTripCount) error) error
	GetBoroughSummary(ctx context.Context, filter database.TripFilter, sampleModulus int) ([]models.BoroughSummary, error)
	GetPickupCounts(ctx context.Context) (map[int]int64, error)
	GetSummaryStats(ctx context.Context) (*models.SummaryStats, error)
}

// ZoneLabel is the payload carried through top-zone selection.
type ZoneLabel struct {
	ZoneName string
	Borough  string
	AvgFare  float64
}

// Overview bundles the dashboard aggregates for one filter.
type Overview struct {
	Summary  *models.SummaryStats    `json:"summary"`
	Hourly   []models.HourlyInsight  `json:"hourly"`
	Boroughs []models.BoroughSummary `json:"boroughs"`
	TopZones []models.ZoneRanking    `json:"top_zones"`
}

// Service answers trip and insight queries. Every store call runs through a
// circuit breaker so a failing store is shed quickly instead of piling up
// requests behind query timeouts.
type Service struct {
	store Store
	cfg   config.InsightsConfig
	cb    *gobreaker.CircuitBreaker[interface{}]
	name  string
}

// NewService creates a service over store.
func NewService(store Store, cfg config.InsightsConfig) *Service {
	const cbName = "trip-store"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		// Opens at a 60% failure rate over at least 10 requests.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// Only store outages count against the circuit; bad filters and
		// cancelled requests do not.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return !database.IsConnectionError(err) && !errors.Is(err, context.DeadlineExceeded)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Service{
		store: store,
		cfg:   cfg,
		cb:    cb,
		name:  cbName,
	}
}

// CircuitState returns "closed", "half-open" or "open".
func (s *Service) CircuitState() string {
	return s.cb.State().String()
}

// Ping checks the store directly, bypassing the breaker so health checks
// still see the real state while the circuit is open.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Zones returns every taxi zone.
func (s *Service) Zones(ctx context.Context) ([]models.Zone, error) {
	return call(s, func() ([]models.Zone, error) { return s.store.GetZones(ctx) })
}

// Trips returns filtered trips with zone names.
func (s *Service) Trips(ctx context.Context, filter database.TripFilter) ([]models.TripDetail, error) {
	return call(s, func() ([]models.TripDetail, error) { return s.store.GetTrips(ctx, filter) })
}

// Hourly returns per-hour aggregates.
func (s *Service) Hourly(ctx context.Context, filter database.TripFilter) ([]models.HourlyInsight, error) {
	return call(s, func() ([]models.HourlyInsight, error) { return s.store.GetHourlyInsights(ctx, filter) })
}

// BoroughSummary returns sampled per-borough aggregates.
func (s *Service) BoroughSummary(ctx context.Context, filter database.TripFilter) ([]models.BoroughSummary, error) {
	return call(s, func() ([]models.BoroughSummary, error) {
		return s.store.GetBoroughSummary(ctx, filter, s.cfg.SampleModulus)
	})
}

// PickupCounts returns the trip count per pickup location id.
func (s *Service) PickupCounts(ctx context.Context) (map[int]int64, error) {
	return call(s, func() (map[int]int64, error) { return s.store.GetPickupCounts(ctx) })
}

// Summary returns the headline totals.
func (s *Service) Summary(ctx context.Context) (*models.SummaryStats, error) {
	return call(s, func() (*models.SummaryStats, error) { return s.store.GetSummaryStats(ctx) })
}

// TopZones ranks pickup zones by sampled trip count and returns the k
// busiest, highest first. Zones with equal counts keep the order the store
// produced them in. k = 0 returns an empty ranking.
func (s *Service) TopZones(ctx context.Context, filter database.TripFilter, k int) ([]models.ZoneRanking, error) {
	if k < 0 || k > s.cfg.MaxTopZonesK {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidK, k, s.cfg.MaxTopZonesK)
	}

	sel, err := topk.New[int64, int, ZoneLabel](k)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	_, err = call(s, func() (struct{}, error) {
		return struct{}{}, s.store.StreamZoneTripCounts(ctx, filter, s.cfg.SampleModulus, func(zc models.ZoneTripCount) error {
			sel.Offer(topk.Record[int64, int, ZoneLabel]{
				Score:    zc.TripCount,
				Identity: zc.LocationID,
				Label:    ZoneLabel{ZoneName: zc.ZoneName, Borough: zc.Borough, AvgFare: zc.AvgFare},
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	top := sel.Drain()
	stats := sel.Stats()
	metrics.RecordTopKSelection("top_zones", stats.Admitted, stats.Rejected, stats.Evicted, time.Since(start))

	rankings := make([]models.ZoneRanking, len(top))
	for i, r := range top {
		rankings[i] = models.ZoneRanking{
			Rank:       i + 1,
			LocationID: r.Identity,
			ZoneName:   r.Label.ZoneName,
			Borough:    r.Label.Borough,
			TripCount:  r.Score,
			AvgFare:    r.Label.AvgFare,
		}
	}

	logging.Ctx(ctx).Debug().
		Int("k", k).
		Uint64("offered", stats.Offered).
		Uint64("rejected", stats.Rejected).
		Msg("Top zones selected")
	return rankings, nil
}

// Overview runs the dashboard queries concurrently. The first failure
// cancels the rest.
func (s *Service) Overview(ctx context.Context, filter database.TripFilter) (*Overview, error) {
	var ov Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		ov.Summary, err = s.Summary(gctx)
		return err
	})
	g.Go(func() (err error) {
		ov.Hourly, err = s.Hourly(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		ov.Boroughs, err = s.BoroughSummary(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		ov.TopZones, err = s.TopZones(gctx, filter, s.cfg.TopZonesK)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}

// execute runs fn through the breaker and records the outcome.
func (s *Service) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(s.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(s.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(s.name, "success").Inc()
	return result, nil
}

// call is execute with a typed result.
func call[T any](s *Service, fn func() (T, error)) (T, error) {
	var zero T
	result, err := s.execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
