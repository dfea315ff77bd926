// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package services

import (
	"context"
	"time"

	"github.com/tomtom215/tripatlas/internal/logging"
	"github.com/tomtom215/tripatlas/internal/metrics"
)

// Task is one run of periodic maintenance.
type Task func(ctx context.Context) error

// PeriodicService runs a task on a fixed interval until its context ends.
// Task errors are logged and the loop continues.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     Task
}

// NewPeriodicService creates a service that runs task every interval.
func NewPeriodicService(name string, interval time.Duration, task Task) *PeriodicService {
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(p.name)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.task(ctx); err != nil && ctx.Err() == nil {
				logger.Warn().Err(err).Msg("Periodic task failed")
			}
		}
	}
}

// String implements fmt.Stringer.
func (p *PeriodicService) String() string {
	return p.name
}

// Sweeper is a cache that can drop expired entries.
type Sweeper interface {
	Sweep() int
	Len() int
}

// NewCacheSweeper removes expired response cache entries and keeps the
// entry gauge current.
func NewCacheSweeper(c Sweeper, interval time.Duration) *PeriodicService {
	return NewPeriodicService("cache-sweeper", interval, func(context.Context) error {
		if removed := c.Sweep(); removed > 0 {
			logging.Debug().Int("removed", removed).Msg("Swept expired cache entries")
		}
		metrics.CacheEntries.Set(float64(c.Len()))
		return nil
	})
}

// Checkpointer flushes the database write-ahead log.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// NewCheckpointService checkpoints the database WAL on interval.
func NewCheckpointService(db Checkpointer, interval time.Duration) *PeriodicService {
	return NewPeriodicService("db-checkpoint", interval, db.Checkpoint)
}

// NewUptimeService refreshes the uptime gauge.
func NewUptimeService(start time.Time, interval time.Duration) *PeriodicService {
	return NewPeriodicService("uptime", interval, func(context.Context) error {
		metrics.UpdateUptime(start)
		return nil
	})
}
