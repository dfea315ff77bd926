// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tripatlas/internal/metrics"
)

func TestPeriodicService_Interface(t *testing.T) {
	var _ suture.Service = (*PeriodicService)(nil)
}

func TestPeriodicService_RunsUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("counter", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if runs.Load() < 2 {
		t.Errorf("task ran %d times, want at least 2", runs.Load())
	}
}

func TestPeriodicService_TaskErrorDoesNotStopLoop(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("flaky", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("checkpoint failed: database is locked")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_ = svc.Serve(ctx)
	if runs.Load() < 2 {
		t.Errorf("task ran %d times after failures, want at least 2", runs.Load())
	}
}

func TestPeriodicService_String(t *testing.T) {
	if got := NewPeriodicService("db-checkpoint", time.Minute, nil).String(); got != "db-checkpoint" {
		t.Errorf("String() = %q", got)
	}
}

type fakeSweeper struct {
	sweeps atomic.Int32
	size   int
}

func (f *fakeSweeper) Sweep() int {
	f.sweeps.Add(1)
	return 1
}

func (f *fakeSweeper) Len() int { return f.size }

func TestNewCacheSweeper(t *testing.T) {
	sweeper := &fakeSweeper{size: 7}
	svc := NewCacheSweeper(sweeper, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if sweeper.sweeps.Load() < 1 {
		t.Fatal("cache was never swept")
	}
	if got := testutil.ToFloat64(metrics.CacheEntries); got != 7 {
		t.Errorf("cache entries gauge = %v, want 7", got)
	}
}

type fakeCheckpointer struct {
	calls atomic.Int32
}

func (f *fakeCheckpointer) Checkpoint(context.Context) error {
	f.calls.Add(1)
	return nil
}

func TestNewCheckpointService(t *testing.T) {
	db := &fakeCheckpointer{}
	svc := NewCheckpointService(db, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if db.calls.Load() < 1 {
		t.Error("Checkpoint was never called")
	}
}

func TestNewUptimeService(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	svc := NewUptimeService(start, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if got := testutil.ToFloat64(metrics.AppUptime); got < 3600 {
		t.Errorf("uptime gauge = %v, want >= 3600", got)
	}
}
