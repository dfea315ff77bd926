// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/tripatlas/internal/models"
)

// Health handles health check requests.
//
// Status is "healthy" when the database answers a ping and the circuit is
// closed, "degraded" otherwise. The endpoint always answers 200 so dashboards
// can render the details; use /api/health/ready for probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.svc.Ping(r.Context()) == nil
	circuit := h.svc.CircuitState()

	status := "healthy"
	if !dbConnected || circuit != "closed" {
		status = "degraded"
	}

	w.Header().Set("Cache-Control", "no-cache")
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:            status,
			Version:           h.version,
			DatabaseConnected: dbConnected,
			GeoJSONLoaded:     h.geoJSONAvailable(),
			CircuitState:      circuit,
			Uptime:            time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive": true,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 503 until the database answers and the circuit is not open.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.svc.Ping(r.Context()) == nil && h.svc.CircuitState() != "open"

	if !ready {
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, "Service is not ready", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"ready": true,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
