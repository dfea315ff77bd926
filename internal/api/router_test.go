// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/tripatlas/internal/insights"
	"github.com/tomtom215/tripatlas/internal/metrics"
)

func TestRouter_NotFoundUsesEnvelope(t *testing.T) {
	t.Parallel()

	_, router := setupTestRouter(t, &stubStore{}, testConfig(), "")
	rec := doGet(t, router, "/api/nope", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	_, router := setupTestRouter(t, &stubStore{}, testConfig(), "")
	req := httptest.NewRequest(http.MethodPost, "/api/zones", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestRouter_SecurityHeadersAndRequestID(t *testing.T) {
	t.Parallel()

	_, router := setupTestRouter(t, &stubStore{}, testConfig(), "")
	rec := doGet(t, router, "/api/zones", map[string]string{"X-Forwarded-Proto": "https"})

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("missing HSTS behind TLS proxy")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	_, router := setupTestRouter(t, &stubStore{}, testConfig(), "")
	req := httptest.NewRequest(http.MethodOptions, "/api/trips", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 2
	cfg.Security.RateLimitWindow = time.Minute
	_, router := setupTestRouter(t, &stubStore{}, cfg, "")

	hits := metrics.APIRateLimitHits.WithLabelValues("api")
	before := testutil.ToFloat64(hits)

	for i := 0; i < 2; i++ {
		if rec := doGet(t, router, "/api/zones", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := doGet(t, router, "/api/zones", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != CodeRateLimited {
		t.Errorf("error = %+v", env.Error)
	}
	if got := testutil.ToFloat64(hits) - before; got < 1 {
		t.Errorf("rate limit hits delta = %v, want >= 1", got)
	}

	// Health checks are not rate limited.
	if rec := doGet(t, router, "/api/health/live", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	_, router := setupTestRouter(t, &stubStore{}, testConfig(), "")
	doGet(t, router, "/api/zones", nil)

	rec := doGet(t, router, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("exposition missing api_requests_total")
	}
}

func TestRespondServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"circuit open", fmt.Errorf("%w: circuit breaker is open", insights.ErrUnavailable), http.StatusServiceUnavailable, CodeServiceUnavailable},
		{"invalid k", fmt.Errorf("%w: 500 not in [0, 100]", insights.ErrInvalidK), http.StatusBadRequest, CodeValidation},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeTimeout},
		{"other", fmt.Errorf("disk on fire"), http.StatusInternalServerError, CodeDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
			rec := httptest.NewRecorder()
			respondServiceError(rec, req, "trips", tt.err)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantErr)
			}
		})
	}
}

func TestRespondServiceError_CancelledWritesNothing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	rec := httptest.NewRecorder()
	respondServiceError(rec, req, "trips", context.Canceled)

	if rec.Body.Len() != 0 {
		t.Errorf("cancelled request got a body: %s", rec.Body.String())
	}
}

func TestGenerateETag(t *testing.T) {
	t.Parallel()

	a := generateETag([]byte(`[1,2,3]`))
	b := generateETag([]byte(`[1,2,3]`))
	c := generateETag([]byte(`[1,2,4]`))

	if a != b {
		t.Error("ETag is not deterministic")
	}
	if a == c {
		t.Error("different payloads share an ETag")
	}
	if !strings.HasPrefix(a, `"`) || !strings.HasSuffix(a, `"`) {
		t.Errorf("ETag %s is not quoted", a)
	}
}

func TestNotModified(t *testing.T) {
	t.Parallel()

	etag := `"abc"`
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{`"abc"`, true},
		{`W/"abc"`, true},
		{`"x", "abc"`, true},
		{"*", true},
		{`"abd"`, false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("If-None-Match", tt.header)
		}
		if got := notModified(req, etag); got != tt.want {
			t.Errorf("notModified(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\tc"); got != `a\x0ab\x09c` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
