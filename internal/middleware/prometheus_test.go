// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// Counters are process-global, so these tests assert deltas and do not run
// in parallel.
func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/v1/recommendations/{userID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/recommendations/{userID}", "418")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/api/v1/recommendations/1", "/api/v1/recommendations/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d, want 418", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("request counter delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != 0 {
		t.Errorf("active requests = %v, want 0", got)
	}
}

func TestPrometheusMetrics_ImplicitOK(t *testing.T) {
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "200")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/raw", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("request counter delta = %v, want 1", got)
	}
}
