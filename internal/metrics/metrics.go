// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Prometheus metrics for the recommendation service:
// - API endpoint latency and throughput
// - Recommendation outcomes and scorer timing
// - Response cache efficiency
// - Model loading and circuit breaker state

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"status", "reason"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time spent serving a recommendation request",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"status"},
	)

	RecommendationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_misses_total",
			Help: "Total number of recommendation requests computed without the cache",
		},
	)

	ScorerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_scorer_duration_seconds",
			Help:    "Time spent in each scorer",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"scorer"},
	)

	ScorerCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_scorer_candidates",
			Help:    "Number of candidates returned by each scorer",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 200},
		},
		[]string{"scorer"},
	)

	// Model Metrics
	ModelLoadAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_load_attempts_total",
			Help: "Total number of model bundle load attempts",
		},
		[]string{"result"}, // success, failure, rejected
	)

	ModelLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_load_duration_seconds",
			Help:    "Duration of model bundle loads",
			Buckets: prometheus.DefBuckets,
		},
	)

	ModelReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_ready",
			Help: "Whether a model bundle is loaded (1) or not (0)",
		},
	)

	ModelCatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_catalog_items",
			Help: "Number of items in the loaded embedding catalog",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordModelLoad records the outcome of a model load attempt.
// result is "success", "failure" or "rejected" (breaker open).
func RecordModelLoad(result string, duration time.Duration, catalogItems int) {
	ModelLoadAttempts.WithLabelValues(result).Inc()
	if result == "rejected" {
		return
	}
	ModelLoadDuration.Observe(duration.Seconds())
	if result == "success" {
		ModelReady.Set(1)
		ModelCatalogItems.Set(float64(catalogItems))
	}
}

// RecordCircuitBreakerTransition records a breaker state change.
// States map to 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecommendObserver feeds engine measurements into the Prometheus metrics.
// It implements recommend.Observer.
type RecommendObserver struct{}

// NewRecommendObserver creates an observer.
func NewRecommendObserver() *RecommendObserver {
	return &RecommendObserver{}
}

// ObserveRecommendation records one served request.
func (RecommendObserver) ObserveRecommendation(status recommend.Status, reason recommend.Reason, fromCache bool, elapsed time.Duration) {
	RecommendationsTotal.WithLabelValues(string(status), string(reason)).Inc()
	RecommendationDuration.WithLabelValues(string(status)).Observe(elapsed.Seconds())

	// Only requests that reached the cache count towards hit/miss
	switch {
	case fromCache:
		RecommendationCacheHits.Inc()
	case status == recommend.StatusSuccess || status == recommend.StatusColdStart:
		RecommendationCacheMisses.Inc()
	}
}

// ObserveScorer records one scorer run.
func (RecommendObserver) ObserveScorer(scorer string, candidates int, elapsed time.Duration) {
	ScorerDuration.WithLabelValues(scorer).Observe(elapsed.Seconds())
	ScorerCandidates.WithLabelValues(scorer).Observe(float64(candidates))
}
