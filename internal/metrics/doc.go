// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)

Recommendation Metrics:
  - recommendations_total: Requests by outcome (counter)
    Labels: status, reason
  - recommendation_duration_seconds: Serving latency (histogram)
    Labels: status
  - recommendation_cache_hits_total / recommendation_cache_misses_total
  - recommendation_scorer_duration_seconds: Per-scorer latency (histogram)
    Labels: scorer
  - recommendation_scorer_candidates: Per-scorer candidate count (histogram)
    Labels: scorer

Model Metrics:
  - model_load_attempts_total: Load attempts (counter)
    Labels: result (success, failure, rejected)
  - model_load_duration_seconds: Load latency (histogram)
  - model_ready: 1 once a bundle is loaded (gauge)
  - model_catalog_items: Catalog size (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
    Labels: name
  - circuit_breaker_state_transitions_total (counter)
    Labels: name, from_state, to_state

# Usage

The engine reports through RecommendObserver:

	engine.SetObserver(metrics.NewRecommendObserver())

All metrics are registered with the default Prometheus registry via promauto.
*/
package metrics
