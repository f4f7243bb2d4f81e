// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package middleware provides the infrastructure HTTP middleware mounted on the
chi router.

Key Components:

  - RequestID: request and correlation ids in the context and X-Request-ID header
  - PrometheusMetrics: request count, latency and in-flight gauge per route pattern
  - AccessLog: one zerolog line per request

All three have the standard func(http.Handler) http.Handler shape:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.PrometheusMetrics)

RequestID should run first so the access log and handlers see the ids.
*/
package middleware
