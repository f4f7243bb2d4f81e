// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/middleware"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// Middleware configures CORS and rate limiting. Nil uses the defaults.
	Middleware *ChiMiddlewareConfig

	// Logger receives access logs.
	Logger zerolog.Logger

	// RequestTimeout bounds each engine call. Zero disables it.
	RequestTimeout time.Duration

	// DisableMetrics removes the /metrics endpoint.
	DisableMetrics bool
}

// Router wires handlers and middleware onto a chi mux.
type Router struct {
	recommend     *RecommendHandler
	health        *HealthHandler
	chiMiddleware *ChiMiddleware
	config        RouterConfig
}

// NewRouter creates a router serving engine.
//
//nolint:gocritic // hugeParam: config is read once at construction
func NewRouter(engine Recommender, config RouterConfig) *Router {
	return &Router{
		recommend:     NewRecommendHandler(engine, config.RequestTimeout),
		health:        NewHealthHandler(engine.Ready),
		chiMiddleware: NewChiMiddleware(config.Middleware),
		config:        config,
	}
}

// Handler builds the HTTP handler.
//
// Routes:
//
//	GET  /api/v1/health/live
//	GET  /api/v1/health/ready
//	POST /api/v1/recommendations
//	GET  /api/v1/recommendations/stats
//	GET  /api/v1/recommendations/{userID}
//	GET  /metrics
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(router.config.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		NewResponseWriter(w, req).MethodNotAllowed()
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.health.HealthLive)
		r.Get("/ready", router.health.HealthReady)
	})

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Post("/", router.recommend.PostRecommendations)
		r.Get("/stats", router.recommend.GetStats)
		r.Get("/{userID}", router.recommend.GetRecommendations)
	})

	if !router.config.DisableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}
