// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"time"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	ready     func() bool
	startTime time.Time
}

// NewHealthHandler creates a probe handler. ready reports whether a model
// bundle is loaded.
func NewHealthHandler(ready func() bool) *HealthHandler {
	return &HealthHandler{ready: ready, startTime: time.Now()}
}

// HealthLive returns 200 while the process is up, regardless of the model.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 200 once a model bundle is loaded and 503 before.
// The engine serves fallback lists without a model, so the service stays
// live while not ready.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ready := h.ready != nil && h.ready()

	data := map[string]any{
		"model_ready": ready,
		"uptime":      time.Since(h.startTime).Seconds(),
	}
	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Model not loaded", data)
		return
	}
	rw.Success(data)
}
