// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/validation"
)

// Recommender is the engine surface the HTTP layer depends on.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) recommend.Result
	Stats() recommend.Stats
	Ready() bool
}

// RecommendHandler handles recommendation API endpoints.
type RecommendHandler struct {
	engine  Recommender
	timeout time.Duration
}

// NewRecommendHandler creates a handler. A positive timeout bounds each
// engine call.
func NewRecommendHandler(engine Recommender, timeout time.Duration) *RecommendHandler {
	return &RecommendHandler{engine: engine, timeout: timeout}
}

// PostRecommendations handles POST /api/v1/recommendations.
func (h *RecommendHandler) PostRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body RecommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
		case errors.Is(err, io.EOF):
			rw.BadRequest("Request body is required")
		default:
			rw.BadRequest("Invalid JSON body")
		}
		return
	}

	if verr := validation.ValidateStruct(&body); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}

	h.serve(rw, r, body.ToEngineRequest(logging.RequestIDFromContext(r.Context())))
}

// GetRecommendations handles GET /api/v1/recommendations/{userID}.
//
// Query parameters: history (comma-separated ids), n, exclude_seen.
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query, err := parseRecommendQuery(chi.URLParam(r, "userID"), r.URL.Query())
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(query); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}

	h.serve(rw, r, query.ToEngineRequest(logging.RequestIDFromContext(r.Context())))
}

// GetStats handles GET /api/v1/recommendations/stats.
func (h *RecommendHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.engine.Stats())
}

// serve runs the engine and maps the result status onto HTTP.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *RecommendHandler) serve(rw *ResponseWriter, r *http.Request, req recommend.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result := h.engine.Recommend(ctx, req)

	if result.Status != recommend.StatusError {
		rw.Success(result)
		return
	}

	switch result.Reason {
	case recommend.ReasonInvalidInput:
		rw.ValidationError(result.Error, nil)
	default:
		logging.Ctx(r.Context()).Error().
			Str("reason", string(result.Reason)).
			Str("error", result.Error).
			Int("user_id", result.UserID).
			Msg("Recommendation failed")
		rw.ErrorWithDetails(http.StatusInternalServerError, ErrCodeInternalError,
			"Failed to generate recommendations", result)
	}
}
