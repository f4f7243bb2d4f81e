// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// DefaultRecommendations is used when a request omits the count.
const DefaultRecommendations = 5

// maxHistoryItems bounds the history a single request may carry.
const maxHistoryItems = 10000

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// RecommendRequest is the POST /api/v1/recommendations body.
type RecommendRequest struct {
	UserID      *int  `json:"user_id" validate:"required,gte=0"`
	History     []int `json:"history" validate:"max=10000,dive,gte=0"`
	N           *int  `json:"n_recommendations" validate:"omitempty,gte=1"`
	ExcludeSeen *bool `json:"exclude_seen"`
}

// ToEngineRequest applies defaults and converts to the engine request.
func (r *RecommendRequest) ToEngineRequest(requestID string) recommend.Request {
	req := recommend.NewRequest(*r.UserID, r.History, DefaultRecommendations)
	req.RequestID = requestID
	if r.N != nil {
		req.N = *r.N
	}
	if r.ExcludeSeen != nil {
		req.ExcludeSeen = *r.ExcludeSeen
	}
	return req
}

// RecommendQuery is the GET /api/v1/recommendations/{userID} input.
type RecommendQuery struct {
	UserID      int   `query:"user_id" validate:"gte=0"`
	History     []int `query:"history" validate:"max=10000,dive,gte=0"`
	N           int   `query:"n" validate:"gte=1"`
	ExcludeSeen bool  `query:"exclude_seen"`
}

// ToEngineRequest converts to the engine request.
func (q *RecommendQuery) ToEngineRequest(requestID string) recommend.Request {
	req := recommend.NewRequest(q.UserID, q.History, q.N)
	req.RequestID = requestID
	req.ExcludeSeen = q.ExcludeSeen
	return req
}

// parseRecommendQuery reads the path user id and the query string.
// Malformed numbers are reported as errors; range checks are left to the
// validator.
func parseRecommendQuery(userIDParam string, values url.Values) (*RecommendQuery, error) {
	userID, err := strconv.Atoi(userIDParam)
	if err != nil {
		return nil, fmt.Errorf("user id %q is not an integer", userIDParam)
	}

	q := &RecommendQuery{
		UserID:      userID,
		N:           DefaultRecommendations,
		ExcludeSeen: true,
	}

	if raw := values.Get("n"); raw != "" {
		if q.N, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("n %q is not an integer", raw)
		}
	}
	if raw := values.Get("exclude_seen"); raw != "" {
		if q.ExcludeSeen, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("exclude_seen %q is not a boolean", raw)
		}
	}
	if q.History, err = parseIntList(values.Get("history")); err != nil {
		return nil, err
	}

	return q, nil
}

// parseIntList parses a comma-separated list of integers, skipping blanks.
func parseIntList(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return []int{}, nil
	}

	parts := strings.Split(value, ",")
	if len(parts) > maxHistoryItems+1 {
		return nil, fmt.Errorf("history has more than %d items", maxHistoryItems)
	}

	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("history item %q is not an integer", p)
		}
		out = append(out, v)
	}
	return out, nil
}
