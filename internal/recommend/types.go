// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/hybridrec/internal/cache"
	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// Tier is the strategy tier chosen from a user's history length.
type Tier string

const (
	// TierColdStart is for users with at most 5 interactions.
	TierColdStart Tier = "cold_start"

	// TierModerate is for users with 6 to 15 interactions.
	TierModerate Tier = "moderate"

	// TierActive is for users with more than 15 interactions.
	TierActive Tier = "active"
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// Weights are the blend weights applied to each signal. They sum to 1.0.
type Weights struct {
	// Content is the weight of the content-based signal.
	Content float64 `json:"cb"`

	// Collaborative is the weight of the collaborative signal.
	Collaborative float64 `json:"cf"`
}

// Source tags where a recommended item came from.
type Source string

// Recommendation sources.
const (
	SourceContent       Source = "content_based"
	SourceCollaborative Source = "collaborative"
	SourceHybrid        Source = "hybrid"
	SourcePopular       Source = "popular"
	SourceFallback      Source = "fallback"
)

// Status is the tagged outcome of a recommendation request.
type Status string

// Result statuses.
const (
	StatusSuccess   Status = "success"
	StatusColdStart Status = "cold_start"
	StatusFallback  Status = "fallback"
	StatusError     Status = "error"
)

// Reason is a machine-readable code explaining a non-success status.
type Reason string

// Result reasons.
const (
	ReasonNone              Reason = ""
	ReasonModelUnavailable  Reason = "model_unavailable"
	ReasonInvalidInput      Reason = "invalid_input"
	ReasonEmptyCandidateSet Reason = "empty_candidate_set"
	ReasonEmptyHistory      Reason = "empty_history"
	ReasonInternal          Reason = "internal"
)

// Candidate is a single scorer output, consumed by Merge.
type Candidate struct {
	ItemID int
	Score  float64
}

// Entry is one ranked recommendation.
type Entry struct {
	// Rank is the 1-based position in the result.
	Rank int `json:"rank"`

	// ItemID is the recommended item.
	ItemID int `json:"item_id"`

	// Score is the combined, weighted score.
	Score float64 `json:"score"`

	// Source is the signal (or fallback path) that produced the item.
	Source Source `json:"method"`
}

// Request is the input to Engine.Recommend.
type Request struct {
	// RequestID is used for log correlation. Generated when empty.
	RequestID string

	// UserID identifies the user (must be non-negative).
	UserID int

	// History is the user's interaction history, most recent last.
	History []int

	// N is the number of recommendations to return.
	N int

	// ExcludeSeen removes history items from the result.
	ExcludeSeen bool
}

// NewRequest builds a request with ExcludeSeen enabled.
func NewRequest(userID int, history []int, n int) Request {
	return Request{
		UserID:      userID,
		History:     history,
		N:           n,
		ExcludeSeen: true,
	}
}

// Validate checks the request against the engine limits.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (r Request) Validate(maxN int) error {
	if r.UserID < 0 {
		return fmt.Errorf("%w: user_id must be non-negative, got %d", ErrInvalidInput, r.UserID)
	}
	if r.N <= 0 {
		return fmt.Errorf("%w: n_recommendations must be positive, got %d", ErrInvalidInput, r.N)
	}
	if maxN > 0 && r.N > maxN {
		return fmt.Errorf("%w: n_recommendations must be at most %d, got %d", ErrInvalidInput, maxN, r.N)
	}
	for i, id := range r.History {
		if id < 0 {
			return fmt.Errorf("%w: history[%d] is negative (%d)", ErrInvalidInput, i, id)
		}
	}
	return nil
}

// Result is the closed outcome type returned by Engine.Recommend.
// Optional fields are only populated on the paths that produce them.
type Result struct {
	// Status is the tagged outcome.
	Status Status `json:"status"`

	// Reason explains non-success statuses.
	Reason Reason `json:"reason,omitempty"`

	// Error carries a human-readable message for StatusError.
	Error string `json:"error,omitempty"`

	// UserID echoes the request.
	UserID int `json:"user_id"`

	// Strategy is the tier chosen for the request (empty when not classified).
	Strategy Tier `json:"strategy,omitempty"`

	// Weights are the tier's blend weights.
	Weights *Weights `json:"weights,omitempty"`

	// Interactions is the full history length.
	Interactions int `json:"n_interactions"`

	// ValidHistory is how many ids in the scoring window exist in the catalog.
	ValidHistory int `json:"n_valid_articles"`

	// Recommendations is the ordered result list.
	Recommendations []Entry `json:"recommendations"`

	// ModelsLoaded lists the snapshot keys the scoring bundle was built from.
	ModelsLoaded []string `json:"models_loaded,omitempty"`

	// Per-call metadata. These fields describe how this particular call was
	// served and differ between otherwise identical results; Body drops them.

	// FromCache is true when the result was served from the response cache.
	FromCache bool `json:"from_cache"`

	// InferenceTimeMS is the wall time spent serving the request.
	InferenceTimeMS float64 `json:"inference_time_ms"`

	// CacheStats is a snapshot of the response cache (non-error paths only).
	CacheStats *cache.Stats `json:"cache_stats,omitempty"`
}

// Body returns a copy of the result without its per-call metadata. Identical
// requests against the same model produce equal bodies whether or not they
// were served from the cache.
//
//nolint:gocritic // hugeParam: copied by value on purpose
func (r Result) Body() Result {
	out := r.clone()
	out.FromCache = false
	out.InferenceTimeMS = 0
	return out
}

// clone returns a deep copy so cached values are never shared with callers.
//
//nolint:gocritic // hugeParam: copied by value on purpose
func (r Result) clone() Result {
	out := r
	if r.Weights != nil {
		w := *r.Weights
		out.Weights = &w
	}
	if r.Recommendations != nil {
		out.Recommendations = append([]Entry(nil), r.Recommendations...)
	}
	if r.ModelsLoaded != nil {
		out.ModelsLoaded = append([]string(nil), r.ModelsLoaded...)
	}
	out.CacheStats = nil
	return out
}

// ContentScorer ranks catalog items by similarity to a user's history.
type ContentScorer interface {
	// Name identifies the scorer in logs and metrics.
	Name() string

	// ScoreContent returns up to limit candidates sorted by score descending.
	// It returns ErrDegenerateProfile (with no candidates) when no usable
	// user vector can be built.
	ScoreContent(bundle *model.Bundle, history []int, excludeSeen bool, limit int) ([]Candidate, error)
}

// CollaborativeScorer ranks items using a user-indexed signal.
type CollaborativeScorer interface {
	// Name identifies the scorer in logs and metrics.
	Name() string

	// ScoreCollaborative returns up to limit candidates sorted by score
	// descending. bundle may be nil when no model is loaded.
	ScoreCollaborative(bundle *model.Bundle, userID int, limit int) ([]Candidate, error)
}

// Observer receives per-request measurements. Implementations must be safe
// for concurrent use.
type Observer interface {
	// ObserveRecommendation is called once per Recommend call.
	ObserveRecommendation(status Status, reason Reason, fromCache bool, elapsed time.Duration)

	// ObserveScorer is called after each scorer run.
	ObserveScorer(scorer string, candidates int, elapsed time.Duration)
}

// Stats aggregates engine counters with the response cache statistics.
type Stats struct {
	TotalRequests int64       `json:"total_requests"`
	CacheHits     int64       `json:"cache_hits"`
	Errors        int64       `json:"errors"`
	Fallbacks     int64       `json:"fallbacks"`
	ColdStarts    int64       `json:"cold_starts"`
	ModelReady    bool        `json:"model_ready"`
	Cache         cache.Stats `json:"cache"`
}
