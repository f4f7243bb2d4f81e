// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/hybridrec/internal/cache"
	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// errScorerPanic marks a scorer that panicked; the request is answered with
// StatusError and a popularity fallback list.
var errScorerPanic = errors.New("scorer panicked")

// Engine produces hybrid recommendations from a content scorer and a
// collaborative scorer, caching results by request fingerprint.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Model state and scorers
	provider      *model.Provider
	content       ContentScorer
	collaborative CollaborativeScorer
	observer      Observer

	// Response cache and miss deduplication
	cache  *cache.LRU[string, Result]
	flight singleflight.Group

	// Counters
	requestCount   atomic.Int64
	cacheHits      atomic.Int64
	errorCount     atomic.Int64
	fallbackCount  atomic.Int64
	coldStartCount atomic.Int64

	now func() time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, provider *model.Provider, content ContentScorer, collaborative CollaborativeScorer, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if provider == nil {
		return nil, errors.New("model provider is required")
	}
	if content == nil || collaborative == nil {
		return nil, errors.New("content and collaborative scorers are required")
	}

	return &Engine{
		config:        cfg.Clone(),
		logger:        logger.With().Str("component", "recommend").Logger(),
		provider:      provider,
		content:       content,
		collaborative: collaborative,
		cache:         cache.NewLRU[string, Result](cfg.Cache.Capacity, cfg.Cache.TTL),
		now:           time.Now,
	}, nil
}

// SetObserver registers a measurement sink. It must be called before the
// engine starts serving requests.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Recommend answers a single recommendation request.
//
// Every failure is folded into the returned Result's Status; Recommend never
// panics and never returns an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) Result {
	start := e.now()
	e.requestCount.Add(1)

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	result := e.serve(ctx, req, logger)

	elapsed := e.now().Sub(start)
	result.InferenceTimeMS = float64(elapsed.Microseconds()) / 1000
	if result.Status != StatusError && e.config.Cache.Enabled {
		stats := e.cache.Stats()
		result.CacheStats = &stats
	}

	e.countStatus(result.Status)
	if e.observer != nil {
		e.observer.ObserveRecommendation(result.Status, result.Reason, result.FromCache, elapsed)
	}

	logger.Debug().
		Str("status", string(result.Status)).
		Str("strategy", result.Strategy.String()).
		Bool("from_cache", result.FromCache).
		Int("items", len(result.Recommendations)).
		Float64("inference_time_ms", result.InferenceTimeMS).
		Msg("recommendation served")

	return result
}

// serve runs validation, the model check, the cache lookup and scoring.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) serve(ctx context.Context, req Request, logger zerolog.Logger) Result {
	if err := req.Validate(e.config.Limits.MaxRecommendations); err != nil {
		logger.Warn().Err(err).Msg("rejected recommendation request")
		return Result{
			Status:          StatusError,
			Reason:          ReasonInvalidInput,
			Error:           err.Error(),
			UserID:          req.UserID,
			Interactions:    len(req.History),
			Recommendations: []Entry{},
		}
	}

	bundle, ok := e.provider.Bundle()
	if !ok {
		logger.Warn().Err(ErrModelUnavailable).Msg("serving fallback recommendations")
		return e.fallbackResult(req)
	}

	if !e.config.Cache.Enabled {
		return e.compute(ctx, bundle, req, logger)
	}

	key := FingerprintWindow(req.UserID, req.History, req.N, req.ExcludeSeen, e.config.Limits.HistoryWindow)
	if cached, hit := e.cache.Get(key); hit {
		e.cacheHits.Add(1)
		out := cached.clone()
		out.FromCache = true
		logger.Debug().Str("cache_key", key).Msg("cache hit")
		return out
	}

	if !e.config.SingleFlight {
		result := e.compute(ctx, bundle, req, logger)
		e.storeResult(key, result)
		return result
	}

	v, _, _ := e.flight.Do(key, func() (interface{}, error) {
		result := e.compute(ctx, bundle, req, logger)
		e.storeResult(key, result)
		return result, nil
	})
	return v.(Result).clone()
}

// compute classifies the request, runs both scorers and merges their output.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) compute(ctx context.Context, bundle *model.Bundle, req Request, logger zerolog.Logger) Result {
	tier, weights := Classify(len(req.History))
	window := lastN(req.History, e.config.Limits.HistoryWindow)

	if len(req.History) == 0 {
		logger.Debug().Msg("empty history, serving popular recommendations")
		return Result{
			Status:          StatusColdStart,
			Reason:          ReasonEmptyHistory,
			UserID:          req.UserID,
			Strategy:        tier,
			Weights:         &weights,
			ModelsLoaded:    append([]string(nil), bundle.Sources...),
			Recommendations: popularEntries(bundle.Popularity, req.N, SourcePopular),
		}
	}

	logger.Debug().
		Str("strategy", tier.String()).
		Float64("content_weight", weights.Content).
		Float64("collaborative_weight", weights.Collaborative).
		Msg("classified user profile")

	content, collaborative, err := e.runScorers(ctx, bundle, req, window, logger)
	if err != nil {
		logger.Error().Err(err).Msg("scoring failed")
		return e.errorResult(bundle, req, ReasonInternal, err)
	}

	result := Result{
		UserID:       req.UserID,
		Strategy:     tier,
		Weights:      &weights,
		Interactions: len(req.History),
		ValidHistory: countValid(bundle.Catalog, window),
		ModelsLoaded: append([]string(nil), bundle.Sources...),
	}

	entries, err := Merge(content, collaborative, weights, req.N)
	switch {
	case errors.Is(err, ErrEmptyCandidateSet):
		result.Status = StatusColdStart
		result.Reason = ReasonEmptyCandidateSet
		result.Recommendations = popularEntries(bundle.Popularity, req.N, SourcePopular)
		logger.Debug().Str("reason", string(result.Reason)).Msg("serving popular recommendations")
		return result
	case err != nil:
		return e.errorResult(bundle, req, ReasonInternal, err)
	}

	result.Status = StatusSuccess
	result.Recommendations = entries
	return result
}

// runScorers runs the content and collaborative scorers in parallel. Both
// run even when the tier gives one of them zero weight, so its ids still pad
// the union at score 0. Degenerate profiles and scorer errors yield an empty
// list; only a scorer panic is returned as an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) runScorers(ctx context.Context, bundle *model.Bundle, req Request, window []int, logger zerolog.Logger) (content, collaborative []Candidate, err error) {
	limit := req.N * e.config.Limits.CandidateMultiplier
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, scoreErr := e.runScorer(e.content.Name(), func() ([]Candidate, error) {
			return e.content.ScoreContent(bundle, req.History, req.ExcludeSeen, limit)
		})
		if errors.Is(scoreErr, errScorerPanic) {
			return scoreErr
		}
		if scoreErr != nil {
			logger.Debug().Err(scoreErr).Str("scorer", e.content.Name()).Msg("content score empty")
			return nil
		}
		content = out
		return nil
	})

	g.Go(func() error {
		out, scoreErr := e.runScorer(e.collaborative.Name(), func() ([]Candidate, error) {
			return e.collaborative.ScoreCollaborative(bundle, req.UserID, limit)
		})
		if errors.Is(scoreErr, errScorerPanic) {
			return scoreErr
		}
		if scoreErr != nil {
			logger.Debug().Err(scoreErr).Str("scorer", e.collaborative.Name()).Msg("collaborative score empty")
			return nil
		}
		if req.ExcludeSeen {
			out = excludeItems(out, window)
		}
		collaborative = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return content, collaborative, nil
}

// runScorer times a scorer call and converts a panic into errScorerPanic.
func (e *Engine) runScorer(name string, fn func() ([]Candidate, error)) (out []Candidate, err error) {
	start := e.now()
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %s: %v", errScorerPanic, name, r)
		}
		if e.observer != nil {
			e.observer.ObserveScorer(name, len(out), e.now().Sub(start))
		}
	}()
	return fn()
}

// storeResult caches successful and cold-start results.
//
//nolint:gocritic // hugeParam: result passed by value for immutability
func (e *Engine) storeResult(key string, result Result) {
	if result.Status == StatusError {
		return
	}
	e.cache.Put(key, result.clone())
}

// errorResult builds a StatusError result with a popularity fallback list.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) errorResult(bundle *model.Bundle, req Request, reason Reason, err error) Result {
	result := Result{
		Status:          StatusError,
		Reason:          reason,
		Error:           err.Error(),
		UserID:          req.UserID,
		Interactions:    len(req.History),
		Recommendations: []Entry{},
	}
	if bundle != nil {
		result.Recommendations = fallbackEntries(popularEntries(bundle.Popularity, req.N, SourceFallback))
	}
	return result
}

// fallbackResult serves a low-confidence substitute while no model is loaded.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) fallbackResult(req Request) Result {
	return Result{
		Status:          StatusFallback,
		Reason:          ReasonModelUnavailable,
		UserID:          req.UserID,
		Interactions:    len(req.History),
		Recommendations: seededFallbackEntries(req.UserID, req.N, e.config.Limits.FallbackPool),
	}
}

// countStatus updates the per-status counters.
func (e *Engine) countStatus(status Status) {
	switch status {
	case StatusError:
		e.errorCount.Add(1)
	case StatusFallback:
		e.fallbackCount.Add(1)
	case StatusColdStart:
		e.coldStartCount.Add(1)
	}
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Int("history_len", len(req.History)).
		Int("n", req.N).
		Logger()
}

// Ready reports whether a model bundle is loaded.
func (e *Engine) Ready() bool {
	return e.provider.Ready()
}

// Stats returns engine counters and cache statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		TotalRequests: e.requestCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		Errors:        e.errorCount.Load(),
		Fallbacks:     e.fallbackCount.Load(),
		ColdStarts:    e.coldStartCount.Load(),
		ModelReady:    e.provider.Ready(),
		Cache:         e.cache.Stats(),
	}
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// countValid counts window ids that address a catalog row.
func countValid(catalog *model.Catalog, window []int) int {
	n := 0
	for _, id := range window {
		if catalog.Contains(id) {
			n++
		}
	}
	return n
}

// excludeItems drops candidates whose id appears in seen.
func excludeItems(candidates []Candidate, seen []int) []Candidate {
	if len(seen) == 0 || len(candidates) == 0 {
		return candidates
	}
	skip := make(map[int]struct{}, len(seen))
	for _, id := range seen {
		skip[id] = struct{}{}
	}
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := skip[c.ItemID]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}
