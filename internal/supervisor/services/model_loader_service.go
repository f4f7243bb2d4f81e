// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/thejerf/suture/v4"
	"golang.org/x/time/rate"

	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend/model"
	"github.com/tomtom215/hybridrec/internal/recommend/storage"
)

// BundleProvider is the model provider surface the loader drives.
type BundleProvider interface {
	Load(ctx context.Context, load model.LoadFunc) (*model.Bundle, error)
	Ready() bool
}

// ModelLoaderConfig controls retry pacing and the storage circuit breaker.
type ModelLoaderConfig struct {
	// RetryInterval is the minimum gap between load attempts.
	// Default: 30s
	RetryInterval time.Duration

	// LoadTimeout bounds a single attempt.
	// Default: 2m
	LoadTimeout time.Duration

	// BreakerFailures is the consecutive failure count that opens the breaker.
	// Default: 3
	BreakerFailures uint32

	// BreakerTimeout is how long the breaker stays open.
	// Default: 1m
	BreakerTimeout time.Duration
}

// DefaultModelLoaderConfig returns the production defaults.
func DefaultModelLoaderConfig() ModelLoaderConfig {
	return ModelLoaderConfig{
		RetryInterval:   30 * time.Second,
		LoadTimeout:     2 * time.Minute,
		BreakerFailures: 3,
		BreakerTimeout:  time.Minute,
	}
}

// ModelLoaderService loads the model bundle into the provider, retrying
// transient storage failures. It stops for good once a bundle is published or
// when the stored artifacts are unusable (bad shape or checksum), since
// retrying those cannot succeed.
type ModelLoaderService struct {
	provider BundleProvider
	load     model.LoadFunc
	config   ModelLoaderConfig
	breaker  *gobreaker.CircuitBreaker[*model.Bundle]
	limiter  *rate.Limiter
	logger   zerolog.Logger
	name     string
}

// NewModelLoaderService creates the loader. Zero config fields take the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelLoaderService(provider BundleProvider, load model.LoadFunc, cfg ModelLoaderConfig, logger zerolog.Logger) *ModelLoaderService {
	defaults := DefaultModelLoaderConfig()
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaults.RetryInterval
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaults.LoadTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaults.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}

	s := &ModelLoaderService{
		provider: provider,
		load:     load,
		config:   cfg,
		limiter:  rate.NewLimiter(rate.Every(cfg.RetryInterval), 1),
		logger:   logger.With().Str("service", "model-loader").Logger(),
		name:     "model-loader",
	}

	s.breaker = gobreaker.NewCircuitBreaker[*model.Bundle](gobreaker.Settings{
		Name:        "model-storage",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			s.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Model storage circuit breaker changed state")
		},
	})

	return s
}

// Serve implements suture.Service.
func (s *ModelLoaderService) Serve(ctx context.Context) error {
	if s.provider.Ready() {
		return suture.ErrDoNotRestart
	}

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			// The next slot falls past the deadline.
			<-ctx.Done()
			return ctx.Err()
		}

		bundle, err := s.attempt(ctx)
		switch {
		case err == nil:
			s.logger.Info().
				Int("catalog_items", bundle.Catalog.Len()).
				Int("embedding_dim", bundle.Catalog.Dim()).
				Bool("factors", bundle.Factors != nil).
				Strs("sources", bundle.Sources).
				Msg("Model bundle loaded")
			return suture.ErrDoNotRestart

		case ctx.Err() != nil:
			return ctx.Err()

		case IsPermanentLoadError(err):
			s.logger.Error().Err(err).Msg("Model artifacts are unusable, serving fallback recommendations")
			return suture.ErrDoNotRestart

		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			s.logger.Debug().Err(err).Msg("Model load skipped, circuit breaker open")

		default:
			s.logger.Warn().Err(err).
				Dur("retry_in", s.config.RetryInterval).
				Msg("Model load failed, will retry")
		}
	}
}

func (s *ModelLoaderService) attempt(ctx context.Context) (*model.Bundle, error) {
	start := time.Now()

	bundle, err := s.breaker.Execute(func() (*model.Bundle, error) {
		loadCtx, cancel := context.WithTimeout(ctx, s.config.LoadTimeout)
		defer cancel()
		return s.provider.Load(loadCtx, s.load)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordModelLoad("rejected", 0, 0)
	case err != nil:
		metrics.RecordModelLoad("failure", time.Since(start), 0)
	default:
		metrics.RecordModelLoad("success", time.Since(start), bundle.Catalog.Len())
	}
	return bundle, err
}

// String names the service in supervisor events.
func (s *ModelLoaderService) String() string {
	return s.name
}

// IsPermanentLoadError reports whether err comes from artifacts that no
// amount of retrying will fix.
func IsPermanentLoadError(err error) bool {
	return errors.Is(err, model.ErrDimensionMismatch) ||
		errors.Is(err, model.ErrEmptyCatalog) ||
		errors.Is(err, storage.ErrChecksumMismatch)
}
