// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
	"github.com/tomtom215/hybridrec/internal/recommend/model"
	"github.com/tomtom215/hybridrec/internal/recommend/storage"
	"github.com/tomtom215/hybridrec/internal/supervisor/services"
)

// RecommendComponents holds the recommendation stack.
type RecommendComponents struct {
	Engine   *recommend.Engine
	Provider *model.Provider
	Loader   *services.ModelLoaderService
	blobs    storage.Blobs
}

// Close releases the blob store.
func (c *RecommendComponents) Close() error {
	return c.blobs.Close()
}

// initRecommend builds the engine over an empty provider and the loader
// service that will fill it. The engine serves fallback lists until then.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	blobs, err := storage.OpenBlobs(buildBackendConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open model storage: %w", err)
	}

	provider := model.NewProvider()
	content := algorithms.NewContentBased(&algorithms.ContentBasedConfig{
		HistoryWindow: cfg.Recommend.HistoryWindow,
	})

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), provider, content, buildCollaborative(cfg), logger)
	if err != nil {
		_ = blobs.Close() //nolint:errcheck // engine error takes precedence
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	engine.SetObserver(metrics.NewRecommendObserver())

	loader := storage.NewLoader(storage.NewSnapshotStore(blobs), buildLoaderConfig(cfg), logger)
	loaderSvc := services.NewModelLoaderService(provider, loader.Load, services.ModelLoaderConfig{
		RetryInterval:   cfg.Models.RetryInterval,
		LoadTimeout:     cfg.Models.LoadTimeout,
		BreakerFailures: cfg.Models.BreakerFailures,
		BreakerTimeout:  cfg.Models.BreakerTimeout,
	}, logger)

	logger.Info().
		Str("backend", cfg.Models.Backend).
		Str("catalog_key", cfg.Models.CatalogKey).
		Str("popularity_source", cfg.Models.PopularitySource).
		Bool("cache_enabled", cfg.Recommend.CacheEnabled).
		Int("cache_capacity", cfg.Recommend.CacheCapacity).
		Msg("Recommendation engine initialized")

	return &RecommendComponents{
		Engine:   engine,
		Provider: provider,
		Loader:   loaderSvc,
		blobs:    blobs,
	}, nil
}

// buildEngineConfig creates the engine configuration from app config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		Limits: recommend.LimitsConfig{
			HistoryWindow:       cfg.Recommend.HistoryWindow,
			CandidateMultiplier: cfg.Recommend.CandidateMultiplier,
			MaxRecommendations:  cfg.Recommend.MaxRecommendations,
			FallbackPool:        cfg.Recommend.FallbackPool,
		},
		Cache: recommend.CacheConfig{
			Enabled:  cfg.Recommend.CacheEnabled,
			Capacity: cfg.Recommend.CacheCapacity,
			TTL:      cfg.Recommend.CacheTTL,
		},
		SingleFlight: cfg.Recommend.SingleFlight,
	}
}

// buildCollaborative picks the collaborative scorer. The factor scorer falls
// back to the seeded one for users without a factor row.
func buildCollaborative(cfg *config.Config) recommend.CollaborativeScorer {
	seeded := algorithms.NewSeededCollaborative(&algorithms.SeededCollaborativeConfig{
		PoolSize: cfg.Recommend.CollaborativePool,
	})
	if cfg.Recommend.Collaborative == config.CollaborativeSeeded {
		return seeded
	}
	return algorithms.NewFactorCollaborative(seeded)
}

func buildBackendConfig(cfg *config.Config) storage.BackendConfig {
	return storage.BackendConfig{
		Backend: cfg.Models.Backend,
		Path:    cfg.Models.Path,
		Redis: storage.RedisConfig{
			Addr:     cfg.Models.RedisAddr,
			Password: cfg.Models.RedisPassword,
			DB:       cfg.Models.RedisDB,
			Prefix:   cfg.Models.RedisPrefix,
		},
	}
}

func buildLoaderConfig(cfg *config.Config) storage.LoaderConfig {
	return storage.LoaderConfig{
		CatalogKey:       cfg.Models.CatalogKey,
		FactorsKey:       cfg.Models.FactorsKey,
		MetadataKey:      cfg.Models.MetadataKey,
		PopularitySource: cfg.Models.PopularitySource,
		InteractionsPath: cfg.Models.InteractionsPath,
		ItemColumn:       cfg.Models.ItemColumn,
	}
}
