// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// Popularity sources.
const (
	PopularityFromMetadata     = "metadata"
	PopularityFromInteractions = "duckdb"
)

// LoaderConfig selects the snapshot keys and popularity source.
type LoaderConfig struct {
	CatalogKey  string
	FactorsKey  string
	MetadataKey string

	// PopularitySource is "metadata" (default) or "duckdb".
	PopularitySource string

	// InteractionsPath is the CSV/Parquet log used by the duckdb source.
	InteractionsPath string

	// ItemColumn is the item id column in InteractionsPath.
	ItemColumn string
}

// DefaultLoaderConfig returns the standard snapshot layout.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		CatalogKey:       model.KeyCatalog,
		FactorsKey:       model.KeyFactors,
		MetadataKey:      model.KeyMetadata,
		PopularitySource: PopularityFromMetadata,
		ItemColumn:       DefaultItemColumn,
	}
}

// Loader assembles a model.Bundle from stored snapshots.
type Loader struct {
	store  *SnapshotStore
	cfg    LoaderConfig
	logger zerolog.Logger
}

// NewLoader creates a bundle loader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(store *SnapshotStore, cfg LoaderConfig, logger zerolog.Logger) *Loader {
	return &Loader{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("component", "model_loader").Logger(),
	}
}

// Load reads the catalog (required), factors and popularity (optional) and
// returns an immutable bundle. It matches model.LoadFunc.
func (l *Loader) Load(ctx context.Context) (*model.Bundle, error) {
	var cs CatalogSnapshot
	info, err := l.store.Load(ctx, l.cfg.CatalogKey, &cs)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	catalog, err := model.NewCatalog(cs.Embeddings)
	if err != nil {
		return nil, fmt.Errorf("build catalog from %s: %w", l.cfg.CatalogKey, err)
	}
	sources := []string{l.cfg.CatalogKey}

	l.logger.Debug().
		Str("key", l.cfg.CatalogKey).
		Int("version", info.Version).
		Int("rows", catalog.Len()).
		Int("dim", catalog.Dim()).
		Msg("catalog snapshot loaded")

	factors, err := l.loadFactors(ctx)
	if err != nil {
		return nil, err
	}
	if factors != nil {
		sources = append(sources, l.cfg.FactorsKey)
	}

	popularity, fromMetadata, err := l.loadPopularity(ctx)
	if err != nil {
		return nil, err
	}
	if fromMetadata {
		sources = append(sources, l.cfg.MetadataKey)
	}

	bundle, err := model.NewBundle(catalog, popularity, factors, sources...)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Int("items", catalog.Len()).
		Int("dim", catalog.Dim()).
		Bool("factors", factors != nil).
		Int("popular_items", popularity.Len()).
		Strs("sources", sources).
		Msg("model bundle loaded")

	return bundle, nil
}

// loadFactors returns nil factors when the snapshot is absent.
func (l *Loader) loadFactors(ctx context.Context) (*model.Factors, error) {
	if l.cfg.FactorsKey == "" {
		return nil, nil
	}

	var fs FactorsSnapshot
	if _, err := l.store.Load(ctx, l.cfg.FactorsKey, &fs); err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			l.logger.Debug().Str("key", l.cfg.FactorsKey).Msg("no factor snapshot, using seeded collaborative signal")
			return nil, nil
		}
		return nil, fmt.Errorf("load factors: %w", err)
	}

	factors, err := model.NewFactors(fs.Users, fs.Items)
	if err != nil {
		return nil, fmt.Errorf("build factors from %s: %w", l.cfg.FactorsKey, err)
	}
	return factors, nil
}

// loadPopularity reports whether the metadata snapshot was used.
func (l *Loader) loadPopularity(ctx context.Context) (*model.Popularity, bool, error) {
	switch l.cfg.PopularitySource {
	case PopularityFromInteractions:
		pop, err := PopularityFromDuckDB(ctx, l.cfg.InteractionsPath, l.cfg.ItemColumn)
		if err != nil {
			return nil, false, fmt.Errorf("load popularity: %w", err)
		}
		return pop, false, nil

	case PopularityFromMetadata, "":
		if l.cfg.MetadataKey == "" {
			return model.NewPopularity(nil), false, nil
		}
		meta, err := l.store.LoadMetadata(ctx, l.cfg.MetadataKey)
		if errors.Is(err, ErrBlobNotFound) {
			l.logger.Warn().Str("key", l.cfg.MetadataKey).Msg("no metadata snapshot, cold-start lists will be empty")
			return model.NewPopularity(nil), false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("load popularity: %w", err)
		}
		return model.NewPopularity(meta.Popularity), true, nil

	default:
		return nil, false, fmt.Errorf("unknown popularity source %q", l.cfg.PopularitySource)
	}
}
