// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package model

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot keys for the model artifacts a Bundle is assembled from.
const (
	KeyCatalog  = "models/cb_pca50"
	KeyFactors  = "models/cf_svd"
	KeyMetadata = "config/metadata"
)

// ErrNilBundle is returned when a load function reports success without a bundle.
var ErrNilBundle = errors.New("load returned nil bundle")

// Bundle is the set of immutable model artifacts scoring runs against.
type Bundle struct {
	// Catalog is the embedding matrix (required).
	Catalog *Catalog

	// Popularity is the cold-start ranking. Never nil after NewBundle.
	Popularity *Popularity

	// Factors are optional latent factors for collaborative scoring.
	Factors *Factors

	// Sources lists the snapshot keys the bundle was built from.
	Sources []string

	// LoadedAt is when the bundle was assembled.
	LoadedAt time.Time
}

// NewBundle assembles a bundle. catalog is required; popularity and factors may be nil.
func NewBundle(catalog *Catalog, popularity *Popularity, factors *Factors, sources ...string) (*Bundle, error) {
	if catalog == nil {
		return nil, ErrEmptyCatalog
	}
	if popularity == nil {
		popularity = NewPopularityFromMap(nil)
	}
	if len(sources) == 0 {
		sources = []string{KeyCatalog}
	}

	return &Bundle{
		Catalog:    catalog,
		Popularity: popularity,
		Factors:    factors,
		Sources:    append([]string(nil), sources...),
		LoadedAt:   time.Now(),
	}, nil
}

// LoadFunc materializes a bundle from its backing store.
type LoadFunc func(ctx context.Context) (*Bundle, error)

// Provider owns the process-wide model bundle.
//
// The bundle is published through an atomic pointer, so readers never lock.
// Load runs the supplied LoadFunc at most once successfully: callers that
// arrive after (or while) a load succeeds observe the populated bundle and
// skip loading. A failed load leaves the provider empty so it can be retried.
type Provider struct {
	mu       sync.Mutex
	bundle   atomic.Pointer[Bundle]
	attempts atomic.Int64
}

// NewProvider creates an empty provider.
func NewProvider() *Provider {
	return &Provider{}
}

// NewProviderWithBundle creates a provider that is already populated.
func NewProviderWithBundle(b *Bundle) *Provider {
	p := &Provider{}
	p.bundle.Store(b)
	return p
}

// Bundle returns the current bundle, if loaded.
func (p *Provider) Bundle() (*Bundle, bool) {
	b := p.bundle.Load()
	return b, b != nil
}

// Ready reports whether a bundle has been loaded.
func (p *Provider) Ready() bool {
	return p.bundle.Load() != nil
}

// Attempts returns how many times a LoadFunc has been invoked.
func (p *Provider) Attempts() int64 {
	return p.attempts.Load()
}

// Load populates the provider using load unless a bundle is already present.
func (p *Provider) Load(ctx context.Context, load LoadFunc) (*Bundle, error) {
	if b := p.bundle.Load(); b != nil {
		return b, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// A concurrent loader may have finished while we waited
	if b := p.bundle.Load(); b != nil {
		return b, nil
	}

	p.attempts.Add(1)
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNilBundle
	}

	p.bundle.Store(b)
	return b, nil
}
