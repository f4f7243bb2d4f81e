// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"math/rand/v2"
	"sort"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// DefaultCollaborativePool is the id range the seeded scorer samples from.
const DefaultCollaborativePool = 1000

// Seeded score range.
const (
	seededScoreMin  = 0.5
	seededScoreSpan = 0.45
)

// SeededCollaborative is the reference collaborative scorer. It draws
// distinct ids from [0, pool) with a generator seeded by the user id and
// assigns descending scores uniform in [0.5, 0.95). The same user and limit
// always produce the same list.
type SeededCollaborative struct {
	pool int
}

// SeededCollaborativeConfig contains configuration for the seeded scorer.
type SeededCollaborativeConfig struct {
	// PoolSize is the id range sampled from. Default: 1000.
	PoolSize int
}

// NewSeededCollaborative creates a new seeded collaborative scorer.
func NewSeededCollaborative(cfg *SeededCollaborativeConfig) *SeededCollaborative {
	pool := DefaultCollaborativePool
	if cfg != nil && cfg.PoolSize > 0 {
		pool = cfg.PoolSize
	}
	return &SeededCollaborative{pool: pool}
}

// Name returns the scorer identifier.
func (s *SeededCollaborative) Name() string {
	return "collaborative_seeded"
}

// ScoreCollaborative implements recommend.CollaborativeScorer. bundle may be
// nil; when it carries a catalog the pool is capped to the catalog size.
func (s *SeededCollaborative) ScoreCollaborative(bundle *model.Bundle, userID int, limit int) ([]recommend.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	pool := s.pool
	if bundle != nil && bundle.Catalog != nil && bundle.Catalog.Len() < pool {
		pool = bundle.Catalog.Len()
	}
	k := min(limit, pool)

	// #nosec G404 -- reproducible placeholder signal, not security sensitive
	rng := rand.New(rand.NewPCG(uint64(userID), uint64(pool)))
	ids := rng.Perm(pool)[:k]

	scores := make([]float64, k)
	for i := range scores {
		scores[i] = seededScoreMin + rng.Float64()*seededScoreSpan
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	out := make([]recommend.Candidate, k)
	for i, id := range ids {
		out[i] = recommend.Candidate{ItemID: id, Score: scores[i]}
	}
	recommend.SortCandidates(out)

	return out, nil
}

// FactorCollaborative scores items with latent factors, u . v_i, when the
// bundle carries a factor row for the user. Otherwise it delegates to a
// fallback scorer, by default SeededCollaborative.
type FactorCollaborative struct {
	fallback recommend.CollaborativeScorer
}

// NewFactorCollaborative creates a factor scorer. A nil fallback uses
// NewSeededCollaborative(nil).
func NewFactorCollaborative(fallback recommend.CollaborativeScorer) *FactorCollaborative {
	if fallback == nil {
		fallback = NewSeededCollaborative(nil)
	}
	return &FactorCollaborative{fallback: fallback}
}

// Name returns the scorer identifier.
func (f *FactorCollaborative) Name() string {
	return "collaborative_factors"
}

// ScoreCollaborative implements recommend.CollaborativeScorer.
func (f *FactorCollaborative) ScoreCollaborative(bundle *model.Bundle, userID int, limit int) ([]recommend.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	if bundle == nil || bundle.Factors == nil {
		return f.fallback.ScoreCollaborative(bundle, userID, limit)
	}

	user, ok := bundle.Factors.User(userID)
	if !ok {
		return f.fallback.ScoreCollaborative(bundle, userID, limit)
	}

	items := bundle.Factors.ItemCount()
	if bundle.Catalog != nil && bundle.Catalog.Len() < items {
		items = bundle.Catalog.Len()
	}

	top := newTopK(limit)
	for id := 0; id < items; id++ {
		score := model.Dot(user, bundle.Factors.Item(id))
		if score <= 0 {
			continue
		}
		top.Offer(recommend.Candidate{ItemID: id, Score: score})
	}

	return top.Sorted(), nil
}
