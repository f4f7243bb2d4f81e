// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms_test

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// newScenarioEngine wires the real scorers over a 40-item catalog whose
// embeddings sit on a circle, with popularity favoring low ids.
func newScenarioEngine(t *testing.T) *recommend.Engine {
	t.Helper()

	rows := make([][]float64, 40)
	counts := make(map[int]int64, 40)
	for i := range rows {
		angle := float64(i) * 2 * math.Pi / 40
		rows[i] = []float64{math.Cos(angle), math.Sin(angle), 0.25}
		counts[i] = int64(1000 - i)
	}
	catalog, err := model.NewCatalog(rows)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	bundle, err := model.NewBundle(catalog, model.NewPopularityFromMap(counts), nil)
	if err != nil {
		t.Fatalf("NewBundle() error = %v", err)
	}

	engine, err := recommend.NewEngine(
		recommend.DefaultConfig(),
		model.NewProviderWithBundle(bundle),
		algorithms.NewContentBased(nil),
		algorithms.NewFactorCollaborative(algorithms.NewSeededCollaborative(nil)),
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func TestScenario_EmptyHistoryColdStart(t *testing.T) {
	t.Parallel()

	engine := newScenarioEngine(t)
	result := engine.Recommend(context.Background(), recommend.NewRequest(1, nil, 5))

	if result.Status != recommend.StatusColdStart {
		t.Fatalf("Status = %s, want cold_start", result.Status)
	}
	if len(result.Recommendations) != 5 {
		t.Fatalf("len(recommendations) = %d, want 5", len(result.Recommendations))
	}
	for i, e := range result.Recommendations {
		if e.ItemID != i || e.Source != recommend.SourcePopular {
			t.Errorf("entry %d = %+v, want popular item %d", i, e, i)
		}
	}
}

func TestScenario_RepeatedHistoryExcluded(t *testing.T) {
	t.Parallel()

	engine := newScenarioEngine(t)
	result := engine.Recommend(context.Background(), recommend.NewRequest(1, []int{3, 3, 3}, 3))

	if result.Status != recommend.StatusSuccess {
		t.Fatalf("Status = %s, want success", result.Status)
	}
	if len(result.Recommendations) > 3 {
		t.Errorf("len(recommendations) = %d, want <= 3", len(result.Recommendations))
	}
	for _, e := range result.Recommendations {
		if e.ItemID == 3 {
			t.Error("seen item 3 was recommended")
		}
	}
	if result.Strategy != recommend.TierColdStart {
		t.Errorf("Strategy = %s, want cold_start", result.Strategy)
	}
}

func TestScenario_ModerateTier(t *testing.T) {
	t.Parallel()

	engine := newScenarioEngine(t)
	history := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	result := engine.Recommend(context.Background(), recommend.NewRequest(2, history, 10))

	if result.Strategy != recommend.TierModerate {
		t.Fatalf("Strategy = %s, want moderate", result.Strategy)
	}
	if result.Weights == nil || result.Weights.Content != 0.7 || result.Weights.Collaborative != 0.3 {
		t.Errorf("Weights = %+v, want {0.7 0.3}", result.Weights)
	}
	if result.ValidHistory != 10 {
		t.Errorf("ValidHistory = %d, want 10", result.ValidHistory)
	}
	for _, e := range result.Recommendations {
		if e.Score < 0 || e.Score > 1 {
			t.Errorf("item %d score %v outside [0,1]", e.ItemID, e.Score)
		}
		for _, h := range history {
			if e.ItemID == h {
				t.Errorf("seen item %d was recommended", h)
			}
		}
	}
}

func TestScenario_Deterministic(t *testing.T) {
	t.Parallel()

	engine := newScenarioEngine(t)
	history := []int{5, 9, 12, 1, 0, 33, 21, 8, 17, 2, 3, 4, 30, 31, 38, 11, 25, 19}
	req := recommend.NewRequest(9, history, 8)

	first := engine.Recommend(context.Background(), req)
	second := engine.Recommend(context.Background(), req)

	if first.FromCache || !second.FromCache {
		t.Fatalf("FromCache = %v then %v, want false then true", first.FromCache, second.FromCache)
	}
	if first.Strategy != recommend.TierActive {
		t.Errorf("Strategy = %s, want active", first.Strategy)
	}

	// Only the per-call metadata (FromCache, InferenceTimeMS, CacheStats)
	// may differ; Body compares everything else.
	if !reflect.DeepEqual(first.Body(), second.Body()) {
		t.Errorf("cached body differs:\n first %+v\nsecond %+v", first.Body(), second.Body())
	}
	if second.CacheStats == nil || second.CacheStats.Hits != 1 {
		t.Errorf("CacheStats = %+v, want one hit", second.CacheStats)
	}

	// A fresh engine computes the same body without the cache
	fresh := newScenarioEngine(t).Recommend(context.Background(), req)
	if !reflect.DeepEqual(fresh.Body(), first.Body()) {
		t.Errorf("fresh engine body differs:\n fresh %+v\n first %+v", fresh.Body(), first.Body())
	}
}
