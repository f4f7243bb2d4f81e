// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// fakeContent implements ContentScorer for testing.
type fakeContent struct {
	out     []Candidate
	err     error
	panics  bool
	calls   atomic.Int32
	release chan struct{}
}

func (f *fakeContent) Name() string { return "fake_content" }

func (f *fakeContent) ScoreContent(_ *model.Bundle, _ []int, _ bool, limit int) ([]Candidate, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.panics {
		panic("content exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	out := append([]Candidate(nil), f.out...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeCollaborative implements CollaborativeScorer for testing.
type fakeCollaborative struct {
	out   []Candidate
	calls atomic.Int32
}

func (f *fakeCollaborative) Name() string { return "fake_collaborative" }

func (f *fakeCollaborative) ScoreCollaborative(_ *model.Bundle, _ int, limit int) ([]Candidate, error) {
	f.calls.Add(1)
	out := append([]Candidate(nil), f.out...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// recordingObserver implements Observer for testing.
type recordingObserver struct {
	mu       sync.Mutex
	statuses []Status
	scorers  map[string]int
}

func (r *recordingObserver) ObserveRecommendation(status Status, _ Reason, _ bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recordingObserver) ObserveScorer(scorer string, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scorers == nil {
		r.scorers = make(map[string]int)
	}
	r.scorers[scorer]++
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// testBundle builds a 10-item catalog with popularity favoring high ids.
func testBundle(t *testing.T) *model.Bundle {
	t.Helper()

	rows := make([][]float64, 10)
	counts := make(map[int]int64, 10)
	for i := range rows {
		rows[i] = []float64{float64(i + 1), 1}
		counts[i] = int64(i * 10)
	}
	catalog, err := model.NewCatalog(rows)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	b, err := model.NewBundle(catalog, model.NewPopularityFromMap(counts), nil)
	if err != nil {
		t.Fatalf("NewBundle() error = %v", err)
	}
	return b
}

func newTestEngine(t *testing.T, cfg *Config, content *fakeContent, collab *fakeCollaborative) *Engine {
	t.Helper()

	engine, err := NewEngine(cfg, model.NewProviderWithBundle(testBundle(t)), content, collab, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func history(n int) []int {
	h := make([]int, n)
	for i := range h {
		h[i] = i % 10
	}
	return h
}

// --- Test: NewEngine ---

func TestNewEngine(t *testing.T) {
	t.Parallel()

	provider := model.NewProvider()

	tests := []struct {
		name     string
		cfg      *Config
		provider *model.Provider
		content  ContentScorer
		collab   CollaborativeScorer
		wantErr  bool
	}{
		{"nil config uses defaults", nil, provider, &fakeContent{}, &fakeCollaborative{}, false},
		{"invalid config", &Config{}, provider, &fakeContent{}, &fakeCollaborative{}, true},
		{"missing provider", nil, nil, &fakeContent{}, &fakeCollaborative{}, true},
		{"missing content scorer", nil, provider, nil, &fakeCollaborative{}, true},
		{"missing collaborative scorer", nil, provider, &fakeContent{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine(tt.cfg, tt.provider, tt.content, tt.collab, testLogger())
			if tt.wantErr {
				if err == nil {
					t.Error("NewEngine() = nil error, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEngine() error = %v, want nil", err)
			}
			if engine.cache == nil {
				t.Error("engine.cache = nil, want non-nil")
			}
		})
	}
}

// --- Test: Recommend ---

func TestEngine_Recommend_ModelUnavailable(t *testing.T) {
	t.Parallel()

	content := &fakeContent{}
	collab := &fakeCollaborative{}
	engine, err := NewEngine(nil, model.NewProvider(), content, collab, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	req := NewRequest(42, []int{1, 2, 3}, 10)
	first := engine.Recommend(context.Background(), req)
	second := engine.Recommend(context.Background(), req)

	if first.Status != StatusFallback || first.Reason != ReasonModelUnavailable {
		t.Fatalf("status/reason = %s/%s, want fallback/model_unavailable", first.Status, first.Reason)
	}
	if len(first.Recommendations) != 10 {
		t.Fatalf("len(recommendations) = %d, want 10", len(first.Recommendations))
	}

	seen := make(map[int]bool)
	for i, e := range first.Recommendations {
		if e.Score != FallbackScore || e.Source != SourceFallback {
			t.Errorf("entry %d = %+v, want score 0.5 source fallback", i, e)
		}
		if e.ItemID < 0 || e.ItemID >= 1000 {
			t.Errorf("entry %d id = %d, want in [0,1000)", i, e.ItemID)
		}
		if seen[e.ItemID] {
			t.Errorf("duplicate fallback id %d", e.ItemID)
		}
		seen[e.ItemID] = true
		if e.ItemID != second.Recommendations[i].ItemID {
			t.Errorf("fallback not deterministic at %d: %d vs %d", i, e.ItemID, second.Recommendations[i].ItemID)
		}
	}

	if content.calls.Load() != 0 || collab.calls.Load() != 0 {
		t.Error("scorers should not run without a model")
	}
	if second.FromCache {
		t.Error("fallback results must not be cached")
	}
	if engine.Ready() {
		t.Error("Ready() = true, want false")
	}
}

func TestEngine_Recommend_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
	}{
		{"negative user", NewRequest(-1, []int{1}, 5)},
		{"zero n", NewRequest(1, []int{1}, 0)},
		{"n above maximum", NewRequest(1, []int{1}, 101)},
		{"negative history id", NewRequest(1, []int{1, -3}, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			content := &fakeContent{out: []Candidate{{ItemID: 1, Score: 1}}}
			engine := newTestEngine(t, nil, content, &fakeCollaborative{})

			result := engine.Recommend(context.Background(), tt.req)
			if result.Status != StatusError || result.Reason != ReasonInvalidInput {
				t.Errorf("status/reason = %s/%s, want error/invalid_input", result.Status, result.Reason)
			}
			if len(result.Recommendations) != 0 {
				t.Errorf("len(recommendations) = %d, want 0", len(result.Recommendations))
			}
			if result.Error == "" {
				t.Error("Error message is empty")
			}
			if content.calls.Load() != 0 {
				t.Error("scorer ran for an invalid request")
			}
			if engine.Stats().Errors != 1 {
				t.Errorf("Stats().Errors = %d, want 1", engine.Stats().Errors)
			}
		})
	}
}

func TestEngine_Recommend_Success(t *testing.T) {
	t.Parallel()

	content := &fakeContent{out: []Candidate{{ItemID: 7, Score: 0.9}, {ItemID: 8, Score: 0.4}, {ItemID: 9, Score: 0.2}}}
	collab := &fakeCollaborative{out: []Candidate{{ItemID: 9, Score: 0.95}, {ItemID: 12, Score: 0.5}}}
	engine := newTestEngine(t, nil, content, collab)

	result := engine.Recommend(context.Background(), NewRequest(3, history(8), 3))

	if result.Status != StatusSuccess {
		t.Fatalf("Status = %s (%s), want success", result.Status, result.Error)
	}
	if result.Strategy != TierModerate {
		t.Errorf("Strategy = %s, want moderate", result.Strategy)
	}
	if result.Weights == nil || result.Weights.Content != 0.7 {
		t.Errorf("Weights = %+v, want content 0.7", result.Weights)
	}
	if result.Interactions != 8 || result.ValidHistory != 8 {
		t.Errorf("Interactions/ValidHistory = %d/%d, want 8/8", result.Interactions, result.ValidHistory)
	}
	if len(result.Recommendations) != 3 {
		t.Fatalf("len(recommendations) = %d, want 3", len(result.Recommendations))
	}
	for i, e := range result.Recommendations {
		if e.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, e.Rank, i+1)
		}
		if i > 0 && e.Score > result.Recommendations[i-1].Score {
			t.Errorf("entries not sorted descending at %d", i)
		}
	}
	// 7: 0.7 content, 9: 0.0 + 0.3 hybrid, 8: 0.2 content
	if result.Recommendations[0].ItemID != 7 || result.Recommendations[0].Source != SourceContent {
		t.Errorf("entry 0 = %+v, want content item 7", result.Recommendations[0])
	}
	if result.Recommendations[1].ItemID != 9 || result.Recommendations[1].Source != SourceHybrid {
		t.Errorf("entry 1 = %+v, want hybrid item 9", result.Recommendations[1])
	}
	if result.CacheStats == nil {
		t.Error("CacheStats = nil on success path")
	}
	if len(result.ModelsLoaded) == 0 {
		t.Error("ModelsLoaded is empty")
	}
}

func TestEngine_Recommend_ColdStartTierPadsWithCollaborative(t *testing.T) {
	t.Parallel()

	content := &fakeContent{out: []Candidate{{ItemID: 7, Score: 0.9}}}
	collab := &fakeCollaborative{out: []Candidate{
		{ItemID: 5, Score: 0.9},
		{ItemID: 1, Score: 0.8},
		{ItemID: 4, Score: 0.7},
		{ItemID: 2, Score: 0.6},
	}}
	engine := newTestEngine(t, nil, content, collab)

	result := engine.Recommend(context.Background(), NewRequest(1, []int{8, 9}, 5))

	if result.Status != StatusSuccess || result.Strategy != TierColdStart {
		t.Fatalf("status/strategy = %s/%s, want success/cold_start", result.Status, result.Strategy)
	}
	if collab.calls.Load() != 1 {
		t.Errorf("collaborative scorer called %d times, want 1", collab.calls.Load())
	}

	want := []Entry{
		{Rank: 1, ItemID: 7, Score: 1.0, Source: SourceContent},
		{Rank: 2, ItemID: 1, Score: 0, Source: SourceCollaborative},
		{Rank: 3, ItemID: 2, Score: 0, Source: SourceCollaborative},
		{Rank: 4, ItemID: 4, Score: 0, Source: SourceCollaborative},
		{Rank: 5, ItemID: 5, Score: 0, Source: SourceCollaborative},
	}
	if len(result.Recommendations) != len(want) {
		t.Fatalf("recommendations = %+v, want %d entries", result.Recommendations, len(want))
	}
	for i, e := range result.Recommendations {
		if e != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestEngine_Recommend_EmptyHistorySkipsScorers(t *testing.T) {
	t.Parallel()

	content := &fakeContent{out: []Candidate{{ItemID: 4, Score: 0.3}}}
	collab := &fakeCollaborative{out: []Candidate{{ItemID: 5, Score: 0.9}}}
	engine := newTestEngine(t, nil, content, collab)

	result := engine.Recommend(context.Background(), NewRequest(1, nil, 2))

	if result.Status != StatusColdStart || result.Reason != ReasonEmptyHistory {
		t.Fatalf("status/reason = %s/%s, want cold_start/empty_history", result.Status, result.Reason)
	}
	if content.calls.Load() != 0 || collab.calls.Load() != 0 {
		t.Errorf("scorer calls = %d/%d, want 0/0", content.calls.Load(), collab.calls.Load())
	}
	for _, e := range result.Recommendations {
		if e.Source != SourcePopular {
			t.Errorf("entry %+v, want popular source", e)
		}
	}
}

func TestEngine_Recommend_EmptyCandidates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		history    []int
		content    *fakeContent
		wantReason Reason
	}{
		{"empty history", nil, &fakeContent{}, ReasonEmptyHistory},
		{"degenerate profile", []int{1, 2}, &fakeContent{err: ErrDegenerateProfile}, ReasonEmptyCandidateSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := newTestEngine(t, nil, tt.content, &fakeCollaborative{})

			result := engine.Recommend(context.Background(), NewRequest(1, tt.history, 3))
			if result.Status != StatusColdStart || result.Reason != tt.wantReason {
				t.Fatalf("status/reason = %s/%s, want cold_start/%s", result.Status, result.Reason, tt.wantReason)
			}

			wantIDs := []int{9, 8, 7}
			wantScores := []float64{1.0, 0.95, 0.9}
			if len(result.Recommendations) != 3 {
				t.Fatalf("len(recommendations) = %d, want 3", len(result.Recommendations))
			}
			for i, e := range result.Recommendations {
				if e.ItemID != wantIDs[i] || e.Source != SourcePopular {
					t.Errorf("entry %d = %+v, want popular item %d", i, e, wantIDs[i])
				}
				if diff := e.Score - wantScores[i]; diff > 1e-9 || diff < -1e-9 {
					t.Errorf("entry %d score = %v, want %v", i, e.Score, wantScores[i])
				}
			}
			if engine.Stats().ColdStarts != 1 {
				t.Errorf("Stats().ColdStarts = %d, want 1", engine.Stats().ColdStarts)
			}
		})
	}
}

func TestEngine_Recommend_ScorerPanic(t *testing.T) {
	t.Parallel()

	content := &fakeContent{panics: true}
	engine := newTestEngine(t, nil, content, &fakeCollaborative{})
	req := NewRequest(1, []int{1, 2}, 4)

	result := engine.Recommend(context.Background(), req)
	if result.Status != StatusError || result.Reason != ReasonInternal {
		t.Fatalf("status/reason = %s/%s, want error/internal", result.Status, result.Reason)
	}
	if len(result.Recommendations) != 4 {
		t.Fatalf("len(recommendations) = %d, want 4", len(result.Recommendations))
	}
	for _, e := range result.Recommendations {
		if e.Score != FallbackScore || e.Source != SourceFallback {
			t.Errorf("entry = %+v, want fallback score 0.5", e)
		}
	}

	// Errors are not cached
	engine.Recommend(context.Background(), req)
	if content.calls.Load() != 2 {
		t.Errorf("content calls = %d, want 2", content.calls.Load())
	}
}

func TestEngine_Recommend_ExcludeSeenFiltersCollaborative(t *testing.T) {
	t.Parallel()

	h := history(20) // ids 0..9
	collab := &fakeCollaborative{out: []Candidate{{ItemID: 3, Score: 0.9}, {ItemID: 15, Score: 0.8}, {ItemID: 16, Score: 0.7}}}
	engine := newTestEngine(t, nil, &fakeContent{}, collab)

	result := engine.Recommend(context.Background(), NewRequest(1, h, 5))
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %s, want success", result.Status)
	}
	for _, e := range result.Recommendations {
		if e.ItemID == 3 {
			t.Error("seen item 3 was recommended")
		}
	}

	req := NewRequest(1, h, 5)
	req.ExcludeSeen = false
	result = engine.Recommend(context.Background(), req)
	if result.Recommendations[0].ItemID != 3 {
		t.Errorf("top item = %d, want 3 with exclude_seen off", result.Recommendations[0].ItemID)
	}
}

// --- Test: Cache ---

func TestEngine_Recommend_CacheHit(t *testing.T) {
	t.Parallel()

	content := &fakeContent{out: []Candidate{{ItemID: 5, Score: 0.5}}}
	engine := newTestEngine(t, nil, content, &fakeCollaborative{})

	first := engine.Recommend(context.Background(), NewRequest(1, []int{1, 2, 3}, 5))
	if first.FromCache {
		t.Error("first request should be a cache miss")
	}

	// Reordered history shares the fingerprint
	second := engine.Recommend(context.Background(), NewRequest(1, []int{3, 1, 2}, 5))
	if !second.FromCache {
		t.Error("second request should be a cache hit")
	}
	if content.calls.Load() != 1 {
		t.Errorf("content calls = %d, want 1", content.calls.Load())
	}
	if second.Recommendations[0].ItemID != first.Recommendations[0].ItemID {
		t.Error("cached result differs from computed result")
	}

	stats := engine.Stats()
	if stats.TotalRequests != 2 || stats.CacheHits != 1 {
		t.Errorf("Stats() = %+v, want 2 requests, 1 hit", stats)
	}
	if stats.Cache.Size != 1 {
		t.Errorf("Stats().Cache.Size = %d, want 1", stats.Cache.Size)
	}
}

func TestEngine_Recommend_CachedResultIsolated(t *testing.T) {
	t.Parallel()

	content := &fakeContent{out: []Candidate{{ItemID: 5, Score: 0.5}}}
	engine := newTestEngine(t, nil, content, &fakeCollaborative{})
	req := NewRequest(1, []int{1}, 5)

	first := engine.Recommend(context.Background(), req)
	first.Recommendations[0].ItemID = 999

	second := engine.Recommend(context.Background(), req)
	if second.Recommendations[0].ItemID != 5 {
		t.Errorf("cached entry mutated through caller: got %d", second.Recommendations[0].ItemID)
	}
}

func TestEngine_Recommend_CacheDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	content := &fakeContent{out: []Candidate{{ItemID: 5, Score: 0.5}}}
	engine := newTestEngine(t, cfg, content, &fakeCollaborative{})

	req := NewRequest(1, []int{1}, 5)
	engine.Recommend(context.Background(), req)
	result := engine.Recommend(context.Background(), req)

	if result.FromCache {
		t.Error("FromCache = true with cache disabled")
	}
	if result.CacheStats != nil {
		t.Error("CacheStats should be nil with cache disabled")
	}
	if content.calls.Load() != 2 {
		t.Errorf("content calls = %d, want 2", content.calls.Load())
	}
}

func TestEngine_Recommend_SingleFlight(t *testing.T) {
	t.Parallel()

	content := &fakeContent{
		out:     []Candidate{{ItemID: 5, Score: 0.5}},
		release: make(chan struct{}),
	}
	engine := newTestEngine(t, nil, content, &fakeCollaborative{})
	req := NewRequest(1, []int{1, 2}, 5)

	const workers = 8
	var wg sync.WaitGroup
	results := make([]Result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = engine.Recommend(context.Background(), req)
		}(i)
	}

	// Let the leader start scoring, then give the others time to queue up
	for content.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(content.release)
	wg.Wait()

	if got := content.calls.Load(); got != 1 {
		t.Errorf("content calls = %d, want 1", got)
	}
	for i, r := range results {
		if r.Status != StatusSuccess || len(r.Recommendations) != 1 {
			t.Errorf("results[%d] = %s with %d items", i, r.Status, len(r.Recommendations))
		}
	}
}

// --- Test: Observer and concurrency ---

func TestEngine_Observer(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	engine := newTestEngine(t, nil, &fakeContent{out: []Candidate{{ItemID: 1, Score: 1}}}, &fakeCollaborative{})
	engine.SetObserver(obs)

	engine.Recommend(context.Background(), NewRequest(1, history(10), 5))
	engine.Recommend(context.Background(), NewRequest(1, nil, 0))

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.statuses) != 2 || obs.statuses[0] != StatusSuccess || obs.statuses[1] != StatusError {
		t.Errorf("observed statuses = %v, want [success error]", obs.statuses)
	}
	if obs.scorers["fake_content"] != 1 || obs.scorers["fake_collaborative"] != 1 {
		t.Errorf("observed scorers = %v, want one run each", obs.scorers)
	}
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	content := &fakeContent{out: []Candidate{{ItemID: 1, Score: 1}, {ItemID: 2, Score: 0.5}}}
	collab := &fakeCollaborative{out: []Candidate{{ItemID: 3, Score: 0.9}}}
	engine := newTestEngine(t, nil, content, collab)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result := engine.Recommend(context.Background(), NewRequest(i%4, history(i%20), 3))
			if result.Status == StatusError {
				t.Errorf("Recommend() error: %s", result.Error)
			}
			_ = engine.Stats()
		}(i)
	}
	wg.Wait()

	if got := engine.Stats().TotalRequests; got != 32 {
		t.Errorf("TotalRequests = %d, want 32", got)
	}
}

func TestEngine_GetConfig(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, nil, &fakeContent{}, &fakeCollaborative{})
	cfg := engine.GetConfig()
	cfg.Limits.MaxRecommendations = 1

	if engine.GetConfig().Limits.MaxRecommendations != 100 {
		t.Error("GetConfig() returned a shared config")
	}
}

func TestExcludeItems(t *testing.T) {
	t.Parallel()

	got := excludeItems([]Candidate{{ItemID: 1}, {ItemID: 2}, {ItemID: 3}}, []int{2})
	if len(got) != 2 || got[0].ItemID != 1 || got[1].ItemID != 3 {
		t.Errorf("excludeItems() = %+v, want items 1,3", got)
	}
}
