// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"errors"
	"testing"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// contentBundle builds a small catalog with known geometry:
//
//	0: [1, 0]      3: [-1, 0]
//	1: [0.9, 0.1]  4: [0.7, 0.7]
//	2: [0, 1]      5: [1, 0]
func contentBundle(t *testing.T) *model.Bundle {
	t.Helper()

	catalog, err := model.NewCatalog([][]float64{
		{1, 0}, {0.9, 0.1}, {0, 1}, {-1, 0}, {0.7, 0.7}, {1, 0},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	b, err := model.NewBundle(catalog, nil, nil)
	if err != nil {
		t.Fatalf("NewBundle() error = %v", err)
	}
	return b
}

func ids(candidates []recommend.Candidate) []int {
	out := make([]int, len(candidates))
	for i, c := range candidates {
		out[i] = c.ItemID
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewContentBased(t *testing.T) {
	t.Parallel()

	if got := NewContentBased(nil).historyWindow; got != 20 {
		t.Errorf("default historyWindow = %d, want 20", got)
	}
	if got := NewContentBased(&ContentBasedConfig{HistoryWindow: 5}).historyWindow; got != 5 {
		t.Errorf("historyWindow = %d, want 5", got)
	}
	if got := NewContentBased(&ContentBasedConfig{HistoryWindow: -1}).historyWindow; got != 20 {
		t.Errorf("negative window historyWindow = %d, want 20", got)
	}
	if NewContentBased(nil).Name() != "content_based" {
		t.Error("unexpected scorer name")
	}
}

func TestContentBased_ScoreContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		history     []int
		excludeSeen bool
		limit       int
		wantIDs     []int
	}{
		{"exclude seen", []int{0}, true, 10, []int{5, 1, 4}},
		{"include seen ties to lower id", []int{0}, false, 10, []int{0, 5, 1, 4}},
		{"limit", []int{0}, true, 2, []int{5, 1}},
		{"invalid ids ignored", []int{0, 42}, true, 10, []int{5, 1, 4}},
		{"orthogonal profile", []int{2}, true, 10, []int{4, 1}},
		{"window drops old ids", append([]int{1}, repeat(0, 20)...), true, 10, []int{5, 1, 4}},
		{"empty history", nil, true, 10, []int{}},
		{"zero limit", []int{0}, true, 0, []int{}},
	}

	scorer := NewContentBased(nil)
	bundle := contentBundle(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := scorer.ScoreContent(bundle, tt.history, tt.excludeSeen, tt.limit)
			if err != nil {
				t.Fatalf("ScoreContent() error = %v", err)
			}
			if !equalIDs(ids(got), tt.wantIDs) {
				t.Errorf("ScoreContent() ids = %v, want %v", ids(got), tt.wantIDs)
			}
			for i, c := range got {
				if c.Score <= 0 {
					t.Errorf("candidate %d score = %v, want > 0", i, c.Score)
				}
				if i > 0 && c.Score > got[i-1].Score {
					t.Errorf("candidates not sorted at %d", i)
				}
			}
		})
	}
}

func TestContentBased_DegenerateProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		history []int
	}{
		{"no valid ids", []int{42, 99}},
		{"zero mean", []int{0, 3}},
	}

	scorer := NewContentBased(nil)
	bundle := contentBundle(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := scorer.ScoreContent(bundle, tt.history, true, 10)
			if !errors.Is(err, recommend.ErrDegenerateProfile) {
				t.Errorf("ScoreContent() error = %v, want ErrDegenerateProfile", err)
			}
			if len(got) != 0 {
				t.Errorf("ScoreContent() returned %d candidates, want 0", len(got))
			}
		})
	}
}

func TestContentBased_NilBundle(t *testing.T) {
	t.Parallel()

	_, err := NewContentBased(nil).ScoreContent(nil, []int{1}, true, 5)
	if !errors.Is(err, recommend.ErrModelUnavailable) {
		t.Errorf("ScoreContent(nil) error = %v, want ErrModelUnavailable", err)
	}
}

func TestContentBased_NeverReturnsWindowIDs(t *testing.T) {
	t.Parallel()

	scorer := NewContentBased(nil)
	bundle := contentBundle(t)

	histories := [][]int{{0, 1}, {4, 4, 4}, {1, 2, 5}, {0, 1, 2, 4, 5}}
	for _, h := range histories {
		got, err := scorer.ScoreContent(bundle, h, true, 10)
		if err != nil {
			t.Fatalf("ScoreContent(%v) error = %v", h, err)
		}
		for _, c := range got {
			for _, seen := range h {
				if c.ItemID == seen {
					t.Errorf("ScoreContent(%v) returned seen item %d", h, seen)
				}
			}
		}
	}
}

func BenchmarkContentBased_ScoreContent(b *testing.B) {
	rows := make([][]float64, 5000)
	for i := range rows {
		rows[i] = make([]float64, 50)
		for j := range rows[i] {
			rows[i][j] = float64((i*31+j*17)%97) - 48
		}
	}
	catalog, err := model.NewCatalog(rows)
	if err != nil {
		b.Fatal(err)
	}
	bundle, err := model.NewBundle(catalog, nil, nil)
	if err != nil {
		b.Fatal(err)
	}
	scorer := NewContentBased(nil)
	history := []int{1, 2, 3, 4, 5, 10, 20, 30, 40, 50}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = scorer.ScoreContent(bundle, history, true, 20)
	}
}

func repeat(id, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = id
	}
	return out
}
