// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"fmt"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// seenSimilarity is assigned to history items when seen items are excluded.
const seenSimilarity = -1.0

// ContentBased ranks catalog items by cosine similarity to the mean
// embedding of the user's recent history.
//
// The user vector is
//
//	u = mean(row[h] for h in window, h in catalog)
//	u = u / (|u| + 1e-8)
//
// and every item is scored as normalized_row[i] . u. Only positive
// similarities are kept; selection is a bounded min-heap so scoring is
// O(N log limit).
type ContentBased struct {
	historyWindow int
}

// ContentBasedConfig contains configuration for content-based scoring.
type ContentBasedConfig struct {
	// HistoryWindow is how many of the most recent history ids form the
	// user vector. Default: 20.
	HistoryWindow int
}

// NewContentBased creates a new content-based scorer.
func NewContentBased(cfg *ContentBasedConfig) *ContentBased {
	window := recommend.DefaultHistoryWindow
	if cfg != nil && cfg.HistoryWindow > 0 {
		window = cfg.HistoryWindow
	}
	return &ContentBased{historyWindow: window}
}

// Name returns the scorer identifier.
func (c *ContentBased) Name() string {
	return "content_based"
}

// ScoreContent implements recommend.ContentScorer.
func (c *ContentBased) ScoreContent(bundle *model.Bundle, history []int, excludeSeen bool, limit int) ([]recommend.Candidate, error) {
	if bundle == nil || bundle.Catalog == nil {
		return nil, recommend.ErrModelUnavailable
	}
	if len(history) == 0 || limit <= 0 {
		return nil, nil
	}

	catalog := bundle.Catalog
	window := history
	if len(window) > c.historyWindow {
		window = window[len(window)-c.historyWindow:]
	}

	profile, seen, err := buildProfile(catalog, window)
	if err != nil {
		return nil, err
	}

	top := newTopK(limit)
	for id := 0; id < catalog.Len(); id++ {
		sim := model.Dot(catalog.NormalizedRow(id), profile)
		if excludeSeen {
			if _, ok := seen[id]; ok {
				sim = seenSimilarity
			}
		}
		if sim <= 0 {
			continue
		}
		top.Offer(recommend.Candidate{ItemID: id, Score: sim})
	}

	return top.Sorted(), nil
}

// buildProfile averages the raw rows of every valid window id (duplicates
// count once per occurrence) and normalizes the result. It also returns the
// set of valid ids.
func buildProfile(catalog *model.Catalog, window []int) ([]float64, map[int]struct{}, error) {
	profile := make([]float64, catalog.Dim())
	seen := make(map[int]struct{}, len(window))
	valid := 0

	for _, id := range window {
		if !catalog.Contains(id) {
			continue
		}
		for j, v := range catalog.Row(id) {
			profile[j] += v
		}
		seen[id] = struct{}{}
		valid++
	}

	if valid == 0 {
		return nil, nil, fmt.Errorf("%w: no history id in catalog", recommend.ErrDegenerateProfile)
	}

	for j := range profile {
		profile[j] /= float64(valid)
	}

	norm := model.Norm(profile)
	if norm == 0 {
		return nil, nil, fmt.Errorf("%w: zero-norm user vector", recommend.ErrDegenerateProfile)
	}

	inv := 1 / (norm + model.NormEpsilon)
	for j := range profile {
		profile[j] *= inv
	}

	return profile, seen, nil
}
