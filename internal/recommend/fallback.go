// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"math/rand/v2"

	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// Synthetic scores for the non-model paths.
const (
	// PopularScoreStep is subtracted per rank from 1.0 on the cold-start path.
	PopularScoreStep = 0.05

	// FallbackScore is the constant score of every substitute item.
	FallbackScore = 0.5
)

// popularEntries returns the n most popular items with descending synthetic
// scores 1 - rank*PopularScoreStep, rank counted from 0.
func popularEntries(pop *model.Popularity, n int, source Source) []Entry {
	top := pop.Top(n)
	entries := make([]Entry, len(top))
	for i, item := range top {
		entries[i] = Entry{
			Rank:   i + 1,
			ItemID: item.ItemID,
			Score:  1.0 - float64(i)*PopularScoreStep,
			Source: source,
		}
	}
	return entries
}

// fallbackEntries flattens every score to FallbackScore.
func fallbackEntries(entries []Entry) []Entry {
	for i := range entries {
		entries[i].Score = FallbackScore
		entries[i].Source = SourceFallback
	}
	return entries
}

// seededFallbackEntries draws min(n, pool) distinct ids from [0, pool) with a
// generator seeded by the user id, so repeated calls agree.
func seededFallbackEntries(userID, n, pool int) []Entry {
	if n > pool {
		n = pool
	}
	if n <= 0 {
		return []Entry{}
	}

	// #nosec G404 -- deterministic placeholder ids, not security sensitive
	rng := rand.New(rand.NewPCG(uint64(userID), 0))
	ids := rng.Perm(pool)[:n]

	entries := make([]Entry, n)
	for i, id := range ids {
		entries[i] = Entry{
			Rank:   i + 1,
			ItemID: id,
			Score:  FallbackScore,
			Source: SourceFallback,
		}
	}
	return entries
}
