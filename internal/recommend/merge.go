// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"fmt"
	"sort"
)

// Merge blends content and collaborative candidates into the final ranking.
//
// Each non-empty list is min-max normalized into [0,1] independently (a list
// with a single distinct score maps to 1.0), then multiplied by its weight.
// Ids present in both lists have their weighted scores summed and are tagged
// hybrid. The union is sorted by score descending, ties by ascending id,
// truncated to n and ranked from 1.
//
// When both lists are empty Merge returns ErrEmptyCandidateSet so the caller
// can choose the cold-start path.
func Merge(content, collaborative []Candidate, w Weights, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: merge size must be positive, got %d", ErrInvalidInput, n)
	}

	type merged struct {
		score  float64
		source Source
	}

	union := make(map[int]*merged, len(content)+len(collaborative))
	add := func(list []Candidate, weight float64, source Source) {
		for id, score := range normalizeMinMax(list) {
			weighted := score * weight
			if m, ok := union[id]; ok {
				m.score += weighted
				m.source = SourceHybrid
				continue
			}
			union[id] = &merged{score: weighted, source: source}
		}
	}
	add(content, w.Content, SourceContent)
	add(collaborative, w.Collaborative, SourceCollaborative)

	if len(union) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	entries := make([]Entry, 0, len(union))
	for id, m := range union {
		entries = append(entries, Entry{ItemID: id, Score: m.score, Source: m.source})
	}
	sortEntries(entries)

	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}

// normalizeMinMax maps scores into [0,1]. If every score is identical each
// entry maps to 1.0. Duplicate ids keep their highest normalized score.
func normalizeMinMax(list []Candidate) map[int]float64 {
	if len(list) == 0 {
		return nil
	}

	minScore, maxScore := list[0].Score, list[0].Score
	for _, c := range list[1:] {
		if c.Score < minScore {
			minScore = c.Score
		}
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}

	out := make(map[int]float64, len(list))
	spread := maxScore - minScore
	for _, c := range list {
		norm := 1.0
		if spread > 0 {
			norm = (c.Score - minScore) / spread
		}
		if prev, ok := out[c.ItemID]; ok && prev >= norm {
			continue
		}
		out[c.ItemID] = norm
	}
	return out
}

// sortEntries orders by score descending, then item id ascending.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ItemID < entries[j].ItemID
	})
}

// SortCandidates orders candidates by score descending, then item id ascending.
func SortCandidates(candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ItemID < candidates[j].ItemID
	})
}
