// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package model

import "sort"

// ItemCount pairs an item id with its interaction count.
type ItemCount struct {
	ItemID int   `json:"item_id"`
	Count  int64 `json:"count"`
}

// Popularity is the immutable ranked list of items used for cold-start
// recommendations. Items are ordered by count descending, ties broken by
// ascending item id.
type Popularity struct {
	ranked []ItemCount
}

// NewPopularity builds a table from id→count pairs. Negative ids are dropped
// and duplicate ids are summed.
func NewPopularity(items []ItemCount) *Popularity {
	counts := make(map[int]int64, len(items))
	for _, it := range items {
		if it.ItemID < 0 {
			continue
		}
		counts[it.ItemID] += it.Count
	}
	return NewPopularityFromMap(counts)
}

// NewPopularityFromMap builds a table from an id→count map.
func NewPopularityFromMap(counts map[int]int64) *Popularity {
	ranked := make([]ItemCount, 0, len(counts))
	for id, count := range counts {
		if id < 0 {
			continue
		}
		ranked = append(ranked, ItemCount{ItemID: id, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})

	return &Popularity{ranked: ranked}
}

// Len returns the number of ranked items.
func (p *Popularity) Len() int {
	if p == nil {
		return 0
	}
	return len(p.ranked)
}

// Top returns a copy of the n most popular items.
func (p *Popularity) Top(n int) []ItemCount {
	if p == nil || n <= 0 {
		return nil
	}
	if n > len(p.ranked) {
		n = len(p.ranked)
	}
	out := make([]ItemCount, n)
	copy(out, p.ranked[:n])
	return out
}
