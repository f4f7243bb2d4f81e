// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"container/heap"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// TopK keeps the k best candidates seen so far. The root of the underlying
// min-heap is always the weakest kept candidate, so each Offer is O(log k).
// Not safe for concurrent use.
type TopK struct {
	k    int
	heap candidateHeap
}

func newTopK(k int) *TopK {
	if k < 0 {
		k = 0
	}
	return &TopK{k: k, heap: make(candidateHeap, 0, k)}
}

// Offer considers c for inclusion.
func (t *TopK) Offer(c recommend.Candidate) {
	if t.k == 0 {
		return
	}
	if len(t.heap) < t.k {
		heap.Push(&t.heap, c)
		return
	}
	if weaker(t.heap[0], c) {
		t.heap[0] = c
		heap.Fix(&t.heap, 0)
	}
}

// Len returns the number of kept candidates.
func (t *TopK) Len() int {
	return len(t.heap)
}

// Sorted returns the kept candidates by score descending, ties by id.
func (t *TopK) Sorted() []recommend.Candidate {
	out := make([]recommend.Candidate, len(t.heap))
	copy(out, t.heap)
	recommend.SortCandidates(out)
	return out
}

// weaker reports whether a ranks below b: lower score, or equal score and
// higher id.
func weaker(a, b recommend.Candidate) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.ItemID > b.ItemID
}

// candidateHeap implements heap.Interface with the weakest candidate on top.
type candidateHeap []recommend.Candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return weaker(h[i], h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) {
	*h = append(*h, x.(recommend.Candidate))
}

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
