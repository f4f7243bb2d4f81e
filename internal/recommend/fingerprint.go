// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"sort"

	"github.com/tomtom215/hybridrec/internal/cache"
)

// DefaultHistoryWindow is how many of the most recent history ids feed scoring.
const DefaultHistoryWindow = 20

// fingerprintParams is the canonical JSON form hashed into a cache key.
type fingerprintParams struct {
	UserID      int   `json:"u"`
	Window      []int `json:"h"`
	N           int   `json:"n"`
	ExcludeSeen bool  `json:"x"`
	Tier        Tier  `json:"t"`
}

// Fingerprint derives the response cache key for a request using the
// default history window.
func Fingerprint(userID int, history []int, n int, excludeSeen bool) string {
	return FingerprintWindow(userID, history, n, excludeSeen, DefaultHistoryWindow)
}

// FingerprintWindow derives the response cache key for a request.
//
// The key combines the user id, an order-independent digest of the most
// recent window of history (sorted, duplicates kept since they change the
// mean user vector), the requested count, the exclude-seen flag and the tier
// implied by the full history length. Requests that differ only in the order
// of their windowed history share a key.
func FingerprintWindow(userID int, history []int, n int, excludeSeen bool, window int) string {
	recent := lastN(history, window)
	sorted := make([]int, len(recent))
	copy(sorted, recent)
	sort.Ints(sorted)

	tier, _ := Classify(len(history))

	return cache.GenerateKey("rec", fingerprintParams{
		UserID:      userID,
		Window:      sorted,
		N:           n,
		ExcludeSeen: excludeSeen,
		Tier:        tier,
	})
}

// lastN returns the trailing window of history without copying.
func lastN(history []int, window int) []int {
	if window <= 0 || len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}
