// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"
)

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Size     int     `json:"size"`
	Capacity int     `json:"capacity"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
}

// HitRate returns hits / (hits + misses), or 0 when no lookups have happened.
func HitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// GenerateKey creates a cache key from a prefix and parameters.
// Parameters are serialized to JSON and hashed, so callers must pass values
// whose JSON form is already canonical (sorted slices, struct fields).
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to simple string key
		return fmt.Sprintf("%s:%v", prefix, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}
