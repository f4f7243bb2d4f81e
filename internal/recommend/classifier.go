// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

// Tier thresholds (inclusive upper bound of each band).
const (
	ColdStartMaxHistory = 5
	ModerateMaxHistory  = 15
)

var (
	coldStartWeights = Weights{Content: 1.0, Collaborative: 0.0}
	moderateWeights  = Weights{Content: 0.7, Collaborative: 0.3}
	activeWeights    = Weights{Content: 0.3, Collaborative: 0.7}
)

// Classify maps a history length to a strategy tier and its blend weights.
// Exactly 5 is cold_start and exactly 15 is moderate.
func Classify(historyLength int) (Tier, Weights) {
	switch {
	case historyLength <= ColdStartMaxHistory:
		return TierColdStart, coldStartWeights
	case historyLength <= ModerateMaxHistory:
		return TierModerate, moderateWeights
	default:
		return TierActive, activeWeights
	}
}
