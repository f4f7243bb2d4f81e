// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package recommend implements a hybrid recommendation engine that blends a
// content-based signal with a collaborative signal.
//
// # Architecture
//
// A request flows through the following stages:
//
//   - Validation: user id, requested count and history ids are checked
//   - Model check: without a loaded bundle a deterministic fallback is served
//   - Cache lookup: results are cached by a fingerprint of the request
//   - Classification: history length selects a tier and its blend weights
//   - Scoring: content and collaborative scorers run in parallel
//   - Merge: min-max normalization, weighting and fusion of both lists
//
// When both scorers return nothing the engine serves the most popular items
// and reports StatusColdStart.
//
// # Tiers
//
//	history length   tier         content  collaborative
//	0..5             cold_start   1.0      0.0
//	6..15            moderate     0.7      0.3
//	16+              active       0.3      0.7
//
// # Usage
//
//	provider := model.NewProvider()
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), provider,
//	    algorithms.NewContentBased(nil), algorithms.NewSeededCollaborative(nil), logger)
//
//	result := engine.Recommend(ctx, recommend.NewRequest(userID, history, 10))
//
// # Thread Safety
//
// The engine is safe for concurrent use. Model bundles are immutable once
// published by the provider, and concurrent misses on the same fingerprint
// share a single scoring pass.
package recommend
