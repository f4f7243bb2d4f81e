// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package algorithms implements the scorers plugged into the hybrid engine.
//
// # Scorers
//
// Content-Based:
//   - ContentBased: cosine similarity between catalog embeddings and the
//     mean embedding of the user's last 20 interactions
//
// Collaborative:
//   - SeededCollaborative: deterministic placeholder signal seeded by user id
//   - FactorCollaborative: latent factor dot products, falling back to the
//     seeded scorer for users without a factor row
//
// # Interface
//
// ContentBased implements recommend.ContentScorer; both collaborative
// scorers implement recommend.CollaborativeScorer. Scorers hold no mutable
// state and read model data from the immutable bundle passed to each call,
// so they are safe for concurrent use.
//
// # Selection
//
// Top-k selection uses TopK, a bounded min-heap keyed by (score, -id). Ties
// on score always resolve to the lower item id.
package algorithms
