// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package model holds the immutable, pre-computed model artifacts the
// recommendation engine scores against: the embedding Catalog, the cold-start
// Popularity table and optional latent Factors, bundled together and
// published through a once-gated Provider.
//
// Nothing in this package performs I/O; artifacts are materialized by the
// storage package and handed over as plain Go values.
package model
