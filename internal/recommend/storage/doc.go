// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package storage provides model snapshot persistence for the recommender.
//
// Snapshots live in a Blobs backend under fixed keys:
//
//	models/cb_pca50   catalog embeddings (CatalogSnapshot)
//	models/cf_svd     latent factors (FactorsSnapshot, optional)
//	config/metadata   popularity counts and model metadata (JSON)
//
// # Backends
//
//   - FileBlobs: one file per key under a base directory
//   - BadgerBlobs: BadgerDB, on disk or in memory
//   - RedisBlobs: a Redis server, one string value per key
//
// # Storage Format
//
// Matrix snapshots are gob-encoded, gzip-compressed and wrapped with a
// SnapshotInfo header carrying the SHA-256 checksum of the payload. Load
// verifies the checksum before decoding. The metadata snapshot is plain JSON.
//
// # Loading
//
// Loader assembles a model.Bundle from the snapshots. Popularity comes from
// the metadata snapshot or, with the duckdb source, is aggregated directly
// from a CSV or Parquet interaction log.
package storage
