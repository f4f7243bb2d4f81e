// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hybridrec/internal/recommend/model"
)

// ErrChecksumMismatch is returned when a snapshot payload fails verification.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// SnapshotInfo describes a stored snapshot.
type SnapshotInfo struct {
	// Key is the blob key the snapshot is stored under.
	Key string `json:"key"`

	// Version is a caller-assigned version (monotonically increasing).
	Version int `json:"version"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// Rows and Dim describe the matrix shape, when applicable.
	Rows int `json:"rows"`
	Dim  int `json:"dim"`

	// Checksum is the SHA-256 checksum of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// CatalogSnapshot is the serialized embedding matrix, row index == item id.
type CatalogSnapshot struct {
	Embeddings [][]float64
}

// FactorsSnapshot is the serialized latent factor model.
type FactorsSnapshot struct {
	Users map[int][]float64
	Items [][]float64
}

// MetadataSnapshot is stored as plain JSON so operators can inspect it.
type MetadataSnapshot struct {
	// ModelVersion identifies the training run the snapshots came from.
	ModelVersion string `json:"model_version"`

	// CreatedAt is when the snapshots were produced.
	CreatedAt time.Time `json:"created_at"`

	// Popularity holds interaction counts for the cold-start ranking.
	Popularity []model.ItemCount `json:"popularity"`

	// Params carries free-form training parameters.
	Params map[string]string `json:"params,omitempty"`
}

// storedSnapshot is the on-blob format for gob snapshots.
type storedSnapshot struct {
	Info           SnapshotInfo
	CompressedData []byte
}

// SnapshotStore persists model snapshots on a Blobs backend. Payloads are
// gob-encoded, gzip-compressed and verified with a SHA-256 checksum.
type SnapshotStore struct {
	blobs Blobs
	now   func() time.Time
}

// NewSnapshotStore creates a snapshot store over blobs.
func NewSnapshotStore(blobs Blobs) *SnapshotStore {
	return &SnapshotStore{blobs: blobs, now: time.Now}
}

// Blobs returns the underlying blob store.
func (s *SnapshotStore) Blobs() Blobs {
	return s.blobs
}

// Save stores data under key.
//
//nolint:gocritic // info passed by value is acceptable for this write operation
func (s *SnapshotStore) Save(ctx context.Context, key string, data interface{}, info SnapshotInfo) error {
	// Serialize
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	info.Checksum = hex.EncodeToString(hash[:])

	// Compress
	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	info.Key = key
	info.SizeBytes = int64(compressed.Len())
	info.SavedAt = s.now()

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(storedSnapshot{Info: info, CompressedData: compressed.Bytes()}); err != nil {
		return fmt.Errorf("encode snapshot envelope: %w", err)
	}

	if err := s.blobs.Put(ctx, key, out.Bytes()); err != nil {
		return fmt.Errorf("store snapshot %s: %w", key, err)
	}
	return nil
}

// Load reads the snapshot under key into target.
func (s *SnapshotStore) Load(ctx context.Context, key string, target interface{}) (*SnapshotInfo, error) {
	blob, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var stored storedSnapshot
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&stored); err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}

	// Decompress
	gzr, err := gzip.NewReader(bytes.NewReader(stored.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot %s: %w", key, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	// Verify checksum
	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != stored.Info.Checksum {
		return nil, fmt.Errorf("%w for %s: expected %s, got %s", ErrChecksumMismatch, key, stored.Info.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	return &stored.Info, nil
}

// SaveMetadata stores the metadata snapshot as JSON.
func (s *SnapshotStore) SaveMetadata(ctx context.Context, key string, meta *MetadataSnapshot) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store metadata %s: %w", key, err)
	}
	return nil
}

// LoadMetadata reads the JSON metadata snapshot.
func (s *SnapshotStore) LoadMetadata(ctx context.Context, key string) (*MetadataSnapshot, error) {
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var meta MetadataSnapshot
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata %s: %w", key, err)
	}
	return &meta, nil
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(CatalogSnapshot{})
	gob.Register(FactorsSnapshot{})
	gob.Register(SnapshotInfo{})
	gob.Register(storedSnapshot{})
}
