// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBlobNotFound is returned when a key has no stored blob.
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid blob key")

// Blobs is a flat key/value store for snapshot payloads. Keys use forward
// slashes, e.g. "models/cb_pca50".
type Blobs interface {
	// Get returns the blob for key or ErrBlobNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous blob.
	Put(ctx context.Context, key string, data []byte) error

	// Close releases the underlying resources.
	Close() error
}

// validateKey rejects empty, absolute, and parent-relative keys.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// FileBlobs stores each blob as a file under a base directory.
type FileBlobs struct {
	baseDir string
}

// blobSuffix is appended to every key on disk.
const blobSuffix = ".blob"

// NewFileBlobs creates a file-backed blob store, creating baseDir if needed.
func NewFileBlobs(baseDir string) (*FileBlobs, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileBlobs{baseDir: baseDir}, nil
}

// Get reads the blob file for key.
func (f *FileBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path(key)) //nolint:gosec // path is built from a validated key
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return data, nil
}

// Put writes the blob to a temporary file and renames it into place.
func (f *FileBlobs) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return fmt.Errorf("create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("commit blob %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for file storage.
func (f *FileBlobs) Close() error {
	return nil
}

func (f *FileBlobs) path(key string) string {
	return filepath.Join(f.baseDir, filepath.FromSlash(key)+blobSuffix)
}
