// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package storage

import (
	"context"
	"errors"
	"testing"
)

func TestOpenBlobs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     func(t *testing.T) BackendConfig
		wantErr error
	}{
		{
			name: "file",
			cfg:  func(t *testing.T) BackendConfig { return BackendConfig{Backend: BackendFile, Path: t.TempDir()} },
		},
		{
			name: "default is file",
			cfg:  func(t *testing.T) BackendConfig { return BackendConfig{Path: t.TempDir()} },
		},
		{
			name: "badger",
			cfg:  func(t *testing.T) BackendConfig { return BackendConfig{Backend: BackendBadger, Path: t.TempDir()} },
		},
		{
			name:    "file without path",
			cfg:     func(*testing.T) BackendConfig { return BackendConfig{Backend: BackendFile} },
			wantErr: ErrNoPath,
		},
		{
			name:    "unknown",
			cfg:     func(*testing.T) BackendConfig { return BackendConfig{Backend: "s3"} },
			wantErr: ErrUnknownBackend,
		},
	}

	t.Run("redis connects lazily", func(t *testing.T) {
		t.Parallel()

		blobs, err := OpenBlobs(BackendConfig{Backend: BackendRedis, Redis: RedisConfig{Addr: "127.0.0.1:1"}})
		if err != nil {
			t.Fatalf("OpenBlobs: %v", err)
		}
		defer blobs.Close()
		if _, ok := blobs.(*RedisBlobs); !ok {
			t.Errorf("OpenBlobs returned %T, want *RedisBlobs", blobs)
		}
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			blobs, err := OpenBlobs(tt.cfg(t))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("OpenBlobs error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenBlobs: %v", err)
			}
			defer blobs.Close()

			if err := blobs.Put(ctx, "models/probe", []byte("ok")); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := blobs.Get(ctx, "models/probe")
			if err != nil || string(got) != "ok" {
				t.Errorf("Get = %q, %v; want ok", got, err)
			}
		})
	}
}
