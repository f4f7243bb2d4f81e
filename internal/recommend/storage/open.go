// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package storage

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Blob backend names.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

var (
	// ErrUnknownBackend is returned by OpenBlobs for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown blob backend")

	// ErrNoPath is returned when the file backend has no directory.
	ErrNoPath = errors.New("blob backend path is empty")
)

// BackendConfig selects and configures a Blobs implementation.
type BackendConfig struct {
	// Backend is "file" (default), "badger" or "redis".
	Backend string

	// Path is the directory for the file and badger backends.
	Path string

	// Redis is used by the redis backend.
	Redis RedisConfig
}

// OpenBlobs opens the configured backend. The caller closes it.
//
// The redis backend connects lazily: an unreachable server surfaces on the
// first Get, where the model loader's retry and circuit breaker handle it.
func OpenBlobs(cfg BackendConfig) (Blobs, error) {
	switch cfg.Backend {
	case BackendFile, "":
		if cfg.Path == "" {
			return nil, ErrNoPath
		}
		return NewFileBlobs(cfg.Path)
	case BackendBadger:
		return NewBadgerBlobs(cfg.Path)
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisBlobsFromClient(client, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
