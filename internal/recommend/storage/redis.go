// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBlobs implements Blobs on a Redis server, one string value per key.
type RedisBlobs struct {
	client *redis.Client
	prefix string
}

// RedisConfig contains connection settings for RedisBlobs.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Prefix is prepended to every key. Default: "hybridrec:".
	Prefix string
}

// NewRedisBlobs connects to Redis and verifies the connection with PING.
func NewRedisBlobs(ctx context.Context, cfg RedisConfig) (*RedisBlobs, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // ping error takes precedence
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	return NewRedisBlobsFromClient(client, cfg.Prefix), nil
}

// NewRedisBlobsFromClient wraps an existing client.
func NewRedisBlobsFromClient(client *redis.Client, prefix string) *RedisBlobs {
	if prefix == "" {
		prefix = "hybridrec:"
	}
	return &RedisBlobs{client: client, prefix: prefix}
}

// Get reads the blob for key.
func (r *RedisBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key without expiry.
func (r *RedisBlobs) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (r *RedisBlobs) Close() error {
	return r.client.Close()
}
