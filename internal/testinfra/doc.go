// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package testinfra starts throwaway service containers for integration
// tests using testcontainers-go.
//
// Everything here sits behind the integration build tag:
//
//	go test -tags integration ./internal/recommend/storage/...
//
// # Redis
//
// RedisContainer backs the redis model store tests:
//
//	func TestRedisBlobs(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//
//	    blobs, err := storage.NewRedisBlobs(ctx, storage.RedisConfig{Addr: redis.Addr})
//	    // ...
//	}
//
// Tests are skipped when Docker is unavailable. The first run pulls the image.
package testinfra
