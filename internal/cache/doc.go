// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package cache provides the bounded response cache used by the recommendation engine.

# Overview

The package provides:
  - LRU: a generic, thread-safe least-recently-used cache with hit/miss accounting
  - Stats: size, capacity, hits, misses and hit rate
  - GenerateKey: compact sha256-based keys from JSON-serializable parameters

# Eviction

Both Get hits and Put calls mark an entry as most recently used. When a Put
pushes the cache over capacity, the entry that has gone longest without being
touched is evicted. Expired entries (when a TTL is configured) are removed
lazily on Get.

# Usage Example

	c := cache.NewLRU[string, Result](100, 0)
	c.Put(key, result)
	if v, ok := c.Get(key); ok {
	    // cached
	}
	stats := c.Stats() // {Size, Capacity, Hits, Misses, HitRate}

# Thread Safety

All operations take a single mutex; none of them fail.
*/
package cache
