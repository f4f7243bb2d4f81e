// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package cache

import (
	"sync"
	"time"
)

// DefaultCapacity is used when an LRU is created with a non-positive capacity.
const DefaultCapacity = 100

// lruEntry is a node in the LRU's doubly-linked list.
type lruEntry[K comparable, V any] struct {
	key       K
	value     V
	prev      *lruEntry[K, V]
	next      *lruEntry[K, V]
	expiresAt time.Time
}

// LRU implements a thread-safe, bounded Least Recently Used cache.
//
// Key features:
//   - O(1) Get, Put, Remove operations
//   - O(1) eviction of the least recently touched entry once capacity is exceeded
//   - Optional TTL with lazy expiration (zero TTL disables expiry)
//   - Hit/miss accounting at the cache level
//
// Both Get hits and Put (insert or overwrite) mark an entry as most recently used.
type LRU[K comparable, V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	// items maps keys to list nodes for O(1) lookup
	items map[K]*lruEntry[K, V]

	// head.next is the most recently used, tail.prev is the least recently used
	head *lruEntry[K, V]
	tail *lruEntry[K, V]

	hits   int64
	misses int64

	// now is replaceable in tests
	now func() time.Time
}

// NewLRU creates a new LRU cache with the given capacity and TTL.
// A non-positive capacity falls back to DefaultCapacity; a non-positive TTL
// means entries never expire.
func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl < 0 {
		ttl = 0
	}

	c := &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[K]*lruEntry[K, V], capacity),
		head:     &lruEntry[K, V]{},
		tail:     &lruEntry[K, V]{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get retrieves an entry from the cache.
// A hit moves the entry to the front and increments the hit counter;
// a miss (absent or expired) increments the miss counter.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, exists := c.items[key]
	if !exists {
		c.misses++
		return zero, false
	}

	if c.expired(entry) {
		c.removeEntry(entry)
		c.misses++
		return zero, false
	}

	c.moveToFront(entry)
	c.hits++
	return entry.value, true
}

// Peek returns the value for key without touching recency or counters.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, exists := c.items[key]
	if !exists || c.expired(entry) {
		return zero, false
	}
	return entry.value, true
}

// Put inserts or overwrites an entry and marks it most recently used.
// If the cache exceeds capacity afterwards, the least recently used entry is evicted.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.expiry()

	if entry, exists := c.items[key]; exists {
		entry.value = value
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return
	}

	entry := &lruEntry[K, V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Remove removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		c.removeEntry(entry)
		return true
	}
	return false
}

// Len returns the current number of entries in the cache.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Capacity returns the maximum number of entries.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Clear removes all entries. Hit/miss counters are preserved.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*lruEntry[K, V], c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Stats returns a snapshot of the cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:     len(c.items),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
		HitRate:  HitRate(c.hits, c.misses),
	}
}

// Internal methods (must be called with lock held)

func (c *LRU[K, V]) expiry() time.Time {
	if c.ttl == 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *LRU[K, V]) expired(entry *lruEntry[K, V]) bool {
	if entry.expiresAt.IsZero() {
		return false
	}
	return c.now().After(entry.expiresAt)
}

// addToFront adds an entry to the front of the list (most recently used).
func (c *LRU[K, V]) addToFront(entry *lruEntry[K, V]) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

// moveToFront moves an existing entry to the front of the list.
func (c *LRU[K, V]) moveToFront(entry *lruEntry[K, V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

// removeEntry removes an entry from both the list and the map.
func (c *LRU[K, V]) removeEntry(entry *lruEntry[K, V]) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

// evictOldest removes the least recently used entry.
func (c *LRU[K, V]) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return // List is empty
	}
	c.removeEntry(oldest)
}
