// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aiservice

import (
	"sync"
	"time"
)

// DefaultResponseCacheTTL is how long a generated response is reused
// for identical metrics before the upstream is consulted again.
const DefaultResponseCacheTTL = time.Hour

// ResponseCache deduplicates upstream calls for identical metrics.
// Keys are the canonical serialization produced by cacheKey. Like the
// rate limiter, it is an interface so a shared external store can be
// swapped in for multi-instance deployments.
type ResponseCache interface {
	Get(key string) ([]string, bool)
	Put(key string, insights []string)
}

type respEntry struct {
	insights []string
	at       time.Time
}

// MemoryResponseCache is the single-instance implementation: a plain
// map with lazy expiry, last-writer-wins.
type MemoryResponseCache struct {
	mu      sync.Mutex
	entries map[string]respEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryResponseCache builds a cache. now may be nil for the system
// clock.
func NewMemoryResponseCache(ttl time.Duration, now func() time.Time) *MemoryResponseCache {
	if ttl <= 0 {
		ttl = DefaultResponseCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryResponseCache{
		entries: make(map[string]respEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns a fresh entry's insights. Expired entries are evicted on
// the way out.
func (c *MemoryResponseCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.at) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.insights, true
}

// Put stores insights for a key, stamping the current time.
func (c *MemoryResponseCache) Put(key string, insights []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = respEntry{insights: insights, at: c.now()}
}

var _ ResponseCache = (*MemoryResponseCache)(nil)
