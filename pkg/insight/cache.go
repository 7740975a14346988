// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultCacheTTL is how long a cached insight entry stays usable.
const DefaultCacheTTL = 24 * time.Hour

// cacheKeyPrefix scopes insight entries inside a shared database.
// The suffix mirrors the company scope ("all" for the unfiltered view),
// kept close to the historical aiRecommendations_<company|all> naming
// so operators can correlate old and new keys.
const cacheKeyPrefix = "insight/"

// Entry is one cached insight result.
type Entry struct {
	Key         string    `json:"key"`
	Fingerprint string    `json:"fingerprint"`
	Insights    []string  `json:"insights"`
	Source      Source    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
}

// Cache stores insight entries keyed by company scope. A missing,
// stale, or mismatched entry is a miss, never an error; only storage
// failures surface as errors, and callers are expected to treat even
// those as misses.
type Cache interface {
	// Get returns the entry for key if present, regardless of
	// freshness. Freshness is the generator's call because it also
	// needs the fingerprint comparison.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Put stores or overwrites the entry for key.
	Put(ctx context.Context, key string, entry Entry) error
}

// CacheKey returns the scope key for a company filter. The empty
// string means the all-companies view.
func CacheKey(company string) string {
	if company == "" {
		return "all"
	}
	return company
}

// BadgerCache is a durable Cache on BadgerDB. Entries are JSON values
// under the insight/ prefix and survive process restarts, which is what
// lets a freshly started process serve cached insights without a new
// upstream call.
type BadgerCache struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewBadgerCache wraps an open database. The database is shared with
// other stores; this cache only touches keys under its own prefix.
func NewBadgerCache(db *badger.DB, logger *slog.Logger) *BadgerCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerCache{db: db, logger: logger}
}

// Get implements Cache. A corrupted value is logged and reported as a
// miss so one bad record cannot wedge insight generation.
func (c *BadgerCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, false, err
	}

	var entry Entry
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKeyPrefix + key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entry); err != nil {
				c.logger.Warn("discarding corrupted insight cache entry",
					"key", key, "error", err)
				return nil
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("read insight cache %q: %w", key, err)
	}
	return entry, found, nil
}

// Put implements Cache. Last writer wins; there is no versioning.
func (c *BadgerCache) Put(ctx context.Context, key string, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode insight cache entry %q: %w", key, err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(cacheKeyPrefix+key), value)
	})
	if err != nil {
		return fmt.Errorf("write insight cache %q: %w", key, err)
	}
	return nil
}

var _ Cache = (*BadgerCache)(nil)
