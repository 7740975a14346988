// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dashboard

import (
	"sync"
	"time"

	"github.com/sentinel-safety/sentinel/pkg/report"
)

// TrendTTL bounds reuse of the trend report list. Trend charts look at
// months of data, so a half-hour of staleness is invisible.
const TrendTTL = 30 * time.Minute

// TrendCache holds the raw report list backing trend charts so
// repeated view switches do not refetch it. Safe for concurrent use.
type TrendCache struct {
	mu       sync.Mutex
	reports  []report.Report
	cachedAt time.Time
	now      func() time.Time
}

// NewTrendCache returns an empty cache.
func NewTrendCache() *TrendCache {
	return &TrendCache{now: time.Now}
}

// WithClock injects a time source for tests.
func (c *TrendCache) WithClock(now func() time.Time) *TrendCache {
	c.now = now
	return c
}

// Get returns the cached reports and true while the entry is fresh.
func (c *TrendCache) Get() ([]report.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reports == nil || c.now().Sub(c.cachedAt) >= TrendTTL {
		return nil, false
	}
	return c.reports, true
}

// Put replaces the cached reports and restarts the TTL.
func (c *TrendCache) Put(reports []report.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports = reports
	c.cachedAt = c.now()
}

// Invalidate drops the cached entry, forcing the next Get to miss.
// Called after a new report is submitted.
func (c *TrendCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = nil
}
