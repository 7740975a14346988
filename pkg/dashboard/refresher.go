// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dashboard throttles view refreshes and caches trend data
// for display components polling the Sentinel API.
package dashboard

import (
	"sync"
	"time"
)

// View identifies a throttled display surface.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewTrends    View = "trends"
)

// Minimum intervals between automatic refreshes per view. Trends move
// slowly and poll a heavier aggregate, so they refresh less often.
const (
	DashboardInterval = 2 * time.Minute
	TrendsInterval    = 5 * time.Minute
)

// Refresher rate-limits view refreshes. Each view keeps its own timer;
// refreshing the dashboard never delays the trends view. Safe for
// concurrent use.
type Refresher struct {
	mu   sync.Mutex
	last map[View]time.Time
	now  func() time.Time
}

// NewRefresher returns a Refresher with no refresh history, so the
// first ShouldRefresh for every view reports true.
func NewRefresher() *Refresher {
	return &Refresher{
		last: make(map[View]time.Time),
		now:  time.Now,
	}
}

// WithClock injects a time source for tests.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

func interval(v View) time.Duration {
	if v == ViewTrends {
		return TrendsInterval
	}
	return DashboardInterval
}

// ShouldRefresh reports whether the view's minimum interval has
// elapsed, and when it has, records this moment as the view's last
// refresh. Callers that get true are expected to refresh.
func (r *Refresher) ShouldRefresh(v View) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if last, ok := r.last[v]; ok && now.Sub(last) < interval(v) {
		return false
	}
	r.last[v] = now
	return true
}

// ForceRefresh records a refresh regardless of the elapsed interval,
// restarting the view's throttle window. Used by explicit user action.
func (r *Refresher) ForceRefresh(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[v] = r.now()
}

// LastRefresh returns when the view last refreshed, zero if never.
func (r *Refresher) LastRefresh(v View) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last[v]
}
