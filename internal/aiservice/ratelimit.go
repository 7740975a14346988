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

// Default upstream request budget: 30 requests per rolling minute.
const (
	DefaultRateLimitWindow = time.Minute
	DefaultRateLimitCap    = 30
)

// RateLimiter guards the upstream request budget. Allow and Record are
// split deliberately: a request rejected by Allow must not consume
// budget, so only requests that actually go upstream call Record.
type RateLimiter interface {
	Allow() bool
	Record()
}

// SlidingWindowLimiter counts requests in a rolling window of
// timestamps. In-process state only; a horizontally scaled deployment
// would swap this for an implementation over a shared store, which is
// why the interface exists.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	window time.Duration
	cap    int
	stamps []time.Time
	now    func() time.Time
}

// NewSlidingWindowLimiter builds a limiter. now may be nil for the
// system clock.
func NewSlidingWindowLimiter(window time.Duration, capacity int, now func() time.Time) *SlidingWindowLimiter {
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	if capacity <= 0 {
		capacity = DefaultRateLimitCap
	}
	if now == nil {
		now = time.Now
	}
	return &SlidingWindowLimiter{
		window: window,
		cap:    capacity,
		stamps: make([]time.Time, 0, capacity),
		now:    now,
	}
}

// Allow reports whether the window has budget. It prunes expired
// timestamps but records nothing.
func (l *SlidingWindowLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.stamps) < l.cap
}

// Record charges one request against the window.
func (l *SlidingWindowLimiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.prune(now)
	l.stamps = append(l.stamps, now)
}

// prune drops timestamps older than the window. Callers hold the lock.
func (l *SlidingWindowLimiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, ts := range l.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.stamps = kept
}

var _ RateLimiter = (*SlidingWindowLimiter)(nil)
