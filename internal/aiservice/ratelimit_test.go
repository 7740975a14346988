// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aiservice

import (
	"testing"
	"time"
)

// TestSlidingWindowLimiter_CapEnforced tests the basic budget: the
// 31st request inside the window is rejected.
func TestSlidingWindowLimiter_CapEnforced(t *testing.T) {
	now := time.Now()
	limiter := NewSlidingWindowLimiter(time.Minute, 30, func() time.Time { return now })

	for i := 0; i < 30; i++ {
		if !limiter.Allow() {
			t.Fatalf("request %d unexpectedly rejected", i)
		}
		limiter.Record()
	}
	if limiter.Allow() {
		t.Error("31st request in the window should be rejected")
	}
}

// TestSlidingWindowLimiter_WindowSlides tests that budget frees as
// old requests age out of the rolling window.
func TestSlidingWindowLimiter_WindowSlides(t *testing.T) {
	now := time.Now()
	limiter := NewSlidingWindowLimiter(time.Minute, 2, func() time.Time { return now })

	limiter.Record()
	now = now.Add(30 * time.Second)
	limiter.Record()
	if limiter.Allow() {
		t.Fatal("window full, should reject")
	}

	// First request ages out at t+60s; the second is still inside.
	now = now.Add(31 * time.Second)
	if !limiter.Allow() {
		t.Error("slot should free once the oldest request leaves the window")
	}
	limiter.Record()
	if limiter.Allow() {
		t.Error("window should be full again")
	}
}

// TestSlidingWindowLimiter_AllowDoesNotConsume tests the Allow/Record
// split: probing the limiter repeatedly must not use budget.
func TestSlidingWindowLimiter_AllowDoesNotConsume(t *testing.T) {
	now := time.Now()
	limiter := NewSlidingWindowLimiter(time.Minute, 1, func() time.Time { return now })

	for i := 0; i < 10; i++ {
		if !limiter.Allow() {
			t.Fatalf("probe %d rejected without any recorded request", i)
		}
	}
	limiter.Record()
	if limiter.Allow() {
		t.Error("budget of 1 should be exhausted after one Record")
	}
}
