// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aiservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-safety/sentinel/pkg/insight"
	"github.com/sentinel-safety/sentinel/pkg/metrics"
)

// fakeLLM returns a scripted completion and counts calls.
type fakeLLM struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleRecord() metrics.Record {
	return metrics.Record{
		Lagging:            metrics.Lagging{IncidentCount: 2, NearMissCount: 6},
		TrainingCompliance: 85,
		RiskScore:          3,
	}
}

// TestService_UpstreamSuccess tests the happy path: completion split
// into recommendations, source openai, result cached.
func TestService_UpstreamSuccess(t *testing.T) {
	llm := &fakeLLM{response: "Check the guards.\n\nRotate the permits."}
	svc := NewService(llm, nil, nil, nil)

	res, err := svc.GenerateInsights(context.Background(), "Acme", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, insight.SourceOpenAI, res.Source)
	assert.Equal(t, []string{"Check the guards.", "Rotate the permits."}, res.Insights)

	// Second identical request is served from the response cache.
	res2, err := svc.GenerateInsights(context.Background(), "Acme", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, insight.SourceCache, res2.Source)
	assert.Equal(t, res.Insights, res2.Insights)
	assert.Equal(t, 1, llm.callCount())
}

// TestService_ResponseCacheExpiry tests the 1-hour TTL with an
// injected clock.
func TestService_ResponseCacheExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	llm := &fakeLLM{response: "Check the guards."}
	cache := NewMemoryResponseCache(DefaultResponseCacheTTL, clock)
	svc := NewService(llm, cache, nil, nil)

	_, err := svc.GenerateInsights(context.Background(), "", sampleRecord())
	require.NoError(t, err)

	now = now.Add(DefaultResponseCacheTTL + time.Second)
	res, err := svc.GenerateInsights(context.Background(), "", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, insight.SourceOpenAI, res.Source)
	assert.Equal(t, 2, llm.callCount())
}

// TestService_DifferentMetricsMissCache tests that the cache key
// covers the metrics content.
func TestService_DifferentMetricsMissCache(t *testing.T) {
	llm := &fakeLLM{response: "Check the guards."}
	svc := NewService(llm, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.GenerateInsights(ctx, "Acme", sampleRecord())
	require.NoError(t, err)

	changed := sampleRecord()
	changed.Lagging.IncidentCount = 9
	_, err = svc.GenerateInsights(ctx, "Acme", changed)
	require.NoError(t, err)
	assert.Equal(t, 2, llm.callCount())
}

// TestService_RateLimited tests the 31st request in the window: served
// from the rule engine, tagged rate-limited, no upstream call, and no
// budget consumed by the rejection.
func TestService_RateLimited(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	llm := &fakeLLM{response: "Check the guards."}
	limiter := NewSlidingWindowLimiter(time.Minute, 30, clock)
	// TTL-less cache behavior is irrelevant here; vary metrics so every
	// request misses the response cache.
	svc := NewService(llm, NewMemoryResponseCache(time.Hour, clock), limiter, nil)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		rec := sampleRecord()
		rec.Lagging.IncidentCount = i
		res, err := svc.GenerateInsights(ctx, "Acme", rec)
		require.NoError(t, err)
		require.Equal(t, insight.SourceOpenAI, res.Source, "request %d", i)
	}

	rec := sampleRecord()
	rec.Lagging.IncidentCount = 100
	res, err := svc.GenerateInsights(ctx, "Acme", rec)
	require.NoError(t, err)
	assert.Equal(t, insight.SourceRateLimited, res.Source)
	assert.NotEmpty(t, res.Insights)
	assert.Equal(t, 30, llm.callCount(), "the 31st request must not reach upstream")

	// The rejection consumed no budget: one window later a single slot
	// frees exactly one request.
	now = now.Add(time.Minute + time.Second)
	res, err = svc.GenerateInsights(ctx, "Acme", rec)
	require.NoError(t, err)
	assert.Equal(t, insight.SourceOpenAI, res.Source)
}

// TestService_UpstreamErrorDegrades tests that an LLM failure yields a
// fallback list tagged error, with the failure in ErrMessage, and no
// error return.
func TestService_UpstreamErrorDegrades(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	svc := NewService(llm, nil, nil, nil)

	res, err := svc.GenerateInsights(context.Background(), "Acme", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, insight.SourceError, res.Source)
	assert.NotEmpty(t, res.Insights)
	assert.Contains(t, res.ErrMessage, "connection refused")
}

// TestService_EmptyCompletionDegrades tests that a completion that
// splits to nothing counts as an upstream failure.
func TestService_EmptyCompletionDegrades(t *testing.T) {
	llm := &fakeLLM{response: "\n\n   \n\n"}
	svc := NewService(llm, nil, nil, nil)

	res, err := svc.GenerateInsights(context.Background(), "", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, insight.SourceError, res.Source)
	assert.NotEmpty(t, res.Insights)
}

// TestService_NoCredentialPermanentFallback tests the nil-LLM mode.
func TestService_NoCredentialPermanentFallback(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)

	res, err := svc.GenerateInsights(context.Background(), "Acme", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, insight.SourceFallback, res.Source)
	assert.NotEmpty(t, res.Insights)
	assert.Empty(t, res.ErrMessage)
}

// TestService_FailureNotCached tests that error results are not stored
// in the response cache; recovery is possible on the next request.
func TestService_FailureNotCached(t *testing.T) {
	llm := &fakeLLM{err: errors.New("boom")}
	svc := NewService(llm, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.GenerateInsights(ctx, "Acme", sampleRecord())
	require.NoError(t, err)

	llm.mu.Lock()
	llm.err = nil
	llm.response = "All clear."
	llm.mu.Unlock()

	res, err := svc.GenerateInsights(ctx, "Acme", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, insight.SourceOpenAI, res.Source)
}
