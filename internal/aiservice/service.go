// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aiservice

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/sentinel-safety/sentinel/pkg/insight"
	"github.com/sentinel-safety/sentinel/pkg/metrics"
)

// DefaultUpstreamTimeout bounds one LLM call.
const DefaultUpstreamTimeout = 10 * time.Second

// Service implements insight.Service over an LLM backend with a
// response cache and a rate limiter in front of it.
//
// The contract: GenerateInsights never returns an error, and the
// returned insight list is never empty. Upstream trouble is reported
// through the result's Source and ErrMessage instead, so the HTTP layer
// can keep its promise of responding 200 with a usable list no matter
// what the upstream does.
type Service struct {
	llm      LLMClient // nil means permanent fallback mode
	cache    ResponseCache
	limiter  RateLimiter
	outbound *rate.Limiter
	timeout  time.Duration
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithUpstreamTimeout overrides the per-call LLM timeout.
func WithUpstreamTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = d }
}

// NewService wires the adapter. llm may be nil when no credential is
// configured; the service then serves rule-engine results tagged
// fallback, permanently.
func NewService(llm LLMClient, cache ResponseCache, limiter RateLimiter, logger *slog.Logger, opts ...ServiceOption) *Service {
	if cache == nil {
		cache = NewMemoryResponseCache(DefaultResponseCacheTTL, nil)
	}
	if limiter == nil {
		limiter = NewSlidingWindowLimiter(DefaultRateLimitWindow, DefaultRateLimitCap, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		llm:     llm,
		cache:   cache,
		limiter: limiter,
		// Secondary guard on the upstream itself: even a misconfigured
		// window cap cannot sustain more than 30 calls per minute out.
		outbound: rate.NewLimiter(rate.Every(2*time.Second), DefaultRateLimitCap),
		timeout:  DefaultUpstreamTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateInsights implements insight.Service.
func (s *Service) GenerateInsights(ctx context.Context, company string, rec metrics.Record) (insight.ServiceResult, error) {
	key := cacheKey(company, rec)

	if cached, ok := s.cache.Get(key); ok {
		recordInsightResult(insight.SourceCache)
		return insight.ServiceResult{Insights: cached, Source: insight.SourceCache}, nil
	}

	if s.llm == nil {
		recordInsightResult(insight.SourceFallback)
		return insight.ServiceResult{
			Insights: insight.FallbackInsights(company, rec),
			Source:   insight.SourceFallback,
		}, nil
	}

	if !s.limiter.Allow() {
		s.logger.Warn("insight request rate limited", "company", company)
		recordRateLimited()
		recordInsightResult(insight.SourceRateLimited)
		return insight.ServiceResult{
			Insights: insight.FallbackInsights(company, rec),
			Source:   insight.SourceRateLimited,
		}, nil
	}
	s.limiter.Record()

	insights, err := s.callUpstream(ctx, company, rec)
	if err != nil {
		s.logger.Error("insight generation failed upstream",
			"company", company, "error", err)
		recordInsightResult(insight.SourceError)
		return insight.ServiceResult{
			Insights:   insight.FallbackInsights(company, rec),
			Source:     insight.SourceError,
			ErrMessage: err.Error(),
		}, nil
	}

	s.cache.Put(key, insights)
	recordInsightResult(insight.SourceOpenAI)
	return insight.ServiceResult{Insights: insights, Source: insight.SourceOpenAI}, nil
}

func (s *Service) callUpstream(ctx context.Context, company string, rec metrics.Record) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.outbound.Wait(ctx); err != nil {
		return nil, err
	}

	text, err := s.llm.Generate(ctx, buildPrompt(company, rec))
	if err != nil {
		return nil, err
	}
	insights := splitInsights(text)
	if len(insights) == 0 {
		return nil, errEmptyCompletion
	}
	return insights, nil
}

var _ insight.Service = (*Service)(nil)
