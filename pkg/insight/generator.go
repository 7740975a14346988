// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package insight

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sentinel-safety/sentinel/pkg/metrics"
)

// ServiceResult is what an upstream insight service returns. ErrMessage
// carries the upstream failure description when Source is error; the
// insight list is still populated in that case.
type ServiceResult struct {
	Insights   []string
	Source     Source
	ErrMessage string
}

// Service produces insight lists from normalized metrics. Implemented
// by the in-process AI adapter and by the HTTP API client. The error
// return covers transport-level failure only; a healthy service
// degrades internally and tags the result's Source instead.
type Service interface {
	GenerateInsights(ctx context.Context, company string, rec metrics.Record) (ServiceResult, error)
}

// Result is a completed generation, always carrying a non-empty
// insight list.
type Result struct {
	Insights    []string  `json:"insights"`
	Source      Source    `json:"source"`
	Badge       string    `json:"badge"`
	Fingerprint string    `json:"fingerprint"`
	GeneratedAt time.Time `json:"generatedAt"`
	ErrMessage  string    `json:"error,omitempty"`
}

// Generator orchestrates insight production: fingerprint the metrics,
// consult the durable cache, call the upstream service, fall back to
// the rule engine. Results are written through to the cache on both
// success and fallback, so repeated upstream failures do not re-trigger
// calls until the fingerprint changes.
//
// Concurrent requests for the same company and fingerprint are
// collapsed into a single in-flight generation. Requests for different
// fingerprints under the same company key race last-writer-wins on the
// cache entry; a mismatched read is just a miss, so the race is benign.
type Generator struct {
	cache  Cache
	svc    Service
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTTL overrides the cache staleness window.
func WithTTL(ttl time.Duration) GeneratorOption {
	return func(g *Generator) { g.ttl = ttl }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// NewGenerator builds a Generator. svc may be nil, in which case every
// cache miss goes straight to the rule engine.
func NewGenerator(cache Cache, svc Service, logger *slog.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Generator{
		cache:  cache,
		svc:    svc,
		ttl:    DefaultCacheTTL,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces insights for the company scope and metrics record.
// force bypasses the cache read (the manual-refresh path) but the
// result is still written through.
//
// The returned Result always has at least one insight. The error return
// is reserved for context cancellation; every upstream condition
// degrades to a tagged fallback instead.
func (g *Generator) Generate(ctx context.Context, company string, rec metrics.Record, force bool) (Result, error) {
	fp := metrics.Fingerprint(company, rec)
	key := CacheKey(company)

	v, err, _ := g.group.Do(key+"|"+fp+flightSuffix(force), func() (any, error) {
		return g.generate(ctx, key, company, fp, rec, force), nil
	})
	if err != nil {
		// singleflight only propagates our own errors, and generate
		// never returns one. Context cancellation still surfaces.
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// flightSuffix keeps a forced refresh from being deduplicated into a
// concurrent cached read for the same fingerprint.
func flightSuffix(force bool) string {
	if force {
		return "|force"
	}
	return ""
}

func (g *Generator) generate(ctx context.Context, key, company, fp string, rec metrics.Record, force bool) Result {
	now := g.now()

	if !force {
		if res, ok := g.lookup(ctx, key, fp, now); ok {
			return res
		}
	}

	res := g.callService(ctx, company, rec)
	res.Fingerprint = fp
	res.GeneratedAt = now

	entry := Entry{
		Key:         key,
		Fingerprint: fp,
		Insights:    res.Insights,
		Source:      res.Source,
		Timestamp:   now,
	}
	// Best effort: a full disk or closed database must not take the
	// insight flow down with it.
	if err := g.cache.Put(ctx, key, entry); err != nil {
		g.logger.Warn("insight cache write failed", "key", key, "error", err)
	}
	return res
}

// lookup returns a usable cached result. Usable means the fingerprint
// matches the metrics being displayed and the entry is younger than the
// TTL; anything else is a miss.
func (g *Generator) lookup(ctx context.Context, key, fp string, now time.Time) (Result, bool) {
	entry, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.Warn("insight cache read failed", "key", key, "error", err)
		return Result{}, false
	}
	if !ok || entry.Fingerprint != fp || len(entry.Insights) == 0 {
		return Result{}, false
	}
	if now.Sub(entry.Timestamp) >= g.ttl {
		return Result{}, false
	}

	// A hit reports "cache" provenance unless the stored entry was a
	// degraded result, whose tag is preserved so the badge keeps
	// showing the real trust level.
	source := SourceCache
	if degraded(entry.Source) {
		source = entry.Source
	}
	return Result{
		Insights:    entry.Insights,
		Source:      source,
		Badge:       BadgeForSource(source),
		Fingerprint: fp,
		GeneratedAt: entry.Timestamp,
	}, true
}

// callService invokes the upstream and maps every failure mode onto the
// rule engine.
func (g *Generator) callService(ctx context.Context, company string, rec metrics.Record) Result {
	if g.svc == nil {
		insights := FallbackInsights(company, rec)
		return Result{Insights: insights, Source: SourceFallback, Badge: BadgeForSource(SourceFallback)}
	}

	sres, err := g.svc.GenerateInsights(ctx, company, rec)
	if err != nil || len(sres.Insights) == 0 {
		if err != nil {
			g.logger.Warn("insight service call failed, using rule engine",
				"company", company, "error", err)
		}
		insights := FallbackInsights(company, rec)
		return Result{Insights: insights, Source: SourceFallback, Badge: BadgeForSource(SourceFallback)}
	}

	source := sres.Source
	if source == "" {
		source = SourceOpenAI
	}
	return Result{
		Insights:   sres.Insights,
		Source:     source,
		Badge:      BadgeForSource(source),
		ErrMessage: sres.ErrMessage,
	}
}
