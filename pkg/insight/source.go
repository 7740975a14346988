// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package insight generates safety recommendations from normalized
// metrics. The generator consults a durable company-scoped cache, then
// an upstream insight service, then a deterministic rule engine, and is
// guaranteed to hand the caller a non-empty recommendation list with a
// provenance tag describing where it came from.
package insight

// Source tags where an insight list came from. It travels with cache
// entries and API responses so consumers can display trust level.
type Source string

const (
	// SourceOpenAI marks insights produced by the upstream LLM.
	SourceOpenAI Source = "openai"
	// SourceCache marks insights served from a cache layer.
	SourceCache Source = "cache"
	// SourceFallback marks insights from the local rule engine.
	SourceFallback Source = "fallback"
	// SourceRateLimited marks rule-engine insights served because the
	// upstream request budget was exhausted.
	SourceRateLimited Source = "rate-limited"
	// SourceError marks rule-engine insights served after an upstream
	// failure (timeout, non-2xx, bad payload).
	SourceError Source = "error"
)

// Badge states surfaced to display components alongside an insight
// list. They compress Source values into the labels the dashboard
// shows next to the "last updated" timestamp.
const (
	BadgeProcessing = "processing"
	BadgeFallback   = "fallback"
	BadgeAIPowered  = "ai-powered"
	BadgeAICached   = "ai-cached"
	BadgeAIInsights = "ai-insights"
)

// BadgeForSource maps a provenance tag to its display badge.
func BadgeForSource(s Source) string {
	switch s {
	case SourceOpenAI:
		return BadgeAIPowered
	case SourceCache:
		return BadgeAICached
	case SourceFallback, SourceRateLimited, SourceError:
		return BadgeFallback
	default:
		return BadgeAIInsights
	}
}

// degraded reports whether a source marks a non-AI result. Degraded
// provenance survives cache hits so the badge keeps showing the real
// trust level of what is displayed.
func degraded(s Source) bool {
	switch s {
	case SourceFallback, SourceRateLimited, SourceError:
		return true
	default:
		return false
	}
}
