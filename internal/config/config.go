// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config defines service configuration and its loading order:
// built-in defaults, then an optional YAML file, then SENTINEL_*
// environment variables.
package config

import "time"

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the directory for the embedded database.
	DataDir string `koanf:"data_dir"`

	// AuthToken is the static bearer token required on /api routes.
	// Empty disables authentication (the local-first default).
	AuthToken string `koanf:"auth_token"`

	// OpenAIModel selects the upstream model. Empty picks the
	// adapter's default.
	OpenAIModel string `koanf:"openai_model"`

	// InsightCacheTTL bounds reuse of durable insight entries.
	InsightCacheTTL time.Duration `koanf:"insight_cache_ttl"`

	// ResponseCacheTTL bounds reuse of upstream responses for
	// identical metrics.
	ResponseCacheTTL time.Duration `koanf:"response_cache_ttl"`

	// RateLimitWindow and RateLimitCap shape the upstream request
	// budget.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	RateLimitCap    int           `koanf:"rate_limit_cap"`

	// UpstreamTimeout bounds one LLM call.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogDir enables JSON file logging when set.
	LogDir string `koanf:"log_dir"`

	// OTLPEndpoint enables trace export when set, e.g.
	// "otel-collector:4317".
	OTLPEndpoint string `koanf:"otlp_endpoint"`
}

// New returns the built-in defaults. TTL and rate-limit values mirror
// the documented behavior: 24h insight cache, 1h response cache, 30
// requests per rolling minute, 10s upstream timeout.
func New() *Config {
	return &Config{
		Addr:             ":8080",
		DataDir:          "./data",
		InsightCacheTTL:  24 * time.Hour,
		ResponseCacheTTL: time.Hour,
		RateLimitWindow:  time.Minute,
		RateLimitCap:     30,
		UpstreamTimeout:  10 * time.Second,
		LogLevel:         "info",
	}
}
