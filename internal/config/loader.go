// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"errors"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file at path, when path is non-empty
//  3. environment variables with the SENTINEL_ prefix
//     (SENTINEL_ADDR, SENTINEL_RATE_LIMIT_CAP, ...)
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Env keys preserve underscores to match the koanf tags:
	// SENTINEL_INSIGHT_CACHE_TTL -> insight_cache_ttl.
	envProvider := env.Provider("SENTINEL_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "sentinel_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.RateLimitCap <= 0 {
		return nil, errors.New("rate_limit_cap must be positive")
	}
	return &cfg, nil
}
