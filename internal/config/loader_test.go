// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests that an empty environment yields the
// documented defaults.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.InsightCacheTTL)
	assert.Equal(t, time.Hour, cfg.ResponseCacheTTL)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 30, cfg.RateLimitCap)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

// TestLoad_EnvOverride tests that SENTINEL_* variables win over
// defaults.
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SENTINEL_ADDR", ":9999")
	t.Setenv("SENTINEL_RATE_LIMIT_CAP", "5")
	t.Setenv("SENTINEL_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 5, cfg.RateLimitCap)
	assert.Equal(t, "debug", cfg.LogLevel)
}

// TestLoad_FileThenEnv tests precedence: file beats defaults, env
// beats file.
func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentinel.yaml")
	yaml := "addr: \":7070\"\nopenai_model: gpt-4o\nlog_level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	t.Setenv("SENTINEL_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "error", cfg.LogLevel)
}

// TestLoad_InvalidValuesRejected tests validation.
func TestLoad_InvalidValuesRejected(t *testing.T) {
	t.Setenv("SENTINEL_RATE_LIMIT_CAP", "0")

	_, err := Load("")
	require.Error(t, err)
}

// TestLoad_MissingFile tests that a bad path is a load error, not a
// silent fallback to defaults.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
