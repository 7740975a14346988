// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinel-safety/sentinel/internal/aiservice"
	"github.com/sentinel-safety/sentinel/internal/config"
	"github.com/sentinel-safety/sentinel/internal/server"
	"github.com/sentinel-safety/sentinel/internal/store"
	"github.com/sentinel-safety/sentinel/pkg/insight"
	"github.com/sentinel-safety/sentinel/pkg/logging"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.LogLevel),
		LogDir:  cfg.LogDir,
		Service: "sentinel-server",
	})
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cleanupTracer, err := server.InitTracer(ctx, cfg.OTLPEndpoint, logger)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer cleanupTracer(context.Background())

	db, err := store.Open(store.DefaultConfig(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	gcStop := make(chan struct{})
	defer close(gcStop)
	go store.RunGC(db, 10*time.Minute, gcStop, logger.Slog())

	// A missing credential is not fatal. The service runs with the
	// rule engine only and every insight carries the fallback badge.
	var llm aiservice.LLMClient
	if openaiClient, err := aiservice.NewOpenAIClient(cfg.OpenAIModel); err != nil {
		logger.Warn("OpenAI credential unavailable, insights use rule engine only", "error", err)
	} else {
		llm = openaiClient
	}

	svc := aiservice.NewService(llm,
		aiservice.NewMemoryResponseCache(cfg.ResponseCacheTTL, nil),
		aiservice.NewSlidingWindowLimiter(cfg.RateLimitWindow, cfg.RateLimitCap, nil),
		logger.Slog(),
		aiservice.WithUpstreamTimeout(cfg.UpstreamTimeout),
	)

	generator := insight.NewGenerator(
		insight.NewBadgerCache(db, logger.Slog()),
		svc,
		logger.Slog(),
		insight.WithTTL(cfg.InsightCacheTTL),
	)

	srv := server.New(cfg, server.Deps{
		Reports:     store.NewReports(db, logger.Slog()),
		Inspections: store.NewInspections(db, logger.Slog()),
		Generator:   generator,
	}, logger)

	return srv.Run(ctx)
}
