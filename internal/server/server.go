// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package server assembles the Sentinel HTTP service: the gin engine,
// route registration, optional tracing, and graceful shutdown around
// a standard http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sentinel-safety/sentinel/internal/config"
	"github.com/sentinel-safety/sentinel/internal/server/routes"
	"github.com/sentinel-safety/sentinel/internal/store"
	"github.com/sentinel-safety/sentinel/pkg/insight"
	"github.com/sentinel-safety/sentinel/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// Server is the assembled HTTP service.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// Deps carries the wired components the handlers need.
type Deps struct {
	Reports     *store.Reports
	Inspections *store.Inspections
	Generator   *insight.Generator
}

// New builds the router and binds it to cfg.Addr. Tracing middleware
// is attached only when an OTLP endpoint is configured.
func New(cfg *config.Config, deps Deps, logger *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	if cfg.OTLPEndpoint != "" {
		router.Use(otelgin.Middleware("sentinel-server"))
	}

	routes.SetupRoutes(router, deps.Reports, deps.Inspections, deps.Generator, cfg.AuthToken)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is canceled, then drains in-flight requests
// for up to shutdownTimeout before returning.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// requestLogger logs one line per completed request. Health probes
// are skipped to keep the log readable under load balancer polling.
func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
