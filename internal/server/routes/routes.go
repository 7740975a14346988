// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sentinel-safety/sentinel/internal/server/handlers"
	"github.com/sentinel-safety/sentinel/internal/server/middleware"
	"github.com/sentinel-safety/sentinel/internal/store"
	"github.com/sentinel-safety/sentinel/pkg/insight"
)

// SetupRoutes registers every Sentinel endpoint on the router.
//
// /health and /metrics are unauthenticated; everything under /api
// requires the bearer token when one is configured.
func SetupRoutes(router *gin.Engine, reports *store.Reports, inspections *store.Inspections,
	generator *insight.Generator, authToken string) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(authToken))
	{
		api.POST("/reports", handlers.CreateReport(reports))
		api.GET("/reports", handlers.ListReports(reports))
		api.GET("/reports/metrics/summary", handlers.MetricsSummary(reports))

		api.POST("/inspections", handlers.CreateInspection(inspections))
		api.GET("/inspections", handlers.ListInspections(inspections))

		ai := api.Group("/ai")
		{
			ai.POST("/safety-insights", handlers.SafetyInsights(generator, reports))
		}
	}
}
