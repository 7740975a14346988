// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sentinel-safety/sentinel/internal/store"
	"github.com/sentinel-safety/sentinel/pkg/insight"
	"github.com/sentinel-safety/sentinel/pkg/metrics"
)

// SafetyInsightsRequest is the POST /api/ai/safety-insights body.
// Metrics is optional; when absent the server aggregates the stored
// reports for the named company instead. ForceRefresh bypasses the
// cache read but the result is still written through.
type SafetyInsightsRequest struct {
	CompanyName  string         `json:"companyName"`
	Metrics      map[string]any `json:"metrics"`
	ForceRefresh bool           `json:"forceRefresh"`
}

// SafetyInsights generates AI safety insights for a metrics snapshot.
//
// The endpoint never fails on upstream trouble. Malformed JSON is the
// only 400; every other condition answers 200 with a tagged source so
// callers can render the result and its provenance badge without a
// separate error path.
func SafetyInsights(generator *insight.Generator, reports *store.Reports) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SafetyInsightsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		var rec metrics.Record
		if req.Metrics != nil {
			rec = metrics.Normalize(req.Metrics)
		} else {
			agg, err := reports.AggregateMetrics(c.Request.Context(), req.CompanyName)
			if err != nil {
				// Aggregation trouble degrades like any other
				// upstream condition: rule-based insights over an
				// empty record, tagged so the badge shows it.
				c.JSON(http.StatusOK, errorResult(req.CompanyName, metrics.Record{}, err.Error()))
				return
			}
			rec = agg
		}

		result, err := generator.Generate(c.Request.Context(), req.CompanyName, rec, req.ForceRefresh)
		if err != nil {
			// Only context cancellation lands here; the client has
			// usually gone away, but answer the contract anyway.
			c.JSON(http.StatusOK, errorResult(req.CompanyName, rec, err.Error()))
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// errorResult builds a rule-based Result tagged as an error, keeping
// the always-answer contract when the generator itself is unreachable.
func errorResult(company string, rec metrics.Record, msg string) insight.Result {
	return insight.Result{
		Insights:    insight.FallbackInsights(company, rec),
		Source:      insight.SourceError,
		Badge:       insight.BadgeForSource(insight.SourceError),
		Fingerprint: metrics.Fingerprint(company, rec),
		GeneratedAt: time.Now().UTC(),
		ErrMessage:  msg,
	}
}
