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
	"github.com/sentinel-safety/sentinel/pkg/report"
)

// CreateReportRequest is the POST /api/reports body. Metrics is
// accepted as-is; both the current nested shape and the historical
// flat shape are valid and are normalized at read time.
type CreateReportRequest struct {
	CompanyName string         `json:"companyName" binding:"required"`
	ReportDate  time.Time      `json:"reportDate"`
	Metrics     map[string]any `json:"metrics"`
	Notes       string         `json:"notes"`
}

// CreateReport persists a submitted safety report.
func CreateReport(reports *store.Reports) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		doc := report.Report{
			CompanyName: req.CompanyName,
			ReportDate:  req.ReportDate,
			Metrics:     req.Metrics,
			Notes:       req.Notes,
		}
		created, err := reports.Create(c.Request.Context(), doc)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store report"})
			return
		}

		reportsCreatedTotal.Inc()
		c.JSON(http.StatusCreated, created)
	}
}

// ListReports returns all stored reports in submission order.
func ListReports(reports *store.Reports) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := reports.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
			return
		}
		if docs == nil {
			docs = []report.Report{}
		}
		c.JSON(http.StatusOK, gin.H{"reports": docs, "count": len(docs)})
	}
}

// MetricsSummary returns aggregate metrics across every stored report.
// Each document is normalized before it enters the sums, so legacy
// flat-shape reports count the same as current nested ones.
func MetricsSummary(reports *store.Reports) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := reports.Summary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize reports"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
