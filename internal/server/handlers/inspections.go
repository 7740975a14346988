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

// CreateInspectionRequest is the POST /api/inspections body. Field
// rules live in the binding tags and are checked at bind time, so a
// request that binds cleanly is already valid.
type CreateInspectionRequest struct {
	Inspector string           `json:"inspector" binding:"required"`
	Date      time.Time        `json:"date"`
	Location  string           `json:"location"`
	Type      string           `json:"type"`
	Findings  []report.Finding `json:"findings" binding:"omitempty,dive"`
	Notes     string           `json:"notes"`
}

// CreateInspection persists a completed site inspection.
func CreateInspection(inspections *store.Inspections) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateInspectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		doc := report.Inspection{
			Inspector: req.Inspector,
			Date:      req.Date,
			Location:  req.Location,
			Type:      req.Type,
			Findings:  req.Findings,
			Notes:     req.Notes,
		}
		created, err := inspections.Create(c.Request.Context(), doc)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store inspection"})
			return
		}

		inspectionsCreatedTotal.Inc()
		c.JSON(http.StatusCreated, created)
	}
}

// ListInspections returns all stored inspections in submission order.
func ListInspections(inspections *store.Inspections) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := inspections.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list inspections"})
			return
		}
		if docs == nil {
			docs = []report.Inspection{}
		}
		c.JSON(http.StatusOK, gin.H{"inspections": docs, "count": len(docs)})
	}
}
