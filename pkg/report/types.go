// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package report defines the persisted EHS document types shared by
// the server, the store, and the API client.
package report

import (
	"time"
)

// Report is one submitted safety report. Metrics is kept as the raw
// submitted document: historical shapes are stored verbatim and
// normalized at read time, so old documents stay readable forever
// without migrations.
type Report struct {
	ID          string         `json:"id"`
	CompanyName string         `json:"companyName"`
	ReportDate  time.Time      `json:"reportDate"`
	Metrics     map[string]any `json:"metrics"`
	Notes       string         `json:"notes,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Severity grades an inspection finding.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Finding is one issue observed during an inspection.
type Finding struct {
	Issue    string   `json:"issue"`
	Severity Severity `json:"severity" binding:"oneof=Low Medium High"`
	Resolved bool     `json:"resolved"`
}

// Inspection is one completed site inspection. The binding tags are
// enforced both when a document arrives over HTTP and when the store
// persists one, so the two paths share a single rule set.
type Inspection struct {
	ID        string    `json:"id"`
	Inspector string    `json:"inspector" binding:"required"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	Type      string    `json:"type"`
	Findings  []Finding `json:"findings" binding:"omitempty,dive"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary aggregates normalized metrics across all reports. Counts are
// sums; TrainingCompliance and RiskScore are means over the reports
// that make up the aggregate.
type Summary struct {
	ReportCount           int     `json:"reportCount"`
	TotalIncidents        int     `json:"totalIncidents"`
	TotalNearMisses       int     `json:"totalNearMisses"`
	TotalFirstAid         int     `json:"totalFirstAid"`
	TotalMedicalTreatment int     `json:"totalMedicalTreatment"`
	TotalLostTimeInjuries int     `json:"totalLostTimeInjuries"`
	TrainingsCompleted    int     `json:"trainingsCompleted"`
	InspectionsCompleted  int     `json:"inspectionsCompleted"`
	AvgTrainingCompliance float64 `json:"avgTrainingCompliance"`
	AvgRiskScore          float64 `json:"avgRiskScore"`
}
