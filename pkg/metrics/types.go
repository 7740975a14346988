// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package metrics defines the canonical safety-metrics record and the
// normalizer that produces it from raw report documents.
//
// Report documents have accumulated several historical shapes: an early
// schema stored flat top-level counters (totalIncidents, firstAidCount),
// the current schema nests them under lagging/leading, and some documents
// carry a top-level kpis array instead of leading.kpis. Every shape is
// absorbed here; nothing downstream of Normalize may inspect legacy
// fields. That centralization is a design requirement, not a convenience.
package metrics

// Lagging holds counters of safety events that already occurred.
type Lagging struct {
	IncidentCount         int `json:"incidentCount"`
	NearMissCount         int `json:"nearMissCount"`
	FirstAidCount         int `json:"firstAidCount"`
	MedicalTreatmentCount int `json:"medicalTreatmentCount"`
	LostTimeInjuryCount   int `json:"lostTimeInjuryCount"`
}

// KPI is a named actual-vs-target measurement.
type KPI struct {
	// ID is stable and unique within a record's KPI sequence.
	// When absent from the source document it is derived from the name.
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
	Unit   string  `json:"unit"`
}

// Leading holds measurements of preventive activity.
type Leading struct {
	TrainingCompleted    int   `json:"trainingCompleted"`
	InspectionsCompleted int   `json:"inspectionsCompleted"`
	KPIs                 []KPI `json:"kpis"`
}

// Record is the canonical metrics shape. It is the only shape consumed
// by the insight generator, the summary aggregator, and every other
// downstream component.
type Record struct {
	Lagging            Lagging `json:"lagging"`
	Leading            Leading `json:"leading"`
	TrainingCompliance float64 `json:"trainingCompliance"`
	RiskScore          float64 `json:"riskScore"`
}
