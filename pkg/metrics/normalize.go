// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"encoding/json"
	"math"
)

// Legacy flat field names from the pre-nesting schema. Kept in one place
// so the resolution chain below is auditable against stored documents.
const (
	legacyTotalIncidents       = "totalIncidents"
	legacyTotalNearMisses      = "totalNearMisses"
	legacyFirstAid             = "firstAidCount"
	legacyMedicalTreatments    = "medicalTreatmentCount"
	legacyLostTimeInjuries     = "lostTimeInjuries"
	legacyTrainingCompleted    = "trainingCompleted"
	legacyInspectionsCompleted = "inspectionsCompleted"
)

// Normalize converts a raw metrics document of any historical shape into
// the canonical Record. Resolution per field, in priority order: the
// nested current-schema field, then the legacy flat field, then zero.
// KPIs resolve leading.kpis, then top-level kpis, then the built-in
// default set.
//
// Normalize never panics and never fails: every field access degrades to
// a default, including a nil input. It is idempotent; feeding the JSON
// form of a Record back through produces an equal Record.
func Normalize(raw map[string]any) Record {
	lagging := asMap(raw["lagging"])
	leading := asMap(raw["leading"])

	rec := Record{
		Lagging: Lagging{
			IncidentCount:         countField(lagging, "incidentCount", raw, legacyTotalIncidents),
			NearMissCount:         countField(lagging, "nearMissCount", raw, legacyTotalNearMisses),
			FirstAidCount:         countField(lagging, "firstAidCount", raw, legacyFirstAid),
			MedicalTreatmentCount: countField(lagging, "medicalTreatmentCount", raw, legacyMedicalTreatments),
			LostTimeInjuryCount:   countField(lagging, "lostTimeInjuryCount", raw, legacyLostTimeInjuries),
		},
		Leading: Leading{
			TrainingCompleted:    countField(leading, "trainingCompleted", raw, legacyTrainingCompleted),
			InspectionsCompleted: countField(leading, "inspectionsCompleted", raw, legacyInspectionsCompleted),
			KPIs:                 resolveKPIs(leading, raw),
		},
		TrainingCompliance: clamp(numberOf(raw["trainingCompliance"]), 0, 100),
		RiskScore:          clamp(numberOf(raw["riskScore"]), 0, 10),
	}
	return rec
}

// NormalizeRecord re-applies the clamping rules to an already-canonical
// Record. Canonical input is a fixed point: NormalizeRecord(r) == r for
// any r that Normalize produced.
func NormalizeRecord(r Record) Record {
	r.Lagging.IncidentCount = clampCount(float64(r.Lagging.IncidentCount))
	r.Lagging.NearMissCount = clampCount(float64(r.Lagging.NearMissCount))
	r.Lagging.FirstAidCount = clampCount(float64(r.Lagging.FirstAidCount))
	r.Lagging.MedicalTreatmentCount = clampCount(float64(r.Lagging.MedicalTreatmentCount))
	r.Lagging.LostTimeInjuryCount = clampCount(float64(r.Lagging.LostTimeInjuryCount))
	r.Leading.TrainingCompleted = clampCount(float64(r.Leading.TrainingCompleted))
	r.Leading.InspectionsCompleted = clampCount(float64(r.Leading.InspectionsCompleted))
	if len(r.Leading.KPIs) == 0 {
		r.Leading.KPIs = DefaultKPIs()
	}
	r.TrainingCompliance = clamp(r.TrainingCompliance, 0, 100)
	r.RiskScore = clamp(r.RiskScore, 0, 10)
	return r
}

// resolveKPIs picks the KPI source per the priority chain and builds
// each entry through BuildKPI so defaulting rules apply uniformly.
func resolveKPIs(leading, raw map[string]any) []KPI {
	list := asSlice(leading["kpis"])
	if list == nil {
		list = asSlice(raw["kpis"])
	}
	if len(list) == 0 {
		return DefaultKPIs()
	}
	kpis := make([]KPI, 0, len(list))
	for _, item := range list {
		m := asMap(item)
		if m == nil {
			continue
		}
		kpis = MergeKPIs(kpis, []KPI{BuildKPI(m)})
	}
	if len(kpis) == 0 {
		return DefaultKPIs()
	}
	return kpis
}

// countField resolves a non-negative integer counter: nested current
// field first, legacy flat field second, zero last.
func countField(nested map[string]any, nestedKey string, raw map[string]any, legacyKey string) int {
	if v, ok := lookupNumber(nested, nestedKey); ok {
		return clampCount(v)
	}
	if v, ok := lookupNumber(raw, legacyKey); ok {
		return clampCount(v)
	}
	return 0
}

func clampCount(v float64) int {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	// Float to int conversion is implementation-defined once v exceeds
	// the int range, so saturate before converting.
	if v >= math.MaxInt64 {
		return math.MaxInt
	}
	return int(v)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lookupNumber(m map[string]any, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	return numberOf(v), true
}

// numberOf coerces the numeric types encoding/json and BSON-style
// decoders produce. Anything else counts as zero.
func numberOf(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}
