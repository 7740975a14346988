// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package insight

import (
	"fmt"

	"github.com/sentinel-safety/sentinel/pkg/metrics"
)

// FallbackInsights is the deterministic rule engine. Rules are
// evaluated independently in a fixed order; more than one may fire.
// The result is never empty: when no rule fires, a single generic
// maintain-protocols recommendation is returned.
//
// Rule order:
//  1. incident count above 5
//  2. near-miss count below 5
//  3. training compliance below 80
//  4. zero incidents and zero near misses
//  5. generic recommendation when nothing else fired
func FallbackInsights(company string, rec metrics.Record) []string {
	scope := ""
	if company != "" {
		scope = fmt.Sprintf(" at %s", company)
	}

	var out []string

	if rec.Lagging.IncidentCount > 5 {
		out = append(out, fmt.Sprintf(
			"Incident count%s is elevated (%d recorded). Review recent incident investigations for common root causes and consider a systemic risk assessment of high-exposure tasks.",
			scope, rec.Lagging.IncidentCount))
	}
	if rec.Lagging.NearMissCount < 5 {
		out = append(out, fmt.Sprintf(
			"Near miss reporting%s appears low (%d recorded). Low near miss counts usually indicate underreporting rather than safe conditions; reinforce no-blame reporting and make the reporting channel visible at the point of work.",
			scope, rec.Lagging.NearMissCount))
	}
	if rec.TrainingCompliance < 80 {
		out = append(out, fmt.Sprintf(
			"Training compliance%s is %.0f%%, below the 80%% threshold. Identify overdue courses by crew and schedule make-up sessions before the next work cycle.",
			scope, rec.TrainingCompliance))
	}
	if rec.Lagging.IncidentCount == 0 && rec.Lagging.NearMissCount == 0 {
		out = append(out, fmt.Sprintf(
			"Zero incidents and zero near misses were recorded%s. Audit reporting accuracy: confirm that frontline events are actually reaching the reporting system rather than going unrecorded.",
			scope))
	}

	if len(out) == 0 {
		out = append(out, fmt.Sprintf(
			"Safety indicators%s are within expected ranges. Maintain current protocols and continue monitoring leading indicators for early drift.",
			scope))
	}
	return out
}
