// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aiservice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sentinel-safety/sentinel/pkg/metrics"
)

// buildPrompt renders the metrics record into the structured prompt
// sent upstream: lagging indicators, leading indicators, the KPI
// actual-vs-target table, training compliance, and risk score.
func buildPrompt(company string, rec metrics.Record) string {
	var b strings.Builder

	if company != "" {
		fmt.Fprintf(&b, "Company: %s\n\n", company)
	}

	b.WriteString("Lagging indicators:\n")
	fmt.Fprintf(&b, "- Incidents: %d\n", rec.Lagging.IncidentCount)
	fmt.Fprintf(&b, "- Near misses: %d\n", rec.Lagging.NearMissCount)
	fmt.Fprintf(&b, "- First aid cases: %d\n", rec.Lagging.FirstAidCount)
	fmt.Fprintf(&b, "- Medical treatment cases: %d\n", rec.Lagging.MedicalTreatmentCount)
	fmt.Fprintf(&b, "- Lost time injuries: %d\n", rec.Lagging.LostTimeInjuryCount)

	b.WriteString("\nLeading indicators:\n")
	fmt.Fprintf(&b, "- Trainings completed: %d\n", rec.Leading.TrainingCompleted)
	fmt.Fprintf(&b, "- Inspections completed: %d\n", rec.Leading.InspectionsCompleted)

	if len(rec.Leading.KPIs) > 0 {
		b.WriteString("\nKPIs (actual vs target):\n")
		for _, kpi := range rec.Leading.KPIs {
			fmt.Fprintf(&b, "- %s: %s%s of %s%s\n",
				kpi.Name,
				trimFloat(kpi.Actual), kpi.Unit,
				trimFloat(kpi.Target), kpi.Unit)
		}
	}

	fmt.Fprintf(&b, "\nTraining compliance: %s%%\n", trimFloat(rec.TrainingCompliance))
	fmt.Fprintf(&b, "Risk score: %s out of 10\n", trimFloat(rec.RiskScore))

	b.WriteString("\nProvide 3 to 5 safety recommendations based on these metrics.")
	return b.String()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// cacheKey is the canonical serialization of everything that shapes the
// prompt, in a fixed order so equal metrics always key the same entry.
func cacheKey(company string, rec metrics.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "company=%s", company)
	fmt.Fprintf(&b, "|lagging=%d,%d,%d,%d,%d",
		rec.Lagging.IncidentCount,
		rec.Lagging.NearMissCount,
		rec.Lagging.FirstAidCount,
		rec.Lagging.MedicalTreatmentCount,
		rec.Lagging.LostTimeInjuryCount)
	fmt.Fprintf(&b, "|leading=%d,%d",
		rec.Leading.TrainingCompleted,
		rec.Leading.InspectionsCompleted)
	for _, kpi := range rec.Leading.KPIs {
		fmt.Fprintf(&b, "|kpi=%s:%s/%s", kpi.ID, trimFloat(kpi.Actual), trimFloat(kpi.Target))
	}
	fmt.Fprintf(&b, "|trainingCompliance=%s", trimFloat(rec.TrainingCompliance))
	fmt.Fprintf(&b, "|riskScore=%s", trimFloat(rec.RiskScore))
	return b.String()
}

// splitInsights turns free text from the model into discrete
// recommendations: split on blank-line boundaries, trim, strip list
// markers, drop empties.
func splitInsights(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	blocks := strings.Split(text, "\n\n")

	var out []string
	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = stripListMarker(strings.TrimSpace(line))
		}
		joined := strings.TrimSpace(strings.Join(lines, " "))
		if joined != "" {
			out = append(out, joined)
		}
	}
	return out
}

// stripListMarker removes a leading "-", "*", "•", or "1." style
// marker. Models add them despite instructions not to.
func stripListMarker(line string) string {
	trimmed := strings.TrimLeft(line, "-*• \t")
	if trimmed != line {
		return strings.TrimSpace(trimmed)
	}
	// Numbered markers: digits followed by "." or ")".
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}
