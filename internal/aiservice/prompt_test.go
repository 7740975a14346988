// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aiservice

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sentinel-safety/sentinel/pkg/metrics"
)

// TestBuildPrompt_Sections tests that every metrics section appears in
// the prompt.
func TestBuildPrompt_Sections(t *testing.T) {
	rec := metrics.Record{
		Lagging:            metrics.Lagging{IncidentCount: 3, NearMissCount: 7, LostTimeInjuryCount: 1},
		Leading:            metrics.Leading{TrainingCompleted: 4, InspectionsCompleted: 2, KPIs: metrics.DefaultKPIs()},
		TrainingCompliance: 82.5,
		RiskScore:          4,
	}

	prompt := buildPrompt("Acme Drilling", rec)

	for _, want := range []string{
		"Company: Acme Drilling",
		"Lagging indicators:",
		"Incidents: 3",
		"Near misses: 7",
		"Lost time injuries: 1",
		"Leading indicators:",
		"Trainings completed: 4",
		"KPIs (actual vs target):",
		"Near Miss Reporting Rate",
		"Training compliance: 82.5%",
		"Risk score: 4 out of 10",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

// TestBuildPrompt_NoCompany tests the company line is omitted for the
// all-companies scope.
func TestBuildPrompt_NoCompany(t *testing.T) {
	prompt := buildPrompt("", metrics.Record{})
	if strings.Contains(prompt, "Company:") {
		t.Error("prompt should not contain a company line without a company")
	}
}

// TestCacheKey_FixedOrder tests that equal records key identically and
// differing records do not.
func TestCacheKey_FixedOrder(t *testing.T) {
	a := metrics.Record{Lagging: metrics.Lagging{IncidentCount: 1}, RiskScore: 5}
	b := metrics.Record{Lagging: metrics.Lagging{IncidentCount: 1}, RiskScore: 5}
	if cacheKey("Acme", a) != cacheKey("Acme", b) {
		t.Error("equal records produced different keys")
	}

	b.RiskScore = 6
	if cacheKey("Acme", a) == cacheKey("Acme", b) {
		t.Error("risk score change did not change the key")
	}
	if cacheKey("Acme", a) == cacheKey("Other", a) {
		t.Error("company change did not change the key")
	}
}

// TestSplitInsights covers the paragraph splitting rules.
func TestSplitInsights(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "blank line boundaries",
			in:   "First recommendation.\n\nSecond recommendation.",
			want: []string{"First recommendation.", "Second recommendation."},
		},
		{
			name: "windows line endings",
			in:   "One.\r\n\r\nTwo.",
			want: []string{"One.", "Two."},
		},
		{
			name: "empties dropped and whitespace trimmed",
			in:   "  First.  \n\n   \n\nSecond.",
			want: []string{"First.", "Second."},
		},
		{
			name: "multi-line paragraph joined",
			in:   "A recommendation that\nwraps across lines.\n\nNext.",
			want: []string{"A recommendation that wraps across lines.", "Next."},
		},
		{
			name: "list markers stripped",
			in:   "- Bulleted item.\n\n2. Numbered item.",
			want: []string{"Bulleted item.", "Numbered item."},
		},
		{
			name: "all whitespace",
			in:   "  \n\n \n ",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitInsights(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitInsights(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
