// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import "strings"

// DefaultKPIs returns the built-in indicator set used when a document
// carries no KPI data at all. Returned fresh on each call so callers
// can mutate their copy.
func DefaultKPIs() []KPI {
	return []KPI{
		{ID: "nearmissreportingrate", Name: "Near Miss Reporting Rate", Target: 100, Unit: "%"},
		{ID: "criticalriskcontrolverification", Name: "Critical Risk Control Verification", Target: 95, Unit: "%"},
		{ID: "electricalsafetycompliance", Name: "Electrical Safety Compliance", Target: 100, Unit: "%"},
	}
}

// BuildKPI constructs a KPI from a raw document entry, applying the
// defaulting rules: ID derived from the name when absent, Target 100,
// Unit "%".
func BuildKPI(raw map[string]any) KPI {
	kpi := KPI{
		ID:     stringOf(raw["id"]),
		Name:   stringOf(raw["name"]),
		Actual: numberOf(raw["actual"]),
		Unit:   stringOf(raw["unit"]),
	}
	if v, ok := lookupNumber(raw, "target"); ok {
		kpi.Target = v
	} else {
		kpi.Target = 100
	}
	if kpi.ID == "" {
		kpi.ID = KPIIDFromName(kpi.Name)
	}
	if kpi.Unit == "" {
		kpi.Unit = "%"
	}
	return kpi
}

// KPIIDFromName derives a stable identifier: the name lowercased with
// all whitespace stripped.
func KPIIDFromName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MergeKPIs folds incoming KPIs into an existing sequence. Identity is
// the ID field; a match updates the existing entry's Actual in place
// rather than appending a duplicate. First-seen order is preserved.
func MergeKPIs(existing []KPI, incoming []KPI) []KPI {
	merged := existing
	for _, in := range incoming {
		found := false
		for i := range merged {
			if merged[i].ID == in.ID {
				merged[i].Actual = in.Actual
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, in)
		}
	}
	return merged
}
