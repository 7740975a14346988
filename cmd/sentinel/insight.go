// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinel-safety/sentinel/pkg/client"
	"github.com/sentinel-safety/sentinel/pkg/insight"
	"github.com/sentinel-safety/sentinel/pkg/metrics"
)

func runInsight(cmd *cobra.Command, args []string) error {
	raw, err := readMetricsDocument(insightMetricsPath)
	if err != nil {
		return err
	}

	var result insight.Result
	if insightServerURL != "" {
		c := client.New(insightServerURL, client.WithToken(insightToken))
		result = c.SafetyInsights(cmd.Context(), insightCompany, raw, false)
	} else {
		rec := metrics.Normalize(raw)
		result = insight.Result{
			Insights:    insight.FallbackInsights(insightCompany, rec),
			Source:      insight.SourceFallback,
			Badge:       insight.BadgeForSource(insight.SourceFallback),
			Fingerprint: metrics.Fingerprint(insightCompany, rec),
			GeneratedAt: time.Now().UTC(),
		}
	}

	return printInsightResult(cmd.OutOrStdout(), result)
}

func readMetricsDocument(path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read metrics document: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse metrics document: %w", err)
	}
	return raw, nil
}

func printInsightResult(w io.Writer, result insight.Result) error {
	fmt.Fprintf(w, "Source: %s (%s)\n\n", result.Source, result.Badge)
	for i, text := range result.Insights {
		fmt.Fprintf(w, "%d. %s\n", i+1, text)
	}
	if result.ErrMessage != "" {
		fmt.Fprintf(w, "\nNote: %s\n", result.ErrMessage)
	}
	return nil
}
