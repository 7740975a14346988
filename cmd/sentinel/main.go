// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"

	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "sentinel",
		Short: "EHS safety reporting server and tooling",
		Long: `Sentinel stores safety reports and inspections, aggregates their
metrics across historical document shapes, and generates AI safety
insights with a deterministic rule-engine fallback.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the Sentinel API server",
		RunE:  runServe,
	}

	insightMetricsPath string
	insightCompany     string
	insightServerURL   string
	insightToken       string

	insightCmd = &cobra.Command{
		Use:   "insight",
		Short: "Generate safety insights for a metrics JSON document",
		Long: `Reads a metrics document and prints safety recommendations.
With --server the request goes through a running Sentinel server (AI
path); without it the local rule engine answers offline.`,
		RunE: runInsight,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config YAML")

	insightCmd.Flags().StringVarP(&insightMetricsPath, "metrics", "m", "", "metrics JSON file (default stdin)")
	insightCmd.Flags().StringVar(&insightCompany, "company", "", "company name for scoped recommendations")
	insightCmd.Flags().StringVar(&insightServerURL, "server", "", "Sentinel server URL (omit for offline rule engine)")
	insightCmd.Flags().StringVar(&insightToken, "token", "", "bearer token for --server")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(insightCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
