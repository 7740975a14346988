// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package client is the typed HTTP client for the Sentinel API.
//
// Insight requests are special-cased: they carry their own timeout and
// degrade to the local rule engine instead of returning an error, so a
// caller rendering a dashboard always has something to show even when
// the server is down.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sentinel-safety/sentinel/pkg/insight"
	"github.com/sentinel-safety/sentinel/pkg/metrics"
	"github.com/sentinel-safety/sentinel/pkg/report"
)

// InsightTimeout bounds one safety-insights call end to end. It is
// deliberately longer than the server's own upstream timeout so the
// server gets to answer with its tagged fallback before the client
// gives up and produces its own.
const InsightTimeout = 15 * time.Second

// Client talks to a Sentinel server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", resp.Status)
	}
	return nil
}

// CreateReport submits a safety report and returns the stored copy.
func (c *Client) CreateReport(ctx context.Context, doc report.Report) (report.Report, error) {
	var created report.Report
	err := c.do(ctx, http.MethodPost, "/api/reports", doc, &created)
	return created, err
}

// ListReports fetches all stored reports in submission order.
func (c *Client) ListReports(ctx context.Context) ([]report.Report, error) {
	var resp struct {
		Reports []report.Report `json:"reports"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/reports", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Reports, nil
}

// MetricsSummary fetches aggregate metrics across all reports.
func (c *Client) MetricsSummary(ctx context.Context) (report.Summary, error) {
	var summary report.Summary
	err := c.do(ctx, http.MethodGet, "/api/reports/metrics/summary", nil, &summary)
	return summary, err
}

// CreateInspection submits an inspection and returns the stored copy.
func (c *Client) CreateInspection(ctx context.Context, doc report.Inspection) (report.Inspection, error) {
	var created report.Inspection
	err := c.do(ctx, http.MethodPost, "/api/inspections", doc, &created)
	return created, err
}

// ListInspections fetches all stored inspections in submission order.
func (c *Client) ListInspections(ctx context.Context) ([]report.Inspection, error) {
	var resp struct {
		Inspections []report.Inspection `json:"inspections"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/inspections", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Inspections, nil
}

// insightRequest mirrors the server's safety-insights body.
type insightRequest struct {
	CompanyName  string         `json:"companyName"`
	Metrics      map[string]any `json:"metrics,omitempty"`
	ForceRefresh bool           `json:"forceRefresh,omitempty"`
}

// SafetyInsights requests insights for a raw metrics document. Any
// failure to get a server answer within InsightTimeout produces local
// rule-based insights tagged as fallback rather than an error.
func (c *Client) SafetyInsights(ctx context.Context, company string, raw map[string]any, force bool) insight.Result {
	ctx, cancel := context.WithTimeout(ctx, InsightTimeout)
	defer cancel()

	var result insight.Result
	err := c.do(ctx, http.MethodPost, "/api/ai/safety-insights", insightRequest{
		CompanyName:  company,
		Metrics:      raw,
		ForceRefresh: force,
	}, &result)
	if err != nil || len(result.Insights) == 0 {
		rec := metrics.Normalize(raw)
		result = insight.Result{
			Insights:    insight.FallbackInsights(company, rec),
			Source:      insight.SourceFallback,
			Badge:       insight.BadgeForSource(insight.SourceFallback),
			Fingerprint: metrics.Fingerprint(company, rec),
			GeneratedAt: time.Now().UTC(),
		}
		if err != nil {
			result.ErrMessage = err.Error()
		}
	}
	return result
}

// GenerateInsights adapts SafetyInsights to the insight.Service
// interface, letting local tooling use the generator pipeline with
// this client as its upstream.
func (c *Client) GenerateInsights(ctx context.Context, company string, rec metrics.Record) (insight.ServiceResult, error) {
	raw := recordToDocument(rec)
	result := c.SafetyInsights(ctx, company, raw, false)
	return insight.ServiceResult{
		Insights:   result.Insights,
		Source:     result.Source,
		ErrMessage: result.ErrMessage,
	}, nil
}

var _ insight.Service = (*Client)(nil)

// recordToDocument rebuilds the nested wire shape from a normalized
// record so the server re-normalizes to the identical fingerprint.
func recordToDocument(rec metrics.Record) map[string]any {
	kpis := make([]any, 0, len(rec.Leading.KPIs))
	for _, kpi := range rec.Leading.KPIs {
		kpis = append(kpis, map[string]any{
			"id":     kpi.ID,
			"name":   kpi.Name,
			"actual": kpi.Actual,
			"target": kpi.Target,
			"unit":   kpi.Unit,
		})
	}
	return map[string]any{
		"lagging": map[string]any{
			"incidentCount":         rec.Lagging.IncidentCount,
			"nearMissCount":         rec.Lagging.NearMissCount,
			"firstAidCount":         rec.Lagging.FirstAidCount,
			"medicalTreatmentCount": rec.Lagging.MedicalTreatmentCount,
			"lostTimeInjuryCount":   rec.Lagging.LostTimeInjuryCount,
		},
		"leading": map[string]any{
			"trainingCompleted":    rec.Leading.TrainingCompleted,
			"inspectionsCompleted": rec.Leading.InspectionsCompleted,
			"kpis":                 kpis,
		},
		"trainingCompliance": rec.TrainingCompliance,
		"riskScore":          rec.RiskScore,
	}
}

// do performs one JSON round trip. Non-2xx statuses become errors
// carrying the server's error message when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
