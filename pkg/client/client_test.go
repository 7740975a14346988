// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-safety/sentinel/pkg/insight"
	"github.com/sentinel-safety/sentinel/pkg/metrics"
	"github.com/sentinel-safety/sentinel/pkg/report"
)

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.NoError(t, c.Health(context.Background()))
}

func TestBearerTokenSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"reports": []report.Report{}})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok123"))
	_, err := c.ListReports(context.Background())
	assert.NoError(t, err)
}

func TestCreateReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/api/reports", r.URL.Path)

		var doc report.Report
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		doc.ID = "srv-assigned"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(doc)
	}))
	defer srv.Close()

	c := New(srv.URL)
	created, err := c.CreateReport(context.Background(), report.Report{CompanyName: "Acme Corp"})
	require.NoError(t, err)
	assert.Equal(t, "srv-assigned", created.ID)
	assert.Equal(t, "Acme Corp", created.CompanyName)
}

func TestServerErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "companyName is required"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateReport(context.Background(), report.Report{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "companyName is required")
	assert.Contains(t, err.Error(), "400")
}

func TestSafetyInsights_ServerAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ai/safety-insights", r.URL.Path)
		_ = json.NewEncoder(w).Encode(insight.Result{
			Insights: []string{"Review ladder inspection cadence."},
			Source:   insight.SourceOpenAI,
			Badge:    insight.BadgeAIPowered,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result := c.SafetyInsights(context.Background(), "Acme Corp",
		map[string]any{"totalIncidents": 2}, false)

	assert.Equal(t, insight.SourceOpenAI, result.Source)
	require.Len(t, result.Insights, 1)
}

func TestSafetyInsights_ServerDownFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL)
	result := c.SafetyInsights(context.Background(), "Acme Corp",
		map[string]any{"totalIncidents": 2}, false)

	assert.Equal(t, insight.SourceFallback, result.Source)
	assert.NotEmpty(t, result.Insights)
	assert.NotEmpty(t, result.ErrMessage)
	assert.NotEmpty(t, result.Fingerprint)
}

func TestSafetyInsights_SlowServerFallsBack(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() { close(release); srv.Close() }()

	c := New(srv.URL, WithHTTPClient(&http.Client{}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := c.SafetyInsights(ctx, "Acme Corp", map[string]any{"totalIncidents": 2}, false)
	assert.Equal(t, insight.SourceFallback, result.Source)
	assert.NotEmpty(t, result.Insights)
}

func TestGenerateInsightsRoundTripsFingerprint(t *testing.T) {
	var gotMetrics map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Metrics map[string]any `json:"metrics"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotMetrics = req.Metrics
		_ = json.NewEncoder(w).Encode(insight.Result{
			Insights: []string{"Maintain near-miss reporting."},
			Source:   insight.SourceOpenAI,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	rec := metrics.Normalize(map[string]any{
		"lagging": map[string]any{"incidentCount": 3},
	})
	res, err := c.GenerateInsights(context.Background(), "Acme Corp", rec)
	require.NoError(t, err)
	assert.Equal(t, insight.SourceOpenAI, res.Source)

	lagging, ok := gotMetrics["lagging"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, lagging["incidentCount"])
}
