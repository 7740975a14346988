// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aiservice

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sentinel-safety/sentinel/pkg/insight"
)

var errEmptyCompletion = errors.New("upstream returned an empty completion")

var (
	insightResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentinel",
		Subsystem: "aiservice",
		Name:      "insight_results_total",
		Help:      "Insight results served, labeled by provenance source.",
	}, []string{"source"})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentinel",
		Subsystem: "aiservice",
		Name:      "rate_limited_total",
		Help:      "Insight requests rejected by the sliding-window limiter.",
	})
)

func recordInsightResult(source insight.Source) {
	insightResultsTotal.WithLabelValues(string(source)).Inc()
}

func recordRateLimited() {
	rateLimitedTotal.Inc()
}
