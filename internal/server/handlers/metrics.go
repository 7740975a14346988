// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentinel",
		Subsystem: "api",
		Name:      "reports_created_total",
		Help:      "Safety reports accepted and persisted.",
	})

	inspectionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentinel",
		Subsystem: "api",
		Name:      "inspections_created_total",
		Help:      "Inspections accepted and persisted.",
	})
)
