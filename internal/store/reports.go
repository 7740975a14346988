// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/sentinel-safety/sentinel/pkg/metrics"
	"github.com/sentinel-safety/sentinel/pkg/report"
)

const reportPrefix = "report/"

// Reports persists report documents. Keys embed the creation
// timestamp so iteration returns documents in submission order.
type Reports struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewReports wraps an open database.
func NewReports(db *badger.DB, logger *slog.Logger) *Reports {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reports{db: db, logger: logger, now: time.Now}
}

// WithClock injects a time source for tests.
func (r *Reports) WithClock(now func() time.Time) *Reports {
	r.now = now
	return r
}

func reportKey(createdAt time.Time, id string) []byte {
	return fmt.Appendf(nil, "%s%020d/%s", reportPrefix, createdAt.UnixNano(), id)
}

// Create assigns an ID and creation time and persists the document.
// The metrics payload is stored exactly as submitted.
func (r *Reports) Create(ctx context.Context, doc report.Report) (report.Report, error) {
	if err := ctx.Err(); err != nil {
		return report.Report{}, err
	}

	doc.ID = uuid.NewString()
	doc.CreatedAt = r.now().UTC()
	if doc.ReportDate.IsZero() {
		doc.ReportDate = doc.CreatedAt
	}

	value, err := json.Marshal(doc)
	if err != nil {
		return report.Report{}, fmt.Errorf("encode report: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(doc.CreatedAt, doc.ID), value)
	})
	if err != nil {
		return report.Report{}, fmt.Errorf("persist report %s: %w", doc.ID, err)
	}
	r.logger.Info("report created", "id", doc.ID, "company", doc.CompanyName)
	return doc, nil
}

// List returns all reports in submission order. A document that fails
// to decode is skipped with a warning rather than poisoning the whole
// listing.
func (r *Reports) List(ctx context.Context) ([]report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []report.Report
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var doc report.Report
				if err := json.Unmarshal(val, &doc); err != nil {
					r.logger.Warn("skipping undecodable report",
						"key", string(it.Item().Key()), "error", err)
					return nil
				}
				out = append(out, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

// Summary aggregates normalized metrics across every stored report.
// Each raw metrics payload goes through the normalizer here, so legacy
// flat documents contribute to the totals exactly like current-schema
// ones.
func (r *Reports) Summary(ctx context.Context) (report.Summary, error) {
	reports, err := r.List(ctx)
	if err != nil {
		return report.Summary{}, err
	}

	var sum report.Summary
	var complianceTotal, riskTotal float64
	for _, doc := range reports {
		rec := metrics.Normalize(doc.Metrics)
		sum.TotalIncidents += rec.Lagging.IncidentCount
		sum.TotalNearMisses += rec.Lagging.NearMissCount
		sum.TotalFirstAid += rec.Lagging.FirstAidCount
		sum.TotalMedicalTreatment += rec.Lagging.MedicalTreatmentCount
		sum.TotalLostTimeInjuries += rec.Lagging.LostTimeInjuryCount
		sum.TrainingsCompleted += rec.Leading.TrainingCompleted
		sum.InspectionsCompleted += rec.Leading.InspectionsCompleted
		complianceTotal += rec.TrainingCompliance
		riskTotal += rec.RiskScore
	}
	sum.ReportCount = len(reports)
	if sum.ReportCount > 0 {
		sum.AvgTrainingCompliance = complianceTotal / float64(sum.ReportCount)
		sum.AvgRiskScore = riskTotal / float64(sum.ReportCount)
	}
	return sum, nil
}

// AggregateMetrics folds every stored report into one normalized
// record for the company filter (empty means all companies). This is
// what the insight endpoint uses when the caller sends no metrics of
// its own.
func (r *Reports) AggregateMetrics(ctx context.Context, company string) (metrics.Record, error) {
	reports, err := r.List(ctx)
	if err != nil {
		return metrics.Record{}, err
	}

	var agg metrics.Record
	var complianceTotal, riskTotal float64
	matched := 0
	for _, doc := range reports {
		if company != "" && doc.CompanyName != company {
			continue
		}
		rec := metrics.Normalize(doc.Metrics)
		agg.Lagging.IncidentCount += rec.Lagging.IncidentCount
		agg.Lagging.NearMissCount += rec.Lagging.NearMissCount
		agg.Lagging.FirstAidCount += rec.Lagging.FirstAidCount
		agg.Lagging.MedicalTreatmentCount += rec.Lagging.MedicalTreatmentCount
		agg.Lagging.LostTimeInjuryCount += rec.Lagging.LostTimeInjuryCount
		agg.Leading.TrainingCompleted += rec.Leading.TrainingCompleted
		agg.Leading.InspectionsCompleted += rec.Leading.InspectionsCompleted
		agg.Leading.KPIs = metrics.MergeKPIs(agg.Leading.KPIs, rec.Leading.KPIs)
		complianceTotal += rec.TrainingCompliance
		riskTotal += rec.RiskScore
		matched++
	}
	if matched > 0 {
		agg.TrainingCompliance = complianceTotal / float64(matched)
		agg.RiskScore = riskTotal / float64(matched)
	}
	if len(agg.Leading.KPIs) == 0 {
		agg.Leading.KPIs = metrics.DefaultKPIs()
	}
	return agg, nil
}
