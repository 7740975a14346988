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
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sentinel-safety/sentinel/pkg/report"
)

const inspectionPrefix = "inspection/"

// validateInspection reuses gin's binding tag set so documents arriving
// through the store obey the same rules as the HTTP handlers.
var validateInspection = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}()

// Inspections persists inspection documents.
type Inspections struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewInspections wraps an open database.
func NewInspections(db *badger.DB, logger *slog.Logger) *Inspections {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inspections{db: db, logger: logger, now: time.Now}
}

// WithClock injects a time source for tests.
func (s *Inspections) WithClock(now func() time.Time) *Inspections {
	s.now = now
	return s
}

func inspectionKey(createdAt time.Time, id string) []byte {
	return fmt.Appendf(nil, "%s%020d/%s", inspectionPrefix, createdAt.UnixNano(), id)
}

// Create validates and persists one inspection.
func (s *Inspections) Create(ctx context.Context, doc report.Inspection) (report.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return report.Inspection{}, err
	}
	if err := validateInspection.Struct(doc); err != nil {
		return report.Inspection{}, fmt.Errorf("invalid inspection: %w", err)
	}

	doc.ID = uuid.NewString()
	doc.CreatedAt = s.now().UTC()
	if doc.Date.IsZero() {
		doc.Date = doc.CreatedAt
	}

	value, err := json.Marshal(doc)
	if err != nil {
		return report.Inspection{}, fmt.Errorf("encode inspection: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(inspectionKey(doc.CreatedAt, doc.ID), value)
	})
	if err != nil {
		return report.Inspection{}, fmt.Errorf("persist inspection %s: %w", doc.ID, err)
	}
	s.logger.Info("inspection created",
		"id", doc.ID, "inspector", doc.Inspector, "findings", len(doc.Findings))
	return doc, nil
}

// List returns all inspections in submission order.
func (s *Inspections) List(ctx context.Context) ([]report.Inspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []report.Inspection
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(inspectionPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var doc report.Inspection
				if err := json.Unmarshal(val, &doc); err != nil {
					s.logger.Warn("skipping undecodable inspection",
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
		return nil, fmt.Errorf("list inspections: %w", err)
	}
	return out, nil
}
