// Copyright (C) 2026 Sentinel Safety Systems (engineering@sentinelsafety.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package metrics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Fingerprint returns a stable hash of the metrics subset that affects
// insight content: company scope plus the four lagging counters and
// training compliance. Serialization uses a fixed key order, so equal
// values always hash equal regardless of how the source document ordered
// its fields. Used as the cache/change-detection key for insights.
func Fingerprint(company string, rec Record) string {
	canonical := fmt.Sprintf(
		"company=%s|incidentCount=%d|nearMissCount=%d|firstAidCount=%d|medicalTreatmentCount=%d|trainingCompliance=%s",
		company,
		rec.Lagging.IncidentCount,
		rec.Lagging.NearMissCount,
		rec.Lagging.FirstAidCount,
		rec.Lagging.MedicalTreatmentCount,
		strconv.FormatFloat(rec.TrainingCompliance, 'f', -1, 64),
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
