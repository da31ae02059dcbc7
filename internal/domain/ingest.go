package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidIncident is wrapped by every ValidateIncident failure.
var ErrInvalidIncident = errors.New("invalid incident")

// ParseIncident deserializes a RawEvent's value into an IncidentRecord.
// Unknown severity or status values are rejected here.
func ParseIncident(raw RawEvent) (IncidentRecord, error) {
	var rec IncidentRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return IncidentRecord{}, fmt.Errorf("parse incident: %w", err)
	}
	return rec, nil
}

// ValidateIncident checks a record at the ingestion boundary. The aggregator
// itself accepts anything; this is where malformed reports are turned away.
func ValidateIncident(rec IncidentRecord) error {
	switch {
	case rec.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidIncident)
	case rec.Region == "":
		return fmt.Errorf("%w %s: missing region", ErrInvalidIncident, rec.ID)
	case rec.OccurredAt.IsZero():
		return fmt.Errorf("%w %s: missing occurred_at", ErrInvalidIncident, rec.ID)
	case rec.Severity == 0:
		return fmt.Errorf("%w %s: missing severity", ErrInvalidIncident, rec.ID)
	case rec.Status == 0:
		return fmt.Errorf("%w %s: missing status", ErrInvalidIncident, rec.ID)
	case rec.AffectedCount < 0:
		return fmt.Errorf("%w %s: negative affected_count %d", ErrInvalidIncident, rec.ID, rec.AffectedCount)
	case !nonNegativeFinite(rec.DamageEstimate):
		return fmt.Errorf("%w %s: damage_estimate %v", ErrInvalidIncident, rec.ID, rec.DamageEstimate)
	case !nonNegativeFinite(rec.ResponseHours):
		return fmt.Errorf("%w %s: response_hours %v", ErrInvalidIncident, rec.ID, rec.ResponseHours)
	}
	return nil
}

func nonNegativeFinite(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
