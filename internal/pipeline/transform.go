package pipeline

import (
	"context"

	"github.com/couchcryptid/agri-alert-impact/internal/domain"
)

// IncidentTransformer implements Transformer by decoding and validating the
// incident JSON carried in each message.
type IncidentTransformer struct{}

// NewTransformer creates an IncidentTransformer.
func NewTransformer() *IncidentTransformer {
	return &IncidentTransformer{}
}

func (t *IncidentTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.IncidentRecord, error) {
	rec, err := domain.ParseIncident(raw)
	if err != nil {
		return domain.IncidentRecord{}, err
	}
	if err := domain.ValidateIncident(rec); err != nil {
		return domain.IncidentRecord{}, err
	}
	return rec, nil
}
