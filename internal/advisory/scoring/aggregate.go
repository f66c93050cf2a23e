package scoring

import (
	"context"
	"errors"

	telemetry "nautilus-one/internal/telemetry/domain"
)

// FieldMeanScorer averages named numeric fields into a [0,1] score. Fields
// are expected pre-normalized by the gateway; values outside the range are
// clamped. Missing fields count as 0, same policy as the feature normalizer.
type FieldMeanScorer struct {
	fields []string
}

// NewFieldMeanScorer constructs a scorer over the given fields.
func NewFieldMeanScorer(fields []string) (*FieldMeanScorer, error) {
	if len(fields) == 0 {
		return nil, errors.New("scoring: field mean scorer needs at least one field")
	}
	return &FieldMeanScorer{fields: fields}, nil
}

// Score implements Scorer.
func (s *FieldMeanScorer) Score(_ context.Context, snap telemetry.Snapshot) (float64, error) {
	var sum float64
	for _, field := range s.fields {
		value, ok := snap.Number(field)
		if !ok {
			continue
		}
		if value < 0 {
			value = 0
		}
		if value > 1 {
			value = 1
		}
		sum += value
	}
	return sum / float64(len(s.fields)), nil
}
