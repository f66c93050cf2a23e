// Package scoring provides the interchangeable classification strategies of
// the advisory pipeline: numeric model inference, keyword matching and LLM
// classification. All three reduce to the same contract.
package scoring

import (
	"context"

	advisory "nautilus-one/internal/advisory/domain"
	telemetry "nautilus-one/internal/telemetry/domain"
)

// Classifier maps one telemetry snapshot to a classification result.
type Classifier interface {
	Classify(ctx context.Context, snap telemetry.Snapshot) (advisory.Result, error)
}

// Scorer produces a risk score in [0,1] from a snapshot.
type Scorer interface {
	Score(ctx context.Context, snap telemetry.Snapshot) (float64, error)
}

// ThresholdClassifier turns any scorer into a classifier by running the
// score through an ordered threshold policy table.
type ThresholdClassifier struct {
	scorer Scorer
	table  advisory.RuleTable
}

// NewThresholdClassifier validates the table and wires it to a scorer.
func NewThresholdClassifier(scorer Scorer, table advisory.RuleTable) (*ThresholdClassifier, error) {
	if scorer == nil {
		return nil, errNilScorer
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &ThresholdClassifier{scorer: scorer, table: table}, nil
}

// Classify scores the snapshot and evaluates the threshold policy.
func (c *ThresholdClassifier) Classify(ctx context.Context, snap telemetry.Snapshot) (advisory.Result, error) {
	score, err := c.scorer.Score(ctx, snap)
	if err != nil {
		return advisory.Result{}, err
	}
	return advisory.Evaluate(score, c.table), nil
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(ctx context.Context, snap telemetry.Snapshot) (float64, error)

// Score implements Scorer.
func (f ScorerFunc) Score(ctx context.Context, snap telemetry.Snapshot) (float64, error) {
	return f(ctx, snap)
}
