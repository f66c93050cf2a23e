package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"

	telemetry "nautilus-one/internal/telemetry/domain"
)

var errNilScorer = errors.New("scoring: nil scorer")

// Session runs one forward pass of a pre-trained scoring model.
type Session interface {
	Run(features []float64) (float64, error)
}

// LinearSession is a logistic scoring model loaded from a weights artifact.
type LinearSession struct {
	weights []float64
	bias    float64
}

type modelArtifact struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LoadSession reads a model artifact from disk.
func LoadSession(path string) (*LinearSession, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("scoring: read model artifact: %w", err)
	}
	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("scoring: decode model artifact: %w", err)
	}
	if len(artifact.Weights) == 0 {
		return nil, errors.New("scoring: model artifact has no weights")
	}
	return &LinearSession{weights: artifact.Weights, bias: artifact.Bias}, nil
}

// Run computes the logistic output for a feature vector.
func (s *LinearSession) Run(features []float64) (float64, error) {
	if s == nil {
		return 0, errors.New("scoring: nil session")
	}
	if len(features) != len(s.weights) {
		return 0, fmt.Errorf("scoring: feature count %d does not match model input %d", len(features), len(s.weights))
	}
	sum := s.bias
	for i, weight := range s.weights {
		sum += weight * features[i]
	}
	return 1 / (1 + math.Exp(-sum)), nil
}

// LazySession defers artifact loading until the first inference and caches
// the session for the process lifetime. Construction is injected, not held
// in package state, so tests can point it at a fixture path.
type LazySession struct {
	path string

	once    sync.Once
	session Session
	loadErr error
}

// NewLazySession wraps a model path.
func NewLazySession(path string) *LazySession {
	return &LazySession{path: path}
}

// Run loads the artifact once and delegates to it.
func (l *LazySession) Run(features []float64) (float64, error) {
	l.once.Do(func() {
		l.session, l.loadErr = LoadSession(l.path)
	})
	if l.loadErr != nil {
		return 0, l.loadErr
	}
	return l.session.Run(features)
}

// ModelScorer normalizes a snapshot with a fixed feature spec and runs the
// scoring session on the resulting vector.
type ModelScorer struct {
	spec    telemetry.FeatureSpec
	session Session
	logger  *log.Logger
}

// ModelScorerOption configures a model scorer.
type ModelScorerOption func(*ModelScorer)

// WithScorerLogger routes sensor-dropout observations to a logger.
func WithScorerLogger(logger *log.Logger) ModelScorerOption {
	return func(m *ModelScorer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewModelScorer wires a feature spec to a session.
func NewModelScorer(spec telemetry.FeatureSpec, session Session, opts ...ModelScorerOption) (*ModelScorer, error) {
	if len(spec.Fields) == 0 {
		return nil, errors.New("scoring: empty feature spec")
	}
	if session == nil {
		return nil, errors.New("scoring: nil session")
	}
	scorer := &ModelScorer{spec: spec, session: session, logger: log.Default()}
	for _, opt := range opts {
		opt(scorer)
	}
	return scorer, nil
}

// Score implements Scorer. Missing snapshot fields default to zero and are
// logged: a dropout scores like a genuine zero reading, so the log entry is
// where the difference survives.
func (m *ModelScorer) Score(_ context.Context, snap telemetry.Snapshot) (float64, error) {
	vector, missing := m.spec.Vector(snap)
	if len(missing) > 0 {
		m.logger.Printf("scoring: fields %v missing from snapshot, defaulting to zero", missing)
	}
	score, err := m.session.Run(vector)
	if err != nil {
		return 0, err
	}
	if score < 0 || score > 1 || math.IsNaN(score) {
		return 0, fmt.Errorf("scoring: model output %v outside [0,1]", score)
	}
	return score, nil
}
