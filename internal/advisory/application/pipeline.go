// Package application wires the classification strategies to their fan-out
// sinks. One pipeline instance serves one module (DP advisor, maintenance,
// compliance, SGSO, incident triage, forecast), each with its own policy.
package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	advisory "nautilus-one/internal/advisory/domain"
	"nautilus-one/internal/advisory/scoring"
	"nautilus-one/internal/observability/metrics"
	telemetry "nautilus-one/internal/telemetry/domain"
)

// Advice is one classification outcome fanned out to the sinks.
type Advice struct {
	Module   string            `json:"module"`
	VesselID string            `json:"vessel_id,omitempty"`
	Result   advisory.Result   `json:"result"`
	At       time.Time         `json:"at"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Notifier delivers advice to a side channel. Delivery is best-effort by
// contract: implementations log their own failures and never return them.
type Notifier interface {
	Notify(ctx context.Context, advice Advice)
}

// Recorder appends advice to the durable incident log.
type Recorder interface {
	Record(ctx context.Context, advice Advice) error
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Pipeline runs one classification per call and fans the result out. It is
// stateless between calls; the injected collaborators hold the only
// connections, constructed once at process start.
type Pipeline struct {
	module     string
	vesselID   string
	classifier scoring.Classifier
	notifier   Notifier
	recorder   Recorder
	fallback   advisory.Result
	clock      Clock
	logger     *log.Logger
}

// Option customizes a pipeline.
type Option func(*Pipeline)

// WithNotifier assigns the fan-out notifier.
func WithNotifier(notifier Notifier) Option {
	return func(p *Pipeline) {
		p.notifier = notifier
	}
}

// WithRecorder assigns the incident log recorder.
func WithRecorder(recorder Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = recorder
	}
}

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(p *Pipeline) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithFallback overrides the terminal result used when the classifier fails
// on the silent path.
func WithFallback(fallback advisory.Result) Option {
	return func(p *Pipeline) {
		p.fallback = fallback
	}
}

// WithVesselID tags advice with a vessel.
func WithVesselID(vesselID string) Option {
	return func(p *Pipeline) {
		p.vesselID = vesselID
	}
}

// NewPipeline constructs a pipeline for a module.
func NewPipeline(module string, classifier scoring.Classifier, logger *log.Logger, opts ...Option) (*Pipeline, error) {
	if module == "" {
		return nil, errors.New("advisory: empty module")
	}
	if classifier == nil {
		return nil, errors.New("advisory: nil classifier")
	}
	if logger == nil {
		logger = log.Default()
	}
	p := &Pipeline{
		module:     module,
		classifier: classifier,
		fallback:   advisory.DPErrorResult(),
		clock:      systemClock{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Module returns the module tag.
func (p *Pipeline) Module() string { return p.module }

// Evaluate classifies a snapshot on the silent path: classifier failures map
// to the terminal fallback result instead of escaping. Pollers sit on a
// rendering path and must always receive a displayable classification.
func (p *Pipeline) Evaluate(ctx context.Context, snap telemetry.Snapshot) advisory.Result {
	started := p.clock.Now()
	result, err := p.classifier.Classify(ctx, snap)
	if err != nil {
		p.logger.Printf("advisory %s: classify error: %v", p.module, err)
		metrics.IncClassificationError(p.module)
		result = p.fallback
	}
	p.fanOut(ctx, result, started)
	return result
}

// EvaluateStrict classifies a snapshot on the user-triggered path:
// classifier failures propagate so the caller can surface them. Fan-out
// failures are still contained.
func (p *Pipeline) EvaluateStrict(ctx context.Context, snap telemetry.Snapshot) (advisory.Result, error) {
	started := p.clock.Now()
	result, err := p.classifier.Classify(ctx, snap)
	if err != nil {
		metrics.IncClassificationError(p.module)
		return advisory.Result{}, fmt.Errorf("advisory %s: %w", p.module, err)
	}
	p.fanOut(ctx, result, started)
	return result, nil
}

// fanOut dispatches the result to the audit sinks. The synchronous return
// value is the only channel the caller may rely on; both sinks are
// fire-and-forget and isolated from each other.
func (p *Pipeline) fanOut(ctx context.Context, result advisory.Result, started time.Time) {
	now := p.clock.Now()
	advice := Advice{
		Module:   p.module,
		VesselID: p.vesselID,
		Result:   result,
		At:       now,
	}

	metrics.IncClassification(p.module, string(result.Level))
	metrics.ObserveClassification(p.module, now.Sub(started))

	if p.notifier != nil {
		p.notifier.Notify(ctx, advice)
	}
	if p.recorder != nil {
		if err := p.recorder.Record(ctx, advice); err != nil {
			p.logger.Printf("advisory %s: record error: %v", p.module, err)
			metrics.IncNotifyFailure(p.module, "incident_log")
		}
	}
}
