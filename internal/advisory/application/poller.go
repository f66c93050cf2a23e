package application

import (
	"context"
	"log"
	"time"

	telemetry "nautilus-one/internal/telemetry/domain"
)

// SnapshotSource yields the latest telemetry snapshot for a system.
type SnapshotSource interface {
	Latest(ctx context.Context, vesselID, systemID string) (telemetry.Snapshot, error)
}

// Poller periodically pulls the latest snapshot and runs it through a
// pipeline. One poller per continuously-monitored module.
type Poller struct {
	pipeline *Pipeline
	source   SnapshotSource
	vesselID string
	systemID string
	interval time.Duration
	logger   *log.Logger
}

// NewPoller constructs a poller. Intervals below one second are clamped.
func NewPoller(pipeline *Pipeline, source SnapshotSource, vesselID, systemID string, interval time.Duration, logger *log.Logger) *Poller {
	if interval < time.Second {
		interval = time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		pipeline: pipeline,
		source:   source,
		vesselID: vesselID,
		systemID: systemID,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled. Cancellation stops the ticker; an
// evaluation already in flight runs to completion.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	snap, err := p.source.Latest(ctx, p.vesselID, p.systemID)
	if err != nil {
		p.logger.Printf("advisory %s: latest snapshot: %v", p.pipeline.Module(), err)
		return
	}
	p.pipeline.Evaluate(ctx, snap)
}
