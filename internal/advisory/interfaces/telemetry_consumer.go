// Package interfaces subscribes the advisory pipelines to telemetry events.
package interfaces

import (
	"context"
	"errors"
	"log"

	advisoryapp "nautilus-one/internal/advisory/application"
	"nautilus-one/internal/eventing"
	events "nautilus-one/internal/telemetry/application/events"
	telemetry "nautilus-one/internal/telemetry/domain"
)

// TelemetryConsumer turns TelemetryReceived events into snapshots and runs
// them through pipelines bound to the event's system. Evaluation is silent:
// the caller of the ingest endpoint already has its acknowledgement.
type TelemetryConsumer struct {
	pipelines map[string][]*advisoryapp.Pipeline
	logger    *log.Logger
}

// NewTelemetryConsumer constructs a consumer. The map keys are telemetry
// system IDs; each system can feed several pipelines.
func NewTelemetryConsumer(pipelines map[string][]*advisoryapp.Pipeline, logger *log.Logger) (*TelemetryConsumer, error) {
	if len(pipelines) == 0 {
		return nil, errors.New("telemetry consumer: no pipelines")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &TelemetryConsumer{pipelines: pipelines, logger: logger}, nil
}

// Register subscribes the consumer on the bus.
func (c *TelemetryConsumer) Register(bus eventing.EventBus) {
	bus.Subscribe(eventing.EventTypeOf[events.TelemetryReceived](), c.Handle)
}

// Handle processes one TelemetryReceived event.
func (c *TelemetryConsumer) Handle(ctx context.Context, event any) error {
	received, ok := event.(events.TelemetryReceived)
	if !ok {
		if ptr, isPtr := event.(*events.TelemetryReceived); isPtr && ptr != nil {
			received = *ptr
		} else {
			return nil
		}
	}

	targets := c.pipelines[received.SystemID]
	if len(targets) == 0 {
		return nil
	}

	snap := snapshotFromEvent(received)
	for _, pipeline := range targets {
		result := pipeline.Evaluate(ctx, snap)
		c.logger.Printf("advisory %s: system %s classified %s", pipeline.Module(), received.SystemID, result.Level)
	}
	return nil
}

func snapshotFromEvent(received events.TelemetryReceived) telemetry.Snapshot {
	snap := make(telemetry.Snapshot, len(received.Points))
	for _, point := range received.Points {
		if point.Text != "" {
			snap[point.PointKey] = point.Text
			continue
		}
		snap[point.PointKey] = point.Value
	}
	return snap
}
