package eventing

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	VesselID   string    `json:"vessel_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Value      float64   `json:"value"`
}

func TestBusPublishReachesAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus()
	var first, second int
	bus.Subscribe(EventTypeOf[testEvent](), func(_ context.Context, event any) error {
		first++
		return nil
	})
	bus.Subscribe(EventTypeOf[testEvent](), func(_ context.Context, event any) error {
		second++
		return nil
	})

	if err := bus.Publish(context.Background(), testEvent{VesselID: "psv-ilhabela"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if first != 1 || second != 1 {
		t.Fatalf("handler calls = %d/%d, want 1/1", first, second)
	}
}

func TestBusHandlerFailureDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryBus()
	var reached bool
	bus.Subscribe(EventTypeOf[testEvent](), func(context.Context, any) error {
		return errors.New("sink down")
	})
	bus.Subscribe(EventTypeOf[testEvent](), func(context.Context, any) error {
		reached = true
		return nil
	})

	err := bus.Publish(context.Background(), testEvent{})
	if err == nil {
		t.Fatalf("expected first handler error to surface")
	}
	if !reached {
		t.Fatalf("second handler should still run")
	}
}

func TestBusRejectsNilEvent(t *testing.T) {
	bus := NewInMemoryBus()
	if err := bus.Publish(context.Background(), nil); !errors.Is(err, ErrNilEvent) {
		t.Fatalf("expected ErrNilEvent, got %v", err)
	}
}

func TestPublisherAttachesEnvelope(t *testing.T) {
	bus := NewInMemoryBus()
	var captured Envelope
	var ok bool
	bus.Subscribe(EventTypeOf[testEvent](), func(ctx context.Context, _ any) error {
		captured, ok = EnvelopeFromContext(ctx)
		return nil
	})

	publisher := NewPublisher(bus, "psv-ilhabela")
	occurred := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	if err := publisher.Publish(context.Background(), testEvent{OccurredAt: occurred, Value: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if !ok {
		t.Fatalf("expected envelope in handler context")
	}
	if captured.EventID == "" {
		t.Fatalf("expected generated event id")
	}
	if captured.VesselID != "psv-ilhabela" {
		t.Fatalf("vessel id = %q", captured.VesselID)
	}
	if !captured.OccurredAt.Equal(occurred) {
		t.Fatalf("occurred at = %v, want %v", captured.OccurredAt, occurred)
	}
	if captured.CorrelationID != captured.EventID {
		t.Fatalf("correlation should default to event id")
	}
}

func TestBuildEnvelopeExtractsVesselFromEvent(t *testing.T) {
	env, err := BuildEnvelope(testEvent{VesselID: "ahts-guarapari"}, Meta{})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if env.VesselID != "ahts-guarapari" {
		t.Fatalf("vessel id = %q", env.VesselID)
	}
	if env.SchemaVersion != 1 {
		t.Fatalf("schema version = %d, want 1", env.SchemaVersion)
	}
}
