package eventing

import "context"

// Publisher wraps the bus with envelope construction. Delivery is in-process
// and at-most-once: classification side effects are best-effort audit
// channels, so no outbox or redelivery is layered on top.
type Publisher struct {
	bus      EventBus
	vesselID string
}

// NewPublisher constructs a publisher with a default vessel id.
func NewPublisher(bus EventBus, vesselID string) *Publisher {
	return &Publisher{bus: bus, vesselID: vesselID}
}

// Publish builds an envelope for the event and dispatches it.
func (p *Publisher) Publish(ctx context.Context, event any) error {
	if p == nil || p.bus == nil {
		return ErrNilEvent
	}
	env, err := BuildEnvelope(event, MetaFromContext(ctx, p.vesselID))
	if err != nil {
		return err
	}
	return p.bus.Publish(WithEnvelope(ctx, env), event)
}
