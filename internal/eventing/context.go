package eventing

import "context"

type contextKey string

const (
	contextKeyEnvelope contextKey = "eventing.envelope"
	contextKeyVessel   contextKey = "eventing.vessel_id"
	contextKeyCorr     contextKey = "eventing.correlation_id"
)

// WithEnvelope attaches envelope metadata to context.
func WithEnvelope(ctx context.Context, env Envelope) context.Context {
	return context.WithValue(ctx, contextKeyEnvelope, env)
}

// EnvelopeFromContext returns envelope metadata if available.
func EnvelopeFromContext(ctx context.Context) (Envelope, bool) {
	value := ctx.Value(contextKeyEnvelope)
	env, ok := value.(Envelope)
	return env, ok
}

// WithVesselID sets vessel id in context.
func WithVesselID(ctx context.Context, vesselID string) context.Context {
	return context.WithValue(ctx, contextKeyVessel, vesselID)
}

// WithCorrelationID sets correlation id in context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, contextKeyCorr, correlationID)
}

// MetaFromContext builds metadata from context with defaults.
func MetaFromContext(ctx context.Context, defaultVesselID string) Meta {
	meta := Meta{}
	if value := ctx.Value(contextKeyVessel); value != nil {
		if vesselID, ok := value.(string); ok {
			meta.VesselID = vesselID
		}
	}
	if meta.VesselID == "" {
		meta.VesselID = defaultVesselID
	}
	if value := ctx.Value(contextKeyCorr); value != nil {
		if corr, ok := value.(string); ok {
			meta.CorrelationID = corr
		}
	}
	return meta
}
