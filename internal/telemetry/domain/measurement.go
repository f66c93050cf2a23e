package telemetry

import (
	"context"
	"time"
)

// Measurement is a raw telemetry value written to storage.
type Measurement struct {
	VesselID string
	SystemID string
	PointKey string
	TS       time.Time

	ValueNumeric *float64
	ValueText    *string
	Quality      string
}

// Repository persists telemetry measurements.
type Repository interface {
	InsertMeasurements(ctx context.Context, measurements []Measurement) error
}

// LatestReader loads the most recent snapshot for a vessel system. Pollers
// use it to feed the advisory pipelines between ingest events.
type LatestReader interface {
	Latest(ctx context.Context, vesselID, systemID string) (Snapshot, error)
}
