package events

import "time"

// TelemetryPoint is a normalized telemetry sample. Numeric and text values
// are mutually exclusive; text carries categorical readings such as the DP
// operating mode.
type TelemetryPoint struct {
	PointKey string    `json:"point_key"`
	Value    float64   `json:"value,omitempty"`
	Text     string    `json:"text,omitempty"`
	Quality  string    `json:"quality,omitempty"`
	TS       time.Time `json:"ts"`
}

// TelemetryReceived is raised after telemetry ingestion. Advisory consumers
// turn it into a snapshot and run their pipelines.
type TelemetryReceived struct {
	EventID    string           `json:"event_id"`
	VesselID   string           `json:"vessel_id"`
	SystemID   string           `json:"system_id"`
	Points     []TelemetryPoint `json:"points"`
	OccurredAt time.Time        `json:"occurred_at"`
}
