package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"nautilus-one/internal/eventing"
	"nautilus-one/internal/observability/metrics"
	"nautilus-one/internal/telemetry/application/events"
	telemetry "nautilus-one/internal/telemetry/domain"
)

// EventPublisher raises domain events after ingestion.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// Handler ingests vessel telemetry posted by the onboard gateway.
type Handler struct {
	repo      telemetry.Repository
	publisher EventPublisher
	logger    *log.Logger
}

// NewHandler constructs an ingest handler.
func NewHandler(repo telemetry.Repository, publisher EventPublisher, logger *log.Logger) (*Handler, error) {
	if repo == nil {
		return nil, errors.New("telemetry ingest: nil repository")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{repo: repo, publisher: publisher, logger: logger}, nil
}

// ServeHTTP ingests telemetry data.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	started := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Printf("telemetry ingest: read body error: %v", err)
		metrics.ObserveIngest("error", time.Since(started))
		http.Error(w, "read body error", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req ingestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Printf("telemetry ingest: decode error: %v", err)
		metrics.ObserveIngest("error", time.Since(started))
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	measurements, event, err := req.toMeasurements()
	if err != nil {
		h.logger.Printf("telemetry ingest: invalid payload: %v", err)
		metrics.ObserveIngest("error", time.Since(started))
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.repo.InsertMeasurements(r.Context(), measurements); err != nil {
		h.logger.Printf("telemetry ingest: insert error: %v", err)
		metrics.ObserveIngest("error", time.Since(started))
		http.Error(w, "insert error", http.StatusInternalServerError)
		return
	}

	correlationID := r.Header.Get("X-Correlation-ID")
	if correlationID == "" {
		correlationID = eventing.NewEventID()
	}

	if h.publisher != nil {
		ctx := eventing.WithVesselID(r.Context(), req.VesselID)
		ctx = eventing.WithCorrelationID(ctx, correlationID)
		if err := h.publisher.Publish(ctx, event); err != nil {
			// Classification is an audit side-channel of ingest; storage
			// already succeeded, so log and answer OK.
			h.logger.Printf("telemetry ingest: publish error: %v", err)
		}
	}

	metrics.ObserveIngest("success", time.Since(started))
	resp := map[string]any{"inserted": len(measurements)}
	w.Header().Set("X-Correlation-ID", correlationID)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type ingestRequest struct {
	VesselID string         `json:"vesselId"`
	SystemID string         `json:"systemId"`
	TS       int64          `json:"ts"`
	Values   map[string]any `json:"values"`
	Quality  string         `json:"quality"`
	Points   []ingestPoint  `json:"points"`
}

type ingestPoint struct {
	TS      int64          `json:"ts"`
	Values  map[string]any `json:"values"`
	Quality string         `json:"quality"`
}

func (r ingestRequest) toMeasurements() ([]telemetry.Measurement, events.TelemetryReceived, error) {
	if r.VesselID == "" || r.SystemID == "" {
		return nil, events.TelemetryReceived{}, errors.New("missing vesselId/systemId")
	}

	points := r.Points
	if len(points) == 0 && r.TS != 0 {
		points = []ingestPoint{{TS: r.TS, Values: r.Values, Quality: r.Quality}}
	}
	if len(points) == 0 {
		return nil, events.TelemetryReceived{}, errors.New("no telemetry points")
	}

	var (
		measurements []telemetry.Measurement
		eventPoints  []events.TelemetryPoint
		latest       time.Time
	)
	for _, point := range points {
		ts, err := parseTimestamp(point.TS)
		if err != nil {
			return nil, events.TelemetryReceived{}, err
		}
		if ts.After(latest) {
			latest = ts
		}
		if len(point.Values) == 0 {
			return nil, events.TelemetryReceived{}, errors.New("empty values")
		}
		for key, value := range point.Values {
			measurement := telemetry.Measurement{
				VesselID: r.VesselID,
				SystemID: r.SystemID,
				PointKey: key,
				TS:       ts,
				Quality:  point.Quality,
			}
			eventPoint := events.TelemetryPoint{PointKey: key, Quality: point.Quality, TS: ts}
			switch v := value.(type) {
			case float64:
				measurement.ValueNumeric = &v
				eventPoint.Value = v
			case string:
				measurement.ValueText = &v
				eventPoint.Text = v
			default:
				return nil, events.TelemetryReceived{}, errors.New("unsupported value type")
			}
			measurements = append(measurements, measurement)
			eventPoints = append(eventPoints, eventPoint)
		}
	}

	event := events.TelemetryReceived{
		VesselID:   r.VesselID,
		SystemID:   r.SystemID,
		Points:     eventPoints,
		OccurredAt: latest,
	}
	return measurements, event, nil
}

func parseTimestamp(value int64) (time.Time, error) {
	if value <= 0 {
		return time.Time{}, errors.New("invalid ts")
	}
	// Accept milliseconds or seconds.
	if value > 1_000_000_000_000 {
		return time.UnixMilli(value).UTC(), nil
	}
	return time.Unix(value, 0).UTC(), nil
}
