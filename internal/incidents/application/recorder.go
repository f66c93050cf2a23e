// Package application adapts advisory outcomes into the durable incident log.
package application

import (
	"context"
	"fmt"

	advisoryapp "nautilus-one/internal/advisory/application"
	"nautilus-one/internal/eventing"
	incidents "nautilus-one/internal/incidents/domain"
)

// Recorder appends advisory outcomes to the incident log. It implements the
// advisory pipeline's recorder port.
type Recorder struct {
	repo incidents.Repository
}

// NewRecorder constructs a recorder.
func NewRecorder(repo incidents.Repository) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("incidents: nil repository")
	}
	return &Recorder{repo: repo}, nil
}

// Record persists one advice as an incident log entry.
func (r *Recorder) Record(ctx context.Context, advice advisoryapp.Advice) error {
	entry := incidents.Entry{
		ID:        eventing.NewEventID(),
		Timestamp: advice.At,
		VesselID:  advice.VesselID,
		Module:    advice.Module,
		Level:     string(advice.Result.Level),
		Severity:  string(advice.Result.Severity),
		Message:   advice.Result.Message,
		Metadata:  advice.Metadata,
	}
	if err := r.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("incidents: record: %w", err)
	}
	return nil
}
