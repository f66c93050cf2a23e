package incidents

import (
	"context"
	"errors"
	"time"
)

// Entry is one row of the append-only incident log. Entries are written once
// per classification and never updated or deleted by the pipeline; the
// reporting layer reads them later.
type Entry struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	VesselID  string            `json:"vessel_id,omitempty"`
	Module    string            `json:"module"`
	Level     string            `json:"level"`
	Severity  string            `json:"severity"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Validate checks entry invariants before insert.
func (e Entry) Validate() error {
	if e.ID == "" {
		return errors.New("incident entry: empty id")
	}
	if e.Timestamp.IsZero() {
		return errors.New("incident entry: zero timestamp")
	}
	if e.Module == "" {
		return errors.New("incident entry: empty module")
	}
	if e.Level == "" {
		return errors.New("incident entry: empty level")
	}
	if e.Message == "" {
		return errors.New("incident entry: empty message")
	}
	return nil
}

// Filter narrows an incident log listing.
type Filter struct {
	Module   string
	Level    string
	Severity string
	Since    time.Time
	Limit    int
}

// Repository persists and lists incident log entries.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
}
