package application

import (
	"context"
	"errors"
	"testing"
	"time"

	advisoryapp "nautilus-one/internal/advisory/application"
	advisory "nautilus-one/internal/advisory/domain"
	incidents "nautilus-one/internal/incidents/domain"
)

type fakeRepo struct {
	entries []incidents.Entry
	err     error
}

func (f *fakeRepo) Insert(_ context.Context, entry incidents.Entry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepo) List(context.Context, incidents.Filter) ([]incidents.Entry, error) {
	return f.entries, nil
}

func TestRecorderPersistsAdvice(t *testing.T) {
	repo := &fakeRepo{}
	recorder, err := NewRecorder(repo)
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}

	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	advice := advisoryapp.Advice{
		Module:   "sgso",
		VesselID: "nav-atlantico",
		Result: advisory.Result{
			Level:    advisory.LevelSGSOSevere,
			Severity: advisory.SeverityCritical,
			Message:  "Ocorrência grave registrada.",
		},
		At:       at,
		Metadata: map[string]string{"source": "report-42"},
	}
	if err := recorder.Record(context.Background(), advice); err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.ID == "" {
		t.Fatal("entry id not assigned")
	}
	if entry.Module != "sgso" || entry.Level != "Grave" || entry.Severity != "critical" {
		t.Fatalf("entry = %+v", entry)
	}
	if !entry.Timestamp.Equal(at) {
		t.Fatalf("timestamp = %v", entry.Timestamp)
	}
	if entry.Metadata["source"] != "report-42" {
		t.Fatalf("metadata = %v", entry.Metadata)
	}
}

func TestRecorderWrapsRepositoryError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	recorder, err := NewRecorder(repo)
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}

	err = recorder.Record(context.Background(), advisoryapp.Advice{
		Module: "dp",
		Result: advisory.Result{Level: advisory.LevelDPOK, Severity: advisory.SeverityNominal, Message: "ok"},
		At:     time.Now(),
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNewRecorderRequiresRepository(t *testing.T) {
	if _, err := NewRecorder(nil); err == nil {
		t.Fatal("expected error")
	}
}
