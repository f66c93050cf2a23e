package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	incidents "nautilus-one/internal/incidents/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func applyIncidentMigration(t *testing.T, db *sql.DB) {
	t.Helper()
	ddl := `
CREATE TABLE IF NOT EXISTS incident_log (
	id TEXT PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL,
	vessel_id TEXT,
	module TEXT NOT NULL,
	level TEXT NOT NULL,
	severity TEXT NOT NULL,
	message TEXT NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'
)`
	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
}

func TestIncidentRepository_InsertAndList(t *testing.T) {
	db := openTestDB(t)
	applyIncidentMigration(t, db)

	ctx := context.Background()
	_, _ = db.ExecContext(ctx, "DELETE FROM incident_log")

	repo := NewIncidentRepository(db)
	base := time.Now().UTC().Truncate(time.Second)

	entries := []incidents.Entry{
		{
			ID:        "it-1",
			Timestamp: base.Add(-2 * time.Hour),
			VesselID:  "nav-atlantico",
			Module:    "dp",
			Level:     "Risco",
			Severity:  "elevated",
			Message:   "Risco de degradação DP.",
		},
		{
			ID:        "it-2",
			Timestamp: base.Add(-1 * time.Hour),
			VesselID:  "nav-atlantico",
			Module:    "sgso",
			Level:     "Grave",
			Severity:  "critical",
			Message:   "Ocorrência grave registrada.",
			Metadata:  map[string]string{"source": "report-42"},
		},
		{
			ID:        "it-3",
			Timestamp: base,
			VesselID:  "nav-atlantico",
			Module:    "dp",
			Level:     "OK",
			Severity:  "nominal",
			Message:   "Sistema DP dentro dos limites.",
		},
	}
	for _, entry := range entries {
		if err := repo.Insert(ctx, entry); err != nil {
			t.Fatalf("insert %s: %v", entry.ID, err)
		}
	}

	all, err := repo.List(ctx, incidents.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("entries = %d", len(all))
	}
	// newest first
	if all[0].ID != "it-3" || all[2].ID != "it-1" {
		t.Fatalf("order = %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	dpOnly, err := repo.List(ctx, incidents.Filter{Module: "dp"})
	if err != nil {
		t.Fatalf("list dp: %v", err)
	}
	if len(dpOnly) != 2 {
		t.Fatalf("dp entries = %d", len(dpOnly))
	}

	recent, err := repo.List(ctx, incidents.Filter{Since: base.Add(-90 * time.Minute)})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent entries = %d", len(recent))
	}

	critical, err := repo.List(ctx, incidents.Filter{Severity: "critical"})
	if err != nil {
		t.Fatalf("list critical: %v", err)
	}
	if len(critical) != 1 || critical[0].Metadata["source"] != "report-42" {
		t.Fatalf("critical = %+v", critical)
	}

	limited, err := repo.List(ctx, incidents.Filter{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited entries = %d", len(limited))
	}
}

func TestIncidentRepository_InsertValidates(t *testing.T) {
	repo := NewIncidentRepository(nil)
	err := repo.Insert(context.Background(), incidents.Entry{})
	if err == nil {
		t.Fatal("expected error")
	}
}
