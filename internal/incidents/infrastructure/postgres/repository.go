package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	incidents "nautilus-one/internal/incidents/domain"
)

const defaultIncidentTable = "incident_log"

// IncidentRepository is a Postgres implementation of the incident log.
type IncidentRepository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*IncidentRepository)

// WithTable overrides the default table name.
func WithTable(table string) RepositoryOption {
	return func(repo *IncidentRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewIncidentRepository constructs a repository with default table name.
func NewIncidentRepository(db *sql.DB, opts ...RepositoryOption) *IncidentRepository {
	repo := &IncidentRepository{db: db, table: defaultIncidentTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Insert appends one entry. The log is append-only: there is no update or
// delete path in this subsystem.
func (r *IncidentRepository) Insert(ctx context.Context, entry incidents.Entry) error {
	if r == nil || r.db == nil {
		return errors.New("incident repo: nil db")
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	metadata := []byte("{}")
	if len(entry.Metadata) > 0 {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("incident repo: encode metadata: %w", err)
		}
		metadata = encoded
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	ts,
	vessel_id,
	module,
	level,
	severity,
	message,
	metadata
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8
)`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Timestamp,
		entry.VesselID,
		entry.Module,
		entry.Level,
		entry.Severity,
		entry.Message,
		metadata,
	)
	return err
}

// List returns entries newest first, optionally filtered.
func (r *IncidentRepository) List(ctx context.Context, filter incidents.Filter) ([]incidents.Entry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("incident repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, ts, vessel_id, module, level, severity, message, metadata
FROM %s
WHERE 1=1`, r.table)
	args := []any{}

	if filter.Module != "" {
		args = append(args, filter.Module)
		query += fmt.Sprintf(" AND module = $%d", len(args))
	}
	if filter.Level != "" {
		args = append(args, filter.Level)
		query += fmt.Sprintf(" AND level = $%d", len(args))
	}
	if filter.Severity != "" {
		args = append(args, filter.Severity)
		query += fmt.Sprintf(" AND severity = $%d", len(args))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		query += fmt.Sprintf(" AND ts >= $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY ts DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []incidents.Entry
	for rows.Next() {
		var (
			entry    incidents.Entry
			vessel   sql.NullString
			metadata []byte
		)
		if err := rows.Scan(&entry.ID, &entry.Timestamp, &vessel, &entry.Module, &entry.Level, &entry.Severity, &entry.Message, &metadata); err != nil {
			return nil, err
		}
		entry.VesselID = vessel.String
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("incident repo: decode metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
