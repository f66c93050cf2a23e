package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	telemetry "nautilus-one/internal/telemetry/domain"
)

// LatestSnapshotReader assembles the most recent reading of every point key
// for a vessel system into one snapshot. Pollers feed classification from it.
type LatestSnapshotReader struct {
	db    *sql.DB
	table string
}

// NewLatestSnapshotReader constructs a reader.
func NewLatestSnapshotReader(db *sql.DB, opts ...ReaderOption) *LatestSnapshotReader {
	reader := &LatestSnapshotReader{db: db, table: defaultTelemetryTable}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// ReaderOption configures the reader.
type ReaderOption func(*LatestSnapshotReader)

// WithReaderTable overrides the default table name.
func WithReaderTable(table string) ReaderOption {
	return func(reader *LatestSnapshotReader) {
		if table != "" {
			reader.table = table
		}
	}
}

// Latest implements telemetry.LatestReader.
func (r *LatestSnapshotReader) Latest(ctx context.Context, vesselID, systemID string) (telemetry.Snapshot, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("telemetry latest: nil db")
	}
	if vesselID == "" || systemID == "" {
		return nil, errors.New("telemetry latest: invalid arguments")
	}

	query := fmt.Sprintf(`
SELECT DISTINCT ON (point_key)
	point_key,
	value_numeric,
	value_text
FROM %s
WHERE vessel_id = $1 AND system_id = $2
ORDER BY point_key, ts DESC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, vesselID, systemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := telemetry.Snapshot{}
	for rows.Next() {
		var (
			pointKey     string
			valueNumeric sql.NullFloat64
			valueText    sql.NullString
		)
		if err := rows.Scan(&pointKey, &valueNumeric, &valueText); err != nil {
			return nil, err
		}
		switch {
		case valueNumeric.Valid:
			snapshot[pointKey] = valueNumeric.Float64
		case valueText.Valid:
			snapshot[pointKey] = valueText.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(snapshot) == 0 {
		return nil, fmt.Errorf("telemetry latest: no points for %s/%s", vesselID, systemID)
	}
	return snapshot, nil
}
