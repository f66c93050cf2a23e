// Package apihttp serves cross-module reporting queries read straight from
// the incident log.
package apihttp

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const timeLayout = time.RFC3339

// StatsHandler serves advisory classification statistics: counts per module,
// level and severity over a time window.
type StatsHandler struct {
	db *sql.DB
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(db *sql.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// ServeHTTP handles GET /api/v1/advisory/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.db == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	from, err := parseTimeQuery(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !to.After(from) {
		http.Error(w, "to must be after from", http.StatusBadRequest)
		return
	}

	stats, err := queryStats(r.Context(), h.db, from, to)
	if err != nil {
		http.Error(w, "query stats error", http.StatusInternalServerError)
		return
	}
	if stats == nil {
		stats = []statRow{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

type statRow struct {
	Module   string `json:"module"`
	Level    string `json:"level"`
	Severity string `json:"severity"`
	Count    int64  `json:"count"`
}

func queryStats(ctx context.Context, db *sql.DB, from, to time.Time) ([]statRow, error) {
	const query = `
SELECT module, level, severity, COUNT(*) AS total
FROM incident_log
WHERE ts >= $1 AND ts < $2
GROUP BY module, level, severity
ORDER BY module, severity, level`

	rows, err := db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []statRow
	for rows.Next() {
		var row statRow
		if err := rows.Scan(&row.Module, &row.Level, &row.Severity, &row.Count); err != nil {
			return nil, err
		}
		stats = append(stats, row)
	}
	return stats, rows.Err()
}

func parseTimeQuery(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, errors.New(key + " is required")
	}
	parsed, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, errors.New(key + " must be RFC3339")
	}
	return parsed.UTC(), nil
}
