// Package interfaces exposes the incident log over HTTP: filtered listing
// plus CSV, XLSX and PDF exports for compliance reporting.
package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	incidents "nautilus-one/internal/incidents/domain"
	"nautilus-one/internal/observability/metrics"
)

// IncidentHandler handles incident log APIs.
type IncidentHandler struct {
	repo incidents.Repository
}

// NewIncidentHandler constructs a handler.
func NewIncidentHandler(repo incidents.Repository) (*IncidentHandler, error) {
	if repo == nil {
		return nil, errors.New("incident handler: nil repository")
	}
	return &IncidentHandler{repo: repo}, nil
}

// ServeHTTP handles incident routes under /api/v1/incidents.
func (h *IncidentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Path
	switch {
	case path == "/api/v1/incidents":
		h.handleList(w, r)
	case strings.HasPrefix(path, "/api/v1/incidents/export."):
		h.handleExport(w, r, strings.TrimPrefix(path, "/api/v1/incidents/export."))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *IncidentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context(), filterFromQuery(r))
	if err != nil {
		http.Error(w, "list incidents failed", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []incidents.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}

func (h *IncidentHandler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	entries, err := h.repo.List(r.Context(), filterFromQuery(r))
	if err != nil {
		metrics.ObserveExport(format, "error")
		http.Error(w, "list incidents failed", http.StatusInternalServerError)
		return
	}

	var payload []byte
	var contentType string
	switch format {
	case "csv":
		payload, err = BuildIncidentCSV(entries)
		contentType = "text/csv"
	case "xlsx":
		payload, err = BuildIncidentXLSX(entries)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		payload, err = BuildIncidentPDF(entries)
		contentType = "application/pdf"
	default:
		http.Error(w, "unsupported export format", http.StatusBadRequest)
		return
	}
	if err != nil {
		metrics.ObserveExport(format, "error")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	metrics.ObserveExport(format, "success")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=incidents."+format)
	_, _ = w.Write(payload)
}

func filterFromQuery(r *http.Request) incidents.Filter {
	query := r.URL.Query()
	filter := incidents.Filter{
		Module:   query.Get("module"),
		Level:    query.Get("level"),
		Severity: query.Get("severity"),
	}
	if since := query.Get("since"); since != "" {
		if parsed, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = parsed
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	return filter
}
