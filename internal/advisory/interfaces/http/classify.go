// Package http exposes the advisory pipelines over HTTP: on-demand
// classification and the live SSE stream.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	advisoryapp "nautilus-one/internal/advisory/application"
	"nautilus-one/internal/advisory/scoring"
	telemetry "nautilus-one/internal/telemetry/domain"
)

// ClassifyHandler handles POST /api/v1/advisory/classify. This is the
// user-triggered path: classifier failures surface to the caller instead of
// collapsing into a fallback result.
type ClassifyHandler struct {
	pipelines map[string]*advisoryapp.Pipeline
}

// NewClassifyHandler constructs a handler over the named pipelines.
func NewClassifyHandler(pipelines map[string]*advisoryapp.Pipeline) (*ClassifyHandler, error) {
	if len(pipelines) == 0 {
		return nil, errors.New("classify handler: no pipelines")
	}
	return &ClassifyHandler{pipelines: pipelines}, nil
}

type classifyRequest struct {
	Module   string         `json:"module"`
	Snapshot map[string]any `json:"snapshot"`
}

// ServeHTTP classifies one submitted snapshot.
func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Module == "" {
		http.Error(w, "module required", http.StatusBadRequest)
		return
	}
	if len(req.Snapshot) == 0 {
		http.Error(w, "snapshot required", http.StatusBadRequest)
		return
	}

	pipeline, ok := h.pipelines[req.Module]
	if !ok {
		http.Error(w, "unknown module", http.StatusNotFound)
		return
	}

	result, err := pipeline.EvaluateStrict(r.Context(), telemetry.Snapshot(req.Snapshot))
	if err != nil {
		var parseErr *scoring.ParseError
		if errors.As(err, &parseErr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":  "model response unparseable",
				"reason": parseErr.Reason,
			})
			return
		}
		http.Error(w, "classification failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"module": req.Module,
		"result": result,
	})
}
