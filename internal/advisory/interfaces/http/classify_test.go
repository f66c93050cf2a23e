package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	advisoryapp "nautilus-one/internal/advisory/application"
	advisory "nautilus-one/internal/advisory/domain"
	"nautilus-one/internal/advisory/scoring"
	telemetry "nautilus-one/internal/telemetry/domain"
)

type stubClassifier struct {
	result advisory.Result
	err    error
}

func (s *stubClassifier) Classify(context.Context, telemetry.Snapshot) (advisory.Result, error) {
	return s.result, s.err
}

func discardLogger() *log.Logger {
	return log.New(discardWriter{}, "", 0)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newHandler(t *testing.T, classifier scoring.Classifier) *ClassifyHandler {
	t.Helper()
	pipeline, err := advisoryapp.NewPipeline("dp", classifier, discardLogger())
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	handler, err := NewClassifyHandler(map[string]*advisoryapp.Pipeline{"dp": pipeline})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return handler
}

func TestClassifyReturnsResult(t *testing.T) {
	handler := newHandler(t, &stubClassifier{result: advisory.Result{
		Level:    advisory.LevelDPOK,
		Severity: advisory.SeverityNominal,
		Message:  "Sistema DP dentro dos limites.",
	}})

	body := `{"module":"dp","snapshot":{"windSpeed":10,"load":0.4}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/advisory/classify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Module string          `json:"module"`
		Result advisory.Result `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.Level != advisory.LevelDPOK {
		t.Fatalf("level = %s", resp.Result.Level)
	}
}

func TestClassifyParseErrorMapsTo422(t *testing.T) {
	handler := newHandler(t, &stubClassifier{err: &scoring.ParseError{Reason: "no json object", Raw: "garbled"}})

	body := `{"module":"dp","snapshot":{"description":"vazamento"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/advisory/classify", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no json object") {
		t.Fatalf("body %q missing parse reason", rec.Body.String())
	}
}

func TestClassifyValidation(t *testing.T) {
	handler := newHandler(t, &stubClassifier{})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", "{", http.StatusBadRequest},
		{"missing module", `{"snapshot":{"a":1}}`, http.StatusBadRequest},
		{"missing snapshot", `{"module":"dp"}`, http.StatusBadRequest},
		{"unknown module", `{"module":"ballast","snapshot":{"a":1}}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/advisory/classify", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/advisory/classify", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", rec.Code)
	}
}

func TestSSEBrokerBroadcasts(t *testing.T) {
	broker := NewSSEBroker()
	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	broker.Notify(context.Background(), advisoryapp.Advice{
		Module: "dp",
		Result: advisory.Result{Level: advisory.LevelDPCritical},
	})

	select {
	case payload := <-ch:
		if !strings.Contains(string(payload), "Crítico") {
			t.Fatalf("payload = %s", payload)
		}
	default:
		t.Fatal("no payload broadcast")
	}
}

func TestSSEBrokerSkipsUnmarshalableAdvice(t *testing.T) {
	broker := NewSSEBroker()
	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	// time.Time refuses to marshal years outside [0,9999]; the sink must
	// swallow the failure without delivering a frame.
	broker.Notify(context.Background(), advisoryapp.Advice{
		Module: "dp",
		Result: advisory.Result{Level: advisory.LevelDPCritical},
		At:     time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	select {
	case payload := <-ch:
		t.Fatalf("unexpected broadcast: %s", payload)
	default:
	}
}
