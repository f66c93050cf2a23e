package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	advisory "nautilus-one/internal/advisory/domain"
	telemetry "nautilus-one/internal/telemetry/domain"
)

type stubChatModel struct {
	response string
	err      error
	prompts  []string
}

func (m *stubChatModel) Complete(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

func TestParseAssessment(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    Assessment
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"category":"Falha de equipamento","root_cause":"desgaste de selo","risk_level":"alto"}`,
			want: Assessment{Category: "Falha de equipamento", RootCause: "desgaste de selo", RiskLevel: "alto"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"category\":\"Fator humano\",\"root_cause\":\"fadiga\",\"risk_level\":\"médio\"}\n```",
			want: Assessment{Category: "Fator humano", RootCause: "fadiga", RiskLevel: "médio"},
		},
		{name: "not json", raw: "não sei classificar", wantErr: true},
		{name: "missing category", raw: `{"root_cause":"x","risk_level":"alto"}`, wantErr: true},
		{name: "missing root cause", raw: `{"category":"x","risk_level":"alto"}`, wantErr: true},
		{name: "missing risk level", raw: `{"category":"x","root_cause":"y"}`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAssessment(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("assessment = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func newLLMClassifier(t *testing.T, model ChatModel) *LLMClassifier {
	t.Helper()
	classifier, err := NewLLMClassifier(model, advisory.IncidentCatalog(), SGSOCategories(), []string{"description"})
	if err != nil {
		t.Fatalf("new llm classifier: %v", err)
	}
	return classifier
}

func TestLLMClassify(t *testing.T) {
	model := &stubChatModel{response: `{"category":"Condição ambiental","root_cause":"mar agitado","risk_level":"alto"}`}
	classifier := newLLMClassifier(t, model)

	snap := telemetry.Snapshot{"description": "Embarcação perdeu referência durante operação de carga"}
	result, err := classifier.Classify(context.Background(), snap)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if result.Level != advisory.LevelRiskHigh {
		t.Fatalf("level = %s, want %s", result.Level, advisory.LevelRiskHigh)
	}
	if result.Severity != advisory.SeverityCritical {
		t.Fatalf("severity = %s, want %s", result.Severity, advisory.SeverityCritical)
	}
	if !strings.Contains(result.Message, "mar agitado") {
		t.Fatalf("message should carry the root cause: %q", result.Message)
	}
	if len(model.prompts) != 1 {
		t.Fatalf("expected one completion call, got %d", len(model.prompts))
	}
	if !strings.Contains(model.prompts[0], "Condição ambiental") {
		t.Fatalf("prompt should embed the category ontology")
	}
	if !strings.Contains(model.prompts[0], "perdeu referência") {
		t.Fatalf("prompt should embed the incident text")
	}
}

func TestLLMClassifyMalformedResponsePropagates(t *testing.T) {
	model := &stubChatModel{response: "resposta livre sem json"}
	classifier := newLLMClassifier(t, model)

	_, err := classifier.Classify(context.Background(), telemetry.Snapshot{"description": "relato"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLLMClassifyUnknownRiskLevel(t *testing.T) {
	model := &stubChatModel{response: `{"category":"Fator humano","root_cause":"x","risk_level":"gigante"}`}
	classifier := newLLMClassifier(t, model)

	_, err := classifier.Classify(context.Background(), telemetry.Snapshot{"description": "relato"})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError for unknown risk level, got %v", err)
	}
}

func TestLLMClassifyRequiresText(t *testing.T) {
	classifier := newLLMClassifier(t, &stubChatModel{response: "{}"})
	if _, err := classifier.Classify(context.Background(), telemetry.Snapshot{}); err == nil {
		t.Fatalf("expected error for empty incident text")
	}
}

func TestLLMClassifyCompletionError(t *testing.T) {
	model := &stubChatModel{err: errors.New("rede indisponível")}
	classifier := newLLMClassifier(t, model)
	if _, err := classifier.Classify(context.Background(), telemetry.Snapshot{"description": "relato"}); err == nil {
		t.Fatalf("expected completion error to propagate")
	}
}

func TestRiskLevelMapping(t *testing.T) {
	cases := map[string]advisory.Level{
		"baixo": advisory.LevelRiskLow,
		"Médio": advisory.LevelRiskMedium,
		"medio": advisory.LevelRiskMedium,
		"ALTO":  advisory.LevelRiskHigh,
		"high":  advisory.LevelRiskHigh,
		" low ": advisory.LevelRiskLow,
	}
	for input, want := range cases {
		got, ok := riskLevelToLevel(input)
		if !ok || got != want {
			t.Fatalf("riskLevelToLevel(%q) = %s/%v, want %s", input, got, ok, want)
		}
	}
	if _, ok := riskLevelToLevel("desconhecido"); ok {
		t.Fatalf("unknown risk level should not map")
	}
}
