package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	advisory "nautilus-one/internal/advisory/domain"
	telemetry "nautilus-one/internal/telemetry/domain"
)

// ParseError reports a malformed LLM response. Unlike model-inference
// failures this escapes the pipeline: the call is user-triggered and a
// visible error is the correct outcome.
type ParseError struct {
	Reason string
	Raw    string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("scoring: llm response: %s", e.Reason)
}

// ChatModel is the seam over the chat-completion API.
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenAIModel calls the Gemini API with a fixed model identifier and a low
// temperature for deterministic classification output.
type GenAIModel struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGenAIModel builds a chat model from an API key.
func NewGenAIModel(ctx context.Context, apiKey, model string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, errors.New("scoring: empty genai api key")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("scoring: genai client: %w", err)
	}
	return &GenAIModel{client: client, model: model, temperature: 0.3, maxTokens: 512}, nil
}

// Complete implements ChatModel.
func (m *GenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.temperature),
		MaxOutputTokens: m.maxTokens,
	}
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("scoring: genai completion: %w", err)
	}
	return resp.Text(), nil
}

// Assessment is the structured output the LLM is prompted to produce.
type Assessment struct {
	Category  string `json:"category"`
	RootCause string `json:"root_cause"`
	RiskLevel string `json:"risk_level"`
}

const incidentPromptTemplate = `Você é o classificador de ocorrências do sistema Nautilus One.
Analise o relato de ocorrência abaixo segundo o SGSO (Sistema de Gestão de
Segurança Operacional) e responda SOMENTE com um objeto JSON no formato:
{"category": "<uma de: %s>", "root_cause": "<causa raiz resumida>", "risk_level": "<baixo|médio|alto>"}

Relato:
%s`

// LLMClassifier classifies incident text with a chat-completion model.
type LLMClassifier struct {
	model      ChatModel
	catalog    advisory.Catalog
	categories []string
	textFields []string
}

// NewLLMClassifier wires a chat model to the incident catalog.
func NewLLMClassifier(model ChatModel, catalog advisory.Catalog, categories, textFields []string) (*LLMClassifier, error) {
	if model == nil {
		return nil, errors.New("scoring: nil chat model")
	}
	if len(catalog) == 0 {
		return nil, errors.New("scoring: empty catalog")
	}
	if len(categories) == 0 {
		return nil, errors.New("scoring: empty category ontology")
	}
	if len(textFields) == 0 {
		textFields = []string{"description"}
	}
	return &LLMClassifier{model: model, catalog: catalog, categories: categories, textFields: textFields}, nil
}

// Classify prompts the model with the incident text and parses the response.
// Malformed responses surface as *ParseError.
func (c *LLMClassifier) Classify(ctx context.Context, snap telemetry.Snapshot) (advisory.Result, error) {
	var parts []string
	for _, field := range c.textFields {
		if text, ok := snap.Text(field); ok && strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return advisory.Result{}, errors.New("scoring: snapshot has no incident text")
	}

	prompt := fmt.Sprintf(incidentPromptTemplate, strings.Join(c.categories, ", "), strings.Join(parts, "\n"))
	raw, err := c.model.Complete(ctx, prompt)
	if err != nil {
		return advisory.Result{}, err
	}

	assessment, err := ParseAssessment(raw)
	if err != nil {
		return advisory.Result{}, err
	}

	level, ok := riskLevelToLevel(assessment.RiskLevel)
	if !ok {
		return advisory.Result{}, &ParseError{Reason: fmt.Sprintf("unknown risk_level %q", assessment.RiskLevel), Raw: raw}
	}
	result, ok := c.catalog.Result(level)
	if !ok {
		return advisory.Result{}, &ParseError{Reason: fmt.Sprintf("level %q not in catalog", level), Raw: raw}
	}
	result.Message = fmt.Sprintf("%s Categoria: %s. Causa raiz: %s.", result.Message, assessment.Category, assessment.RootCause)
	return result, nil
}

// ParseAssessment decodes the model response, tolerating markdown fences.
func ParseAssessment(raw string) (Assessment, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var assessment Assessment
	if err := json.Unmarshal([]byte(trimmed), &assessment); err != nil {
		return Assessment{}, &ParseError{Reason: "invalid json", Raw: raw}
	}
	if assessment.Category == "" {
		return Assessment{}, &ParseError{Reason: "missing category", Raw: raw}
	}
	if assessment.RootCause == "" {
		return Assessment{}, &ParseError{Reason: "missing root_cause", Raw: raw}
	}
	if assessment.RiskLevel == "" {
		return Assessment{}, &ParseError{Reason: "missing risk_level", Raw: raw}
	}
	return assessment, nil
}

func riskLevelToLevel(risk string) (advisory.Level, bool) {
	switch strings.TrimSpace(strings.ToLower(risk)) {
	case "baixo", "low":
		return advisory.LevelRiskLow, true
	case "médio", "medio", "medium":
		return advisory.LevelRiskMedium, true
	case "alto", "high":
		return advisory.LevelRiskHigh, true
	default:
		return "", false
	}
}

// SGSOCategories is the fixed ontology embedded in the incident prompt.
func SGSOCategories() []string {
	return []string{
		"Falha de equipamento",
		"Erro operacional",
		"Condição ambiental",
		"Falha de procedimento",
		"Fator humano",
	}
}
