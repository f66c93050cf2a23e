package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	advisory "nautilus-one/internal/advisory/domain"
	telemetry "nautilus-one/internal/telemetry/domain"
)

// KeywordRule maps a set of trigger terms to a classification level. Lists
// are checked in order, most severe first.
type KeywordRule struct {
	Level advisory.Level
	Terms []string
}

// KeywordClassifier classifies free-text occurrence reports by keyword
// membership. Absence of any match falls through to a configured default
// which deliberately is not the lowest level: unrecognized safety text fails
// toward caution.
type KeywordClassifier struct {
	fields   []string
	rules    []KeywordRule
	fallback advisory.Level
	catalog  advisory.Catalog
}

// NewKeywordClassifier validates the rule lists against the catalog.
func NewKeywordClassifier(fields []string, rules []KeywordRule, fallback advisory.Level, catalog advisory.Catalog) (*KeywordClassifier, error) {
	if len(fields) == 0 {
		return nil, errors.New("scoring: keyword classifier needs text fields")
	}
	if len(rules) == 0 {
		return nil, errors.New("scoring: keyword classifier needs rules")
	}
	for _, rule := range rules {
		if !catalog.Contains(rule.Level) {
			return nil, fmt.Errorf("scoring: keyword level %q not in catalog", rule.Level)
		}
		if len(rule.Terms) == 0 {
			return nil, fmt.Errorf("scoring: keyword level %q has no terms", rule.Level)
		}
	}
	if !catalog.Contains(fallback) {
		return nil, fmt.Errorf("scoring: fallback level %q not in catalog", fallback)
	}
	return &KeywordClassifier{fields: fields, rules: rules, fallback: fallback, catalog: catalog}, nil
}

// Classify concatenates the configured text fields and returns the first rule
// with a matching term.
func (c *KeywordClassifier) Classify(_ context.Context, snap telemetry.Snapshot) (advisory.Result, error) {
	var parts []string
	for _, field := range c.fields {
		if text, ok := snap.Text(field); ok {
			parts = append(parts, text)
		}
	}
	haystack := strings.ToLower(strings.Join(parts, " "))

	for _, rule := range c.rules {
		for _, term := range rule.Terms {
			if term == "" {
				continue
			}
			if strings.Contains(haystack, strings.ToLower(term)) {
				result, _ := c.catalog.Result(rule.Level)
				return result, nil
			}
		}
	}
	result, _ := c.catalog.Result(c.fallback)
	return result, nil
}

// SGSOKeywordRules is the default keyword policy for SGSO occurrence text.
func SGSOKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Level: advisory.LevelSGSOSevere, Terms: []string{
			"fatalidade", "explosão", "incêndio", "perda de posição",
			"blackout", "colisão", "homem ao mar", "abandono",
		}},
		{Level: advisory.LevelSGSOModerate, Terms: []string{
			"vazamento", "derramamento", "falha", "quase acidente",
			"princípio de incêndio", "lesão",
		}},
		{Level: advisory.LevelSGSOMinor, Terms: []string{
			"observação", "condição insegura", "desvio leve",
		}},
	}
}
