package application

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	advisory "nautilus-one/internal/advisory/domain"
)

// RuleConfig is one threshold rule as declared in the policy file.
type RuleConfig struct {
	UpperBound float64 `yaml:"upper_bound"`
	Level      string  `yaml:"level"`
	Severity   string  `yaml:"severity"`
	Message    string  `yaml:"message"`
}

// ModulePolicy is the per-module policy block.
type ModulePolicy struct {
	Rules    []RuleConfig `yaml:"rules"`
	Interval string       `yaml:"interval"`
	SystemID string       `yaml:"system_id"`
}

// PolicyConfig defines the advisory policy: per-module threshold tables,
// polling intervals, and the MQTT namespace the notifiers publish under.
type PolicyConfig struct {
	VesselID  string                  `yaml:"vessel_id"`
	Namespace string                  `yaml:"namespace"`
	Modules   map[string]ModulePolicy `yaml:"modules"`
}

// LoadPolicyConfig loads the policy from yaml or env. When no file is
// configured the built-in rule tables apply unchanged.
func LoadPolicyConfig() (PolicyConfig, error) {
	cfg := PolicyConfig{
		VesselID:  getenvDefault("NAUTILUS_VESSEL_ID", "vessel-001"),
		Namespace: getenvDefault("NAUTILUS_MQTT_NAMESPACE", "nautilus"),
	}

	if path := os.Getenv("NAUTILUS_POLICY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Namespace == "" {
		return cfg, errors.New("advisory: mqtt namespace required")
	}
	return cfg, nil
}

// RuleTable builds the rule table for a module, falling back to the supplied
// defaults when the policy declares none.
func (c PolicyConfig) RuleTable(module string, defaults advisory.RuleTable) (advisory.RuleTable, error) {
	policy, ok := c.Modules[module]
	if !ok || len(policy.Rules) == 0 {
		return defaults, nil
	}
	table := make(advisory.RuleTable, 0, len(policy.Rules))
	for _, rule := range policy.Rules {
		severity, err := advisory.ParseSeverity(rule.Severity)
		if err != nil {
			return nil, fmt.Errorf("advisory: module %s: %w", module, err)
		}
		table = append(table, advisory.Rule{
			UpperBound: rule.UpperBound,
			Level:      advisory.Level(rule.Level),
			Severity:   severity,
			Message:    rule.Message,
		})
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("advisory: module %s: %w", module, err)
	}
	return table, nil
}

// Interval returns the polling interval for a module.
func (c PolicyConfig) Interval(module string, fallback time.Duration) time.Duration {
	policy, ok := c.Modules[module]
	if !ok || policy.Interval == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(policy.Interval)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// SystemID returns the telemetry system polled for a module.
func (c PolicyConfig) SystemID(module, fallback string) string {
	policy, ok := c.Modules[module]
	if !ok || policy.SystemID == "" {
		return fallback
	}
	return policy.SystemID
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
