package advisory

import "fmt"

// Severity is the shared three-tier scale used for cross-module aggregation.
// Module-specific levels map onto it so dashboards can compare DP, maintenance
// and compliance results on one axis.
type Severity string

const (
	SeverityNominal  Severity = "nominal"
	SeverityElevated Severity = "elevated"
	SeverityCritical Severity = "critical"
)

// ParseSeverity converts a policy-file label to a Severity.
func ParseSeverity(value string) (Severity, error) {
	switch Severity(value) {
	case SeverityNominal, SeverityElevated, SeverityCritical:
		return Severity(value), nil
	}
	return "", fmt.Errorf("advisory: unknown severity %q", value)
}

// Rank orders severities for comparison.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityElevated:
		return 2
	case SeverityNominal:
		return 1
	default:
		return 0
	}
}

// AtLeast returns true when s is as severe as target or more.
func (s Severity) AtLeast(target Severity) bool {
	return s.Rank() >= target.Rank()
}

// Level is a module-specific classification label.
type Level string

// DP advisor levels.
const (
	LevelDPOK       Level = "OK"
	LevelDPRisk     Level = "Risco"
	LevelDPCritical Level = "Crítico"
	LevelDPError    Level = "Error"
)

// Maintenance orchestrator levels.
const (
	LevelMaintNormal    Level = "Normal"
	LevelMaintAttention Level = "Atenção"
	LevelMaintUrgent    Level = "Urgente"
	LevelMaintError     Level = "Erro"
)

// Compliance engine levels.
const (
	LevelCompliant        Level = "Conforme"
	LevelComplianceAtRisk Level = "Risco"
	LevelNonCompliant     Level = "Não Conforme"
	LevelComplianceError  Level = "Erro"
)

// SGSO occurrence severity levels.
const (
	LevelSGSOMinor    Level = "Leve"
	LevelSGSOModerate Level = "Moderado"
	LevelSGSOSevere   Level = "Grave"
	LevelSGSOError    Level = "Erro"
)

// Incident risk levels produced by the LLM strategy.
const (
	LevelRiskLow    Level = "Baixo"
	LevelRiskMedium Level = "Médio"
	LevelRiskHigh   Level = "Alto"
	LevelRiskError  Level = "Erro"
)

// Forecast insight levels.
const (
	LevelForecastStable    Level = "Estável"
	LevelForecastDegrading Level = "Degradação"
	LevelForecastAdverse   Level = "Adverso"
	LevelForecastError     Level = "Erro"
)

// Result is the outcome of one classification call. Exactly one level is
// chosen per call and the message is paired 1:1 with the level.
type Result struct {
	Level    Level    `json:"level"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
