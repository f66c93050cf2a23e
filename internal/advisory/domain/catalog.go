package advisory

// LevelSpec pairs a level with its severity and human-readable message.
type LevelSpec struct {
	Level    Level
	Severity Severity
	Message  string
}

// Catalog lists the levels a direct classification strategy may produce,
// ordered most severe first.
type Catalog []LevelSpec

// Result builds a classification result for a level.
func (c Catalog) Result(level Level) (Result, bool) {
	for _, spec := range c {
		if spec.Level == level {
			return Result{Level: spec.Level, Severity: spec.Severity, Message: spec.Message}, true
		}
	}
	return Result{}, false
}

// Contains reports whether the catalog knows the level.
func (c Catalog) Contains(level Level) bool {
	_, ok := c.Result(level)
	return ok
}

// DPFallbackMessage is returned when the DP scoring model cannot be loaded
// or fails mid-inference. The polling UI renders it as a labeled badge.
const DPFallbackMessage = "Falha na avaliação do sistema DP. Verificar instrumentação e tentar novamente."

// DPErrorResult is the terminal degraded classification for the DP advisor.
func DPErrorResult() Result {
	return Result{Level: LevelDPError, Severity: SeverityElevated, Message: DPFallbackMessage}
}

// DPRules is the DP advisor threshold policy (cut points 0.4 and 0.7).
func DPRules() RuleTable {
	return RuleTable{
		{UpperBound: 0.4, Level: LevelDPOK, Severity: SeverityNominal, Message: "Sistema DP dentro dos limites."},
		{UpperBound: 0.7, Level: LevelDPRisk, Severity: SeverityElevated, Message: "Risco de degradação DP. Revisar thrust allocation e margens de geração."},
		{UpperBound: 1.0, Level: LevelDPCritical, Severity: SeverityCritical, Message: "Condição crítica: possível perda de posição. Acionar contingência DP imediatamente."},
	}
}

// MaintenanceFallbackMessage is returned when the maintenance scoring model
// cannot be loaded or fails mid-inference.
const MaintenanceFallbackMessage = "Falha na avaliação de manutenção. Verificar dados do equipamento e tentar novamente."

// MaintenanceErrorResult is the terminal degraded classification for the
// maintenance advisor. Each module fails into its own level so the incident
// log never carries another module's vocabulary.
func MaintenanceErrorResult() Result {
	return Result{Level: LevelMaintError, Severity: SeverityElevated, Message: MaintenanceFallbackMessage}
}

// MaintenanceRules is the maintenance orchestrator threshold policy.
func MaintenanceRules() RuleTable {
	return RuleTable{
		{UpperBound: 0.5, Level: LevelMaintNormal, Severity: SeverityNominal, Message: "Equipamento operando em condição normal."},
		{UpperBound: 0.8, Level: LevelMaintAttention, Severity: SeverityElevated, Message: "Atenção: programar inspeção preventiva do equipamento."},
		{UpperBound: 1.0, Level: LevelMaintUrgent, Severity: SeverityCritical, Message: "Intervenção urgente: abrir ordem de serviço corretiva."},
	}
}

// ComplianceFallbackMessage is returned when the compliance score cannot be
// computed.
const ComplianceFallbackMessage = "Falha na avaliação de conformidade. Verificar dados da auditoria e tentar novamente."

// ComplianceErrorResult is the terminal degraded classification for the
// compliance engine.
func ComplianceErrorResult() Result {
	return Result{Level: LevelComplianceError, Severity: SeverityElevated, Message: ComplianceFallbackMessage}
}

// ComplianceRules is the compliance engine threshold policy. The score is the
// non-conformity ratio across audited items.
func ComplianceRules() RuleTable {
	return RuleTable{
		{UpperBound: 0.25, Level: LevelCompliant, Severity: SeverityNominal, Message: "Requisitos SGSO em conformidade."},
		{UpperBound: 0.6, Level: LevelComplianceAtRisk, Severity: SeverityElevated, Message: "Risco de não conformidade: tratar pendências da auditoria."},
		{UpperBound: 1.0, Level: LevelNonCompliant, Severity: SeverityCritical, Message: "Não conforme: plano de ação obrigatório perante a ANP."},
	}
}

// ForecastFallbackMessage is returned when the forecast score cannot be
// computed.
const ForecastFallbackMessage = "Falha na avaliação da previsão ambiental. Verificar dados meteorológicos e tentar novamente."

// ForecastErrorResult is the terminal degraded classification for the
// forecast insight.
func ForecastErrorResult() Result {
	return Result{Level: LevelForecastError, Severity: SeverityElevated, Message: ForecastFallbackMessage}
}

// ForecastRules is the weather-forecast insight threshold policy.
func ForecastRules() RuleTable {
	return RuleTable{
		{UpperBound: 0.5, Level: LevelForecastStable, Severity: SeverityNominal, Message: "Janela operacional estável para as próximas horas."},
		{UpperBound: 0.75, Level: LevelForecastDegrading, Severity: SeverityElevated, Message: "Degradação prevista das condições ambientais. Reavaliar operações críticas."},
		{UpperBound: 1.0, Level: LevelForecastAdverse, Severity: SeverityCritical, Message: "Condições adversas previstas. Suspender operações sensíveis a tempo."},
	}
}

// SGSOFallbackMessage is returned when the occurrence classifier fails.
const SGSOFallbackMessage = "Falha na classificação da ocorrência SGSO. Revisar o registro e classificar manualmente."

// SGSOErrorResult is the terminal degraded classification for SGSO
// occurrences.
func SGSOErrorResult() Result {
	return Result{Level: LevelSGSOError, Severity: SeverityElevated, Message: SGSOFallbackMessage}
}

// SGSOCatalog lists the SGSO occurrence severities, most severe first.
func SGSOCatalog() Catalog {
	return Catalog{
		{Level: LevelSGSOSevere, Severity: SeverityCritical, Message: "Ocorrência grave: comunicar imediatamente conforme resolução ANP."},
		{Level: LevelSGSOModerate, Severity: SeverityElevated, Message: "Ocorrência moderada: investigar e registrar ação corretiva."},
		{Level: LevelSGSOMinor, Severity: SeverityNominal, Message: "Ocorrência leve: registrar para análise de tendência."},
	}
}

// IncidentFallbackMessage is returned when the incident analysis model fails
// or answers outside the expected contract.
const IncidentFallbackMessage = "Falha na análise do incidente. Revisar o relato e tentar novamente."

// IncidentErrorResult is the terminal degraded classification for incident
// analysis.
func IncidentErrorResult() Result {
	return Result{Level: LevelRiskError, Severity: SeverityElevated, Message: IncidentFallbackMessage}
}

// IncidentCatalog lists the risk levels the incident LLM strategy may assign,
// most severe first.
func IncidentCatalog() Catalog {
	return Catalog{
		{Level: LevelRiskHigh, Severity: SeverityCritical, Message: "Risco alto: tratar como ocorrência prioritária."},
		{Level: LevelRiskMedium, Severity: SeverityElevated, Message: "Risco médio: acompanhar plano de ação."},
		{Level: LevelRiskLow, Severity: SeverityNominal, Message: "Risco baixo: manter monitoramento de rotina."},
	}
}
