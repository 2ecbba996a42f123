package risk

import "time"

// Level enum
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// LevelFor maps a composite score to its level. Cutoffs are lower-bound
// inclusive: >=80 critical, >=60 high, >=30 medium, else low.
func LevelFor(score float64) Level {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 30:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Assessment is a derived risk assessment. The scorer never persists it; the
// caller appends it to the risk log if persistence is desired.
type Assessment struct {
	ModelID               string    `json:"model_id"`
	RiskScore             float64   `json:"risk_score"`
	RiskLevel             Level     `json:"risk_level"`
	PrimaryRiskDrivers    []string  `json:"primary_risk_drivers"`
	BusinessImpactSummary string    `json:"business_impact_summary"`
	MitigationPlan        string    `json:"mitigation_plan"`
	ResidualRiskAccepted  bool      `json:"residual_risk_accepted"`
	ResidualRiskApprover  string    `json:"residual_risk_approver,omitempty"`
	Timestamp             time.Time `json:"timestamp"`
}
