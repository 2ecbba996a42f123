package risk

import (
	"fmt"
	"math"

	"github.com/insuregov/governance/internal/application"
	domain "github.com/insuregov/governance/internal/domain/risk"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

// Component weights of the composite score.
const (
	weightBias           = 0.40
	weightControls       = 0.25
	weightExplainability = 0.20
	weightDrift          = 0.10
	weightOperational    = 0.05
)

// Defaults applied when a model has no history for a component.
const (
	defaultBiasScore           = 30
	defaultControlScore        = 60
	defaultExplainabilityScore = 40
	defaultDriftScore          = 20
)

// Secondary thresholds that promote a component into the risk driver list.
const (
	driverBiasThreshold           = 70
	driverControlThreshold        = 60
	driverExplainabilityThreshold = 50
	driverDriftThreshold          = 70
	driverOperationalThreshold    = 50
)

// Service computes weighted risk assessments from current registry and
// evaluation state. It is a pure reader: the caller persists the returned
// assessment if desired.
type Service struct {
	Models         *jsonfile.DocumentStore
	ControlEvals   *jsonfile.EventLog
	Bias           *jsonfile.EventLog
	Explainability *jsonfile.EventLog
	Drift          *jsonfile.EventLog
	Clock          application.Clock
}

// Score computes the composite risk assessment for a model. Fails with
// jsonfile.ErrNotFound when the model is not registered.
func (s *Service) Score(modelID string) (*domain.Assessment, error) {
	model, err := s.Models.FindByID("model_id", modelID)
	if err != nil {
		return nil, err
	}

	controlEvals, err := s.ControlEvals.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	biasEvals, err := s.Bias.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	explainabilityEvals, err := s.Explainability.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	driftEvals, err := s.Drift.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}

	biasScore := biasComponent(biasEvals)
	controlScore := controlComponent(controlEvals)
	explainabilityScore := explainabilityComponent(explainabilityEvals)
	driftScore := driftComponent(driftEvals)
	operationalScore := operationalComponent(model)

	total := round2(biasScore*weightBias +
		controlScore*weightControls +
		explainabilityScore*weightExplainability +
		driftScore*weightDrift +
		operationalScore*weightOperational)

	level := domain.LevelFor(total)

	// Drivers are emitted in a fixed order so assessments are reproducible.
	drivers := []string{}
	if biasScore >= driverBiasThreshold {
		drivers = append(drivers, "Unfair discrimination concerns")
	}
	if controlScore >= driverControlThreshold {
		drivers = append(drivers, "Failed mandatory controls")
	}
	if explainabilityScore >= driverExplainabilityThreshold {
		drivers = append(drivers, "Low explainability for customer-facing decisions")
	}
	if driftScore >= driverDriftThreshold {
		drivers = append(drivers, "Model drift threshold breaches")
	}
	if operationalScore >= driverOperationalThreshold {
		drivers = append(drivers, "High-risk operational deployment")
	}
	if len(drivers) == 0 {
		drivers = append(drivers, "No significant risks identified")
	}

	return &domain.Assessment{
		ModelID:               modelID,
		RiskScore:             total,
		RiskLevel:             level,
		PrimaryRiskDrivers:    drivers,
		BusinessImpactSummary: businessImpact(model, level),
		Timestamp:             s.Clock.Now(),
	}, nil
}

// biasComponent maps the latest bias evaluation onto a 0-100 risk value, or
// a moderate default when the model was never tested.
func biasComponent(evals []jsonfile.Record) float64 {
	if len(evals) == 0 {
		return defaultBiasScore
	}
	latest := evals[0]
	if getString(latest, "status") == "unacceptable" {
		return 90
	}
	if getBool(latest, "regulatory_concern_flag") {
		return 80
	}
	if getString(latest, "customer_harm_risk") == "high" {
		return 70
	}
	if getString(latest, "status") == "needs_review" {
		return 50
	}
	if getString(latest, "customer_harm_risk") == "medium" {
		return 30
	}
	return 10
}

// controlComponent scores the failure rate across all control evaluations,
// with needs_review counting half. No evaluations at all is itself high risk.
func controlComponent(evals []jsonfile.Record) float64 {
	if len(evals) == 0 {
		return defaultControlScore
	}
	failed, needsReview := 0, 0
	for _, e := range evals {
		switch getString(e, "status") {
		case "failed":
			failed++
		case "needs_review":
			needsReview++
		}
	}
	rate := (float64(failed) + 0.5*float64(needsReview)) / float64(len(evals))
	return math.Min(100, rate*100)
}

// explainabilityComponent inverts the latest numeric explainability score;
// high explainability means low risk.
func explainabilityComponent(evals []jsonfile.Record) float64 {
	if len(evals) == 0 {
		return defaultExplainabilityScore
	}
	score, ok := getFloat(evals[0], "explainability_score")
	if !ok {
		return defaultExplainabilityScore
	}
	return 100 - score
}

// driftComponent compounds threshold breaches; multiple breaches stack.
func driftComponent(evals []jsonfile.Record) float64 {
	if len(evals) == 0 {
		return defaultDriftScore
	}
	breached := 0
	for _, e := range evals {
		if getString(e, "status") == "breached" {
			breached++
		}
	}
	if breached > 0 {
		return math.Min(100, float64(breached)*40)
	}
	return 5
}

// operationalComponent scores deployment posture from the model record
// itself: environment, jurisdiction spread, use-case stakes, and external
// data exposure. Capped at 100.
func operationalComponent(model jsonfile.Record) float64 {
	score := 0.0
	if getString(model, "deployment_environment") == "prod" {
		score += 30
	}
	jurisdictions := len(getList(model, "jurisdictions"))
	if jurisdictions > 10 {
		score += 30
	} else if jurisdictions > 5 {
		score += 15
	}
	switch getString(model, "use_case_category") {
	case "Pricing", "Underwriting", "Claims":
		score += 20
	}
	if len(getList(model, "external_data_sources")) > 2 {
		score += 20
	}
	return math.Min(100, score)
}

func businessImpact(model jsonfile.Record, level domain.Level) string {
	summary := fmt.Sprintf("Risk level %s for %s %s model. ",
		level, getString(model, "line_of_business"), getString(model, "use_case_category"))
	summary += fmt.Sprintf("Deployed in %d jurisdiction(s). ", len(getList(model, "jurisdictions")))
	if env := getString(model, "deployment_environment"); env == "prod" {
		summary += "Production deployment requires immediate attention for high/critical risks."
	} else {
		summary += fmt.Sprintf("Currently in %s environment.", env)
	}
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func getString(rec jsonfile.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

func getBool(rec jsonfile.Record, key string) bool {
	b, _ := rec[key].(bool)
	return b
}

func getFloat(rec jsonfile.Record, key string) (float64, bool) {
	f, ok := rec[key].(float64)
	return f, ok
}

func getList(rec jsonfile.Record, key string) []any {
	l, _ := rec[key].([]any)
	return l
}
