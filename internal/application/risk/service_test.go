package risk

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/insuregov/governance/internal/domain/risk"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	return &Service{
		Models:         jsonfile.NewDocumentStore(filepath.Join(dir, "models.json")),
		ControlEvals:   jsonfile.NewEventLog(filepath.Join(dir, "control_evaluations.ndjson")),
		Bias:           jsonfile.NewEventLog(filepath.Join(dir, "bias.ndjson")),
		Explainability: jsonfile.NewEventLog(filepath.Join(dir, "explainability.ndjson")),
		Drift:          jsonfile.NewEventLog(filepath.Join(dir, "drift.ndjson")),
		Clock:          fixedClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func seedModel(t *testing.T, s *Service, rec jsonfile.Record) {
	t.Helper()
	require.NoError(t, s.Models.Create("model_id", rec))
}

func TestScoreUnknownModel(t *testing.T) {
	s := newService(t)
	_, err := s.Score("model_missing")
	assert.ErrorIs(t, err, jsonfile.ErrNotFound)
}

func TestScoreDefaultsWithNoEvaluations(t *testing.T) {
	s := newService(t)
	seedModel(t, s, jsonfile.Record{
		"model_id":               "model_a",
		"line_of_business":       "Personal Auto",
		"use_case_category":      "Fraud",
		"deployment_environment": "dev",
		"jurisdictions":          []any{},
	})

	a, err := s.Score("model_a")
	require.NoError(t, err)

	// bias 30*.40 + controls 60*.25 + explainability 40*.20 + drift 20*.10
	assert.Equal(t, 37.0, a.RiskScore)
	assert.Equal(t, domain.LevelMedium, a.RiskLevel)
	assert.Equal(t, []string{"Failed mandatory controls"}, a.PrimaryRiskDrivers)
	assert.Equal(t, s.Clock.Now(), a.Timestamp)
}

func TestScoreIsDeterministic(t *testing.T) {
	s := newService(t)
	seedModel(t, s, jsonfile.Record{
		"model_id":               "model_a",
		"line_of_business":       "Homeowners",
		"use_case_category":      "Pricing",
		"deployment_environment": "prod",
		"jurisdictions":          []any{"CA", "NY", "TX"},
	})

	first, err := s.Score("model_a")
	require.NoError(t, err)
	second, err := s.Score("model_a")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScoreLowRiskModel(t *testing.T) {
	s := newService(t)
	seedModel(t, s, jsonfile.Record{
		"model_id":               "model_a",
		"line_of_business":       "GL",
		"use_case_category":      "Marketing",
		"deployment_environment": "dev",
		"jurisdictions":          []any{"CA"},
	})
	require.NoError(t, s.Bias.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-01T00:00:00Z",
		"status": "acceptable", "customer_harm_risk": "low",
	}))
	require.NoError(t, s.ControlEvals.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-01T00:00:00Z", "status": "passed",
	}))
	require.NoError(t, s.Explainability.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-01T00:00:00Z",
		"explainability_score": 80.0,
	}))
	require.NoError(t, s.Drift.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-01T00:00:00Z", "status": "within_tolerance",
	}))

	a, err := s.Score("model_a")
	require.NoError(t, err)

	// 10*.40 + 0*.25 + 20*.20 + 5*.10 + 0*.05
	assert.Equal(t, 8.5, a.RiskScore)
	assert.Equal(t, domain.LevelLow, a.RiskLevel)
	assert.Equal(t, []string{"No significant risks identified"}, a.PrimaryRiskDrivers)
}

func TestScoreCriticalBias(t *testing.T) {
	s := newService(t)
	seedModel(t, s, jsonfile.Record{
		"model_id":               "model_a",
		"line_of_business":       "Personal Auto",
		"use_case_category":      "Underwriting",
		"deployment_environment": "prod",
		"jurisdictions":          []any{"CA", "NY", "TX", "FL", "WA", "OR"},
	})
	require.NoError(t, s.Bias.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-01T00:00:00Z",
		"status": "unacceptable",
	}))
	require.NoError(t, s.ControlEvals.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-01T00:00:00Z", "status": "failed",
	}))
	require.NoError(t, s.Drift.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-01T00:00:00Z", "status": "breached",
	}))
	require.NoError(t, s.Drift.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-02T00:00:00Z", "status": "breached",
	}))

	a, err := s.Score("model_a")
	require.NoError(t, err)

	// bias 90*.40 + controls 100*.25 + explainability 40*.20 + drift 80*.10 + op 65*.05
	assert.Equal(t, 80.25, a.RiskScore)
	assert.Equal(t, domain.LevelCritical, a.RiskLevel)
	assert.Equal(t, []string{
		"Unfair discrimination concerns",
		"Failed mandatory controls",
		"Model drift threshold breaches",
		"High-risk operational deployment",
	}, a.PrimaryRiskDrivers)
}

func TestScoreUsesLatestBiasEvaluation(t *testing.T) {
	s := newService(t)
	seedModel(t, s, jsonfile.Record{
		"model_id":               "model_a",
		"line_of_business":       "GL",
		"use_case_category":      "Marketing",
		"deployment_environment": "dev",
		"jurisdictions":          []any{},
	})
	require.NoError(t, s.Bias.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-01-01T00:00:00Z",
		"status": "unacceptable",
	}))
	require.NoError(t, s.Bias.Append(jsonfile.Record{
		"model_id": "model_a", "timestamp": "2024-02-01T00:00:00Z",
		"status": "acceptable", "customer_harm_risk": "low",
	}))

	a, err := s.Score("model_a")
	require.NoError(t, err)
	assert.NotContains(t, a.PrimaryRiskDrivers, "Unfair discrimination concerns")
}

func TestBiasComponentLadder(t *testing.T) {
	cases := []struct {
		name string
		rec  jsonfile.Record
		want float64
	}{
		{"unacceptable", jsonfile.Record{"status": "unacceptable"}, 90},
		{"regulatory flag", jsonfile.Record{"status": "acceptable", "regulatory_concern_flag": true}, 80},
		{"high harm", jsonfile.Record{"status": "acceptable", "customer_harm_risk": "high"}, 70},
		{"needs review", jsonfile.Record{"status": "needs_review"}, 50},
		{"medium harm", jsonfile.Record{"status": "acceptable", "customer_harm_risk": "medium"}, 30},
		{"clean", jsonfile.Record{"status": "acceptable", "customer_harm_risk": "low"}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, biasComponent([]jsonfile.Record{tc.rec}))
		})
	}
	assert.Equal(t, float64(defaultBiasScore), biasComponent(nil))
}

func TestControlComponentFailureRate(t *testing.T) {
	evals := []jsonfile.Record{
		{"status": "passed"},
		{"status": "failed"},
		{"status": "needs_review"},
		{"status": "not_applicable"},
	}
	// (1 + 0.5) / 4 * 100
	assert.Equal(t, 37.5, controlComponent(evals))
	assert.Equal(t, float64(defaultControlScore), controlComponent(nil))
}

func TestExplainabilityComponentInverts(t *testing.T) {
	assert.Equal(t, 25.0, explainabilityComponent([]jsonfile.Record{{"explainability_score": 75.0}}))
	assert.Equal(t, float64(defaultExplainabilityScore), explainabilityComponent(nil))
	assert.Equal(t, float64(defaultExplainabilityScore),
		explainabilityComponent([]jsonfile.Record{{"summary": "no score recorded"}}))
}

func TestDriftComponentStacksBreaches(t *testing.T) {
	assert.Equal(t, float64(defaultDriftScore), driftComponent(nil))
	assert.Equal(t, 5.0, driftComponent([]jsonfile.Record{{"status": "within_tolerance"}}))
	assert.Equal(t, 40.0, driftComponent([]jsonfile.Record{{"status": "breached"}}))
	assert.Equal(t, 100.0, driftComponent([]jsonfile.Record{
		{"status": "breached"}, {"status": "breached"}, {"status": "breached"},
	}))
}

func TestOperationalComponent(t *testing.T) {
	many := make([]any, 11)
	for i := range many {
		many[i] = "ST"
	}
	model := jsonfile.Record{
		"deployment_environment": "prod",
		"jurisdictions":          many,
		"use_case_category":      "Claims",
		"external_data_sources":  []any{"a", "b", "c"},
	}
	assert.Equal(t, 100.0, operationalComponent(model))

	assert.Equal(t, 15.0, operationalComponent(jsonfile.Record{
		"deployment_environment": "dev",
		"jurisdictions":          []any{"a", "b", "c", "d", "e", "f"},
		"use_case_category":      "Marketing",
	}))
}

func TestLevelForBoundaries(t *testing.T) {
	assert.Equal(t, domain.LevelCritical, domain.LevelFor(80))
	assert.Equal(t, domain.LevelHigh, domain.LevelFor(79.99))
	assert.Equal(t, domain.LevelHigh, domain.LevelFor(60))
	assert.Equal(t, domain.LevelMedium, domain.LevelFor(59.99))
	assert.Equal(t, domain.LevelMedium, domain.LevelFor(30))
	assert.Equal(t, domain.LevelLow, domain.LevelFor(29.99))
}

func TestBusinessImpactSummary(t *testing.T) {
	prod := jsonfile.Record{
		"line_of_business":       "Personal Auto",
		"use_case_category":      "Pricing",
		"deployment_environment": "prod",
		"jurisdictions":          []any{"CA", "NY"},
	}
	summary := businessImpact(prod, domain.LevelHigh)
	assert.Equal(t,
		"Risk level high for Personal Auto Pricing model. Deployed in 2 jurisdiction(s). "+
			"Production deployment requires immediate attention for high/critical risks.",
		summary)

	dev := jsonfile.Record{
		"line_of_business":       "GL",
		"use_case_category":      "Marketing",
		"deployment_environment": "dev",
		"jurisdictions":          []any{},
	}
	assert.Equal(t,
		"Risk level low for GL Marketing model. Deployed in 0 jurisdiction(s). "+
			"Currently in dev environment.",
		businessImpact(dev, domain.LevelLow))
}
