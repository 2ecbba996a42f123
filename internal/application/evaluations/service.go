package evaluations

import (
	"github.com/insuregov/governance/internal/application"
	appaudit "github.com/insuregov/governance/internal/application/audit"
	"github.com/insuregov/governance/internal/domain/audit"
	domain "github.com/insuregov/governance/internal/domain/evaluations"
	"github.com/insuregov/governance/internal/domain/risk"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

// Service records and lists per-model evaluation events across the
// explainability, drift, bias, RAG, and risk-assessment logs.
type Service struct {
	Models         *jsonfile.DocumentStore
	ControlEvals   *jsonfile.EventLog
	Explainability *jsonfile.EventLog
	Drift          *jsonfile.EventLog
	Bias           *jsonfile.EventLog
	RAG            *jsonfile.EventLog
	Risk           *jsonfile.EventLog
	Audit          *appaudit.Logger
	Clock          application.Clock
}

func (s *Service) verifyModel(modelID string) error {
	_, err := s.Models.FindByID("model_id", modelID)
	return err
}

func (s *Service) appendEvent(log *jsonfile.EventLog, modelID, actionType, entityType string, v any) error {
	rec, err := jsonfile.ToRecord(v)
	if err != nil {
		return err
	}
	if err := log.Append(rec); err != nil {
		return err
	}
	// A write that cannot be audited fails the request.
	return s.Audit.Record(audit.Entry{
		ActionType: actionType,
		EntityType: entityType,
		EntityID:   modelID,
		ModelID:    modelID,
		NewValue:   rec,
	})
}

// AddBias appends one bias evaluation.
func (s *Service) AddBias(modelID string, e domain.BiasEvaluation) error {
	if err := s.verifyModel(modelID); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	e.ModelID = modelID
	if e.Timestamp.IsZero() {
		e.Timestamp = s.Clock.Now()
	}
	return s.appendEvent(s.Bias, modelID, "add_bias_test", "bias", e)
}

// ListBias returns all bias evaluations for a model, newest first.
func (s *Service) ListBias(modelID string) ([]jsonfile.Record, error) {
	if err := s.verifyModel(modelID); err != nil {
		return nil, err
	}
	return s.Bias.AllForEntity("model_id", modelID, "")
}

// AddDrift appends one drift evaluation.
func (s *Service) AddDrift(modelID string, e domain.DriftEvaluation) error {
	if err := s.verifyModel(modelID); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	e.ModelID = modelID
	if e.Timestamp.IsZero() {
		e.Timestamp = s.Clock.Now()
	}
	return s.appendEvent(s.Drift, modelID, "add_drift", "drift", e)
}

// ListDrift returns all drift evaluations for a model, newest first.
func (s *Service) ListDrift(modelID string) ([]jsonfile.Record, error) {
	if err := s.verifyModel(modelID); err != nil {
		return nil, err
	}
	return s.Drift.AllForEntity("model_id", modelID, "")
}

// AddExplainability appends one explainability evaluation.
func (s *Service) AddExplainability(modelID string, e domain.ExplainabilityEvaluation) error {
	if err := s.verifyModel(modelID); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	e.ModelID = modelID
	if e.Timestamp.IsZero() {
		e.Timestamp = s.Clock.Now()
	}
	if e.KeyFindings == nil {
		e.KeyFindings = []string{}
	}
	if e.AttachmentRefs == nil {
		e.AttachmentRefs = []string{}
	}
	return s.appendEvent(s.Explainability, modelID, "add_explainability", "explainability", e)
}

// ListExplainability returns all explainability evaluations for a model,
// newest first.
func (s *Service) ListExplainability(modelID string) ([]jsonfile.Record, error) {
	if err := s.verifyModel(modelID); err != nil {
		return nil, err
	}
	return s.Explainability.AllForEntity("model_id", modelID, "")
}

// AddRAG appends one RAG evaluation.
func (s *Service) AddRAG(modelID string, e domain.RAGEvaluation) error {
	if err := s.verifyModel(modelID); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	e.ModelID = modelID
	if e.Timestamp.IsZero() {
		e.Timestamp = s.Clock.Now()
	}
	return s.appendEvent(s.RAG, modelID, "add_rag_evaluation", "rag_evaluation", e)
}

// ListRAG returns all RAG evaluations for a model, newest first.
func (s *Service) ListRAG(modelID string) ([]jsonfile.Record, error) {
	if err := s.verifyModel(modelID); err != nil {
		return nil, err
	}
	return s.RAG.AllForEntity("model_id", modelID, "")
}

// AddRiskAssessment appends one risk assessment to the risk log.
func (s *Service) AddRiskAssessment(modelID string, a risk.Assessment) error {
	if err := s.verifyModel(modelID); err != nil {
		return err
	}
	a.ModelID = modelID
	if a.Timestamp.IsZero() {
		a.Timestamp = s.Clock.Now()
	}
	return s.appendEvent(s.Risk, modelID, "add_risk_assessment", "risk_assessment", a)
}

// ListRiskAssessments returns all risk assessments for a model, newest first.
func (s *Service) ListRiskAssessments(modelID string) ([]jsonfile.Record, error) {
	if err := s.verifyModel(modelID); err != nil {
		return nil, err
	}
	return s.Risk.AllForEntity("model_id", modelID, "")
}

// GovernanceSummary aggregates the model record, control statistics, the
// latest of each evaluation type, and flag counts into one view.
func (s *Service) GovernanceSummary(modelID string) (map[string]any, error) {
	model, err := s.Models.FindByID("model_id", modelID)
	if err != nil {
		return nil, err
	}

	controlEvals, err := s.ControlEvals.AllForEntity("model_id", modelID, "last_updated")
	if err != nil {
		return nil, err
	}
	explainability, err := s.Explainability.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	drift, err := s.Drift.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	bias, err := s.Bias.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	rag, err := s.RAG.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	assessments, err := s.Risk.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}

	countStatus := func(records []jsonfile.Record, status string) int {
		n := 0
		for _, r := range records {
			if v, _ := r["status"].(string); v == status {
				n++
			}
		}
		return n
	}
	latest := func(records []jsonfile.Record) any {
		if len(records) == 0 {
			return nil
		}
		return records[0]
	}

	regulatoryConcerns := 0
	for _, b := range bias {
		if v, _ := b["regulatory_concern_flag"].(bool); v {
			regulatoryConcerns++
		}
	}

	return map[string]any{
		"model":             model,
		"governance_status": model["governance_status"],
		"control_evaluations": map[string]any{
			"stats": map[string]any{
				"total":          len(controlEvals),
				"passed":         countStatus(controlEvals, "passed"),
				"failed":         countStatus(controlEvals, "failed"),
				"needs_review":   countStatus(controlEvals, "needs_review"),
				"not_applicable": countStatus(controlEvals, "not_applicable"),
			},
			"evaluations": controlEvals,
		},
		"explainability": map[string]any{
			"count":  len(explainability),
			"latest": latest(explainability),
		},
		"drift": map[string]any{
			"count":    len(drift),
			"latest":   latest(drift),
			"breaches": countStatus(drift, "breached"),
		},
		"bias": map[string]any{
			"count":               len(bias),
			"latest":              latest(bias),
			"regulatory_concerns": regulatoryConcerns,
		},
		"rag": map[string]any{
			"count":  len(rag),
			"latest": latest(rag),
		},
		"risk": map[string]any{
			"count":  len(assessments),
			"latest": latest(assessments),
		},
	}, nil
}
