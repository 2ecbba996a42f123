package evaluations

import (
	"fmt"
	"time"
)

// BiasStatus enum
type BiasStatus string

const (
	BiasAcceptable   BiasStatus = "acceptable"
	BiasNeedsReview  BiasStatus = "needs_review"
	BiasUnacceptable BiasStatus = "unacceptable"
)

// HarmRisk enum
type HarmRisk string

const (
	HarmLow    HarmRisk = "low"
	HarmMedium HarmRisk = "medium"
	HarmHigh   HarmRisk = "high"
)

// BiasEvaluation records one bias / unfair discrimination test.
type BiasEvaluation struct {
	ModelID                     string     `json:"model_id"`
	TestScope                   string     `json:"test_scope"`
	ProtectedOrProhibitedFactor string     `json:"protected_or_prohibited_factor"`
	TestType                    string     `json:"test_type"`
	Metric                      string     `json:"metric"`
	Value                       float64    `json:"value"`
	Threshold                   float64    `json:"threshold"`
	Status                      BiasStatus `json:"status"`
	MitigationPlan              string     `json:"mitigation_plan,omitempty"`
	CustomerHarmRisk            HarmRisk   `json:"customer_harm_risk"`
	RegulatoryConcernFlag       bool       `json:"regulatory_concern_flag"`
	Timestamp                   time.Time  `json:"timestamp"`
}

func (e *BiasEvaluation) Validate() error {
	switch e.Status {
	case BiasAcceptable, BiasNeedsReview, BiasUnacceptable:
	default:
		return fmt.Errorf("invalid status: %q", e.Status)
	}
	switch e.CustomerHarmRisk {
	case HarmLow, HarmMedium, HarmHigh:
	default:
		return fmt.Errorf("invalid customer_harm_risk: %q", e.CustomerHarmRisk)
	}
	return nil
}

// DriftType enum
type DriftType string

const (
	DriftData       DriftType = "data"
	DriftPrediction DriftType = "prediction"
	DriftConcept    DriftType = "concept"
)

// DriftStatus enum
type DriftStatus string

const (
	DriftWithinTolerance DriftStatus = "within_tolerance"
	DriftBreached        DriftStatus = "breached"
)

// DriftEvaluation records one drift monitoring observation.
type DriftEvaluation struct {
	ModelID                string      `json:"model_id"`
	DriftType              DriftType   `json:"drift_type"`
	Metric                 string      `json:"metric"`
	Value                  float64     `json:"value"`
	Threshold              float64     `json:"threshold"`
	Status                 DriftStatus `json:"status"`
	ObservationWindow      string      `json:"observation_window"`
	InsuranceImpactSummary string      `json:"insurance_impact_summary"`
	Notes                  string      `json:"notes"`
	Timestamp              time.Time   `json:"timestamp"`
}

func (e *DriftEvaluation) Validate() error {
	switch e.DriftType {
	case DriftData, DriftPrediction, DriftConcept:
	default:
		return fmt.Errorf("invalid drift_type: %q", e.DriftType)
	}
	switch e.Status {
	case DriftWithinTolerance, DriftBreached:
	default:
		return fmt.Errorf("invalid status: %q", e.Status)
	}
	return nil
}

// ExplainabilityMethod enum
type ExplainabilityMethod string

const (
	MethodSHAP                    ExplainabilityMethod = "shap"
	MethodLIME                    ExplainabilityMethod = "lime"
	MethodGlobalFeatureImportance ExplainabilityMethod = "global_feature_importance"
	MethodLocalExplanations       ExplainabilityMethod = "local_explanations"
	MethodPromptTrace             ExplainabilityMethod = "prompt_trace"
	MethodAgentTrace              ExplainabilityMethod = "agent_trace"
)

// ExplainabilityEvaluation records one explainability review. The score is
// optional; absence means the review produced no numeric rating.
type ExplainabilityEvaluation struct {
	ModelID                          string               `json:"model_id"`
	DecisionContext                  string               `json:"decision_context"`
	Method                           ExplainabilityMethod `json:"method"`
	Summary                          string               `json:"summary"`
	KeyFindings                      []string             `json:"key_findings"`
	Limitations                      string               `json:"limitations"`
	AttachmentRefs                   []string             `json:"attachment_refs"`
	ExplainabilityScore              *float64             `json:"explainability_score,omitempty"`
	SuitableForCustomerCommunication bool                 `json:"suitable_for_customer_communication"`
	Timestamp                        time.Time            `json:"timestamp"`
}

func (e *ExplainabilityEvaluation) Validate() error {
	switch e.Method {
	case MethodSHAP, MethodLIME, MethodGlobalFeatureImportance, MethodLocalExplanations, MethodPromptTrace, MethodAgentTrace:
	default:
		return fmt.Errorf("invalid method: %q", e.Method)
	}
	if e.ExplainabilityScore != nil && (*e.ExplainabilityScore < 0 || *e.ExplainabilityScore > 100) {
		return fmt.Errorf("explainability_score out of range: %v", *e.ExplainabilityScore)
	}
	return nil
}

// RAGMethod enum
type RAGMethod string

const (
	RAGHumanLabeling RAGMethod = "human_labeling"
	RAGLLMJudge      RAGMethod = "LLM_judge"
)

// RAGEvaluation records one retrieval-grounding evaluation for copilots.
type RAGEvaluation struct {
	ModelID                  string    `json:"model_id"`
	EvalBatchID              string    `json:"eval_batch_id"`
	GroundingScore           float64   `json:"grounding_score"`
	HallucinationRate        float64   `json:"hallucination_rate"`
	ContextRelevanceScore    float64   `json:"context_relevance_score"`
	Method                   RAGMethod `json:"method"`
	Summary                  string    `json:"summary"`
	Notes                    string    `json:"notes"`
	CoverageMisstatementFlag bool      `json:"coverage_misstatement_flag"`
	Timestamp                time.Time `json:"timestamp"`
}

func (e *RAGEvaluation) Validate() error {
	switch e.Method {
	case RAGHumanLabeling, RAGLLMJudge:
	default:
		return fmt.Errorf("invalid method: %q", e.Method)
	}
	for name, v := range map[string]float64{
		"grounding_score":         e.GroundingScore,
		"hallucination_rate":      e.HallucinationRate,
		"context_relevance_score": e.ContextRelevanceScore,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s out of range: %v", name, v)
		}
	}
	return nil
}
