package evidence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/insuregov/governance/internal/infra/jsonfile"
)

func getString(rec jsonfile.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

func stringList(rec jsonfile.Record, key string) []string {
	raw, _ := rec[key].([]any)
	out := []string{}
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// value renders any record field for markdown, with a fallback for missing
// keys.
func value(rec jsonfile.Record, key, fallback string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return fallback
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return fallback
		}
		return t
	case bool:
		return fmt.Sprintf("%v", t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

func jsonBlock(rec jsonfile.Record, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		v = map[string]any{}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func countStatus(records []jsonfile.Record, status string) int {
	n := 0
	for _, r := range records {
		if getString(r, "status") == status {
			n++
		}
	}
	return n
}

func renderModel(model jsonfile.Record, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, `# AI Model Details

## Basic Information

- **Model ID**: %s
- **Name**: %s
- **Version**: %s
- **Model Type**: %s

## Insurance Context

- **Business Domain**: %s
- **Line of Business**: %s
- **Use Case Category**: %s
- **Detailed Use Case**: %s

## Ownership & Program

- **Owner Team**: %s
- **Product/Program**: %s

## Deployment

- **Environment**: %s
- **Jurisdictions**: %s
- **Governance Status**: %s

## External Data Sources

%s
## Deployment Details

`+"```json\n%s\n```"+`

---
*Generated: %s*
`,
		getString(model, "model_id"), getString(model, "name"),
		getString(model, "version"), getString(model, "model_type"),
		getString(model, "business_domain"), getString(model, "line_of_business"),
		getString(model, "use_case_category"), getString(model, "detailed_use_case"),
		getString(model, "owner_team"), getString(model, "product_or_program"),
		getString(model, "deployment_environment"),
		strings.Join(stringList(model, "jurisdictions"), ", "),
		getString(model, "governance_status"),
		bulletList(stringList(model, "external_data_sources")),
		jsonBlock(model, "deployment_details"),
		now.Format(time.RFC3339))
	return b.String()
}

func renderLineage(entries []jsonfile.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Model Lineage\n\n## Lineage Snapshots\n\nTotal snapshots: %d\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&b, `### Snapshot %d: %s

**Data Sources:**
%s
**External Data Sources:**
%s
**Training Pipeline:** %s

**Feature Store References:**
%s
**Deployment:**
`+"```json\n%s\n```"+`

---

`,
			i+1, value(e, "timestamp", "N/A"),
			bulletList(stringList(e, "data_sources")),
			bulletList(stringList(e, "external_data_sources")),
			value(e, "training_pipeline", "N/A"),
			bulletList(stringList(e, "feature_store_refs")),
			jsonBlock(e, "deployment"))
	}
	return b.String()
}

func renderControls(controls, evaluations []jsonfile.Record) string {
	evalByControl := map[string]jsonfile.Record{}
	for _, e := range evaluations {
		if id := getString(e, "control_id"); id != "" {
			if _, seen := evalByControl[id]; !seen {
				evalByControl[id] = e
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `# Governance Controls & Evaluations

## Control Evaluation Summary

- Total Controls: %d
- Evaluated: %d
- Passed: %d
- Failed: %d
- Needs Review: %d

## Detailed Evaluations

`,
		len(controls), len(evaluations),
		countStatus(evaluations, "passed"),
		countStatus(evaluations, "failed"),
		countStatus(evaluations, "needs_review"))

	for _, c := range controls {
		controlID := getString(c, "control_id")
		fmt.Fprintf(&b, `### %s: %s

**Framework**: %s
**Category**: %s
**Mandatory for Prod**: %s

**Description**: %s

`,
			controlID, getString(c, "regulatory_focus"),
			getString(c, "framework_reference"), getString(c, "category"),
			value(c, "mandatory_for_prod", "false"),
			getString(c, "description"))

		if e, ok := evalByControl[controlID]; ok {
			fmt.Fprintf(&b, "**Evaluation Status**: %s\n\n**Rationale**: %s\n**Last Updated**: %s\n\n",
				getString(e, "status"), getString(e, "rationale"), value(e, "last_updated", "N/A"))
		} else {
			b.WriteString("**Evaluation Status**: NOT EVALUATED\n\n")
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

func renderExplainability(evaluations []jsonfile.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Explainability Evaluations\n\nTotal evaluations: %d\n\n", len(evaluations))
	for i, e := range evaluations {
		fmt.Fprintf(&b, `## Evaluation %d: %s

**Method**: %s
**Timestamp**: %s
**Explainability Score**: %s
**Suitable for Customer Communication**: %s

**Summary**: %s

**Key Findings**:
%s
**Limitations**: %s

---

`,
			i+1, getString(e, "decision_context"),
			getString(e, "method"), value(e, "timestamp", "N/A"),
			value(e, "explainability_score", "N/A"),
			value(e, "suitable_for_customer_communication", "false"),
			getString(e, "summary"),
			bulletList(stringList(e, "key_findings")),
			getString(e, "limitations"))
	}
	return b.String()
}

func renderBias(evaluations []jsonfile.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Bias & Unfair Discrimination Testing\n\nTotal tests: %d\n\n", len(evaluations))
	for i, e := range evaluations {
		fmt.Fprintf(&b, `## Test %d: %s

**Protected/Prohibited Factor**: %s
**Test Type**: %s
**Metric**: %s
**Value**: %s
**Threshold**: %s
**Status**: %s
**Customer Harm Risk**: %s
**Regulatory Concern Flag**: %s

**Mitigation Plan**: %s

---

`,
			i+1, getString(e, "test_scope"),
			getString(e, "protected_or_prohibited_factor"),
			getString(e, "test_type"), getString(e, "metric"),
			value(e, "value", "N/A"), value(e, "threshold", "N/A"),
			getString(e, "status"), getString(e, "customer_harm_risk"),
			value(e, "regulatory_concern_flag", "false"),
			value(e, "mitigation_plan", "None"))
	}
	return b.String()
}

func renderDrift(evaluations []jsonfile.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Drift Monitoring\n\nTotal drift evaluations: %d\n\n", len(evaluations))
	for i, e := range evaluations {
		fmt.Fprintf(&b, `## Evaluation %d: %s Drift

**Metric**: %s
**Value**: %s
**Threshold**: %s
**Status**: %s
**Observation Window**: %s

**Insurance Impact**: %s

**Notes**: %s

---

`,
			i+1, getString(e, "drift_type"),
			getString(e, "metric"), value(e, "value", "N/A"),
			value(e, "threshold", "N/A"), getString(e, "status"),
			getString(e, "observation_window"),
			getString(e, "insurance_impact_summary"),
			getString(e, "notes"))
	}
	return b.String()
}

func renderRAG(evaluations []jsonfile.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# RAG Evaluations (Insurance Copilots)\n\nTotal evaluations: %d\n\n", len(evaluations))
	if len(evaluations) == 0 {
		b.WriteString("\n*No RAG evaluations (model may not be a RAG-based copilot)*\n")
		return b.String()
	}
	for i, e := range evaluations {
		fmt.Fprintf(&b, `## Evaluation %d: Batch %s

**Grounding Score**: %s
**Hallucination Rate**: %s
**Context Relevance Score**: %s
**Method**: %s
**Coverage Misstatement Flag**: %s

**Summary**: %s

**Notes**: %s

---

`,
			i+1, getString(e, "eval_batch_id"),
			value(e, "grounding_score", "N/A"),
			value(e, "hallucination_rate", "N/A"),
			value(e, "context_relevance_score", "N/A"),
			getString(e, "method"),
			value(e, "coverage_misstatement_flag", "false"),
			getString(e, "summary"), getString(e, "notes"))
	}
	return b.String()
}

func renderRisk(assessments []jsonfile.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Risk Assessments\n\nTotal assessments: %d\n\n", len(assessments))
	for i, a := range assessments {
		fmt.Fprintf(&b, `## Assessment %d

**Risk Score**: %s/100
**Risk Level**: %s
**Timestamp**: %s

**Primary Risk Drivers**:
%s
**Business Impact Summary**: %s

**Mitigation Plan**: %s

**Residual Risk Accepted**: %s
**Residual Risk Approver**: %s

---

`,
			i+1,
			value(a, "risk_score", "N/A"), getString(a, "risk_level"),
			value(a, "timestamp", "N/A"),
			bulletList(stringList(a, "primary_risk_drivers")),
			getString(a, "business_impact_summary"),
			value(a, "mitigation_plan", "None"),
			value(a, "residual_risk_accepted", "false"),
			value(a, "residual_risk_approver", "N/A"))
	}
	return b.String()
}

// renderPhilosophy includes entries whose scope_ref matches the enterprise,
// the model's business domain, its line of business, or the model itself.
func renderPhilosophy(model jsonfile.Record, philosophies []jsonfile.Record) string {
	applicable := map[string]bool{
		"enterprise":                         true,
		getString(model, "business_domain"):  true,
		getString(model, "line_of_business"): true,
		getString(model, "model_id"):         true,
	}
	relevant := []jsonfile.Record{}
	for _, p := range philosophies {
		if applicable[getString(p, "scope_ref")] {
			relevant = append(relevant, p)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Governance Philosophy\n\nApplicable philosophies: %d\n\n", len(relevant))
	for _, p := range relevant {
		fmt.Fprintf(&b, `## %s Level: %s

### Risk Appetite
%s

### Fairness & Unfair Discrimination Principles
%s

### External Data & Vendor Controls
%s

### Regulatory Alignment Principles
%s

### Safety & Customer Protection Principles
%s

### Explainability & Customer Communication
%s

### Auditability & DOI Exam Readiness
%s

### Lifecycle Governance
%s

**Generated by LLM**: %s

---

`,
			getString(p, "scope"), getString(p, "scope_ref"),
			value(p, "risk_appetite", "Not specified"),
			value(p, "fairness_and_unfair_discrimination_principles", "Not specified"),
			value(p, "external_data_and_vendor_controls", "Not specified"),
			value(p, "regulatory_alignment_principles", "Not specified"),
			value(p, "safety_and_customer_protection_principles", "Not specified"),
			value(p, "explainability_and_customer_communication", "Not specified"),
			value(p, "auditability_and_DOI_exam_readiness", "Not specified"),
			value(p, "lifecycle_governance", "Not specified"),
			value(p, "generated_by_llm", "false"))
	}
	return b.String()
}

func renderAuditSummary(entries []jsonfile.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Audit Log Summary\n\nRecent audit events for this model: %d\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "- **%s** - %s by %s on %s (%s)\n",
			value(e, "timestamp", "N/A"), getString(e, "action_type"),
			getString(e, "user_id"), getString(e, "entity_type"),
			getString(e, "entity_id"))
	}
	return b.String()
}
