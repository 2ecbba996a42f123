package philosophy

import (
	"fmt"
	"time"
)

// Scope enum
type Scope string

const (
	ScopeOrg            Scope = "org"
	ScopeBusinessDomain Scope = "business_domain"
	ScopeLineOfBusiness Scope = "line_of_business"
	ScopeModel          Scope = "model"
)

// Philosophy is one governance philosophy document, scoped to the org, a
// business domain, a line of business, or a single model. History is
// append-only; the newest entry per scope wins.
type Philosophy struct {
	Scope                                     Scope     `json:"scope"`
	ScopeRef                                  string    `json:"scope_ref"`
	RiskAppetite                              string    `json:"risk_appetite"`
	FairnessAndUnfairDiscriminationPrinciples string    `json:"fairness_and_unfair_discrimination_principles"`
	ExternalDataAndVendorControls             string    `json:"external_data_and_vendor_controls"`
	RegulatoryAlignmentPrinciples             string    `json:"regulatory_alignment_principles"`
	SafetyAndCustomerProtectionPrinciples     string    `json:"safety_and_customer_protection_principles"`
	ExplainabilityAndCustomerCommunication    string    `json:"explainability_and_customer_communication"`
	AuditabilityAndDOIExamReadiness           string    `json:"auditability_and_DOI_exam_readiness"`
	LifecycleGovernance                       string    `json:"lifecycle_governance"`
	GeneratedByLLM                            bool      `json:"generated_by_llm"`
	SourcePromptRef                           string    `json:"source_prompt_ref,omitempty"`
	CreatedAt                                 time.Time `json:"created_at"`
	UpdatedAt                                 time.Time `json:"updated_at"`
}

func (p *Philosophy) Validate() error {
	switch p.Scope {
	case ScopeOrg, ScopeBusinessDomain, ScopeLineOfBusiness, ScopeModel:
	default:
		return fmt.Errorf("invalid scope: %q", p.Scope)
	}
	if p.ScopeRef == "" {
		return fmt.Errorf("scope_ref is required")
	}
	return nil
}

// Section identifies one fillable guidance section.
type Section struct {
	Field string // storage field name
	Title string // human title used in prompts and evidence packs
}

// Sections lists the guidance sections in document order.
var Sections = []Section{
	{"risk_appetite", "Risk Appetite"},
	{"fairness_and_unfair_discrimination_principles", "Fairness and Unfair Discrimination Principles"},
	{"external_data_and_vendor_controls", "External Data and Vendor Controls"},
	{"regulatory_alignment_principles", "Regulatory Alignment Principles"},
	{"safety_and_customer_protection_principles", "Safety and Customer Protection Principles"},
	{"explainability_and_customer_communication", "Explainability and Customer Communication"},
	{"auditability_and_DOI_exam_readiness", "Auditability and DOI Exam Readiness"},
	{"lifecycle_governance", "Lifecycle Governance"},
}

// SectionValue returns the current text of a section by storage field name.
func (p *Philosophy) SectionValue(field string) string {
	switch field {
	case "risk_appetite":
		return p.RiskAppetite
	case "fairness_and_unfair_discrimination_principles":
		return p.FairnessAndUnfairDiscriminationPrinciples
	case "external_data_and_vendor_controls":
		return p.ExternalDataAndVendorControls
	case "regulatory_alignment_principles":
		return p.RegulatoryAlignmentPrinciples
	case "safety_and_customer_protection_principles":
		return p.SafetyAndCustomerProtectionPrinciples
	case "explainability_and_customer_communication":
		return p.ExplainabilityAndCustomerCommunication
	case "auditability_and_DOI_exam_readiness":
		return p.AuditabilityAndDOIExamReadiness
	case "lifecycle_governance":
		return p.LifecycleGovernance
	}
	return ""
}

// SetSection replaces the text of a section by storage field name.
func (p *Philosophy) SetSection(field, value string) {
	switch field {
	case "risk_appetite":
		p.RiskAppetite = value
	case "fairness_and_unfair_discrimination_principles":
		p.FairnessAndUnfairDiscriminationPrinciples = value
	case "external_data_and_vendor_controls":
		p.ExternalDataAndVendorControls = value
	case "regulatory_alignment_principles":
		p.RegulatoryAlignmentPrinciples = value
	case "safety_and_customer_protection_principles":
		p.SafetyAndCustomerProtectionPrinciples = value
	case "explainability_and_customer_communication":
		p.ExplainabilityAndCustomerCommunication = value
	case "auditability_and_DOI_exam_readiness":
		p.AuditabilityAndDOIExamReadiness = value
	case "lifecycle_governance":
		p.LifecycleGovernance = value
	}
}
