package prompt

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an insurance AI governance expert with deep knowledge of NAIC AI Principles, state Department of Insurance regulations, and insurance industry best practices."

// GetSystemPrompt returns the system message for philosophy generation.
func GetSystemPrompt() string {
	return systemPrompt
}

// sectionGuidance keys by section title. Unknown titles get no extra block.
var sectionGuidance = map[string]string{
	"Risk Appetite": `For Risk Appetite, address:
- Acceptable risk levels for AI in insurance decisions
- Risk tolerance for different lines of business and use cases
- Escalation thresholds for high-risk AI models
`,
	"Fairness and Unfair Discrimination Principles": `For Fairness and Unfair Discrimination Principles, address:
- Prohibited factors (race, gender, religion, etc.)
- Proxy discrimination (ZIP code, occupation, education as proxies)
- Disparate impact testing requirements
- State-specific regulations on protected classes
- Credit-based insurance scores and telematics data
`,
	"External Data and Vendor Controls": `For External Data and Vendor Controls, address:
- Vendor due diligence requirements
- External data validation and quality controls
- Third-party model risk management
- Data licensing and usage rights
`,
	"Regulatory Alignment Principles": `For Regulatory Alignment Principles, address:
- NAIC AI Principles compliance
- State DOI filing requirements
- Market conduct examination preparedness
- Adverse action notice requirements
`,
	"Safety and Customer Protection Principles": `For Safety and Customer Protection Principles, address:
- Customer harm prevention
- Adverse action procedures
- Appeals and recourse mechanisms
- Consumer data privacy
`,
	"Explainability and Customer Communication": `For Explainability and Customer Communication, address:
- Explanation requirements for AI-driven decisions
- Customer-facing communication standards
- Plain language explanation guidelines
- Regulatory transparency requirements
`,
	"Auditability and DOI Exam Readiness": `For Auditability and DOI Exam Readiness, address:
- Model documentation requirements
- Record retention policies
- Evidence pack preparation
- Internal audit procedures
`,
	"Lifecycle Governance": `For Lifecycle Governance, address:
- Model development governance
- Validation and approval processes
- Ongoing monitoring requirements
- Model retirement procedures
`,
}

// GetSectionPrompt builds the user message for one empty philosophy section.
func GetSectionPrompt(scope, scopeRef, sectionTitle string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Generate detailed guidance for the %q section of an AI governance philosophy document for insurance.

Context:
- Scope: %s (%s)
- Industry: Property & Casualty / Commercial Insurance

Requirements:
- Focus on practical, actionable guidance specific to insurance operations
- Reference NAIC AI Principles and state DOI regulatory requirements
- Address unfair discrimination concerns (a critical issue in insurance)
- Consider market conduct examination requirements
- Be specific to insurance use cases (pricing, underwriting, claims, fraud detection)

`, sectionTitle, scope, scopeRef)

	if guidance, ok := sectionGuidance[sectionTitle]; ok {
		b.WriteString(guidance)
	}
	b.WriteString("\nProvide 3-5 detailed paragraphs with specific, actionable guidance.")
	return b.String()
}
