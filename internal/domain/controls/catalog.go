package controls

// DefaultAccountability is assigned to seeded controls and backfilled onto
// legacy catalog entries that predate the field.
const DefaultAccountability = "Chief Compliance Officer"

// DefaultCatalog is the control catalog seeded into an empty controls
// collection on first access.
var DefaultCatalog = []CatalogEntry{
	{
		ControlID:          "NAIC-AI-01",
		FrameworkReference: "NAIC_AI_Principles",
		RegulatoryFocus:    "Unfair_Discrimination",
		Category:           CategoryDataBias,
		Accountability:     DefaultAccountability,
		Description:        "Ensure AI models do not unfairly discriminate based on protected classes (race, gender, etc.) in insurance decisions.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims"},
	},
	{
		ControlID:          "NAIC-AI-02",
		FrameworkReference: "NAIC_AI_Principles",
		RegulatoryFocus:    "External_Data",
		Category:           CategoryCompliance,
		Accountability:     DefaultAccountability,
		Description:        "Document and govern the use of external data sources (e.g., credit scores, telematics) in accordance with state DOI regulations.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting"},
	},
	{
		ControlID:          "NAIC-AI-03",
		FrameworkReference: "NAIC_AI_Principles",
		RegulatoryFocus:    "Consumer_Transparency",
		Category:           CategoryExplainability,
		Accountability:     DefaultAccountability,
		Description:        "Provide clear, understandable explanations for AI-driven insurance decisions to consumers.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims"},
	},
	{
		ControlID:          "NAIC-AI-04",
		FrameworkReference: "Model_Documentation_For_DOI",
		RegulatoryFocus:    "Audit_Readiness",
		Category:           CategoryCompliance,
		Accountability:     DefaultAccountability,
		Description:        "Maintain comprehensive model documentation for state DOI market conduct examinations.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims", "Fraud"},
	},
	{
		ControlID:          "NAIC-AI-05",
		FrameworkReference: "NAIC_AI_Principles",
		RegulatoryFocus:    "Data_Governance",
		Category:           CategoryOperations,
		Accountability:     DefaultAccountability,
		Description:        "Implement data quality controls and lineage tracking for AI model training data.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims", "Fraud"},
	},
	{
		ControlID:          "NAIC-AI-06",
		FrameworkReference: "NAIC_AI_Principles",
		RegulatoryFocus:    "Model_Validation",
		Category:           CategoryRisk,
		Accountability:     DefaultAccountability,
		Description:        "Conduct independent model validation including backtesting and sensitivity analysis.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims"},
	},
	{
		ControlID:          "NAIC-AI-07",
		FrameworkReference: "NAIC_AI_Principles",
		RegulatoryFocus:    "Ongoing_Monitoring",
		Category:           CategoryOperations,
		Accountability:     DefaultAccountability,
		Description:        "Implement ongoing monitoring for model drift, bias, and performance degradation.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims", "Fraud"},
	},
	{
		ControlID:          "NAIC-AI-08",
		FrameworkReference: "Third_Party_Risk",
		RegulatoryFocus:    "Vendor_Management",
		Category:           CategoryRisk,
		Accountability:     DefaultAccountability,
		Description:        "Establish vendor risk management for third-party AI models and data providers.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims", "Fraud", "Marketing"},
	},
	{
		ControlID:          "NAIC-AI-09",
		FrameworkReference: "NAIC_AI_Principles",
		RegulatoryFocus:    "Adverse_Action",
		Category:           CategoryCompliance,
		Accountability:     DefaultAccountability,
		Description:        "Provide adverse action notices with specific reasons when AI drives unfavorable decisions.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Underwriting", "Claims"},
	},
	{
		ControlID:          "NAIC-AI-10",
		FrameworkReference: "Data_Privacy",
		RegulatoryFocus:    "Consumer_Privacy",
		Category:           CategoryCompliance,
		Accountability:     DefaultAccountability,
		Description:        "Ensure AI models comply with data privacy regulations and consumer consent requirements.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims", "Marketing", "Customer_Service"},
	},
	{
		ControlID:          "RAG-01",
		FrameworkReference: "Generative_AI_Controls",
		RegulatoryFocus:    "Hallucination_Prevention",
		Category:           CategoryRisk,
		Accountability:     DefaultAccountability,
		Description:        "Implement grounding and citation mechanisms to prevent hallucinations in insurance copilots.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Operational_Copilot", "Customer_Service"},
	},
	{
		ControlID:          "RAG-02",
		FrameworkReference: "Generative_AI_Controls",
		RegulatoryFocus:    "Coverage_Accuracy",
		Category:           CategoryRisk,
		Accountability:     DefaultAccountability,
		Description:        "Validate that AI-generated policy and coverage explanations are accurate and not misleading.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Operational_Copilot", "Customer_Service", "Underwriting"},
	},
	{
		ControlID:          "FAIR-01",
		FrameworkReference: "Fair_Lending_Principles",
		RegulatoryFocus:    "Proxy_Variables",
		Category:           CategoryDataBias,
		Accountability:     DefaultAccountability,
		Description:        "Test for and mitigate proxy discrimination (e.g., ZIP code as proxy for race).",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting"},
	},
	{
		ControlID:          "FAIR-02",
		FrameworkReference: "Fair_Lending_Principles",
		RegulatoryFocus:    "Disparate_Impact",
		Category:           CategoryDataBias,
		Accountability:     DefaultAccountability,
		Description:        "Conduct disparate impact analysis across protected classes.",
		MandatoryForProd:   true,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims"},
	},
	{
		ControlID:          "XAI-01",
		FrameworkReference: "Explainability_Standards",
		RegulatoryFocus:    "Technical_Explainability",
		Category:           CategoryExplainability,
		Accountability:     DefaultAccountability,
		Description:        "Implement technical explainability methods (SHAP, LIME) for model decisions.",
		MandatoryForProd:   false,
		AppliesToUseCaseCategories: []string{"Pricing", "Underwriting", "Claims", "Fraud"},
	},
}
