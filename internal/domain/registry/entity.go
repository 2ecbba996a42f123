package registry

import (
	"fmt"
	"time"
)

// ModelType enum
type ModelType string

const (
	TypeLLM            ModelType = "llm"
	TypeRAG            ModelType = "rag"
	TypeAgent          ModelType = "agent"
	TypeClassifier     ModelType = "classifier"
	TypeRegressor      ModelType = "regressor"
	TypeRulesPlusModel ModelType = "rules_plus_model"
)

// BusinessDomain enum
type BusinessDomain string

const (
	DomainPCPersonal   BusinessDomain = "P&C_Personal"
	DomainPCCommercial BusinessDomain = "P&C_Commercial"
	DomainReinsurance  BusinessDomain = "Reinsurance"
	DomainSpecialty    BusinessDomain = "Specialty"
)

// LineOfBusiness enum
type LineOfBusiness string

const (
	LOBPersonalAuto   LineOfBusiness = "Personal Auto"
	LOBHomeowners     LineOfBusiness = "Homeowners"
	LOBCommercialAuto LineOfBusiness = "Commercial Auto"
	LOBWorkersComp    LineOfBusiness = "Workers_Compensation"
	LOBGL             LineOfBusiness = "GL"
	LOBProperty       LineOfBusiness = "Property"
)

// UseCaseCategory enum
type UseCaseCategory string

const (
	UseCasePricing            UseCaseCategory = "Pricing"
	UseCaseUnderwriting       UseCaseCategory = "Underwriting"
	UseCaseClaims             UseCaseCategory = "Claims"
	UseCaseFraud              UseCaseCategory = "Fraud"
	UseCaseMarketing          UseCaseCategory = "Marketing"
	UseCaseCustomerService    UseCaseCategory = "Customer_Service"
	UseCaseOperationalCopilot UseCaseCategory = "Operational_Copilot"
)

// GovernanceStatus enum
type GovernanceStatus string

const (
	StatusDraft                GovernanceStatus = "draft"
	StatusInReview             GovernanceStatus = "in_review"
	StatusApprovedForProd      GovernanceStatus = "approved_for_prod"
	StatusTemporarilySuspended GovernanceStatus = "temporarily_suspended"
	StatusRetired              GovernanceStatus = "retired"
)

// DeploymentEnvironment enum
type DeploymentEnvironment string

const (
	EnvDev  DeploymentEnvironment = "dev"
	EnvTest DeploymentEnvironment = "test"
	EnvProd DeploymentEnvironment = "prod"
)

// Model is the registry aggregate: one governed AI model.
type Model struct {
	ModelID               string                `json:"model_id"`
	Name                  string                `json:"name"`
	Version               string                `json:"version"`
	ModelType             ModelType             `json:"model_type"`
	BusinessDomain        BusinessDomain        `json:"business_domain"`
	LineOfBusiness        LineOfBusiness        `json:"line_of_business"`
	UseCaseCategory       UseCaseCategory       `json:"use_case_category"`
	DetailedUseCase       string                `json:"detailed_use_case"`
	OwnerTeam             string                `json:"owner_team"`
	ProductOrProgram      string                `json:"product_or_program"`
	Jurisdictions         []string              `json:"jurisdictions"`
	DeploymentEnvironment DeploymentEnvironment `json:"deployment_environment"`
	DeploymentDetails     map[string]any        `json:"deployment_details"`
	ExternalDataSources   []string              `json:"external_data_sources"`
	GovernanceStatus      GovernanceStatus      `json:"governance_status"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// Validate enforces the enum fields before the model reaches the
// schema-agnostic store.
func (m *Model) Validate() error {
	switch m.ModelType {
	case TypeLLM, TypeRAG, TypeAgent, TypeClassifier, TypeRegressor, TypeRulesPlusModel:
	default:
		return fmt.Errorf("invalid model_type: %q", m.ModelType)
	}
	switch m.BusinessDomain {
	case DomainPCPersonal, DomainPCCommercial, DomainReinsurance, DomainSpecialty:
	default:
		return fmt.Errorf("invalid business_domain: %q", m.BusinessDomain)
	}
	switch m.LineOfBusiness {
	case LOBPersonalAuto, LOBHomeowners, LOBCommercialAuto, LOBWorkersComp, LOBGL, LOBProperty:
	default:
		return fmt.Errorf("invalid line_of_business: %q", m.LineOfBusiness)
	}
	switch m.UseCaseCategory {
	case UseCasePricing, UseCaseUnderwriting, UseCaseClaims, UseCaseFraud,
		UseCaseMarketing, UseCaseCustomerService, UseCaseOperationalCopilot:
	default:
		return fmt.Errorf("invalid use_case_category: %q", m.UseCaseCategory)
	}
	switch m.DeploymentEnvironment {
	case EnvDev, EnvTest, EnvProd:
	default:
		return fmt.Errorf("invalid deployment_environment: %q", m.DeploymentEnvironment)
	}
	if m.GovernanceStatus == "" {
		m.GovernanceStatus = StatusDraft
	}
	switch m.GovernanceStatus {
	case StatusDraft, StatusInReview, StatusApprovedForProd, StatusTemporarilySuspended, StatusRetired:
	default:
		return fmt.Errorf("invalid governance_status: %q", m.GovernanceStatus)
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	return nil
}

// LineageEntry is one lineage snapshot appended to the lineage log.
type LineageEntry struct {
	Timestamp           time.Time      `json:"timestamp"`
	ModelID             string         `json:"model_id"`
	EventType           string         `json:"event_type"`
	DataSources         []string       `json:"data_sources"`
	ExternalDataSources []string       `json:"external_data_sources"`
	TrainingPipeline    string         `json:"training_pipeline,omitempty"`
	FeatureStoreRefs    []string       `json:"feature_store_refs"`
	Artifacts           map[string]any `json:"artifacts"`
	Deployment          map[string]any `json:"deployment"`
}
