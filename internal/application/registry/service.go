package registry

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/insuregov/governance/internal/application"
	appaudit "github.com/insuregov/governance/internal/application/audit"
	"github.com/insuregov/governance/internal/domain/audit"
	domain "github.com/insuregov/governance/internal/domain/registry"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

// Service implements use-cases for the model registry.
type Service struct {
	Models  *jsonfile.DocumentStore
	Lineage *jsonfile.EventLog
	Audit   *appaudit.Logger
	Clock   application.Clock
}

// NewModelID generates a registry identifier like model_3f1c9a40be72.
func NewModelID() string {
	return "model_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// ListFilter narrows a registry listing; zero values mean no constraint.
// Jurisdiction matches membership in the model's jurisdictions list.
type ListFilter struct {
	BusinessDomain   string
	LineOfBusiness   string
	UseCaseCategory  string
	GovernanceStatus string
	Jurisdiction     string
}

// Create registers a new model. The identifier is generated here; a collision
// surfaces as jsonfile.ErrConflict.
func (s *Service) Create(m domain.Model) (domain.Model, error) {
	if err := m.Validate(); err != nil {
		return domain.Model{}, err
	}
	now := s.Clock.Now()
	m.ModelID = NewModelID()
	m.CreatedAt = now
	m.UpdatedAt = now
	if m.Jurisdictions == nil {
		m.Jurisdictions = []string{}
	}
	if m.ExternalDataSources == nil {
		m.ExternalDataSources = []string{}
	}
	if m.DeploymentDetails == nil {
		m.DeploymentDetails = map[string]any{}
	}

	rec, err := jsonfile.ToRecord(m)
	if err != nil {
		return domain.Model{}, err
	}
	if err := s.Models.Create("model_id", rec); err != nil {
		return domain.Model{}, err
	}

	if err := s.Audit.Record(audit.Entry{
		ActionType: "create_model",
		EntityType: "model",
		EntityID:   m.ModelID,
		ModelID:    m.ModelID,
		NewValue:   rec,
	}); err != nil {
		return domain.Model{}, err
	}
	return m, nil
}

// List returns the registered models matching the filter, in file order.
func (s *Service) List(f ListFilter) ([]jsonfile.Record, error) {
	attrs := jsonfile.Record{}
	if f.BusinessDomain != "" {
		attrs["business_domain"] = f.BusinessDomain
	}
	if f.LineOfBusiness != "" {
		attrs["line_of_business"] = f.LineOfBusiness
	}
	if f.UseCaseCategory != "" {
		attrs["use_case_category"] = f.UseCaseCategory
	}
	if f.GovernanceStatus != "" {
		attrs["governance_status"] = f.GovernanceStatus
	}
	models, err := s.Models.Filter(attrs)
	if err != nil {
		return nil, err
	}
	if f.Jurisdiction == "" {
		return models, nil
	}
	out := []jsonfile.Record{}
	for _, m := range models {
		states, _ := m["jurisdictions"].([]any)
		for _, st := range states {
			if v, ok := st.(string); ok && v == f.Jurisdiction {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

// Get returns one model by id.
func (s *Service) Get(modelID string) (jsonfile.Record, error) {
	return s.Models.FindByID("model_id", modelID)
}

// Exists reports whether a model is registered.
func (s *Service) Exists(modelID string) (bool, error) {
	return s.Models.Exists("model_id", modelID)
}

// AddLineage appends one lineage snapshot for an existing model.
func (s *Service) AddLineage(modelID string, entry domain.LineageEntry) error {
	if _, err := s.Get(modelID); err != nil {
		return err
	}
	entry.ModelID = modelID
	entry.Timestamp = s.Clock.Now()
	if entry.EventType == "" {
		entry.EventType = "lineage_snapshot"
	}
	if entry.DataSources == nil {
		entry.DataSources = []string{}
	}
	if entry.ExternalDataSources == nil {
		entry.ExternalDataSources = []string{}
	}
	if entry.FeatureStoreRefs == nil {
		entry.FeatureStoreRefs = []string{}
	}
	if entry.Artifacts == nil {
		entry.Artifacts = map[string]any{}
	}
	if entry.Deployment == nil {
		entry.Deployment = map[string]any{}
	}

	rec, err := jsonfile.ToRecord(entry)
	if err != nil {
		return err
	}
	if err := s.Lineage.Append(rec); err != nil {
		return fmt.Errorf("append lineage: %w", err)
	}

	return s.Audit.Record(audit.Entry{
		ActionType: "add_lineage",
		EntityType: "lineage",
		EntityID:   modelID,
		ModelID:    modelID,
		NewValue:   rec,
	})
}

// GetLineage returns all lineage snapshots for a model, newest first.
func (s *Service) GetLineage(modelID string) ([]jsonfile.Record, error) {
	if _, err := s.Get(modelID); err != nil {
		return nil, err
	}
	return s.Lineage.AllForEntity("model_id", modelID, "")
}
