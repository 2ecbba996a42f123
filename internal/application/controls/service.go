package controls

import (
	"fmt"

	"github.com/insuregov/governance/internal/application"
	appaudit "github.com/insuregov/governance/internal/application/audit"
	"github.com/insuregov/governance/internal/domain/audit"
	domain "github.com/insuregov/governance/internal/domain/controls"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

// Service manages the governance control catalog and per-model control
// evaluations.
type Service struct {
	Catalog     *jsonfile.DocumentStore
	Evaluations *jsonfile.EventLog
	Models      *jsonfile.DocumentStore
	Audit       *appaudit.Logger
	Clock       application.Clock
}

// EnsureCatalog seeds the default catalog into an empty collection and
// backfills the accountability field on legacy entries.
func (s *Service) EnsureCatalog() error {
	entries, err := s.Catalog.Load()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		seeded := make([]jsonfile.Record, 0, len(domain.DefaultCatalog))
		for _, c := range domain.DefaultCatalog {
			rec, err := jsonfile.ToRecord(c)
			if err != nil {
				return err
			}
			seeded = append(seeded, rec)
		}
		return s.Catalog.Save(seeded)
	}

	dirty := false
	for _, rec := range entries {
		if _, ok := rec["accountability"]; !ok {
			rec["accountability"] = domain.DefaultAccountability
			dirty = true
		}
	}
	if dirty {
		return s.Catalog.Save(entries)
	}
	return nil
}

// ListCatalog returns the full control catalog.
func (s *Service) ListCatalog() ([]jsonfile.Record, error) {
	if err := s.EnsureCatalog(); err != nil {
		return nil, err
	}
	return s.Catalog.Load()
}

// GetControl returns one catalog entry by id.
func (s *Service) GetControl(controlID string) (jsonfile.Record, error) {
	if err := s.EnsureCatalog(); err != nil {
		return nil, err
	}
	return s.Catalog.FindByID("control_id", controlID)
}

// CreateControl adds a new catalog entry, failing with ErrConflict on a
// duplicate control id.
func (s *Service) CreateControl(c domain.CatalogEntry) (jsonfile.Record, error) {
	if err := s.EnsureCatalog(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Accountability == "" {
		c.Accountability = domain.DefaultAccountability
	}
	if c.AppliesToUseCaseCategories == nil {
		c.AppliesToUseCaseCategories = []string{}
	}
	rec, err := jsonfile.ToRecord(c)
	if err != nil {
		return nil, err
	}
	if err := s.Catalog.Create("control_id", rec); err != nil {
		return nil, err
	}
	if err := s.Audit.Record(audit.Entry{
		ActionType: "create_control",
		EntityType: "control",
		EntityID:   c.ControlID,
		NewValue:   rec,
	}); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateControl merges a partial update into a catalog entry. Only the given
// attributes change; an empty update fails with ErrNoUpdates.
func (s *Service) UpdateControl(controlID string, u domain.CatalogUpdate) (jsonfile.Record, error) {
	if err := s.EnsureCatalog(); err != nil {
		return nil, err
	}
	old, err := s.Catalog.FindByID("control_id", controlID)
	if err != nil {
		return nil, err
	}
	attrs, err := u.Attrs()
	if err != nil {
		return nil, err
	}
	updated, err := s.Catalog.UpdateByID("control_id", controlID, attrs)
	if err != nil {
		return nil, err
	}
	if err := s.Audit.Record(audit.Entry{
		ActionType: "update_control",
		EntityType: "control",
		EntityID:   controlID,
		OldValue:   old,
		NewValue:   updated,
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteControl removes a catalog entry.
func (s *Service) DeleteControl(controlID string) error {
	if err := s.EnsureCatalog(); err != nil {
		return err
	}
	old, err := s.Catalog.FindByID("control_id", controlID)
	if err != nil {
		return err
	}
	deleted, err := s.Catalog.DeleteByID("control_id", controlID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("control_id=%s: %w", controlID, jsonfile.ErrNotFound)
	}
	return s.Audit.Record(audit.Entry{
		ActionType: "delete_control",
		EntityType: "control",
		EntityID:   controlID,
		OldValue:   old,
	})
}

// RecordEvaluations appends a batch of control evaluations for a model.
func (s *Service) RecordEvaluations(modelID string, evals []domain.Evaluation) error {
	if _, err := s.Models.FindByID("model_id", modelID); err != nil {
		return err
	}
	for i := range evals {
		e := &evals[i]
		if err := e.Validate(); err != nil {
			return err
		}
		e.ModelID = modelID
		if e.LastUpdated.IsZero() {
			e.LastUpdated = s.Clock.Now()
		}
		if e.EvidenceLinks == nil {
			e.EvidenceLinks = []string{}
		}
		rec, err := jsonfile.ToRecord(*e)
		if err != nil {
			return err
		}
		if err := s.Evaluations.Append(rec); err != nil {
			return err
		}
		if err := s.Audit.Record(audit.Entry{
			ActionType: "update_control_evaluation",
			EntityType: "control_evaluation",
			EntityID:   fmt.Sprintf("%s_%s", modelID, e.ControlID),
			ModelID:    modelID,
			NewValue:   rec,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ListEvaluations returns all control evaluations for a model, most recently
// updated first.
func (s *Service) ListEvaluations(modelID string) ([]jsonfile.Record, error) {
	return s.Evaluations.AllForEntity("model_id", modelID, "last_updated")
}
