package controls

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaudit "github.com/insuregov/governance/internal/application/audit"
	domain "github.com/insuregov/governance/internal/domain/controls"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	clock := fixedClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return &Service{
		Catalog:     jsonfile.NewDocumentStore(filepath.Join(dir, "controls.json")),
		Evaluations: jsonfile.NewEventLog(filepath.Join(dir, "control_evaluations.ndjson")),
		Models:      jsonfile.NewDocumentStore(filepath.Join(dir, "models.json")),
		Audit:       appaudit.NewLogger(jsonfile.NewEventLog(filepath.Join(dir, "audit_log.ndjson")), clock),
		Clock:       clock,
	}
}

func TestCreateControlFailsWhenAuditLogUnwritable(t *testing.T) {
	s := newService(t)
	s.Audit = appaudit.NewLogger(
		jsonfile.NewEventLog(filepath.Join(t.TempDir(), "missing", "audit_log.ndjson")), s.Clock)

	_, err := s.CreateControl(domain.CatalogEntry{
		ControlID: "CUSTOM-01",
		Category:  domain.CategoryCompliance,
	})
	require.Error(t, err, "a catalog change that cannot be audited must fail")
}

func TestEnsureCatalogSeedsDefaults(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.EnsureCatalog())

	entries, err := s.Catalog.Load()
	require.NoError(t, err)
	assert.Len(t, entries, len(domain.DefaultCatalog))

	first, err := s.Catalog.FindByID("control_id", "NAIC-AI-01")
	require.NoError(t, err)
	assert.Equal(t, "Data&Bias", first["category"])
	assert.Equal(t, domain.DefaultAccountability, first["accountability"])
}

func TestEnsureCatalogDoesNotReseed(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Catalog.Save([]jsonfile.Record{
		{"control_id": "CUSTOM-01", "accountability": "Actuarial Lead"},
	}))

	require.NoError(t, s.EnsureCatalog())

	entries, err := s.Catalog.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Actuarial Lead", entries[0]["accountability"])
}

func TestEnsureCatalogBackfillsAccountability(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Catalog.Save([]jsonfile.Record{
		{"control_id": "CUSTOM-01"},
	}))

	require.NoError(t, s.EnsureCatalog())

	entries, err := s.Catalog.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.DefaultAccountability, entries[0]["accountability"])
}

func TestCreateControlConflict(t *testing.T) {
	s := newService(t)
	_, err := s.CreateControl(domain.CatalogEntry{
		ControlID: "NAIC-AI-01",
		Category:  domain.CategoryCompliance,
	})
	assert.ErrorIs(t, err, jsonfile.ErrConflict)
}

func TestCreateControlDefaultsAccountability(t *testing.T) {
	s := newService(t)
	rec, err := s.CreateControl(domain.CatalogEntry{
		ControlID: "CUSTOM-01",
		Category:  domain.CategoryRisk,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAccountability, rec["accountability"])
	assert.Equal(t, []any{}, rec["applies_to_use_case_categories"])
}

func TestUpdateControlPartial(t *testing.T) {
	s := newService(t)
	desc := "Tightened description"
	updated, err := s.UpdateControl("NAIC-AI-01", domain.CatalogUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated["description"])
	assert.Equal(t, "Data&Bias", updated["category"], "unlisted attributes keep their value")
}

func TestUpdateControlEmpty(t *testing.T) {
	s := newService(t)
	_, err := s.UpdateControl("NAIC-AI-01", domain.CatalogUpdate{})
	assert.ErrorIs(t, err, jsonfile.ErrNoUpdates)
}

func TestDeleteControl(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.DeleteControl("XAI-01"))

	_, err := s.GetControl("XAI-01")
	assert.ErrorIs(t, err, jsonfile.ErrNotFound)

	err = s.DeleteControl("XAI-01")
	assert.ErrorIs(t, err, jsonfile.ErrNotFound)
}

func TestRecordEvaluationsUnknownModel(t *testing.T) {
	s := newService(t)
	err := s.RecordEvaluations("model_missing", []domain.Evaluation{
		{ControlID: "NAIC-AI-01", Status: domain.EvalPassed},
	})
	assert.ErrorIs(t, err, jsonfile.ErrNotFound)
}

func TestRecordAndListEvaluations(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Models.Create("model_id", jsonfile.Record{"model_id": "model_a"}))

	require.NoError(t, s.RecordEvaluations("model_a", []domain.Evaluation{
		{ControlID: "NAIC-AI-01", Status: domain.EvalPassed, Rationale: "disparate impact within tolerance"},
		{ControlID: "NAIC-AI-02", Status: domain.EvalFailed, Rationale: "credit score vendor undocumented"},
	}))

	evals, err := s.ListEvaluations("model_a")
	require.NoError(t, err)
	require.Len(t, evals, 2)
	for _, e := range evals {
		assert.Equal(t, "model_a", e["model_id"])
		assert.NotEmpty(t, e["last_updated"])
	}
}
