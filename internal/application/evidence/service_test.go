package evidence

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaudit "github.com/insuregov/governance/internal/application/audit"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type stubArtifacts struct {
	uploads map[string]string
}

func (s *stubArtifacts) Upload(ctx context.Context, localPath, key string) (string, error) {
	if s.uploads == nil {
		s.uploads = map[string]string{}
	}
	s.uploads[key] = localPath
	return "http://artifacts.local/" + key, nil
}

func newService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	clock := fixedClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return &Service{
		Models:         jsonfile.NewDocumentStore(filepath.Join(dir, "models.json")),
		Controls:       jsonfile.NewDocumentStore(filepath.Join(dir, "controls.json")),
		Lineage:        jsonfile.NewEventLog(filepath.Join(dir, "lineage.ndjson")),
		ControlEvals:   jsonfile.NewEventLog(filepath.Join(dir, "control_evaluations.ndjson")),
		Explainability: jsonfile.NewEventLog(filepath.Join(dir, "explainability.ndjson")),
		Bias:           jsonfile.NewEventLog(filepath.Join(dir, "bias.ndjson")),
		Drift:          jsonfile.NewEventLog(filepath.Join(dir, "drift.ndjson")),
		RAG:            jsonfile.NewEventLog(filepath.Join(dir, "rag_evaluations.ndjson")),
		Risk:           jsonfile.NewEventLog(filepath.Join(dir, "risk_assessments.ndjson")),
		Philosophy:     jsonfile.NewEventLog(filepath.Join(dir, "governance_philosophy.ndjson")),
		AuditLog:       jsonfile.NewEventLog(filepath.Join(dir, "audit_log.ndjson")),
		Packs:          jsonfile.NewEventLog(filepath.Join(dir, "evidence_packs.ndjson")),
		Audit:          appaudit.NewLogger(jsonfile.NewEventLog(filepath.Join(dir, "audit_log_out.ndjson")), clock),
		Clock:          clock,
		PacksDir:       filepath.Join(dir, "artifacts", "evidence_packs"),
	}
}

func seedModel(t *testing.T, s *Service) {
	t.Helper()
	require.NoError(t, s.Models.Create("model_id", jsonfile.Record{
		"model_id":               "model_a",
		"name":                   "Personal Auto Pricing GBM",
		"version":                "2.3.0",
		"business_domain":        "P&C_Personal",
		"line_of_business":       "Personal Auto",
		"use_case_category":      "Pricing",
		"deployment_environment": "prod",
		"governance_status":      "approved_for_prod",
		"jurisdictions":          []any{"CA", "NY"},
		"external_data_sources":  []any{"credit_score_vendor"},
	}))
}

func TestGenerateUnknownModel(t *testing.T) {
	s := newService(t)
	_, err := s.Generate(context.Background(), "model_missing", "auditor")
	assert.ErrorIs(t, err, jsonfile.ErrNotFound)
}

func TestGenerateWritesAllSectionsAndZip(t *testing.T) {
	s := newService(t)
	seedModel(t, s)
	require.NoError(t, s.Controls.Save([]jsonfile.Record{
		{"control_id": "NAIC-AI-01", "regulatory_focus": "Unfair_Discrimination", "description": "x"},
	}))
	require.NoError(t, s.ControlEvals.Append(jsonfile.Record{
		"model_id": "model_a", "control_id": "NAIC-AI-01", "status": "passed",
		"rationale": "within tolerance", "last_updated": "2024-01-01T00:00:00Z",
	}))
	require.NoError(t, s.Philosophy.Append(jsonfile.Record{
		"scope": "org", "scope_ref": "enterprise", "risk_appetite": "Conservative.",
	}))

	pack, err := s.Generate(context.Background(), "model_a", "auditor")
	require.NoError(t, err)

	assert.Equal(t, "model_a", pack.ModelID)
	assert.Equal(t, "auditor", pack.CreatedBy)
	assert.Equal(t, []string{"CA", "NY"}, pack.JurisdictionsCovered)
	assert.Equal(t, packSections, pack.IncludedSections)

	packDir := filepath.Join(s.PacksDir, pack.EvidencePackID)
	for _, section := range packSections {
		_, err := os.Stat(filepath.Join(packDir, section+".md"))
		assert.NoError(t, err, "%s.md should exist", section)
	}

	zr, err := zip.OpenReader(pack.ZipPath)
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, len(packSections))
}

func TestGenerateRendersModelDetails(t *testing.T) {
	s := newService(t)
	seedModel(t, s)

	pack, err := s.Generate(context.Background(), "model_a", "")
	require.NoError(t, err)
	assert.Equal(t, "system", pack.CreatedBy)

	data, err := os.ReadFile(filepath.Join(s.PacksDir, pack.EvidencePackID, "model.md"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "**Model ID**: model_a")
	assert.Contains(t, text, "**Jurisdictions**: CA, NY")
	assert.Contains(t, text, "- credit_score_vendor")
}

func TestGenerateAppendsMetadataAndAudits(t *testing.T) {
	s := newService(t)
	seedModel(t, s)

	pack, err := s.Generate(context.Background(), "model_a", "auditor")
	require.NoError(t, err)

	stored, err := s.Find(pack.EvidencePackID)
	require.NoError(t, err)
	assert.Equal(t, "model_a", stored["model_id"])

	entries, err := s.Audit.Log.Filter(jsonfile.Record{"action_type": "generate_evidence_pack"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerateFailsWhenAuditLogUnwritable(t *testing.T) {
	s := newService(t)
	seedModel(t, s)
	s.Audit = appaudit.NewLogger(
		jsonfile.NewEventLog(filepath.Join(t.TempDir(), "missing", "audit_log.ndjson")), s.Clock)

	_, err := s.Generate(context.Background(), "model_a", "auditor")
	require.Error(t, err, "a pack generation that cannot be audited must fail")
}

func TestGenerateUploadsWhenConfigured(t *testing.T) {
	s := newService(t)
	seedModel(t, s)
	stub := &stubArtifacts{}
	s.Artifacts = stub

	pack, err := s.Generate(context.Background(), "model_a", "auditor")
	require.NoError(t, err)

	key := fmt.Sprintf("evidence_packs/%s.zip", pack.EvidencePackID)
	assert.Equal(t, "http://artifacts.local/"+key, pack.ZipURL)
	assert.Equal(t, pack.ZipPath, stub.uploads[key])
}

func TestListNewestFirst(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Packs.Append(jsonfile.Record{
		"evidence_pack_id": "pack_old", "created_at": "2024-01-01T00:00:00Z",
	}))
	require.NoError(t, s.Packs.Append(jsonfile.Record{
		"evidence_pack_id": "pack_new", "created_at": "2024-02-01T00:00:00Z",
	}))

	out, err := s.List()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "pack_new", out[0]["evidence_pack_id"])
}

func TestFindMissingPack(t *testing.T) {
	s := newService(t)
	_, err := s.Find("pack_missing")
	assert.ErrorIs(t, err, jsonfile.ErrNotFound)
}

func TestRenderPhilosophyScopeMatching(t *testing.T) {
	model := jsonfile.Record{
		"model_id":         "model_a",
		"business_domain":  "P&C_Personal",
		"line_of_business": "Personal Auto",
	}
	philosophies := []jsonfile.Record{
		{"scope": "org", "scope_ref": "enterprise"},
		{"scope": "line_of_business", "scope_ref": "Personal Auto"},
		{"scope": "line_of_business", "scope_ref": "Homeowners"},
		{"scope": "model", "scope_ref": "model_a"},
	}
	text := renderPhilosophy(model, philosophies)
	assert.Contains(t, text, "Applicable philosophies: 3")
	assert.NotContains(t, text, "Homeowners")
}
