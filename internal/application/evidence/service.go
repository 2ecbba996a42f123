package evidence

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/insuregov/governance/internal/application"
	appaudit "github.com/insuregov/governance/internal/application/audit"
	"github.com/insuregov/governance/internal/domain/audit"
	domain "github.com/insuregov/governance/internal/domain/evidence"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

// Sections included in every generated pack, in archive order.
var packSections = []string{
	"model", "lineage", "controls", "explainability",
	"bias", "drift", "rag", "risk", "philosophy", "audit_summary",
}

// Service builds audit-ready evidence packs: one markdown file per
// governance area, zipped under PacksDir, with metadata appended to the
// packs log and the archive optionally mirrored to an artifact store.
type Service struct {
	Models         *jsonfile.DocumentStore
	Controls       *jsonfile.DocumentStore
	Lineage        *jsonfile.EventLog
	ControlEvals   *jsonfile.EventLog
	Explainability *jsonfile.EventLog
	Bias           *jsonfile.EventLog
	Drift          *jsonfile.EventLog
	RAG            *jsonfile.EventLog
	Risk           *jsonfile.EventLog
	Philosophy     *jsonfile.EventLog
	AuditLog       *jsonfile.EventLog
	Packs          *jsonfile.EventLog

	Artifacts domain.ArtifactStore // nil keeps packs local only
	Audit     *appaudit.Logger
	Clock     application.Clock
	PacksDir  string
}

// NewPackID generates an identifier like pack_9b2d4c1e07aa.
func NewPackID() string {
	return "pack_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// Generate builds the full evidence pack for a model. Fails with
// jsonfile.ErrNotFound for unknown models; any artifact upload failure is
// returned after the pack has been written and recorded locally.
func (s *Service) Generate(ctx context.Context, modelID, createdBy string) (domain.Pack, error) {
	model, err := s.Models.FindByID("model_id", modelID)
	if err != nil {
		return domain.Pack{}, err
	}
	if createdBy == "" {
		createdBy = "system"
	}

	pack := domain.Pack{
		EvidencePackID:       NewPackID(),
		ModelID:              modelID,
		CreatedAt:            s.Clock.Now(),
		CreatedBy:            createdBy,
		JurisdictionsCovered: stringList(model, "jurisdictions"),
		IncludedSections:     packSections,
	}

	packDir := filepath.Join(s.PacksDir, pack.EvidencePackID)
	if err := os.MkdirAll(packDir, 0o755); err != nil {
		return domain.Pack{}, fmt.Errorf("create pack dir: %w", err)
	}

	files, err := s.renderSections(model)
	if err != nil {
		return domain.Pack{}, err
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(packDir, name), []byte(content), 0o644); err != nil {
			return domain.Pack{}, fmt.Errorf("write %s: %w", name, err)
		}
	}

	zipPath := filepath.Join(packDir, "evidence_pack.zip")
	if err := zipMarkdown(packDir, zipPath); err != nil {
		return domain.Pack{}, err
	}
	pack.ZipPath = zipPath

	rec, err := jsonfile.ToRecord(pack)
	if err != nil {
		return domain.Pack{}, err
	}
	if err := s.Packs.Append(rec); err != nil {
		return domain.Pack{}, err
	}
	if err := s.Audit.Record(audit.Entry{
		ActionType: "generate_evidence_pack",
		EntityType: "evidence_pack",
		EntityID:   pack.EvidencePackID,
		ModelID:    modelID,
		NewValue:   rec,
	}); err != nil {
		return domain.Pack{}, err
	}

	if s.Artifacts != nil {
		key := fmt.Sprintf("evidence_packs/%s.zip", pack.EvidencePackID)
		url, err := s.Artifacts.Upload(ctx, zipPath, key)
		if err != nil {
			return pack, fmt.Errorf("upload evidence pack: %w", err)
		}
		pack.ZipURL = url
	}
	return pack, nil
}

func (s *Service) renderSections(model jsonfile.Record) (map[string]string, error) {
	modelID := getString(model, "model_id")

	lineage, err := s.Lineage.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	controls, err := s.Controls.Load()
	if err != nil {
		return nil, err
	}
	controlEvals, err := s.ControlEvals.AllForEntity("model_id", modelID, "last_updated")
	if err != nil {
		return nil, err
	}
	explainability, err := s.Explainability.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	bias, err := s.Bias.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	drift, err := s.Drift.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	rag, err := s.RAG.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	risk, err := s.Risk.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	philosophies, err := s.Philosophy.ReadAll()
	if err != nil {
		return nil, err
	}
	auditEntries, err := s.AuditLog.AllForEntity("model_id", modelID, "")
	if err != nil {
		return nil, err
	}
	if len(auditEntries) > 50 {
		auditEntries = auditEntries[:50]
	}

	return map[string]string{
		"model.md":          renderModel(model, s.Clock.Now()),
		"lineage.md":        renderLineage(lineage),
		"controls.md":       renderControls(controls, controlEvals),
		"explainability.md": renderExplainability(explainability),
		"bias.md":           renderBias(bias),
		"drift.md":          renderDrift(drift),
		"rag.md":            renderRAG(rag),
		"risk.md":           renderRisk(risk),
		"philosophy.md":     renderPhilosophy(model, philosophies),
		"audit_summary.md":  renderAuditSummary(auditEntries),
	}, nil
}

// List returns all recorded packs, newest first.
func (s *Service) List() ([]jsonfile.Record, error) {
	records, err := s.Packs.ReadAll()
	if err != nil {
		return nil, err
	}
	jsonfile.SortDescending(records, "created_at")
	return records, nil
}

// Find returns the metadata for one pack by id.
func (s *Service) Find(packID string) (jsonfile.Record, error) {
	packs, err := s.Packs.Filter(jsonfile.Record{"evidence_pack_id": packID})
	if err != nil {
		return nil, err
	}
	if len(packs) == 0 {
		return nil, jsonfile.ErrNotFound
	}
	return packs[0], nil
}

// zipMarkdown archives the .md files of dir into zipPath, flat, deflated.
func zipMarkdown(dir, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	names, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return err
	}
	for _, name := range names {
		w, err := zw.Create(filepath.Base(name))
		if err != nil {
			return err
		}
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("zip %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return nil
}
