package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appaudit "github.com/insuregov/governance/internal/application/audit"
	appcontrols "github.com/insuregov/governance/internal/application/controls"
	appevals "github.com/insuregov/governance/internal/application/evaluations"
	appevidence "github.com/insuregov/governance/internal/application/evidence"
	appphilosophy "github.com/insuregov/governance/internal/application/philosophy"
	appregistry "github.com/insuregov/governance/internal/application/registry"
	apprisk "github.com/insuregov/governance/internal/application/risk"
	"github.com/insuregov/governance/internal/infra/jsonfile"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	clock := fixedClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

	models := jsonfile.NewDocumentStore(filepath.Join(dir, "models.json"))
	catalog := jsonfile.NewDocumentStore(filepath.Join(dir, "controls.json"))
	lineage := jsonfile.NewEventLog(filepath.Join(dir, "lineage.ndjson"))
	controlEvals := jsonfile.NewEventLog(filepath.Join(dir, "control_evaluations.ndjson"))
	explainability := jsonfile.NewEventLog(filepath.Join(dir, "explainability.ndjson"))
	bias := jsonfile.NewEventLog(filepath.Join(dir, "bias.ndjson"))
	drift := jsonfile.NewEventLog(filepath.Join(dir, "drift.ndjson"))
	rag := jsonfile.NewEventLog(filepath.Join(dir, "rag_evaluations.ndjson"))
	risk := jsonfile.NewEventLog(filepath.Join(dir, "risk_assessments.ndjson"))
	philosophy := jsonfile.NewEventLog(filepath.Join(dir, "governance_philosophy.ndjson"))
	auditLog := jsonfile.NewEventLog(filepath.Join(dir, "audit_log.ndjson"))
	packs := jsonfile.NewEventLog(filepath.Join(dir, "evidence_packs.ndjson"))

	auditSvc := appaudit.NewLogger(auditLog, clock)

	handler := NewRouter(Deps{
		Registry: &appregistry.Service{Models: models, Lineage: lineage, Audit: auditSvc, Clock: clock},
		Controls: &appcontrols.Service{
			Catalog: catalog, Evaluations: controlEvals, Models: models, Audit: auditSvc, Clock: clock,
		},
		Evals: &appevals.Service{
			Models: models, ControlEvals: controlEvals, Explainability: explainability,
			Drift: drift, Bias: bias, RAG: rag, Risk: risk, Audit: auditSvc, Clock: clock,
		},
		Risk: &apprisk.Service{
			Models: models, ControlEvals: controlEvals, Bias: bias,
			Explainability: explainability, Drift: drift, Clock: clock,
		},
		Philosophy: &appphilosophy.Service{Log: philosophy, Audit: auditSvc, Clock: clock},
		Evidence: &appevidence.Service{
			Models: models, Controls: catalog, Lineage: lineage, ControlEvals: controlEvals,
			Explainability: explainability, Bias: bias, Drift: drift, RAG: rag, Risk: risk,
			Philosophy: philosophy, AuditLog: auditLog, Packs: packs,
			Audit: auditSvc, Clock: clock,
			PacksDir: filepath.Join(dir, "artifacts", "evidence_packs"),
		},
		Audit:        auditSvc,
		DataDir:      dir,
		ArtifactsDir: dir,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

const fraudModelBody = `{
	"name": "Claims Fraud Detector",
	"version": "1.0.0",
	"model_type": "classifier",
	"business_domain": "P&C_Personal",
	"line_of_business": "Personal Auto",
	"use_case_category": "Fraud",
	"deployment_environment": "dev",
	"jurisdictions": ["CA"]
}`

func TestCreateAndGetModel(t *testing.T) {
	srv := newTestServer(t)

	resp, created := postJSON(t, srv, "/api/v1/models", fraudModelBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	modelID, _ := created["model_id"].(string)
	assert.True(t, strings.HasPrefix(modelID, "model_"))
	assert.Equal(t, "draft", created["governance_status"])

	var fetched map[string]any
	resp = getJSON(t, srv, "/api/v1/models/"+modelID, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Claims Fraud Detector", fetched["name"])
}

func TestCreateModelRejectsInvalidEnum(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := postJSON(t, srv, "/api/v1/models",
		strings.Replace(fraudModelBody, "classifier", "neural_oracle", 1))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetModelNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp := getJSON(t, srv, "/api/v1/models/model_missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestControlsCatalogSeeded(t *testing.T) {
	srv := newTestServer(t)

	var controls []map[string]any
	resp := getJSON(t, srv, "/api/v1/controls", &controls)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, controls)

	ids := make([]string, 0, len(controls))
	for _, c := range controls {
		ids = append(ids, c["control_id"].(string))
	}
	assert.Contains(t, ids, "NAIC-AI-01")
}

func TestUpdateControlWithoutFields(t *testing.T) {
	srv := newTestServer(t)
	getJSON(t, srv, "/api/v1/controls", nil) // seeds the catalog

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/controls/NAIC-AI-01", strings.NewReader("{}"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRiskScoreEndpoint(t *testing.T) {
	srv := newTestServer(t)

	_, created := postJSON(t, srv, "/api/v1/models", fraudModelBody)
	modelID := created["model_id"].(string)

	resp, assessment := postJSON(t, srv, "/api/v1/models/"+modelID+"/risk-score", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 37.0, assessment["risk_score"])
	assert.Equal(t, "medium", assessment["risk_level"])

	var recorded []map[string]any
	resp = getJSON(t, srv, "/api/v1/models/"+modelID+"/risk-assessments", &recorded)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, recorded, 1)
	assert.Equal(t, "medium", recorded[0]["risk_level"])
}

func TestRiskScoreUnknownModel(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := postJSON(t, srv, "/api/v1/models/model_missing/risk-score", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuditLogEndpoint(t *testing.T) {
	srv := newTestServer(t)

	_, created := postJSON(t, srv, "/api/v1/models", fraudModelBody)
	modelID := created["model_id"].(string)

	var entries []map[string]any
	resp := getJSON(t, srv, "/api/v1/audit-log?model_id="+modelID, &entries)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, entries)
	assert.Equal(t, "create_model", entries[0]["action_type"])
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var health map[string]any
	resp := getJSON(t, srv, "/health", &health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health["status"])

	resp = getJSON(t, srv, "/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
