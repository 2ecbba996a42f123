package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appaudit "github.com/insuregov/governance/internal/application/audit"
	appcontrols "github.com/insuregov/governance/internal/application/controls"
	appevals "github.com/insuregov/governance/internal/application/evaluations"
	appevidence "github.com/insuregov/governance/internal/application/evidence"
	appphilosophy "github.com/insuregov/governance/internal/application/philosophy"
	appregistry "github.com/insuregov/governance/internal/application/registry"
	apprisk "github.com/insuregov/governance/internal/application/risk"
	domai "github.com/insuregov/governance/internal/domain/ai"
	domcontrols "github.com/insuregov/governance/internal/domain/controls"
	domevals "github.com/insuregov/governance/internal/domain/evaluations"
	domphilosophy "github.com/insuregov/governance/internal/domain/philosophy"
	domregistry "github.com/insuregov/governance/internal/domain/registry"
	domrisk "github.com/insuregov/governance/internal/domain/risk"
	"github.com/insuregov/governance/internal/infra/jsonfile"
	"github.com/insuregov/governance/internal/middleware"
)

type Router struct {
	registrySvc   *appregistry.Service
	controlsSvc   *appcontrols.Service
	evalsSvc      *appevals.Service
	riskSvc       *apprisk.Service
	philosophySvc *appphilosophy.Service
	evidenceSvc   *appevidence.Service
	auditSvc      *appaudit.Logger
}

// Deps carries everything the router serves.
type Deps struct {
	Registry   *appregistry.Service
	Controls   *appcontrols.Service
	Evals      *appevals.Service
	Risk       *apprisk.Service
	Philosophy *appphilosophy.Service
	Evidence   *appevidence.Service
	Audit      *appaudit.Logger

	DataDir      string
	ArtifactsDir string
}

func NewRouter(deps Deps) http.Handler {
	r := &Router{
		registrySvc:   deps.Registry,
		controlsSvc:   deps.Controls,
		evalsSvc:      deps.Evals,
		riskSvc:       deps.Risk,
		philosophySvc: deps.Philosophy,
		evidenceSvc:   deps.Evidence,
		auditSvc:      deps.Audit,
	}
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"data_dir":      &middleware.DirHealthChecker{Path: deps.DataDir},
		"artifacts_dir": &middleware.DirHealthChecker{Path: deps.ArtifactsDir},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api/v1", func(rt chi.Router) {
		rt.Post("/models", r.wrap(r.handleCreateModel))
		rt.Get("/models", r.wrap(r.handleListModels))
		rt.Get("/models/{model_id}", r.wrap(r.handleGetModel))
		rt.Post("/models/{model_id}/lineage", r.wrap(r.handleAddLineage))
		rt.Get("/models/{model_id}/lineage", r.wrap(r.handleGetLineage))

		rt.Get("/controls", r.wrap(r.handleListControls))
		rt.Post("/controls", r.wrap(r.handleCreateControl))
		rt.Get("/controls/{control_id}", r.wrap(r.handleGetControl))
		rt.Put("/controls/{control_id}", r.wrap(r.handleUpdateControl))
		rt.Delete("/controls/{control_id}", r.wrap(r.handleDeleteControl))
		rt.Post("/models/{model_id}/controls/evaluations", r.wrap(r.handleRecordControlEvaluations))
		rt.Get("/models/{model_id}/controls/evaluations", r.wrap(r.handleListControlEvaluations))

		rt.Post("/models/{model_id}/explainability", r.wrap(r.handleAddExplainability))
		rt.Get("/models/{model_id}/explainability", r.wrap(r.handleListExplainability))
		rt.Post("/models/{model_id}/drift", r.wrap(r.handleAddDrift))
		rt.Get("/models/{model_id}/drift", r.wrap(r.handleListDrift))
		rt.Post("/models/{model_id}/bias", r.wrap(r.handleAddBias))
		rt.Get("/models/{model_id}/bias", r.wrap(r.handleListBias))
		rt.Post("/models/{model_id}/rag-evaluations", r.wrap(r.handleAddRAG))
		rt.Get("/models/{model_id}/rag-evaluations", r.wrap(r.handleListRAG))
		rt.Post("/models/{model_id}/risk-assessments", r.wrap(r.handleAddRiskAssessment))
		rt.Get("/models/{model_id}/risk-assessments", r.wrap(r.handleListRiskAssessments))
		rt.Post("/models/{model_id}/risk-score", r.wrap(r.handleRiskScore))
		rt.Get("/models/{model_id}/governance-summary", r.wrap(r.handleGovernanceSummary))

		rt.Post("/governance/philosophy", r.wrap(r.handleSavePhilosophy))
		rt.Get("/governance/philosophy", r.wrap(r.handleListPhilosophy))

		rt.Post("/models/{model_id}/evidence-packs", r.wrap(r.handleGenerateEvidencePack))
		rt.Get("/evidence-packs", r.wrap(r.handleListEvidencePacks))
		rt.Get("/evidence-packs/{evidence_pack_id}/download", r.wrap(r.handleDownloadEvidencePack))

		rt.Get("/audit-log", r.wrap(r.handleAuditLog))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// httpError forces a specific status code through wrap.
type httpError struct {
	code int
	err  error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(err error) error { return &httpError{code: http.StatusBadRequest, err: err} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var herr *httpError
			if errors.As(err, &herr) {
				http.Error(w, herr.Error(), herr.code)
				return
			}
			if errors.Is(err, jsonfile.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, jsonfile.ErrConflict) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			if errors.Is(err, jsonfile.ErrNoUpdates) {
				http.Error(w, "no updates provided", http.StatusBadRequest)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func statusMessage(w http.ResponseWriter, message string) error {
	return writeJSON(w, map[string]string{"status": "success", "message": message})
}

// POST /api/v1/models
func (r *Router) handleCreateModel(w http.ResponseWriter, req *http.Request) error {
	var body domregistry.Model
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := body.Validate(); err != nil {
		return badRequest(err)
	}
	model, err := r.registrySvc.Create(body)
	if err != nil {
		return err
	}
	return writeJSON(w, model)
}

// GET /api/v1/models?business_domain=&line_of_business=&use_case_category=&governance_status=&jurisdiction=
func (r *Router) handleListModels(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	models, err := r.registrySvc.List(appregistry.ListFilter{
		BusinessDomain:   q.Get("business_domain"),
		LineOfBusiness:   q.Get("line_of_business"),
		UseCaseCategory:  q.Get("use_case_category"),
		GovernanceStatus: q.Get("governance_status"),
		Jurisdiction:     q.Get("jurisdiction"),
	})
	if err != nil {
		return err
	}
	return writeJSON(w, models)
}

// GET /api/v1/models/{model_id}
func (r *Router) handleGetModel(w http.ResponseWriter, req *http.Request) error {
	model, err := r.registrySvc.Get(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, model)
}

// POST /api/v1/models/{model_id}/lineage
func (r *Router) handleAddLineage(w http.ResponseWriter, req *http.Request) error {
	var body domregistry.LineageEntry
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := r.registrySvc.AddLineage(chi.URLParam(req, "model_id"), body); err != nil {
		return err
	}
	return statusMessage(w, "Lineage snapshot added")
}

// GET /api/v1/models/{model_id}/lineage
func (r *Router) handleGetLineage(w http.ResponseWriter, req *http.Request) error {
	entries, err := r.registrySvc.GetLineage(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, entries)
}

// GET /api/v1/controls
func (r *Router) handleListControls(w http.ResponseWriter, req *http.Request) error {
	controls, err := r.controlsSvc.ListCatalog()
	if err != nil {
		return err
	}
	return writeJSON(w, controls)
}

// GET /api/v1/controls/{control_id}
func (r *Router) handleGetControl(w http.ResponseWriter, req *http.Request) error {
	control, err := r.controlsSvc.GetControl(chi.URLParam(req, "control_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, control)
}

// POST /api/v1/controls
func (r *Router) handleCreateControl(w http.ResponseWriter, req *http.Request) error {
	var body domcontrols.CatalogEntry
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := body.Validate(); err != nil {
		return badRequest(err)
	}
	control, err := r.controlsSvc.CreateControl(body)
	if err != nil {
		return err
	}
	return writeJSON(w, control)
}

// PUT /api/v1/controls/{control_id}
func (r *Router) handleUpdateControl(w http.ResponseWriter, req *http.Request) error {
	var body domcontrols.CatalogUpdate
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	control, err := r.controlsSvc.UpdateControl(chi.URLParam(req, "control_id"), body)
	if err != nil {
		return err
	}
	return writeJSON(w, control)
}

// DELETE /api/v1/controls/{control_id}
func (r *Router) handleDeleteControl(w http.ResponseWriter, req *http.Request) error {
	controlID := chi.URLParam(req, "control_id")
	if err := r.controlsSvc.DeleteControl(controlID); err != nil {
		return err
	}
	return statusMessage(w, fmt.Sprintf("Deleted control %s", controlID))
}

// POST /api/v1/models/{model_id}/controls/evaluations
func (r *Router) handleRecordControlEvaluations(w http.ResponseWriter, req *http.Request) error {
	var body []domcontrols.Evaluation
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	for i := range body {
		if err := body[i].Validate(); err != nil {
			return badRequest(err)
		}
	}
	if err := r.controlsSvc.RecordEvaluations(chi.URLParam(req, "model_id"), body); err != nil {
		return err
	}
	return statusMessage(w, fmt.Sprintf("Updated %d control evaluations", len(body)))
}

// GET /api/v1/models/{model_id}/controls/evaluations
func (r *Router) handleListControlEvaluations(w http.ResponseWriter, req *http.Request) error {
	evals, err := r.controlsSvc.ListEvaluations(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, evals)
}

// POST /api/v1/models/{model_id}/explainability
func (r *Router) handleAddExplainability(w http.ResponseWriter, req *http.Request) error {
	var body domevals.ExplainabilityEvaluation
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := body.Validate(); err != nil {
		return badRequest(err)
	}
	if err := r.evalsSvc.AddExplainability(chi.URLParam(req, "model_id"), body); err != nil {
		return err
	}
	return statusMessage(w, "Explainability evaluation added")
}

// GET /api/v1/models/{model_id}/explainability
func (r *Router) handleListExplainability(w http.ResponseWriter, req *http.Request) error {
	evals, err := r.evalsSvc.ListExplainability(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, evals)
}

// POST /api/v1/models/{model_id}/drift
func (r *Router) handleAddDrift(w http.ResponseWriter, req *http.Request) error {
	var body domevals.DriftEvaluation
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := body.Validate(); err != nil {
		return badRequest(err)
	}
	if err := r.evalsSvc.AddDrift(chi.URLParam(req, "model_id"), body); err != nil {
		return err
	}
	return statusMessage(w, "Drift evaluation added")
}

// GET /api/v1/models/{model_id}/drift
func (r *Router) handleListDrift(w http.ResponseWriter, req *http.Request) error {
	evals, err := r.evalsSvc.ListDrift(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, evals)
}

// POST /api/v1/models/{model_id}/bias
func (r *Router) handleAddBias(w http.ResponseWriter, req *http.Request) error {
	var body domevals.BiasEvaluation
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := body.Validate(); err != nil {
		return badRequest(err)
	}
	if err := r.evalsSvc.AddBias(chi.URLParam(req, "model_id"), body); err != nil {
		return err
	}
	return statusMessage(w, "Bias evaluation added")
}

// GET /api/v1/models/{model_id}/bias
func (r *Router) handleListBias(w http.ResponseWriter, req *http.Request) error {
	evals, err := r.evalsSvc.ListBias(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, evals)
}

// POST /api/v1/models/{model_id}/rag-evaluations
func (r *Router) handleAddRAG(w http.ResponseWriter, req *http.Request) error {
	var body domevals.RAGEvaluation
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := body.Validate(); err != nil {
		return badRequest(err)
	}
	if err := r.evalsSvc.AddRAG(chi.URLParam(req, "model_id"), body); err != nil {
		return err
	}
	return statusMessage(w, "RAG evaluation added")
}

// GET /api/v1/models/{model_id}/rag-evaluations
func (r *Router) handleListRAG(w http.ResponseWriter, req *http.Request) error {
	evals, err := r.evalsSvc.ListRAG(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, evals)
}

// POST /api/v1/models/{model_id}/risk-assessments
func (r *Router) handleAddRiskAssessment(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		RiskScore             float64  `json:"risk_score"`
		RiskLevel             string   `json:"risk_level"`
		PrimaryRiskDrivers    []string `json:"primary_risk_drivers"`
		BusinessImpactSummary string   `json:"business_impact_summary"`
		MitigationPlan        string   `json:"mitigation_plan"`
		ResidualRiskAccepted  bool     `json:"residual_risk_accepted"`
		ResidualRiskApprover  string   `json:"residual_risk_approver"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	assessment := domrisk.Assessment{
		RiskScore:             body.RiskScore,
		RiskLevel:             domrisk.Level(body.RiskLevel),
		PrimaryRiskDrivers:    body.PrimaryRiskDrivers,
		BusinessImpactSummary: body.BusinessImpactSummary,
		MitigationPlan:        body.MitigationPlan,
		ResidualRiskAccepted:  body.ResidualRiskAccepted,
		ResidualRiskApprover:  body.ResidualRiskApprover,
	}
	if err := r.evalsSvc.AddRiskAssessment(chi.URLParam(req, "model_id"), assessment); err != nil {
		return err
	}
	return statusMessage(w, "Risk assessment added")
}

// GET /api/v1/models/{model_id}/risk-assessments
func (r *Router) handleListRiskAssessments(w http.ResponseWriter, req *http.Request) error {
	assessments, err := r.evalsSvc.ListRiskAssessments(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, assessments)
}

// POST /api/v1/models/{model_id}/risk-score
// Computes a fresh composite assessment from current evaluation state and
// records it alongside manually submitted assessments.
func (r *Router) handleRiskScore(w http.ResponseWriter, req *http.Request) error {
	modelID := chi.URLParam(req, "model_id")
	assessment, err := r.riskSvc.Score(modelID)
	if err != nil {
		return err
	}
	if err := r.evalsSvc.AddRiskAssessment(modelID, *assessment); err != nil {
		return err
	}
	middleware.IncrementAssessments()
	return writeJSON(w, assessment)
}

// GET /api/v1/models/{model_id}/governance-summary
func (r *Router) handleGovernanceSummary(w http.ResponseWriter, req *http.Request) error {
	summary, err := r.evalsSvc.GovernanceSummary(chi.URLParam(req, "model_id"))
	if err != nil {
		return err
	}
	return writeJSON(w, summary)
}

// POST /api/v1/governance/philosophy?use_llm_to_fill_gaps=true
func (r *Router) handleSavePhilosophy(w http.ResponseWriter, req *http.Request) error {
	var body domphilosophy.Philosophy
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if err := body.Validate(); err != nil {
		return badRequest(err)
	}
	fillGaps, _ := strconv.ParseBool(req.URL.Query().Get("use_llm_to_fill_gaps"))
	if fillGaps {
		middleware.IncrementLLMCalls()
	}
	saved, err := r.philosophySvc.Save(req.Context(), body, fillGaps)
	if err != nil {
		return err
	}
	return writeJSON(w, saved)
}

// GET /api/v1/governance/philosophy?scope=&scope_ref=
func (r *Router) handleListPhilosophy(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	entries, err := r.philosophySvc.List(appphilosophy.ListFilter{
		Scope:    q.Get("scope"),
		ScopeRef: q.Get("scope_ref"),
	})
	if err != nil {
		return err
	}
	return writeJSON(w, entries)
}

// POST /api/v1/models/{model_id}/evidence-packs?created_by=
func (r *Router) handleGenerateEvidencePack(w http.ResponseWriter, req *http.Request) error {
	pack, err := r.evidenceSvc.Generate(req.Context(),
		chi.URLParam(req, "model_id"), req.URL.Query().Get("created_by"))
	if err != nil {
		return err
	}
	middleware.IncrementEvidencePacks()
	return writeJSON(w, pack)
}

// GET /api/v1/evidence-packs
func (r *Router) handleListEvidencePacks(w http.ResponseWriter, req *http.Request) error {
	packs, err := r.evidenceSvc.List()
	if err != nil {
		return err
	}
	return writeJSON(w, packs)
}

// GET /api/v1/evidence-packs/{evidence_pack_id}/download
func (r *Router) handleDownloadEvidencePack(w http.ResponseWriter, req *http.Request) error {
	packID := chi.URLParam(req, "evidence_pack_id")
	pack, err := r.evidenceSvc.Find(packID)
	if err != nil {
		return err
	}
	zipPath, _ := pack["zip_path"].(string)
	if zipPath == "" {
		return jsonfile.ErrNotFound
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=evidence_pack_%s.zip", packID))
	w.Header().Set("Content-Type", "application/zip")
	http.ServeFile(w, req, zipPath)
	return nil
}

// GET /api/v1/audit-log?model_id=&entity_type=&action_type=&limit=
func (r *Router) handleAuditLog(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	entries, err := r.auditSvc.Query(appaudit.QueryFilter{
		ModelID:    q.Get("model_id"),
		EntityType: q.Get("entity_type"),
		ActionType: q.Get("action_type"),
		Limit:      limit,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, entries)
}
