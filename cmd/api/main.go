package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/insuregov/governance/internal/application"
	appaudit "github.com/insuregov/governance/internal/application/audit"
	appcontrols "github.com/insuregov/governance/internal/application/controls"
	appevals "github.com/insuregov/governance/internal/application/evaluations"
	appevidence "github.com/insuregov/governance/internal/application/evidence"
	appphilosophy "github.com/insuregov/governance/internal/application/philosophy"
	appregistry "github.com/insuregov/governance/internal/application/registry"
	apprisk "github.com/insuregov/governance/internal/application/risk"
	"github.com/insuregov/governance/internal/config"
	domevidence "github.com/insuregov/governance/internal/domain/evidence"
	aiclient "github.com/insuregov/governance/internal/infra/ai/openai"
	"github.com/insuregov/governance/internal/infra/httpserver"
	"github.com/insuregov/governance/internal/infra/jsonfile"
	minioStore "github.com/insuregov/governance/internal/infra/storage"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		log.Printf("config %s not found, using defaults", path)
		cfg = config.Default()
	} else if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := os.MkdirAll(cfg.EvidencePacksDir(), 0o755); err != nil {
		log.Fatalf("create artifacts dir: %v", err)
	}

	// document stores
	models := jsonfile.NewDocumentStore(cfg.DataFile("models.json"))
	catalog := jsonfile.NewDocumentStore(cfg.DataFile("controls.json"))

	// event logs
	lineage := jsonfile.NewEventLog(cfg.DataFile("lineage.ndjson"))
	controlEvals := jsonfile.NewEventLog(cfg.DataFile("control_evaluations.ndjson"))
	explainability := jsonfile.NewEventLog(cfg.DataFile("explainability.ndjson"))
	bias := jsonfile.NewEventLog(cfg.DataFile("bias.ndjson"))
	drift := jsonfile.NewEventLog(cfg.DataFile("drift.ndjson"))
	rag := jsonfile.NewEventLog(cfg.DataFile("rag_evaluations.ndjson"))
	riskLog := jsonfile.NewEventLog(cfg.DataFile("risk_assessments.ndjson"))
	philosophyLog := jsonfile.NewEventLog(cfg.DataFile("governance_philosophy.ndjson"))
	auditLog := jsonfile.NewEventLog(cfg.DataFile("audit_log.ndjson"))
	packs := jsonfile.NewEventLog(cfg.DataFile("evidence_packs.ndjson"))

	clock := application.SystemClock{}
	auditSvc := appaudit.NewLogger(auditLog, clock)

	registrySvc := &appregistry.Service{
		Models:  models,
		Lineage: lineage,
		Audit:   auditSvc,
		Clock:   clock,
	}
	controlsSvc := &appcontrols.Service{
		Catalog:     catalog,
		Evaluations: controlEvals,
		Models:      models,
		Audit:       auditSvc,
		Clock:       clock,
	}
	evalsSvc := &appevals.Service{
		Models:         models,
		ControlEvals:   controlEvals,
		Explainability: explainability,
		Drift:          drift,
		Bias:           bias,
		RAG:            rag,
		Risk:           riskLog,
		Audit:          auditSvc,
		Clock:          clock,
	}
	riskSvc := &apprisk.Service{
		Models:         models,
		ControlEvals:   controlEvals,
		Bias:           bias,
		Explainability: explainability,
		Drift:          drift,
		Clock:          clock,
	}

	philosophySvc := &appphilosophy.Service{
		Log:   philosophyLog,
		Audit: auditSvc,
		Clock: clock,
	}
	if cfg.OpenAI.APIKey != "" {
		philosophySvc.AI = aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		log.Printf("llm gap filling enabled (model=%s)", cfg.OpenAI.Model)
	}

	var artifacts domevidence.ArtifactStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		artifacts = store
		log.Printf("artifact mirroring enabled (bucket=%s)", cfg.Minio.BucketName)
	}

	evidenceSvc := &appevidence.Service{
		Models:         models,
		Controls:       catalog,
		Lineage:        lineage,
		ControlEvals:   controlEvals,
		Explainability: explainability,
		Bias:           bias,
		Drift:          drift,
		RAG:            rag,
		Risk:           riskLog,
		Philosophy:     philosophyLog,
		AuditLog:       auditLog,
		Packs:          packs,
		Artifacts:      artifacts,
		Audit:          auditSvc,
		Clock:          clock,
		PacksDir:       cfg.EvidencePacksDir(),
	}

	if err := controlsSvc.EnsureCatalog(); err != nil {
		log.Fatalf("seed control catalog: %v", err)
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	mux.Mount("/", httpserver.NewRouter(httpserver.Deps{
		Registry:     registrySvc,
		Controls:     controlsSvc,
		Evals:        evalsSvc,
		Risk:         riskSvc,
		Philosophy:   philosophySvc,
		Evidence:     evidenceSvc,
		Audit:        auditSvc,
		DataDir:      cfg.Data.Dir,
		ArtifactsDir: cfg.Data.ArtifactsDir,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s (data=%s artifacts=%s)", addr, cfg.Data.Dir, cfg.Data.ArtifactsDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
