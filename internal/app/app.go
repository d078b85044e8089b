// Package app wires configuration into a ready-to-use analyzer and its
// stores. Every entry point builds its dependencies through New.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	executions "cloud.google.com/go/workflows/executions/apiv1"

	"github.com/Lllllllleong/tmpcompliance/internal/config"
	"github.com/Lllllllleong/tmpcompliance/internal/document"
	"github.com/Lllllllleong/tmpcompliance/internal/gcp"
	"github.com/Lllllllleong/tmpcompliance/internal/ocr"
	"github.com/Lllllllleong/tmpcompliance/internal/ocr/tesseract"
	"github.com/Lllllllleong/tmpcompliance/internal/ocr/vertex"
	"github.com/Lllllllleong/tmpcompliance/internal/services"
	"github.com/Lllllllleong/tmpcompliance/internal/storage"
)

// App holds the analyzer and the upload and report stores.
type App struct {
	Config        *config.Config
	Analyzer      *services.Analyzer
	Uploads       storage.Store
	Reports       storage.Store
	StorageClient *gcs.Client

	closers []func() error
}

// New builds every client the configuration asks for. On error, anything
// already created is closed.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if err := a.initStores(ctx); err != nil {
		return nil, err
	}

	renderer, err := newRenderer(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := a.newEngine(ctx)
	if err != nil {
		return nil, err
	}

	var opts []services.Option
	if cfg.FirestoreCollection != "" {
		client, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID, cfg.FirestoreDatabase)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		opts = append(opts, services.WithRecorder(services.NewFirestoreRecorder(client, cfg.FirestoreCollection)))
	}
	if cfg.WorkflowID != "" {
		client, err := executions.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create Workflows Executions client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		opts = append(opts, services.WithNotifier(services.NewWorkflowNotifier(client, cfg.ProjectID, cfg.WorkflowLocation, cfg.WorkflowID)))
	}

	a.Analyzer, err = services.NewAnalyzer(a.Reports, renderer, engine, services.AnalyzerConfig{
		Keywords:    cfg.Keywords,
		DPI:         cfg.RenderDPI,
		Languages:   cfg.OCRLanguages,
		PageTimeout: cfg.OCRPageTimeout,
	}, opts...)
	if err != nil {
		return nil, err
	}

	slog.Info("Application initialized.",
		"storageBackend", cfg.StorageBackend,
		"renderer", cfg.Renderer,
		"ocrEngine", cfg.OCREngine,
		"firestore", cfg.FirestoreCollection != "",
		"workflow", cfg.WorkflowID,
	)
	return a, nil
}

func (a *App) initStores(ctx context.Context) error {
	cfg := a.Config
	if cfg.StorageBackend == config.BackendLocal {
		a.Uploads = storage.NewLocalStore(cfg.UploadDir)
		a.Reports = storage.NewLocalStore(cfg.ReportDir)
		return nil
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create Storage client: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.StorageClient = client
	a.Uploads = storage.NewGCSStore(client, cfg.UploadBucket, "")
	a.Reports = storage.NewGCSStore(client, cfg.ReportBucket, cfg.ReportPrefix)
	return nil
}

func newRenderer(cfg *config.Config) (document.Renderer, error) {
	switch cfg.Renderer {
	case config.RendererPoppler:
		if err := document.CheckPopplerAvailable(); err != nil {
			return nil, err
		}
		return document.NewPopplerRenderer(), nil
	default:
		return document.NewFitzRenderer(), nil
	}
}

func (a *App) newEngine(ctx context.Context) (ocr.Engine, error) {
	cfg := a.Config
	if cfg.OCREngine != config.EngineVertex {
		return tesseract.New(), nil
	}
	client, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexAIRegion, cfg.VertexModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	return vertex.New(client), nil
}

// Submit keeps a copy of the upload under its sanitized filename, replacing
// any earlier upload of the same name, then analyzes it.
func (a *App) Submit(ctx context.Context, req services.AnalyzeRequest) (*services.AnalyzeResult, error) {
	name, err := storage.SafeName(req.Filename)
	if err != nil {
		return nil, fmt.Errorf("upload filename: %w", err)
	}
	if err := a.Uploads.Put(ctx, name, req.Data, "application/pdf"); err != nil {
		slog.Error("Failed to store upload.", "filename", name, "error", err)
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	req.Filename = name
	return a.Analyzer.Analyze(ctx, req)
}

// Close releases every client in reverse creation order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// ReportNameForUpload names the report written for a stored upload:
// "plans/site.pdf" becomes "site_compliance_report.pdf".
func ReportNameForUpload(objectName string) string {
	base := path.Base(objectName)
	return strings.TrimSuffix(base, path.Ext(base)) + "_compliance_report.pdf"
}
