package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lllllllleong/tmpcompliance/internal/document"
	"github.com/Lllllllleong/tmpcompliance/internal/keywords"
	"github.com/Lllllllleong/tmpcompliance/internal/models"
	"github.com/Lllllllleong/tmpcompliance/internal/ocr"
	"github.com/Lllllllleong/tmpcompliance/internal/storage"
)

// ReportContentType is the MIME type of stored reports.
const ReportContentType = "application/pdf"

// DefaultPageTimeout bounds rendering plus recognition of a single page.
const DefaultPageTimeout = 2 * time.Minute

// AnalyzerConfig holds the tunables of an analysis.
type AnalyzerConfig struct {
	Keywords    keywords.Config
	DPI         int
	Languages   []string
	PageTimeout time.Duration
	Layout      ReportLayout
}

// Analyzer runs the scan pipeline: open, render, recognize, classify, report.
type Analyzer struct {
	reports  storage.Store
	renderer document.Renderer
	engine   ocr.Engine
	recorder Recorder
	notifier Notifier
	config   AnalyzerConfig
	now      func() time.Time
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithRecorder attaches an audit recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

// WithNotifier attaches a completion notifier.
func WithNotifier(n Notifier) Option {
	return func(a *Analyzer) { a.notifier = n }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer validates the configuration and fills in defaults for any
// zero-valued tunables.
func NewAnalyzer(reports storage.Store, renderer document.Renderer, engine ocr.Engine, config AnalyzerConfig, opts ...Option) (*Analyzer, error) {
	if reports == nil || renderer == nil || engine == nil {
		return nil, errors.New("reports store, renderer and engine are required")
	}
	if err := config.Keywords.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keyword configuration: %w", err)
	}
	if config.DPI <= 0 {
		config.DPI = document.DefaultDPI
	}
	if config.Layout == (ReportLayout{}) {
		config.Layout = DefaultReportLayout()
	}

	a := &Analyzer{
		reports:  reports,
		renderer: renderer,
		engine:   engine,
		recorder: NopRecorder{},
		notifier: NopNotifier{},
		config:   config,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	slog.Info("Analyzer initialized.", "renderer", renderer.Name(), "engine", engine.Name(), "dpi", config.DPI)
	return a, nil
}

// AnalyzeRequest is one document submitted for analysis. An empty
// ReportName gets a generated, unique name.
type AnalyzeRequest struct {
	Data       []byte
	Filename   string
	ReportName string
}

// AnalyzeResult is the outcome of a successful analysis.
type AnalyzeResult struct {
	AnalysisID     string
	Filename       string
	ReportName     string
	PageCount      int
	Text           string
	Classification models.ClassificationResult
	Report         []byte
}

// ReportNameFor derives the default report name for an analysis.
func ReportNameFor(analysisID string) string {
	return fmt.Sprintf("compliance_report_%s.pdf", analysisID)
}

// Analyze processes one document start to finish. The report is stored only
// after every page has been recognized; on any failure nothing is written.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	analysisID := uuid.NewString()
	reportName := req.ReportName
	if reportName == "" {
		reportName = ReportNameFor(analysisID)
	}
	reportName, err := storage.SafeName(reportName)
	if err != nil {
		return nil, fmt.Errorf("report name: %w", err)
	}

	logCtx := slog.With("analysisId", analysisID, "filename", req.Filename, "reportName", reportName)
	logCtx.Info("Starting analysis.", "bytes", len(req.Data))

	fileHash := calculateHash(req.Data)
	if err := a.recorder.Start(ctx, analysisID, models.Analysis{
		FileHash:         fileHash,
		OriginalFilename: req.Filename,
		ReportName:       reportName,
		Status:           models.StatusValidating,
		CreatedAt:        a.now(),
	}); err != nil {
		logCtx.Warn("Failed to create analysis record.", "error", err)
	}

	doc, err := document.Open(req.Data)
	if err != nil {
		return nil, a.handleError(ctx, logCtx, analysisID, ErrDocumentOpen, "failed to open document", err)
	}
	logCtx = logCtx.With("pageCount", doc.PageCount)
	if err := a.recorder.MarkRecognizing(ctx, analysisID, doc.PageCount); err != nil {
		logCtx.Warn("Failed to update analysis record.", "error", err)
	}

	text, err := a.recognize(ctx, logCtx, doc)
	if err != nil {
		kind := ErrRecognition
		if errors.Is(err, document.ErrInvalidDocument) {
			kind = ErrDocumentOpen
		}
		return nil, a.handleError(ctx, logCtx, analysisID, kind, "failed to recognize document text", err)
	}

	classification := Classify(text, a.config.Keywords)
	logCtx.Info("Document classified.", "isTmp", classification.IsTMP, "matched", len(classification.Matched), "score", classification.Score)

	timestamp := a.now()
	reportText := FormatReport(ReportMeta{Timestamp: timestamp, Filename: req.Filename}, classification)
	report, err := RenderReport(reportText, a.config.Layout, timestamp)
	if err != nil {
		return nil, a.handleError(ctx, logCtx, analysisID, ErrStorage, "failed to render report", err)
	}
	if err := a.reports.Put(ctx, reportName, report, ReportContentType); err != nil {
		return nil, a.handleError(ctx, logCtx, analysisID, ErrStorage, "failed to store report", err)
	}

	if err := a.recorder.Complete(ctx, analysisID, classification); err != nil {
		logCtx.Warn("Failed to complete analysis record.", "error", err)
	}
	if err := a.notifier.ReportReady(ctx, models.ReportReadyPayload{
		AnalysisID: analysisID,
		Filename:   req.Filename,
		ReportName: reportName,
		IsTMP:      classification.IsTMP,
		Score:      classification.Score,
	}); err != nil {
		logCtx.Warn("Failed to hand off report.", "error", err)
	}

	logCtx.Info("Analysis complete.")
	return &AnalyzeResult{
		AnalysisID:     analysisID,
		Filename:       req.Filename,
		ReportName:     reportName,
		PageCount:      doc.PageCount,
		Text:           text,
		Classification: classification,
		Report:         report,
	}, nil
}

// recognize renders and recognizes every page in order. Each page's text is
// followed by a newline.
func (a *Analyzer) recognize(ctx context.Context, logCtx *slog.Logger, doc *document.Document) (string, error) {
	pages, err := a.renderer.Open(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("open renderer: %w", err)
	}
	defer pages.Close()

	var sb strings.Builder
	for i := 0; i < doc.PageCount; i++ {
		text, err := a.recognizePage(ctx, pages, i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		logCtx.Debug("Page recognized.", "page", i+1, "chars", len(text))
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (a *Analyzer) recognizePage(ctx context.Context, pages document.Pages, page int) (string, error) {
	if a.config.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.PageTimeout)
		defer cancel()
	}

	img, err := pages.Render(ctx, page, float64(a.config.DPI))
	if err != nil {
		return "", err
	}
	in, err := ocr.InputFromImage(page, img, ocr.WithDPI(a.config.DPI), ocr.WithLanguages(a.config.Languages...))
	if err != nil {
		return "", err
	}
	res, err := a.engine.Recognize(ctx, in)
	if err != nil {
		return "", err
	}
	return res.PlainText, nil
}

// handleError logs the failure, marks the record failed and returns an error
// that matches both kind and the underlying cause.
func (a *Analyzer) handleError(ctx context.Context, logCtx *slog.Logger, analysisID string, kind error, message string, originalErr error) error {
	fullErr := fmt.Errorf("%w: %s: %w", kind, message, originalErr)
	logCtx.Error(message, "error", originalErr)
	if err := a.recorder.Fail(ctx, analysisID, fullErr.Error()); err != nil {
		logCtx.Error("CRITICAL: Failed to mark analysis record FAILED after a processing error.", "updateError", err)
	}
	return fullErr
}

func calculateHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
