// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lllllllleong/tmpcompliance/internal/gcp"
	"github.com/Lllllllleong/tmpcompliance/internal/keywords"
)

const (
	BackendLocal = "local"
	BackendGCS   = "gcs"

	RendererFitz    = "fitz"
	RendererPoppler = "poppler"

	EngineTesseract = "tesseract"
	EngineVertex    = "vertex"
)

// Config holds all configuration shared by the entry points.
type Config struct {
	Port        string
	MaxUploadMB int

	StorageBackend string
	UploadDir      string
	ReportDir      string
	UploadBucket   string
	ReportBucket   string
	ReportPrefix   string

	KeywordsFile string
	Keywords     keywords.Config

	Renderer       string
	RenderDPI      int
	OCREngine      string
	OCRLanguages   []string
	OCRPageTimeout time.Duration

	ProjectID           string
	VertexAIRegion      string
	VertexModel         string
	FirestoreDatabase   string
	FirestoreCollection string
	WorkflowID          string
	WorkflowLocation    string
}

// Load reads and validates the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        gcp.GetEnv("PORT", "8080"),
		MaxUploadMB: gcp.GetEnvInt("MAX_UPLOAD_MB", 50),

		StorageBackend: gcp.GetEnv("STORAGE_BACKEND", BackendLocal),
		UploadDir:      gcp.GetEnv("UPLOAD_DIR", "uploads"),
		ReportDir:      gcp.GetEnv("REPORT_DIR", "reports"),
		UploadBucket:   gcp.GetEnv("UPLOAD_BUCKET", ""),
		ReportBucket:   gcp.GetEnv("REPORT_BUCKET", ""),
		ReportPrefix:   gcp.GetEnv("REPORT_PREFIX", ""),

		KeywordsFile: gcp.GetEnv("KEYWORDS_FILE", ""),

		Renderer:       gcp.GetEnv("RENDERER", RendererFitz),
		RenderDPI:      gcp.GetEnvInt("RENDER_DPI", 300),
		OCREngine:      gcp.GetEnv("OCR_ENGINE", EngineTesseract),
		OCRLanguages:   gcp.GetEnvList("OCR_LANGUAGES", []string{"eng"}),
		OCRPageTimeout: gcp.GetEnvDuration("OCR_PAGE_TIMEOUT", 2*time.Minute),

		ProjectID:           gcp.GetEnv("PROJECT_ID", ""),
		VertexAIRegion:      gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		VertexModel:         gcp.GetEnv("VERTEX_MODEL", gcp.DefaultVertexModel),
		FirestoreDatabase:   gcp.GetEnv("FIRESTORE_DATABASE", ""),
		FirestoreCollection: gcp.GetEnv("FIRESTORE_COLLECTION", ""),
		WorkflowID:          gcp.GetEnv("WORKFLOW_ID", ""),
		WorkflowLocation:    gcp.GetEnv("WORKFLOW_LOCATION", "us-central1"),
	}

	cfg.Keywords = keywords.Default()
	if cfg.KeywordsFile != "" {
		kw, err := keywords.Load(cfg.KeywordsFile)
		if err != nil {
			return nil, err
		}
		cfg.Keywords = kw
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values and the settings each option requires.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendLocal:
	case BackendGCS:
		if c.UploadBucket == "" || c.ReportBucket == "" {
			return fmt.Errorf("UPLOAD_BUCKET and REPORT_BUCKET must be set when STORAGE_BACKEND=gcs")
		}
		// Reports written into the upload bucket would trigger their own analysis.
		if c.UploadBucket == c.ReportBucket && strings.Trim(c.ReportPrefix, "/") == "" {
			return fmt.Errorf("REPORT_PREFIX must be set when UPLOAD_BUCKET and REPORT_BUCKET are the same bucket")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendLocal, BackendGCS, c.StorageBackend)
	}

	switch c.Renderer {
	case RendererFitz, RendererPoppler:
	default:
		return fmt.Errorf("RENDERER must be %q or %q, got %q", RendererFitz, RendererPoppler, c.Renderer)
	}

	switch c.OCREngine {
	case EngineTesseract:
	case EngineVertex:
		if c.ProjectID == "" {
			return fmt.Errorf("PROJECT_ID environment variable must be set when OCR_ENGINE=vertex")
		}
	default:
		return fmt.Errorf("OCR_ENGINE must be %q or %q, got %q", EngineTesseract, EngineVertex, c.OCREngine)
	}

	if c.FirestoreCollection != "" && c.ProjectID == "" {
		return fmt.Errorf("PROJECT_ID environment variable must be set when FIRESTORE_COLLECTION is set")
	}
	if c.WorkflowID != "" && c.ProjectID == "" {
		return fmt.Errorf("PROJECT_ID environment variable must be set when WORKFLOW_ID is set")
	}
	if c.RenderDPI <= 0 {
		return fmt.Errorf("RENDER_DPI must be positive, got %d", c.RenderDPI)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	return c.Keywords.Validate()
}

// IsReportObject reports whether a GCS object is one of this service's
// reports, i.e. it lives in the report bucket under the report prefix.
func (c *Config) IsReportObject(bucket, name string) bool {
	if bucket != c.ReportBucket {
		return false
	}
	prefix := strings.Trim(c.ReportPrefix, "/")
	return prefix == "" || strings.HasPrefix(name, prefix+"/")
}
