package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "MAX_UPLOAD_MB", "STORAGE_BACKEND", "UPLOAD_DIR", "REPORT_DIR",
	"UPLOAD_BUCKET", "REPORT_BUCKET", "REPORT_PREFIX", "KEYWORDS_FILE",
	"RENDERER", "RENDER_DPI", "OCR_ENGINE", "OCR_LANGUAGES", "OCR_PAGE_TIMEOUT",
	"PROJECT_ID", "VERTEX_AI_REGION", "VERTEX_MODEL", "FIRESTORE_DATABASE", "FIRESTORE_COLLECTION",
	"WORKFLOW_ID", "WORKFLOW_LOCATION",
}

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 50, cfg.MaxUploadMB)
	assert.Equal(t, BackendLocal, cfg.StorageBackend)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "reports", cfg.ReportDir)
	assert.Equal(t, RendererFitz, cfg.Renderer)
	assert.Equal(t, 300, cfg.RenderDPI)
	assert.Equal(t, EngineTesseract, cfg.OCREngine)
	assert.Equal(t, []string{"eng"}, cfg.OCRLanguages)
	assert.Equal(t, 2*time.Minute, cfg.OCRPageTimeout)
	assert.Len(t, cfg.Keywords.TMPIndicators, 9)
	assert.Len(t, cfg.Keywords.ComplianceIndicators, 17)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("RENDER_DPI", "200")
	t.Setenv("RENDERER", "poppler")
	t.Setenv("OCR_LANGUAGES", "eng, deu ,")
	t.Setenv("OCR_PAGE_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 200, cfg.RenderDPI)
	assert.Equal(t, RendererPoppler, cfg.Renderer)
	assert.Equal(t, []string{"eng", "deu"}, cfg.OCRLanguages)
	assert.Equal(t, 45*time.Second, cfg.OCRPageTimeout)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RENDER_DPI", "lots")
	t.Setenv("OCR_PAGE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.RenderDPI)
	assert.Equal(t, 2*time.Minute, cfg.OCRPageTimeout)
}

func TestLoad_KeywordsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tmp_indicators: [work zone]\n"), 0o644))
	t.Setenv("KEYWORDS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"work zone"}, cfg.Keywords.TMPIndicators)
}

func TestLoad_BadKeywordsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("KEYWORDS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown backend",
			env:     map[string]string{"STORAGE_BACKEND": "s3"},
			wantErr: "STORAGE_BACKEND",
		},
		{
			name:    "gcs without buckets",
			env:     map[string]string{"STORAGE_BACKEND": "gcs"},
			wantErr: "UPLOAD_BUCKET and REPORT_BUCKET",
		},
		{
			name:    "gcs with shared bucket and no report prefix",
			env:     map[string]string{"STORAGE_BACKEND": "gcs", "UPLOAD_BUCKET": "plans", "REPORT_BUCKET": "plans"},
			wantErr: "REPORT_PREFIX must be set",
		},
		{
			name:    "gcs with shared bucket and slash-only report prefix",
			env:     map[string]string{"STORAGE_BACKEND": "gcs", "UPLOAD_BUCKET": "plans", "REPORT_BUCKET": "plans", "REPORT_PREFIX": "/"},
			wantErr: "REPORT_PREFIX must be set",
		},
		{
			name:    "unknown renderer",
			env:     map[string]string{"RENDERER": "ghostscript"},
			wantErr: "RENDERER",
		},
		{
			name:    "vertex without project",
			env:     map[string]string{"OCR_ENGINE": "vertex"},
			wantErr: "OCR_ENGINE=vertex",
		},
		{
			name:    "firestore without project",
			env:     map[string]string{"FIRESTORE_COLLECTION": "analyses"},
			wantErr: "FIRESTORE_COLLECTION",
		},
		{
			name:    "workflow without project",
			env:     map[string]string{"WORKFLOW_ID": "report-ready"},
			wantErr: "WORKFLOW_ID",
		},
		{
			name:    "non-positive dpi",
			env:     map[string]string{"RENDER_DPI": "0"},
			wantErr: "RENDER_DPI",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_SharedBucketWithReportPrefix(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "gcs")
	t.Setenv("UPLOAD_BUCKET", "plans")
	t.Setenv("REPORT_BUCKET", "plans")
	t.Setenv("REPORT_PREFIX", "reports/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "reports/", cfg.ReportPrefix)
}

func TestIsReportObject(t *testing.T) {
	shared := &Config{UploadBucket: "plans", ReportBucket: "plans", ReportPrefix: "/reports/"}
	separate := &Config{UploadBucket: "plans", ReportBucket: "plan-reports"}

	tests := []struct {
		name   string
		cfg    *Config
		bucket string
		object string
		want   bool
	}{
		{"report under prefix", shared, "plans", "reports/site_compliance_report.pdf", true},
		{"upload beside prefix", shared, "plans", "site.pdf", false},
		{"upload whose name starts like the prefix", shared, "plans", "reports-2024/site.pdf", false},
		{"any object in a dedicated report bucket", separate, "plan-reports", "site_compliance_report.pdf", true},
		{"upload bucket", separate, "plans", "site_compliance_report.pdf", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.IsReportObject(tc.bucket, tc.object))
		})
	}
}
