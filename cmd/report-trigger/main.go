package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/Lllllllleong/tmpcompliance/internal/app"
	"github.com/Lllllllleong/tmpcompliance/internal/config"
	"github.com/Lllllllleong/tmpcompliance/internal/gcp"
	"github.com/Lllllllleong/tmpcompliance/internal/models"
	"github.com/Lllllllleong/tmpcompliance/internal/services"
)

var (
	appInstance *app.App
	once        sync.Once
	initErr     error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	functions.CloudEvent("AnalyzeUpload", analyzeUpload)
}

// main is required by the Go Functions Framework.
func main() {}

// analyzeUpload runs when an object is finalized in the uploads bucket.
func analyzeUpload(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		var cfg *config.Config
		cfg, initErr = config.Load()
		if initErr != nil {
			return
		}
		if cfg.StorageBackend != config.BackendGCS {
			initErr = errors.New("report-trigger requires STORAGE_BACKEND=gcs")
			return
		}
		appInstance, initErr = app.New(context.Background(), cfg)
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent models.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	logCtx := slog.With("bucket", gcsEvent.Bucket, "object", gcsEvent.Name)
	if !strings.HasSuffix(strings.ToLower(gcsEvent.Name), ".pdf") {
		logCtx.Info("Ignoring non-PDF object.")
		return nil
	}
	if appInstance.Config.IsReportObject(gcsEvent.Bucket, gcsEvent.Name) {
		logCtx.Info("Ignoring generated report.")
		return nil
	}

	data, err := gcp.ReadGCSObject(ctx, appInstance.StorageClient.Bucket(gcsEvent.Bucket), gcsEvent.Name)
	if err != nil {
		logCtx.Error("Failed to download upload.", "error", err)
		return err
	}

	res, err := appInstance.Analyzer.Analyze(ctx, services.AnalyzeRequest{
		Data:       data,
		Filename:   gcsEvent.Name,
		ReportName: app.ReportNameForUpload(gcsEvent.Name),
	})
	if err != nil {
		// Unreadable documents will never succeed, so don't ask for a retry.
		if errors.Is(err, services.ErrDocumentOpen) {
			return nil
		}
		return err
	}

	logCtx.Info("Report written.", "reportName", res.ReportName, "isTmp", res.Classification.IsTMP, "score", res.Classification.Score)
	return nil
}
