package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/Lllllllleong/tmpcompliance/internal/app"
	"github.com/Lllllllleong/tmpcompliance/internal/config"
	"github.com/Lllllllleong/tmpcompliance/internal/gcp"
	"github.com/Lllllllleong/tmpcompliance/internal/server"
)

var (
	handler *server.Handler
	once    sync.Once
	initErr error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	functions.HTTP("HandleAnalyze", handleAnalyze)
}

// main runs the function locally; on Cloud Functions the framework calls
// the registered handler directly.
func main() {
	port := gcp.GetEnv("PORT", "8080")
	if err := funcframework.Start(port); err != nil {
		slog.Error("Function framework exited.", "error", err)
		os.Exit(1)
	}
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		var cfg *config.Config
		cfg, initErr = config.Load()
		if initErr != nil {
			return
		}
		var a *app.App
		a, initErr = app.New(context.Background(), cfg)
		if initErr != nil {
			return
		}
		handler = server.NewHandler(a, a.Reports, cfg.MaxUploadMB)
	})
	if initErr != nil {
		slog.Error("CRITICAL: Analyzer initialization failed.", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodPost:
		handler.Analyze(w, r)
	case http.MethodGet:
		if r.URL.Query().Has("file") {
			handler.DownloadReport(w, r)
			return
		}
		handler.Health(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}
