// Package server exposes the analyzer over HTTP: an upload form, a JSON
// analysis endpoint and report downloads.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/tmpcompliance/internal/models"
	"github.com/Lllllllleong/tmpcompliance/internal/services"
	"github.com/Lllllllleong/tmpcompliance/internal/storage"
)

// UploadField is the multipart form field carrying the PDF.
const UploadField = "pdf"

const processingFailedMessage = "Internal Server Error: processing failed"

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Submitter stores and analyzes one uploaded document.
type Submitter interface {
	Submit(ctx context.Context, req services.AnalyzeRequest) (*services.AnalyzeResult, error)
}

// Handler serves the HTTP routes.
type Handler struct {
	submitter      Submitter
	reports        storage.Store
	maxUploadBytes int64
}

// NewHandler creates a Handler. maxUploadMB caps the request body size.
func NewHandler(submitter Submitter, reports storage.Store, maxUploadMB int) *Handler {
	return &Handler{
		submitter:      submitter,
		reports:        reports,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// Routes returns the request multiplexer for all endpoints.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /{$}", h.IndexUpload)
	mux.HandleFunc("POST /analyze", h.Analyze)
	mux.HandleFunc("GET /download_report", h.DownloadReport)
	mux.HandleFunc("GET /healthz", h.Health)
	return mux
}

type indexData struct {
	Result *models.AnalyzeResponse
	Error  string
}

// Index renders the empty upload form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, http.StatusOK, indexData{})
}

// IndexUpload analyzes a form upload and renders the result page.
func (h *Handler) IndexUpload(w http.ResponseWriter, r *http.Request) {
	res, status, err := h.process(w, r)
	if err != nil {
		h.renderIndex(w, status, indexData{Error: clientMessage(status, err)})
		return
	}
	h.renderIndex(w, http.StatusOK, indexData{Result: res})
}

// Analyze analyzes an upload and responds with JSON.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	res, status, err := h.process(w, r)
	if err != nil {
		respondJSON(w, models.ErrorResponse{Error: clientMessage(status, err)}, status)
		return
	}
	respondJSON(w, res, http.StatusOK)
}

// DownloadReport streams a stored report as an attachment.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	name, err := storage.SafeName(r.URL.Query().Get("file"))
	if err != nil {
		http.Error(w, "Bad Request: missing or invalid file name", http.StatusBadRequest)
		return
	}
	data, err := h.reports.Get(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to read report.", "reportName", name, "error", err)
		http.Error(w, "Internal Server Error: failed to read report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", services.ReportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(data); err != nil {
		slog.Warn("Failed to write report response.", "reportName", name, "error", err)
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// process reads the upload and runs the analysis. The returned status is
// meaningful only when err is non-nil.
func (h *Handler) process(w http.ResponseWriter, r *http.Request) (*models.AnalyzeResponse, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit)
		}
		return nil, http.StatusBadRequest, errors.New("failed to parse multipart form")
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("no file uploaded in field %q", UploadField)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusInternalServerError, errors.New("failed to read upload")
	}

	result, err := h.submitter.Submit(r.Context(), services.AnalyzeRequest{
		Data:     data,
		Filename: header.Filename,
	})
	if err != nil {
		return nil, statusFor(err), err
	}

	return &models.AnalyzeResponse{
		AnalysisID: result.AnalysisID,
		Filename:   result.Filename,
		ReportName: result.ReportName,
		IsTMP:      result.Classification.IsTMP,
		Matched:    result.Classification.Matched,
		Score:      result.Classification.Score,
	}, http.StatusOK, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrDocumentOpen), errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage hides server-side failure details, which can name local
// paths, buckets and upstream errors. They are logged instead.
func clientMessage(status int, err error) string {
	if status < http.StatusInternalServerError {
		return err.Error()
	}
	slog.Error("Request failed.", "status", status, "error", err)
	return processingFailedMessage
}

func (h *Handler) renderIndex(w http.ResponseWriter, status int, data indexData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		slog.Error("Failed to render page.", "error", err)
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write response.", "error", err)
	}
}
