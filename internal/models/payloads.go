package models

// These structs define the JSON payloads exchanged with the HTTP entry points
// and the Cloud Workflows hand-off.

// AnalyzeResponse is the output of a successful analysis.
type AnalyzeResponse struct {
	AnalysisID string   `json:"analysisId"`
	Filename   string   `json:"filename"`
	ReportName string   `json:"reportName"`
	IsTMP      bool     `json:"isTmp"`
	Matched    []string `json:"matched"`
	Score      int      `json:"score"`
}

// ErrorResponse is returned by the HTTP entry points on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReportReadyPayload is the workflow argument sent once a report is stored.
type ReportReadyPayload struct {
	AnalysisID string `json:"analysisId"`
	Filename   string `json:"filename"`
	ReportName string `json:"reportName"`
	IsTMP      bool   `json:"isTmp"`
	Score      int    `json:"score"`
}

// GCSEvent is the subset of a storage object finalize event we need.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}
