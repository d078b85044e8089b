package models

import "time"

// Analysis statuses, in lifecycle order.
const (
	StatusValidating  = "VALIDATING"
	StatusRecognizing = "RECOGNIZING"
	StatusComplete    = "COMPLETE"
	StatusFailed      = "FAILED"
)

// Analysis represents the audit record for one document analysis in Firestore.
// It tracks the overall status and the classification outcome.
type Analysis struct {
	FileHash         string    `firestore:"fileHash,omitempty"`
	OriginalFilename string    `firestore:"originalFilename,omitempty"`
	ReportName       string    `firestore:"reportName,omitempty"`
	Status           string    `firestore:"status,omitempty"`
	ErrorDetails     string    `firestore:"errorDetails,omitempty"`
	PageCount        int       `firestore:"pageCount,omitempty"`
	IsTMP            bool      `firestore:"isTmp"`
	Matched          []string  `firestore:"matched"`
	Score            int       `firestore:"score"`
	CreatedAt        time.Time `firestore:"createdAt,omitempty"`
	CompletedAt      time.Time `firestore:"completedAt,omitempty"`
}

// ClassificationResult is the outcome of scoring recognized text against the
// keyword lists. Matched preserves the compliance list's declaration order.
type ClassificationResult struct {
	IsTMP   bool     `json:"isTmp"`
	Matched []string `json:"matched"`
	Score   int      `json:"score"`
}
