package services

import "errors"

// Sentinel errors for analysis failures. Every failure is terminal for the
// request in progress.
var (
	// ErrDocumentOpen indicates the input bytes are not a readable paged document.
	ErrDocumentOpen = errors.New("document could not be opened")

	// ErrRecognition indicates rendering or text recognition failed on a page.
	ErrRecognition = errors.New("text recognition failed")

	// ErrStorage indicates the report could not be produced or written.
	ErrStorage = errors.New("report could not be stored")
)
