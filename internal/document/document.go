// Package document opens source PDFs and rasterizes their pages for text
// recognition.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultDPI is the rasterization resolution used for recognition.
const DefaultDPI = 300

// ErrInvalidDocument is returned when bytes cannot be read as a PDF.
var ErrInvalidDocument = errors.New("not a readable PDF document")

// Document is a validated source PDF held in memory.
type Document struct {
	Data      []byte
	PageCount int
}

// Open validates data as a PDF and counts its pages. Parser failures are
// reported as ErrInvalidDocument with the parser detail attached.
func Open(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get page count: %v", ErrInvalidDocument, err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalidDocument)
	}
	return &Document{Data: data, PageCount: pageCount}, nil
}

// Renderer rasterizes the pages of a document.
type Renderer interface {
	Name() string
	Open(ctx context.Context, doc *Document) (Pages, error)
}

// Pages renders individual zero-based pages of one opened document.
type Pages interface {
	Render(ctx context.Context, page int, dpi float64) (image.Image, error)
	Close() error
}
