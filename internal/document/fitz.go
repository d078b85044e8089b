package document

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzRenderer rasterizes pages with MuPDF.
type FitzRenderer struct{}

// NewFitzRenderer returns the default MuPDF-backed renderer.
func NewFitzRenderer() *FitzRenderer { return &FitzRenderer{} }

func (r *FitzRenderer) Name() string { return "fitz" }

// Open loads the document into MuPDF.
func (r *FitzRenderer) Open(_ context.Context, doc *Document) (Pages, error) {
	d, err := fitz.NewFromMemory(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: mupdf: %v", ErrInvalidDocument, err)
	}
	return &fitzPages{doc: d}, nil
}

type fitzPages struct {
	doc *fitz.Document
}

func (p *fitzPages) Render(ctx context.Context, page int, dpi float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 0 || page >= p.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", page, p.doc.NumPage())
	}
	img, err := p.doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return img, nil
}

func (p *fitzPages) Close() error {
	return p.doc.Close()
}
