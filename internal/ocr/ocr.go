// Package ocr defines the contract for plugging text recognition engines into
// the analysis pipeline. Engines receive one encoded page image at a time and
// return its plain text.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
)

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG ImageFormat = "image/png"
)

// Input encapsulates a single page image submitted for recognition.
type Input struct {
	// ID is echoed back in the corresponding Result.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image  []byte
	Format ImageFormat
	// PageIndex is the zero-based page the image was rendered from.
	PageIndex int
	// DPI is the resolution the page was rendered at; zero means unknown.
	DPI int
	// Languages are trained-data hints such as "eng".
	Languages []string
}

// Result captures recognition output for a single input.
type Result struct {
	InputID   string
	PlainText string
}

// Engine is the recognition provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// InputOption mutates an input built from a rendered page.
type InputOption func(*Input)

// WithLanguages sets language hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithDPI records the render resolution on the input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// InputFromImage PNG-encodes a rendered page.
func InputFromImage(page int, img image.Image, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Input{}, fmt.Errorf("encode page %d: %w", page, err)
	}
	in := Input{
		ID:        fmt.Sprintf("page-%d", page),
		Image:     buf.Bytes(),
		Format:    ImageFormatPNG,
		PageIndex: page,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
