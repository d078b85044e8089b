// Package tesseract adapts the gosseract client to the ocr.Engine contract.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/Lllllllleong/tmpcompliance/internal/ocr"
)

// Engine implements ocr.Engine with a fresh gosseract client per page.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed OCR engine.
func New() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single page image and returns Tesseract's text
// unmodified. An already canceled context fails before any client is
// created. Tesseract itself cannot be interrupted, so on later cancellation
// the call returns immediately and the in-flight client is closed once it
// finishes.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, fmt.Errorf("recognize %s: %w", in.ID, err)
	}
	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		c := e.clientFactory()
		defer c.Close()
		text, err := recognizeWithClient(c, in)
		done <- outcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return ocr.Result{}, fmt.Errorf("recognize %s: %w", in.ID, ctx.Err())
	case out := <-done:
		if out.err != nil {
			return ocr.Result{}, fmt.Errorf("recognize %s: %w", in.ID, out.err)
		}
		return ocr.Result{InputID: in.ID, PlainText: out.text}, nil
	}
}

func recognizeWithClient(c *gosseract.Client, in ocr.Input) (string, error) {
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
