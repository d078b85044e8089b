package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// ErrPopplerNotFound is returned when pdftoppm is not on PATH.
var ErrPopplerNotFound = errors.New("pdftoppm not found: install poppler-utils")

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PopplerRenderer rasterizes pages by shelling out to pdftoppm.
type PopplerRenderer struct {
	runner CommandRunner
}

// NewPopplerRenderer returns a renderer that runs the real pdftoppm binary.
func NewPopplerRenderer() *PopplerRenderer {
	return &PopplerRenderer{runner: execRunner{}}
}

// NewPopplerRendererWithRunner injects a runner, used by tests.
func NewPopplerRendererWithRunner(runner CommandRunner) *PopplerRenderer {
	return &PopplerRenderer{runner: runner}
}

// CheckPopplerAvailable reports whether pdftoppm can be found.
func CheckPopplerAvailable() error {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return ErrPopplerNotFound
	}
	return nil
}

func (r *PopplerRenderer) Name() string { return "poppler" }

// Open spools the document to a temp file that pdftoppm can read.
func (r *PopplerRenderer) Open(_ context.Context, doc *Document) (Pages, error) {
	dir, err := os.MkdirTemp("", "tmp-render-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	path := filepath.Join(dir, "source.pdf")
	if err := os.WriteFile(path, doc.Data, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to spool document: %w", err)
	}
	return &popplerPages{runner: r.runner, dir: dir, path: path}, nil
}

type popplerPages struct {
	runner CommandRunner
	dir    string
	path   string
}

// Render asks pdftoppm for a single PNG page on stdout.
func (p *popplerPages) Render(ctx context.Context, page int, dpi float64) (image.Image, error) {
	pageArg := strconv.Itoa(page + 1)
	out, err := p.runner.Run(ctx, "pdftoppm",
		"-png", "-singlefile",
		"-r", strconv.FormatFloat(dpi, 'f', -1, 64),
		"-f", pageArg, "-l", pageArg,
		p.path,
	)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed on page %d: %w", page, err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode pdftoppm output for page %d: %w", page, err)
	}
	return img, nil
}

func (p *popplerPages) Close() error {
	return os.RemoveAll(p.dir)
}
