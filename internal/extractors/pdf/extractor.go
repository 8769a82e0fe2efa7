// Package pdf extracts text from PDF uploads by shelling out to the
// poppler pdftotext tool.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Extractor converts PDF bytes to plain text via pdftotext.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates a PDF extractor that runs pdftotext from PATH.
func New(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return strings.Join([]string{
		"pdftotext is part of poppler:",
		"  macOS:  brew install poppler",
		"  Debian: apt install poppler-utils",
		"  Fedora: dnf install poppler-utils",
	}, "\n")
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"pdf"}
}

// Extract writes the upload to a temp file and runs pdftotext on it,
// reading the converted text from stdout. Layout mode keeps columns and
// tables roughly readable, which matters for chunking quality.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	tmp, err := os.CreateTemp("", "docchat-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", tmpPath, "-")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtraction, filepath.Base(filename), err)
	}
	return string(out), nil
}
