// Package plaintext extracts text from uploads that already are text.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain text and markdown uploads.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"txt", "md", "markdown"}
}

// Extract returns the upload as a string. Input must be valid UTF-8;
// a leading byte order mark is stripped.
func (e *Extractor) Extract(_ context.Context, data []byte, filename string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrExtraction, filename)
	}
	return string(data), nil
}
