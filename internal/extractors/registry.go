package extractors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to their extractors.
type Registry struct {
	byExtension map[string]driven.TextExtractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExtension: make(map[string]driven.TextExtractor),
	}
}

// Register adds an extractor for every extension it reports.
// Later registrations win on conflict.
func (r *Registry) Register(extractor driven.TextExtractor) {
	for _, ext := range extractor.Extensions() {
		r.byExtension[strings.ToLower(ext)] = extractor
	}
}

// ForFilename returns the extractor for the file's extension, or
// domain.ErrUnsupportedFormat.
func (r *Registry) ForFilename(filename string) (driven.TextExtractor, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no file extension", domain.ErrUnsupportedFormat, filename)
	}
	extractor, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
	}
	return extractor, nil
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	return exts
}
