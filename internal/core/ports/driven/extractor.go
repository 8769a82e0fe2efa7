package driven

import "context"

// TextExtractor turns uploaded document bytes into plain text.
// Extraction is treated as an external collaborator: implementations may
// shell out to a conversion tool or call a sidecar service.
type TextExtractor interface {
	// Extract returns the plain text content of the document.
	// Corrupt input fails with domain.ErrExtraction.
	Extract(ctx context.Context, data []byte, filename string) (string, error)

	// Extensions returns the lower-case file extensions this extractor
	// handles, without the leading dot (e.g. "pdf").
	Extensions() []string
}

// ExtractorRegistry selects the extractor for an uploaded file.
type ExtractorRegistry interface {
	// ForFilename returns the extractor registered for the file's
	// extension, or domain.ErrUnsupportedFormat.
	ForFilename(filename string) (TextExtractor, error)
}

// CommandRunner executes an external command and returns its standard
// output. It exists so extractors that shell out can be tested without the
// underlying tool installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
