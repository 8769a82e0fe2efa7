// Package file provides a blob store writing raw uploads to a local
// directory.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store archives uploads under one directory, keyed by file name.
type Store struct {
	dir string
}

// NewStore creates a file blob store, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("file: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Put writes the upload and returns a file:// URL. Re-uploading the same
// name overwrites, matching ingestion's overwrite semantics.
func (s *Store) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	// Uploads are named by untrusted clients; keep only the base name so
	// nothing escapes the archive directory.
	path := filepath.Join(s.dir, filepath.Base(name))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("file: write %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("file: resolve %s: %w", path, err)
	}
	return "file://" + abs, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
