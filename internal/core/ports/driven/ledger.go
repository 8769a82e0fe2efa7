package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentLedger records which documents were ingested, how many chunks
// they produced and which embedding model vectorised them. It backs the
// model-pinning check: an index written with one model must never be
// queried or extended with another.
type DocumentLedger interface {
	// SaveDocument inserts or replaces a ledger record.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// GetDocument returns a record by ID, or domain.ErrNotFound.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all records, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// EmbeddingModel returns the model recorded for this index, or ""
	// when nothing has been ingested yet.
	EmbeddingModel(ctx context.Context) (string, error)

	// Close releases resources.
	Close() error
}
