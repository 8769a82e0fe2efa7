package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IngestionService runs the document ingestion pipeline:
// extract, chunk, embed, index.
type IngestionService interface {
	// Ingest processes one uploaded document end to end. It either
	// commits the whole document to the vector index or fails before any
	// index write; partial writes are confined to batch boundaries of the
	// index's own upsert.
	Ingest(ctx context.Context, upload domain.Upload) (*domain.IngestionResult, error)
}

// DocumentService exposes the ingestion ledger for inspection.
type DocumentService interface {
	// List returns all ingested documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get returns one ledger record, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Document, error)
}
