package services

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes the ingestion ledger for inspection.
type DocumentService struct {
	ledger driven.DocumentLedger
}

// NewDocumentService creates a document service. The ledger may be nil,
// in which case listing is empty and lookups miss.
func NewDocumentService(ledger driven.DocumentLedger) *DocumentService {
	return &DocumentService{ledger: ledger}
}

// List returns all ingested documents, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.ledger == nil {
		return []domain.Document{}, nil
	}
	return s.ledger.ListDocuments(ctx)
}

// Get returns one ledger record, or domain.ErrNotFound.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if s.ledger == nil {
		return nil, domain.ErrNotFound
	}
	return s.ledger.GetDocument(ctx, id)
}
