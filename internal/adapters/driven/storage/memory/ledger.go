// Package memory provides an in-memory document ledger for tests and
// ephemeral setups that don't want a database on disk.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Ledger implements the interface.
var _ driven.DocumentLedger = (*Ledger)(nil)

// Ledger is an in-memory implementation of driven.DocumentLedger.
type Ledger struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores or updates a ledger record. An overwrite keeps the
// original CreatedAt, mirroring the SQLite ledger.
func (l *Ledger) SaveDocument(_ context.Context, doc domain.Document) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.documents[doc.ID]; ok {
		doc.CreatedAt = existing.CreatedAt
	}
	l.documents[doc.ID] = doc
	return nil
}

// GetDocument retrieves a record by ID.
func (l *Ledger) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	doc, ok := l.documents[id]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	return &doc, nil
}

// ListDocuments returns all records, newest first.
func (l *Ledger) ListDocuments(_ context.Context) ([]domain.Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	docs := make([]domain.Document, 0, len(l.documents))
	for _, doc := range l.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

// EmbeddingModel returns the pinned model, or "" for an empty ledger.
func (l *Ledger) EmbeddingModel(_ context.Context) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, doc := range l.documents {
		return doc.EmbeddingModel, nil
	}
	return "", nil
}

// Close releases resources.
func (l *Ledger) Close() error {
	return nil
}
