package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestSaveAndGet(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	doc := domain.Document{ID: "doc-1", Name: "a.pdf", EmbeddingModel: "m1"}
	require.NoError(t, ledger.SaveDocument(ctx, doc))

	got, err := ledger.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Name)
}

func TestGet_NotFound(t *testing.T) {
	ledger := NewLedger()

	_, err := ledger.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSave_OverwriteKeepsCreatedAt(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	created := time.Now().Add(-time.Hour)

	require.NoError(t, ledger.SaveDocument(ctx, domain.Document{ID: "doc-1", CreatedAt: created}))
	require.NoError(t, ledger.SaveDocument(ctx, domain.Document{ID: "doc-1", CreatedAt: time.Now()}))

	got, err := ledger.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestList_NewestFirst(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, ledger.SaveDocument(ctx, domain.Document{ID: "old", UpdatedAt: now.Add(-time.Hour)}))
	require.NoError(t, ledger.SaveDocument(ctx, domain.Document{ID: "new", UpdatedAt: now}))

	docs, err := ledger.ListDocuments(ctx)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)
}

func TestEmbeddingModel(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	model, err := ledger.EmbeddingModel(ctx)
	require.NoError(t, err)
	assert.Empty(t, model)

	require.NoError(t, ledger.SaveDocument(ctx, domain.Document{ID: "doc-1", EmbeddingModel: "m1"}))

	model, err = ledger.EmbeddingModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m1", model)
}
