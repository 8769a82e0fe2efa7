package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleDoc(id string) domain.Document {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Document{
		ID:             id,
		Name:           "report.pdf",
		BlobURL:        "file:///tmp/report.pdf",
		ChunkCount:     12,
		EmbeddingModel: "text-embedding-3-small",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestSaveAndGetDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := sampleDoc("doc-1")
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Name, got.Name)
	assert.Equal(t, doc.BlobURL, got.BlobURL)
	assert.Equal(t, doc.ChunkCount, got.ChunkCount)
	assert.Equal(t, doc.EmbeddingModel, got.EmbeddingModel)
}

func TestGetDocument_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveDocument_OverwriteKeepsCreatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := sampleDoc("doc-1")
	require.NoError(t, store.SaveDocument(ctx, doc))

	updated := doc
	updated.ChunkCount = 20
	updated.CreatedAt = doc.CreatedAt.Add(time.Hour)
	updated.UpdatedAt = doc.UpdatedAt.Add(time.Hour)
	require.NoError(t, store.SaveDocument(ctx, updated))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, 20, got.ChunkCount)
	assert.True(t, got.CreatedAt.Equal(doc.CreatedAt), "created_at should survive overwrite")
	assert.True(t, got.UpdatedAt.Equal(updated.UpdatedAt))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1, "overwrite must not duplicate")
}

func TestListDocuments_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := sampleDoc("doc-old")
	older.UpdatedAt = older.UpdatedAt.Add(-time.Hour)
	newer := sampleDoc("doc-new")

	require.NoError(t, store.SaveDocument(ctx, older))
	require.NoError(t, store.SaveDocument(ctx, newer))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "doc-new", docs[0].ID)
	assert.Equal(t, "doc-old", docs[1].ID)
}

func TestEmbeddingModel(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	model, err := store.EmbeddingModel(ctx)
	require.NoError(t, err)
	assert.Empty(t, model, "empty ledger pins nothing")

	require.NoError(t, store.SaveDocument(ctx, sampleDoc("doc-1")))

	model, err = store.EmbeddingModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", model)
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(ctx, sampleDoc("doc-1")))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.Name)
}
