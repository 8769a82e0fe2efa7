package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// --- Mock implementations of the driven ports ---

// mockExtractor implements driven.TextExtractor.
type mockExtractor struct {
	text string
	err  error
	exts []string
}

func (m *mockExtractor) Extract(_ context.Context, _ []byte, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockExtractor) Extensions() []string {
	if m.exts == nil {
		return []string{"txt"}
	}
	return m.exts
}

// mockRegistry implements driven.ExtractorRegistry.
type mockRegistry struct {
	extractor driven.TextExtractor
	err       error
}

func (m *mockRegistry) ForFilename(_ string) (driven.TextExtractor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.extractor, nil
}

// mockEmbedder implements driven.EmbeddingService. Vectors are derived from
// the text length so tests can assert order preservation.
type mockEmbedder struct {
	mu         sync.Mutex
	dims       int
	model      string
	batchErr   error
	embedErr   error
	batchCalls [][]string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dims: 4, model: "test-embedding-model"}
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	v := make([]float32, m.dims)
	for i := range v {
		v[i] = float32(len(text) + i)
	}
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls = append(m.batchCalls, texts)
	m.mu.Unlock()

	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectorFor(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return m.model }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockIndex implements driven.VectorIndex.
type mockIndex struct {
	mu          sync.Mutex
	upserted    []driven.Point
	deletedDocs []string
	hits        []driven.Hit
	upsertErr   error
	queryErr    error
	readyDims   int
}

func (m *mockIndex) EnsureReady(_ context.Context, dims int) error {
	m.readyDims = dims
	return nil
}

func (m *mockIndex) Upsert(_ context.Context, points []driven.Point) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, points...)
	return nil
}

func (m *mockIndex) Query(_ context.Context, _ []float32, k int) ([]driven.Hit, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockIndex) DeleteByDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedDocs = append(m.deletedDocs, documentID)
	// Deterministic IDs make deletion + upsert equivalent to overwrite.
	kept := m.upserted[:0]
	for _, p := range m.upserted {
		if p.DocumentID != documentID {
			kept = append(kept, p)
		}
	}
	m.upserted = kept
	return nil
}

func (m *mockIndex) Close() error { return nil }

// mockBlobStore implements driven.BlobStore.
type mockBlobStore struct {
	putErr error
	puts   []string
}

func (m *mockBlobStore) Put(_ context.Context, name string, _ []byte, _ string) (string, error) {
	if m.putErr != nil {
		return "", m.putErr
	}
	m.puts = append(m.puts, name)
	return "blob://" + name, nil
}

func (m *mockBlobStore) Close() error { return nil }

// mockLedger implements driven.DocumentLedger.
type mockLedger struct {
	docs    map[string]domain.Document
	model   string
	saveErr error
}

func newMockLedger() *mockLedger {
	return &mockLedger{docs: make(map[string]domain.Document)}
}

func (m *mockLedger) SaveDocument(_ context.Context, doc domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.ID] = doc
	m.model = doc.EmbeddingModel
	return nil
}

func (m *mockLedger) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *mockLedger) ListDocuments(_ context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockLedger) EmbeddingModel(_ context.Context) (string, error) {
	return m.model, nil
}

func (m *mockLedger) Close() error { return nil }

// mockLLM implements driven.LLMService. It replays scripted tokens.
type mockLLM struct {
	tokens    []driven.Token
	startErr  error
	lastUser  string
	lastSys   string
	noMarker  bool
	modelName string
}

func (m *mockLLM) GenerateStream(_ context.Context, system, user string) (<-chan driven.Token, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	m.lastSys = system
	m.lastUser = user

	ch := make(chan driven.Token, len(m.tokens)+1)
	for _, tok := range m.tokens {
		ch <- tok
	}
	if !m.noMarker && (len(m.tokens) == 0 || !m.tokens[len(m.tokens)-1].Done && m.tokens[len(m.tokens)-1].Err == nil) {
		ch <- driven.Token{Done: true}
	}
	close(ch)
	return ch, nil
}

func (m *mockLLM) ModelName() string {
	if m.modelName == "" {
		return "test-llm"
	}
	return m.modelName
}

func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }
