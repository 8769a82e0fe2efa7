package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/splitter"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// DefaultBatchSize is the number of chunks embedded per provider request.
const DefaultBatchSize = 100

// DefaultMaxConcurrentBatches bounds embedding requests in flight at once,
// to respect upstream provider rate limits.
const DefaultMaxConcurrentBatches = 5

// docIDNamespace seeds deterministic document IDs: re-uploading a file with
// the same name yields the same ID, so its vectors overwrite instead of
// duplicating.
var docIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("docchat"))

// IngestionService orchestrates extraction, chunking, embedding and
// indexing for one uploaded document per call.
type IngestionService struct {
	extractors driven.ExtractorRegistry
	split      *splitter.Splitter
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	blobs      driven.BlobStore
	ledger     driven.DocumentLedger

	batchSize            int
	maxConcurrentBatches int
}

// IngestionOption configures the ingestion service.
type IngestionOption func(*IngestionService)

// WithBatchSize sets the embedding batch size.
func WithBatchSize(n int) IngestionOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithMaxConcurrentBatches caps embedding requests in flight.
func WithMaxConcurrentBatches(n int) IngestionOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.maxConcurrentBatches = n
		}
	}
}

// NewIngestionService creates an ingestion service with injected
// collaborators. blobs and ledger are optional (can be nil): without them
// raw files are not archived and the model-pinning check is skipped.
func NewIngestionService(
	extractors driven.ExtractorRegistry,
	split *splitter.Splitter,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	blobs driven.BlobStore,
	ledger driven.DocumentLedger,
	opts ...IngestionOption,
) *IngestionService {
	s := &IngestionService{
		extractors:           extractors,
		split:                split,
		embedder:             embedder,
		index:                index,
		blobs:                blobs,
		ledger:               ledger,
		batchSize:            DefaultBatchSize,
		maxConcurrentBatches: DefaultMaxConcurrentBatches,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DocumentID returns the deterministic ledger/index ID for a display name.
func DocumentID(name string) string {
	return uuid.NewSHA1(docIDNamespace, []byte(name)).String()
}

// Ingest processes one uploaded document: extract, chunk, embed, index.
// Any failure before the index write leaves the index untouched; the index
// write itself is one logical batch with deterministic point IDs.
func (s *IngestionService) Ingest(ctx context.Context, upload domain.Upload) (*domain.IngestionResult, error) {
	logger.Section("Ingestion")

	if strings.TrimSpace(upload.Name) == "" {
		return nil, fmt.Errorf("%w: upload has no name", domain.ErrInvalidConfiguration)
	}
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, upload.Name)
	}

	// 1. Extract text. Unknown extension and corrupt content are both
	// non-retryable with the same input.
	extractor, err := s.extractors.ForFilename(upload.Name)
	if err != nil {
		return nil, err
	}
	text, err := extractor.Extract(ctx, upload.Data, upload.Name)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", upload.Name, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, upload.Name)
	}
	logger.Debug("Extracted %d characters from %s", len(text), upload.Name)

	// 2. Refuse to extend an index written with a different model.
	if s.ledger != nil {
		pinned, err := s.ledger.EmbeddingModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("read pinned model: %w", err)
		}
		if pinned != "" && pinned != s.embedder.ModelName() {
			return nil, fmt.Errorf("%w: index was built with embedding model %q, configured model is %q",
				domain.ErrInvalidConfiguration, pinned, s.embedder.ModelName())
		}
	}

	docID := DocumentID(upload.Name)

	// 3. Archive the raw file. Audit artifact only, but a broken blob
	// backend should fail loudly before anything touches the index.
	var blobURL string
	if s.blobs != nil {
		blobURL, err = s.blobs.Put(ctx, upload.Name, upload.Data, contentTypeFor(upload.Name))
		if err != nil {
			return nil, fmt.Errorf("%w: archive %s: %w", domain.ErrProviderFault, upload.Name, err)
		}
		logger.Debug("Archived raw file at %s", blobURL)
	}

	// 4. Chunk.
	chunks := s.split.Split(text, docID)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, upload.Name)
	}
	logger.Info("Split %s into %d chunks", upload.Name, len(chunks))

	// 5. Embed in batches, order-preserving, bounded concurrency.
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedBatches(ctx, texts)
	if err != nil {
		return nil, err
	}

	dims := s.embedder.Dimensions()
	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("%w: chunk %d embedding has %d dimensions, expected %d",
				domain.ErrProviderFault, i, len(v), dims)
		}
	}

	// 6. Index write: clear previous vectors for this document, then
	// upsert everything as one logical batch.
	if err := s.index.EnsureReady(ctx, dims); err != nil {
		return nil, fmt.Errorf("%w: prepare index: %w", domain.ErrProviderFault, err)
	}
	if err := s.index.DeleteByDocument(ctx, docID); err != nil {
		return nil, fmt.Errorf("%w: clear stale vectors for %s: %w", domain.ErrProviderFault, docID, err)
	}

	points := make([]driven.Point, len(chunks))
	for i, c := range chunks {
		points[i] = driven.Point{
			ID:             c.VectorID(),
			Vector:         vectors[i],
			Text:           c.Text,
			DocumentID:     docID,
			DocumentName:   upload.Name,
			Ordinal:        c.Ordinal,
			EmbeddingModel: s.embedder.ModelName(),
		}
	}
	if err := s.index.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("%w: upsert %d vectors: %w", domain.ErrProviderFault, len(points), err)
	}
	logger.Info("Indexed %d vectors for %s", len(points), upload.Name)

	// 7. Record in the ledger.
	if s.ledger != nil {
		now := time.Now()
		doc := domain.Document{
			ID:             docID,
			Name:           upload.Name,
			BlobURL:        blobURL,
			ChunkCount:     len(chunks),
			EmbeddingModel: s.embedder.ModelName(),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.ledger.SaveDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("record document %s: %w", docID, err)
		}
	}

	return &domain.IngestionResult{
		DocumentID: docID,
		ChunkCount: len(chunks),
		BlobURL:    blobURL,
	}, nil
}

// embedBatches embeds texts in batchSize slices with at most
// maxConcurrentBatches requests in flight. Results keep input order. A
// failure on any batch fails the whole call; nothing is committed.
func (s *IngestionService) embedBatches(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentBatches)

	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		g.Go(func() error {
			batch, err := s.embedder.EmbedBatch(ctx, texts[start:end])
			if err != nil {
				return fmt.Errorf("%w: embed batch at chunk %d: %w", domain.ErrProviderFault, start, err)
			}
			if len(batch) != end-start {
				return fmt.Errorf("%w: embed batch at chunk %d returned %d vectors for %d texts",
					domain.ErrProviderFault, start, len(batch), end-start)
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func contentTypeFor(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".md"):
		return "text/markdown"
	case strings.HasSuffix(lower, ".txt"):
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
