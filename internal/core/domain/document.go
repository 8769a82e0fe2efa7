package domain

import (
	"fmt"
	"time"
)

// Upload is a raw document handed to the ingestion pipeline.
// It is transient: it exists only for the duration of one Ingest call.
// Persistence of the raw bytes is the blob store's concern.
type Upload struct {
	// Name is the original display name (e.g. "report.pdf").
	Name string

	// Data is the raw document bytes.
	Data []byte
}

// Document is the ledger record of an ingested document.
type Document struct {
	// ID is the unique identifier assigned at upload time.
	ID string

	// Name is the original display name.
	Name string

	// BlobURL points at the archived raw file, if blob storage is configured.
	BlobURL string

	// ChunkCount is the number of chunks written to the vector index.
	ChunkCount int

	// EmbeddingModel is the model that produced this document's vectors.
	// Mixing models within one index makes similarity search meaningless,
	// so the ledger pins the model per document.
	EmbeddingModel string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk is a bounded contiguous slice of a document's extracted text.
// It is the unit of embedding and retrieval.
type Chunk struct {
	// Text is the verbatim slice of the extracted document text.
	Text string

	// SourceDocument is the ID of the document this chunk came from.
	SourceDocument string

	// Ordinal is the position within the document, strictly increasing from 0.
	Ordinal int
}

// VectorID returns the index point ID for this chunk. IDs are deterministic
// so re-ingesting the same document overwrites rather than duplicates.
func (c Chunk) VectorID() string {
	return fmt.Sprintf("%s-chunk-%d", c.SourceDocument, c.Ordinal)
}

// RetrievedPassage is a scored passage returned by nearest-neighbour search.
// It is ephemeral: produced per query and discarded once the answer is
// composed.
type RetrievedPassage struct {
	// Text is the passage content.
	Text string

	// Score is the similarity score under the index's configured metric
	// (cosine by default).
	Score float64
}

// IngestionResult summarises one successful ingestion call.
type IngestionResult struct {
	// DocumentID is the ledger ID assigned to the document.
	DocumentID string

	// ChunkCount is the number of vectors written to the index.
	ChunkCount int

	// BlobURL points at the archived raw file, if any.
	BlobURL string
}

// AnswerToken is one element of a streamed answer.
//
// The stream contract: tokens arrive in generation order; the channel is
// closed after a terminal token. A terminal token carries either Done=true
// (clean completion) or a non-nil Err (generation failed or was cancelled
// after partial output). The two terminal states are distinct: consumers
// must never treat an errored stream as a complete short answer.
type AnswerToken struct {
	// Content is the token text. May be empty on terminal tokens.
	Content string

	// Done marks clean end of generation.
	Done bool

	// Err marks abnormal termination.
	Err error
}
