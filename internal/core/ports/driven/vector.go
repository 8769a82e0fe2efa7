package driven

import "context"

// VectorIndex persists (vector, text, metadata) points and answers
// nearest-neighbour queries under the index's configured similarity metric
// (cosine by default).
//
// The index is the only shared mutable resource in the system. The external
// provider is assumed to serialise concurrent upserts safely; core places no
// additional locking around it, and a query racing an ingest may or may not
// see the new points.
type VectorIndex interface {
	// EnsureReady creates the backing collection for the given
	// dimensionality if it does not exist yet.
	EnsureReady(ctx context.Context, dimensions int) error

	// Upsert writes a batch of points. Point IDs are caller-assigned and
	// deterministic, so re-writing a point overwrites it.
	Upsert(ctx context.Context, points []Point) error

	// Query returns the k nearest neighbours of the given vector.
	Query(ctx context.Context, vector []float32, k int) ([]Hit, error)

	// DeleteByDocument removes every point belonging to a document.
	// Used before re-ingesting so a shrunken document leaves no stale
	// high-ordinal points behind.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}

// Point is one stored vector with its passage text and metadata.
type Point struct {
	// ID is the unique point identifier ("<documentID>-chunk-<ordinal>").
	ID string

	// Vector is the embedding, of the index's configured dimensionality.
	Vector []float32

	// Text is the passage content returned verbatim at query time.
	Text string

	// DocumentID links back to the source document.
	DocumentID string

	// DocumentName is the display name of the source document.
	DocumentName string

	// Ordinal is the chunk position within the document.
	Ordinal int

	// EmbeddingModel records which model produced the vector.
	EmbeddingModel string
}

// Hit is one nearest-neighbour result.
type Hit struct {
	// Text is the stored passage content.
	Text string

	// Score is the similarity under the index metric.
	Score float64

	// DocumentID links back to the source document.
	DocumentID string
}
