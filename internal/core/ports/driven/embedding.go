// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The same service instance (same provider, same model) must be used for
// ingestion and for query embedding: vectors from different models share no
// geometry, so mixing them in one index makes similarity search meaningless.
// The ledger pins the model name per index to enforce this.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one request.
	// The result preserves input order. Providers may cap the batch size;
	// callers are expected to split accordingly.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// Every vector stored in the index must have this dimensionality.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to an index.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
