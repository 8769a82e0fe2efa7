// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor / ExtractorRegistry: Turns uploaded bytes into plain text
//   - EmbeddingService: Maps text to fixed-length vectors
//   - VectorIndex: Persists vectors and answers nearest-neighbour queries
//   - LLMService: Streams grounded completions
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - BlobStore: Archives the raw uploaded file (audit artifact only;
//     unrelated to indexing correctness)
//   - DocumentLedger: Records what was ingested and with which model
package driven
