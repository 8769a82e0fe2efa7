// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Upload: Opaque document bytes handed to ingestion
//   - Document: A record of an ingested document
//   - Chunk: The unit of embedding and retrieval
//   - RetrievedPassage: A scored passage returned by retrieval
//   - AnswerToken: One element of a streamed answer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
