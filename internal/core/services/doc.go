// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IngestionService owns the write path (extract, chunk, embed, index);
// QueryService owns the read path (embed query, retrieve, compose a
// grounded streamed answer).
package services
