package driven

import "context"

// BlobStore archives raw uploaded files. The stored blob is an audit
// artifact only: retrieval and answering never read it back, and a blob
// write failure must not leave partial index state behind.
type BlobStore interface {
	// Put stores the raw bytes under the given object name and returns a
	// URL (or path) where the blob can be fetched.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)

	// Close releases resources.
	Close() error
}
