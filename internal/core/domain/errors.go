package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidConfiguration indicates malformed chunking parameters or
	// missing required settings. Rejected before any network call.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates the uploaded bytes are not a format
	// any registered extractor handles. Non-retryable with the same input.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtraction indicates the document was recognised but its content
	// could not be extracted (corrupt or malformed file).
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmptyDocument indicates extraction yielded no usable text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrProviderFault indicates an embedding, index, blob or generation
	// backend failure (timeout, auth, quota). Propagated to the caller as a
	// service-level failure; not retried inside the core.
	ErrProviderFault = errors.New("provider fault")

	// ErrStreamInterrupted indicates generation failed or was cancelled
	// after partial output had already been streamed.
	ErrStreamInterrupted = errors.New("answer stream interrupted")

	// ErrUnauthorized indicates a missing or mismatched bearer credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoPassages indicates answer composition was invoked without any
	// retrieved passages. Callers must short-circuit the "no relevant
	// information" outcome before composing an answer.
	ErrNoPassages = errors.New("no passages supplied")
)
