package driven

import "context"

// LLMService streams text generation from a language model.
//
// Implementations may include:
//   - OpenAI (chat completions with stream=true)
//   - Ollama (local models, NDJSON streaming)
type LLMService interface {
	// GenerateStream produces a completion for the given system instruction
	// and user text, delivered incrementally as tokens are generated.
	//
	// The returned channel observes the stream contract of
	// domain.AnswerToken: in-order delivery, closed after a terminal
	// token, and an error terminal distinct from clean completion.
	// Cancelling ctx stops the upstream generation promptly.
	GenerateStream(ctx context.Context, system, user string) (<-chan Token, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Token is a single element of a streamed completion.
type Token struct {
	// Content is the token text.
	Content string

	// Done marks clean end of generation.
	Done bool

	// Err marks abnormal termination after zero or more tokens.
	Err error
}
