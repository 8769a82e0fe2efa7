package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// QueryService runs the retrieval-augmented answer pipeline.
type QueryService interface {
	// Retrieve embeds the question and returns up to k passages ranked by
	// similarity, with empty or whitespace-only passages filtered out.
	// An empty index or an unmatched question yields an empty slice, not
	// an error: that is the defined "no relevant information" outcome.
	Retrieve(ctx context.Context, question string, k int) ([]domain.RetrievedPassage, error)

	// Answer streams a grounded completion for the question using the
	// supplied passages as the only permissible knowledge source.
	// Passages must be non-empty; callers short-circuit the
	// no-relevant-information outcome before composing an answer.
	Answer(ctx context.Context, question string, passages []domain.RetrievedPassage) (<-chan domain.AnswerToken, error)
}
