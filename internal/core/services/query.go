package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 5

// QueryService answers questions strictly from indexed passages:
// it embeds the question, retrieves nearest neighbours and streams a
// grounded completion. No state is kept between calls.
type QueryService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	llm      driven.LLMService
	ledger   driven.DocumentLedger
}

// QueryOption configures the query service.
type QueryOption func(*QueryService)

// WithLedger attaches the ingestion ledger so retrieval can verify the
// configured embedding model against the one the index was built with.
func WithLedger(ledger driven.DocumentLedger) QueryOption {
	return func(s *QueryService) {
		s.ledger = ledger
	}
}

// NewQueryService creates a query service with injected collaborators.
func NewQueryService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.LLMService,
	opts ...QueryOption,
) *QueryService {
	s := &QueryService{
		embedder: embedder,
		index:    index,
		llm:      llm,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve embeds the question with the same embedding service used at
// ingestion time and returns up to k passages. An empty result is a
// defined outcome ("no relevant information"), never an error.
func (s *QueryService) Retrieve(ctx context.Context, question string, k int) ([]domain.RetrievedPassage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidConfiguration)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	logger.Section("Retrieval")
	logger.Debug("Question: %q, k=%d", question, k)

	// Refuse to query an index written with a different model: the
	// question vector would live in another vector space entirely.
	if s.ledger != nil {
		pinned, err := s.ledger.EmbeddingModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("read pinned model: %w", err)
		}
		if pinned != "" && pinned != s.embedder.ModelName() {
			return nil, fmt.Errorf("%w: index was built with embedding model %q, configured model is %q",
				domain.ErrInvalidConfiguration, pinned, s.embedder.ModelName())
		}
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", domain.ErrProviderFault, err)
	}

	hits, err := s.index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: query index: %w", domain.ErrProviderFault, err)
	}
	logger.Debug("Index returned %d hits", len(hits))

	passages := make([]domain.RetrievedPassage, 0, len(hits))
	for _, h := range hits {
		if strings.TrimSpace(h.Text) == "" {
			continue
		}
		passages = append(passages, domain.RetrievedPassage{
			Text:  h.Text,
			Score: h.Score,
		})
	}
	logger.Info("Retrieved %d usable passages", len(passages))

	return passages, nil
}

// Answer builds the grounding instruction and streams the completion.
// The returned channel observes the domain.AnswerToken terminal contract;
// cancelling ctx stops the upstream generation.
func (s *QueryService) Answer(ctx context.Context, question string, passages []domain.RetrievedPassage) (<-chan domain.AnswerToken, error) {
	if len(passages) == 0 {
		return nil, domain.ErrNoPassages
	}

	system := BuildGroundingInstruction(passages)
	logger.Debug("Grounding instruction (%s): %d characters, %d passages", PromptVersion, len(system), len(passages))

	tokens, err := s.llm.GenerateStream(ctx, system, question)
	if err != nil {
		return nil, fmt.Errorf("%w: start generation: %w", domain.ErrProviderFault, err)
	}

	out := make(chan domain.AnswerToken)
	go func() {
		defer close(out)
		for tok := range tokens {
			if tok.Err != nil {
				// Terminal error marker: distinguishable from clean
				// completion even when tokens were already delivered.
				out <- domain.AnswerToken{Err: fmt.Errorf("%w: %w", domain.ErrStreamInterrupted, tok.Err)}
				return
			}
			out <- domain.AnswerToken{Content: tok.Content, Done: tok.Done}
			if tok.Done {
				return
			}
		}
		// Upstream closed without a terminal marker; treat as interrupted
		// rather than silently passing off a truncated answer as complete.
		out <- domain.AnswerToken{Err: fmt.Errorf("%w: generation ended without completion marker", domain.ErrStreamInterrupted)}
	}()

	return out, nil
}
