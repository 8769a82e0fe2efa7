package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestBuildGroundingInstruction_ContainsPassagesVerbatim(t *testing.T) {
	passages := []domain.RetrievedPassage{
		{Text: "The warranty lasts 24 months.", Score: 0.92},
		{Text: "Returns are accepted within 30 days.", Score: 0.81},
	}

	prompt := BuildGroundingInstruction(passages)

	assert.Contains(t, prompt, "The warranty lasts 24 months.")
	assert.Contains(t, prompt, "Returns are accepted within 30 days.")
}

func TestBuildGroundingInstruction_JoinsWithSeparator(t *testing.T) {
	passages := []domain.RetrievedPassage{
		{Text: "first"},
		{Text: "second"},
		{Text: "third"},
	}

	prompt := BuildGroundingInstruction(passages)

	assert.Contains(t, prompt, "first\n---\nsecond\n---\nthird")
	assert.Equal(t, 2, strings.Count(prompt, "\n---\n"))
}

func TestBuildGroundingInstruction_StatesFallback(t *testing.T) {
	prompt := BuildGroundingInstruction([]domain.RetrievedPassage{{Text: "anything"}})

	assert.Contains(t, prompt, FallbackSentence)
	assert.Contains(t, prompt, "knowledge base")
	assert.Contains(t, prompt, "markdown")
}

func TestBuildGroundingInstruction_Deterministic(t *testing.T) {
	passages := []domain.RetrievedPassage{
		{Text: "alpha", Score: 0.5},
		{Text: "beta", Score: 0.4},
	}

	assert.Equal(t, BuildGroundingInstruction(passages), BuildGroundingInstruction(passages))
}

func TestBuildGroundingInstruction_SinglePassageHasNoSeparator(t *testing.T) {
	prompt := BuildGroundingInstruction([]domain.RetrievedPassage{{Text: "only one"}})

	assert.NotContains(t, prompt, "\n---\n")
	assert.True(t, strings.HasSuffix(prompt, "only one"))
}
