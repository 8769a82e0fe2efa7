package services

import (
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// PromptVersion identifies the grounding template. Bump it whenever the
// wording changes so answer regressions can be traced to a template change.
const PromptVersion = "v1"

// FallbackSentence is what the model is instructed to emit when the
// knowledge base does not cover the question.
const FallbackSentence = `Sorry, I don't know.`

// passageSeparator joins passages inside the knowledge base block.
const passageSeparator = "\n---\n"

// BuildGroundingInstruction renders the system instruction that constrains
// the model to the retrieved passages. It is a pure function of its input,
// so the grounding contract is testable without a live model call.
func BuildGroundingInstruction(passages []domain.RetrievedPassage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful assistant. Check your knowledge base before answering any questions.\n")
	sb.WriteString("Only respond to questions using information from the knowledge base below.\n")
	sb.WriteString("If no relevant information is found in the knowledge base, respond, \"")
	sb.WriteString(FallbackSentence)
	sb.WriteString("\"\n")
	sb.WriteString("Always format your answer using markdown (including lists, code, tables, headings, etc.) for best display to the user.\n")
	sb.WriteString("Knowledge base:\n")
	sb.WriteString(strings.Join(texts, passageSeparator))
	return sb.String()
}
