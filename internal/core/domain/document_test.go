package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk_VectorID(t *testing.T) {
	c := Chunk{SourceDocument: "doc-42", Ordinal: 3}
	assert.Equal(t, "doc-42-chunk-3", c.VectorID())
}

// TestChunk_VectorID_Deterministic confirms re-ingesting the same document
// produces the same point IDs, so upserts overwrite rather than duplicate.
func TestChunk_VectorID_Deterministic(t *testing.T) {
	a := Chunk{SourceDocument: "doc-42", Ordinal: 0}
	b := Chunk{SourceDocument: "doc-42", Ordinal: 0}
	assert.Equal(t, a.VectorID(), b.VectorID())
}

func TestAnswerToken_TerminalStates(t *testing.T) {
	clean := AnswerToken{Done: true}
	failed := AnswerToken{Err: ErrStreamInterrupted}

	assert.True(t, clean.Done)
	assert.NoError(t, clean.Err)
	assert.False(t, failed.Done)
	assert.Error(t, failed.Err)
}

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidConfiguration", ErrInvalidConfiguration},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrExtraction", ErrExtraction},
		{"ErrEmptyDocument", ErrEmptyDocument},
		{"ErrProviderFault", ErrProviderFault},
		{"ErrStreamInterrupted", ErrStreamInterrupted},
		{"ErrUnauthorized", ErrUnauthorized},
		{"ErrNotFound", ErrNotFound},
		{"ErrNoPassages", ErrNoPassages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrUnsupportedFormat, ErrExtraction))
	assert.False(t, errors.Is(ErrStreamInterrupted, ErrProviderFault))
}
