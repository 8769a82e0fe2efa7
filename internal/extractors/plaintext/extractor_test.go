package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}

func TestExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{"txt", "md", "markdown"}, New().Extensions())
}

func TestExtract_PassesTextThrough(t *testing.T) {
	text, err := New().Extract(context.Background(), []byte("# Heading\n\nBody text."), "notes.md")
	require.NoError(t, err)
	assert.Equal(t, "# Heading\n\nBody text.", text)
}

func TestExtract_StripsByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("content")...)

	text, err := New().Extract(context.Background(), data, "bom.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", text)
}

func TestExtract_RejectsInvalidUTF8(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte{0xFF, 0xFE, 0x00}, "latin1.txt")

	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtract_PreservesUnicode(t *testing.T) {
	text, err := New().Extract(context.Background(), []byte("héllo wörld 日本語"), "unicode.txt")
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld 日本語", text)
}
