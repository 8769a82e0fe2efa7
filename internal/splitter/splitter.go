// Package splitter provides the fixed-size overlapping chunk splitter used
// by the ingestion pipeline. Splitting is pure and deterministic: the same
// text and configuration always yield the same chunk sequence, which keeps
// indexing reproducible.
package splitter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of characters shared by
// consecutive chunks.
const DefaultOverlap = 200

// Splitter splits extracted document text into overlapping chunks.
// Chunks end at a paragraph, sentence or word boundary where one exists in
// the back half of the window, falling back to a hard cut.
type Splitter struct {
	size    int
	overlap int
}

// New creates a Splitter. It requires 0 <= overlap < size and size > 0;
// anything else is rejected with domain.ErrInvalidConfiguration before any
// work happens.
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfiguration, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must satisfy 0 <= overlap < %d, got %d", domain.ErrInvalidConfiguration, size, overlap)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// ChunkSize returns the configured window size in characters.
func (s *Splitter) ChunkSize() int { return s.size }

// Overlap returns the configured overlap in characters.
func (s *Splitter) Overlap() int { return s.overlap }

// Split walks text with a sliding window of the configured size, advancing
// by size-overlap each step. Chunk text is kept verbatim so the source can
// be reconstructed from the chunk sequence. Whitespace-only fragments are
// dropped; ordinals strictly increase from 0.
func (s *Splitter) Split(text, documentID string) []domain.Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []domain.Chunk
	ordinal := 0
	start := 0

	for start < n {
		end := start + s.size
		if end >= n {
			end = n
		} else {
			end = s.snap(runes, start, end)
		}

		segment := string(runes[start:end])
		if strings.TrimSpace(segment) != "" {
			chunks = append(chunks, domain.Chunk{
				Text:           segment,
				SourceDocument: documentID,
				Ordinal:        ordinal,
			})
			ordinal++
		}

		if end >= n {
			break
		}

		next := end - s.overlap
		if next <= start {
			// Snapping shrank the window past the overlap; step to the cut
			// point instead so the walk always makes forward progress.
			next = end
		}
		start = next
	}

	return chunks
}

// snap moves the window end back to the nearest semantic boundary, trying
// paragraph, then sentence, then word breaks. It never snaps earlier than
// the middle of the window, so a boundary-free text still advances.
func (s *Splitter) snap(runes []rune, start, end int) int {
	floor := start + (end-start)/2

	// Paragraph boundary: cut after a blank line.
	for i := end - 2; i > floor; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			return i + 2
		}
	}

	// Sentence boundary: terminator followed by whitespace.
	for i := end - 2; i > floor; i-- {
		if isSentenceEnd(runes[i]) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}

	// Word boundary: cut after the last space.
	for i := end - 1; i > floor; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}

	// Hard character cut.
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
