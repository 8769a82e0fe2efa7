package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type stubIngester struct {
	result *domain.IngestionResult
	err    error
	got    []domain.Upload
}

func (s *stubIngester) Ingest(_ context.Context, upload domain.Upload) (*domain.IngestionResult, error) {
	s.got = append(s.got, upload)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubQuerier struct {
	passages []domain.RetrievedPassage
	tokens   []domain.AnswerToken
}

func (s *stubQuerier) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievedPassage, error) {
	return s.passages, nil
}

func (s *stubQuerier) Answer(_ context.Context, _ string, _ []domain.RetrievedPassage) (<-chan domain.AnswerToken, error) {
	ch := make(chan domain.AnswerToken, len(s.tokens))
	for _, tok := range s.tokens {
		ch <- tok
	}
	close(ch)
	return ch, nil
}

type stubDocuments struct {
	docs []domain.Document
}

func (s *stubDocuments) List(_ context.Context) ([]domain.Document, error) {
	return s.docs, nil
}

func (s *stubDocuments) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range s.docs {
		if s.docs[i].ID == id {
			return &s.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// setupTestServices injects stubs and returns a cleanup that restores
// the previous wiring.
func setupTestServices(ingester driving.IngestionService, querier driving.QueryService, documents driving.DocumentService) func() {
	oldIngester, oldQuerier, oldDocuments := ingestionService, queryService, documentService
	ingestionService, queryService, documentService = ingester, querier, documents
	return func() {
		ingestionService, queryService, documentService = oldIngester, oldQuerier, oldDocuments
	}
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// Root Command Tests

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docchat", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "serve")
	assert.Contains(t, commandNames, "ingest")
	assert.Contains(t, commandNames, "ask")
	assert.Contains(t, commandNames, "documents")
	assert.Contains(t, commandNames, "version")
}

// Version Command Tests

func TestVersionCmd_PrintsVersion(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "docchat version test-version-1.0.0")
}

// Ingest Command Tests

func TestIngestCmd_RequiresArg(t *testing.T) {
	_, err := execute("ingest")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestIngestCmd_IngestsFile(t *testing.T) {
	ingester := &stubIngester{result: &domain.IngestionResult{
		DocumentID: "doc-1",
		ChunkCount: 3,
	}}
	cleanup := setupTestServices(ingester, &stubQuerier{}, &stubDocuments{})
	defer cleanup()

	path := writeTempFile(t, "notes.txt", "some text")
	out, err := execute("ingest", path)

	assert.NoError(t, err)
	assert.Contains(t, out, "3 chunks")
	assert.Len(t, ingester.got, 1)
	assert.Equal(t, "notes.txt", ingester.got[0].Name)
	assert.Equal(t, []byte("some text"), ingester.got[0].Data)
}

func TestIngestCmd_ReportsFailures(t *testing.T) {
	ingester := &stubIngester{err: domain.ErrEmptyDocument}
	cleanup := setupTestServices(ingester, &stubQuerier{}, &stubDocuments{})
	defer cleanup()

	path := writeTempFile(t, "notes.txt", "text")
	_, err := execute("ingest", path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 documents failed")
}

func TestIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices(&stubIngester{}, &stubQuerier{}, &stubDocuments{})
	defer cleanup()

	_, err := execute("ingest", "/nonexistent/path.txt")

	assert.Error(t, err)
}

// Ask Command Tests

func TestAskCmd_RequiresArg(t *testing.T) {
	_, err := execute("ask")

	assert.Error(t, err)
}

func TestAskCmd_StreamsAnswer(t *testing.T) {
	querier := &stubQuerier{
		passages: []domain.RetrievedPassage{{Text: "context", Score: 0.9}},
		tokens: []domain.AnswerToken{
			{Content: "The answer"},
			{Content: " is 42."},
			{Done: true},
		},
	}
	cleanup := setupTestServices(&stubIngester{}, querier, &stubDocuments{})
	defer cleanup()

	out, err := execute("ask", "what", "is", "the", "answer")

	assert.NoError(t, err)
	assert.Contains(t, out, "The answer is 42.")
}

func TestAskCmd_NoRelevantInformation(t *testing.T) {
	cleanup := setupTestServices(&stubIngester{}, &stubQuerier{}, &stubDocuments{})
	defer cleanup()

	out, err := execute("ask", "unknown topic")

	assert.NoError(t, err)
	assert.Contains(t, out, "No relevant information found.")
}

func TestAskCmd_StreamError(t *testing.T) {
	querier := &stubQuerier{
		passages: []domain.RetrievedPassage{{Text: "context", Score: 0.9}},
		tokens: []domain.AnswerToken{
			{Content: "partial"},
			{Err: domain.ErrStreamInterrupted},
		},
	}
	cleanup := setupTestServices(&stubIngester{}, querier, &stubDocuments{})
	defer cleanup()

	_, err := execute("ask", "question")

	assert.ErrorIs(t, err, domain.ErrStreamInterrupted)
}

// Documents Command Tests

func TestDocumentsListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices(&stubIngester{}, &stubQuerier{}, &stubDocuments{})
	defer cleanup()

	out, err := execute("documents", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "No documents ingested yet.")
}

func TestDocumentsListCmd_ListsDocuments(t *testing.T) {
	docs := &stubDocuments{docs: []domain.Document{
		{ID: "doc-1", Name: "report.pdf", ChunkCount: 12},
		{ID: "doc-2", Name: "notes.txt", ChunkCount: 2},
	}}
	cleanup := setupTestServices(&stubIngester{}, &stubQuerier{}, docs)
	defer cleanup()

	out, err := execute("documents", "list")

	assert.NoError(t, err)
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "Total: 2 documents")
}

func TestDocumentsListCmd_JSON(t *testing.T) {
	docs := &stubDocuments{docs: []domain.Document{
		{ID: "doc-1", Name: "report.pdf", ChunkCount: 12},
	}}
	cleanup := setupTestServices(&stubIngester{}, &stubQuerier{}, docs)
	defer cleanup()

	out, err := execute("documents", "list", "--json")
	defer func() { documentsJSON = false }()

	assert.NoError(t, err)
	assert.Contains(t, out, `"ID": "doc-1"`)
	assert.Contains(t, out, `"Name": "report.pdf"`)
}

func TestDocumentsGetCmd_RequiresArg(t *testing.T) {
	_, err := execute("documents", "get")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentsGetCmd_ShowsDocument(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	docs := &stubDocuments{docs: []domain.Document{{
		ID:             "doc-1",
		Name:           "report.pdf",
		ChunkCount:     12,
		EmbeddingModel: "nomic-embed-text",
		CreatedAt:      now,
		UpdatedAt:      now,
	}}}
	cleanup := setupTestServices(&stubIngester{}, &stubQuerier{}, docs)
	defer cleanup()

	out, err := execute("documents", "get", "doc-1")

	assert.NoError(t, err)
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "nomic-embed-text")
	assert.Contains(t, out, "2025-06-01")
}

func TestDocumentsGetCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices(&stubIngester{}, &stubQuerier{}, &stubDocuments{})
	defer cleanup()

	_, err := execute("documents", "get", "missing")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
