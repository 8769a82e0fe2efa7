package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// uploadResponse mirrors what ingestion produced.
type uploadResponse struct {
	DocumentID string `json:"documentId"`
	BlobURL    string `json:"blobUrl,omitempty"`
	Chunks     int    `json:"chunks"`
	Msg        string `json:"msg"`
}

// queryRequest carries the user question.
type queryRequest struct {
	Prompt string `json:"prompt"`
}

// handleUpload ingests one multipart file upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad_request", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad_request", "could not read upload")
		return
	}

	result, err := s.ingester.Ingest(r.Context(), domain.Upload{
		Name: header.Filename,
		Data: data,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		DocumentID: result.DocumentID,
		BlobURL:    result.BlobURL,
		Chunks:     result.ChunkCount,
		Msg:        fmt.Sprintf("Successfully embedded PDF with %d chunks", result.ChunkCount),
	})
}

// handleQuery retrieves grounding passages and streams the answer as SSE.
// A question the index has nothing for is a 404, not an empty stream.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_request", "request body must be JSON with a \"prompt\" field")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeErr(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}

	passages, err := s.querier.Retrieve(r.Context(), req.Prompt, s.topK)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if len(passages) == 0 {
		writeErr(w, http.StatusNotFound, "no_relevant_information", "No relevant information found.")
		return
	}

	tokens, err := s.querier.Answer(r.Context(), req.Prompt, passages)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "internal", "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for tok := range tokens {
		if tok.Err != nil {
			sendSSE(w, flusher, map[string]any{"error": tok.Err.Error(), "done": true})
			return
		}
		if tok.Done {
			sendSSE(w, flusher, map[string]any{"done": true})
			return
		}
		sendSSE(w, flusher, map[string]any{"content": tok.Content})
	}
}

// handleListDocuments returns the ingestion ledger.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.List(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleGetDocument returns one ledger record.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeDomainErr maps domain sentinel errors onto HTTP statuses.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeErr(w, http.StatusUnsupportedMediaType, "unsupported_format", err.Error())
	case errors.Is(err, domain.ErrEmptyDocument):
		writeErr(w, http.StatusBadRequest, "empty_document", err.Error())
	case errors.Is(err, domain.ErrExtraction):
		writeErr(w, http.StatusUnprocessableEntity, "extraction_failed", err.Error())
	case errors.Is(err, domain.ErrInvalidConfiguration):
		writeErr(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrProviderFault):
		writeErr(w, http.StatusBadGateway, "provider_fault", err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, data map[string]any) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}
