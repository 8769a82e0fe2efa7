// Package ollama provides a streaming LLM service adapter using Ollama.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Ollama LLM service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the LLM model to use (default: llama3.2).
	Model string

	// Timeout bounds connection setup and non-streaming calls
	// (default: 30s). Streaming responses are bounded by ctx instead.
	Timeout time.Duration
}

// LLMService streams completions from a local Ollama instance.
type LLMService struct {
	client    *http.Client
	streaming *http.Client
	baseURL   string
	model     string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateChunk is one line of the NDJSON streaming response.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg Config) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		// No Timeout: cancellation comes from the request context.
		streaming: &http.Client{},
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
	}
}

// GenerateStream starts a streamed generation and relays NDJSON lines as
// tokens. The channel is closed after a terminal token.
func (s *LLMService) GenerateStream(ctx context.Context, system, user string) (<-chan driven.Token, error) {
	reqBody := generateRequest{
		Model:  s.model,
		System: system,
		Prompt: user,
		Stream: true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.streaming.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("ollama error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(body))
	}

	tokens := make(chan driven.Token)
	go s.relay(resp.Body, tokens)
	return tokens, nil
}

// relay parses NDJSON lines until done or an error.
func (s *LLMService) relay(body io.ReadCloser, tokens chan<- driven.Token) {
	defer close(tokens)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			tokens <- driven.Token{Err: fmt.Errorf("decode stream chunk: %w", err)}
			return
		}
		if chunk.Error != "" {
			tokens <- driven.Token{Err: fmt.Errorf("ollama error: %s", chunk.Error)}
			return
		}

		if chunk.Response != "" {
			tokens <- driven.Token{Content: chunk.Response}
		}
		if chunk.Done {
			tokens <- driven.Token{Done: true}
			return
		}
	}

	if err := scanner.Err(); err != nil {
		tokens <- driven.Token{Err: fmt.Errorf("read stream: %w", err)}
		return
	}
	tokens <- driven.Token{Err: fmt.Errorf("ollama: stream ended before completion")}
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /api/tags endpoint.
// This is a lightweight check that validates connectivity without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("ollama: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ollama: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("ollama: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP clients don't need explicit cleanup
	return nil
}
