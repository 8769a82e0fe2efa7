// Package anthropic streams completions from the Anthropic Messages API.
package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 30 * time.Second
	DefaultMaxTokens = 1024

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the LLM model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout bounds connection setup and non-streaming calls
	// (default: 30s). Streaming responses are bounded by ctx instead.
	Timeout time.Duration

	// MaxTokens caps the response length (default: 1024). The Messages
	// API requires it to be set.
	MaxTokens int
}

// LLMService streams completions from the Anthropic Messages API.
type LLMService struct {
	client    *http.Client
	streaming *http.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

// messagesRequest is the /v1/messages request format.
type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
	Stream    bool              `json:"stream"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamEvent is one SSE data payload. The Messages stream interleaves
// several event types; only content_block_delta carries text.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new Anthropic LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		// No Timeout: cancellation comes from the request context.
		streaming: &http.Client{},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// GenerateStream starts a streamed completion and relays content deltas
// as tokens. The channel is closed after a terminal token.
func (s *LLMService) GenerateStream(ctx context.Context, system, user string) (<-chan driven.Token, error) {
	reqBody := messagesRequest{
		Model: s.model,
		Messages: []messagesMessage{
			{Role: "user", Content: user},
		},
		MaxTokens: s.maxTokens,
		System:    system,
		Stream:    true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.streaming.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("anthropic error (status %d): failed to read response", resp.StatusCode)
		}
		return nil, fmt.Errorf("anthropic error (status %d): %s", resp.StatusCode, string(body))
	}

	tokens := make(chan driven.Token)
	go s.relay(resp.Body, tokens)
	return tokens, nil
}

// relay parses the SSE body until message_stop or an error event.
func (s *LLMService) relay(body io.ReadCloser, tokens chan<- driven.Token) {
	defer close(tokens)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")

		var event streamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			tokens <- driven.Token{Err: fmt.Errorf("decode stream event: %w", err)}
			return
		}

		switch event.Type {
		case "error":
			msg := "unknown error"
			if event.Error != nil {
				msg = event.Error.Message
			}
			tokens <- driven.Token{Err: fmt.Errorf("anthropic error: %s", msg)}
			return
		case "content_block_delta":
			if event.Delta.Text != "" {
				tokens <- driven.Token{Content: event.Delta.Text}
			}
		case "message_stop":
			tokens <- driven.Token{Done: true}
			return
		}
	}

	if err := scanner.Err(); err != nil {
		tokens <- driven.Token{Err: fmt.Errorf("read stream: %w", err)}
		return
	}
	tokens <- driven.Token{Err: fmt.Errorf("anthropic: stream ended before completion")}
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /v1/models
// endpoint. This validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("anthropic: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("anthropic: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
