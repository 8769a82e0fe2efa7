package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

func drain(t *testing.T, ch <-chan driven.Token) []driven.Token {
	t.Helper()
	var out []driven.Token
	for tok := range ch {
		out = append(out, tok)
	}
	return out
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestGenerateStream_RelaysNDJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		assert.Equal(t, "stay grounded", req.System)
		assert.Equal(t, "what is this?", req.Prompt)

		w.Write([]byte(`{"response":"Hello","done":false}` + "\n"))
		w.Write([]byte(`{"response":" world","done":false}` + "\n"))
		w.Write([]byte(`{"response":"!","done":true}` + "\n"))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	ch, err := svc.GenerateStream(context.Background(), "stay grounded", "what is this?")
	require.NoError(t, err)

	tokens := drain(t, ch)
	require.Len(t, tokens, 4)
	assert.Equal(t, "Hello", tokens[0].Content)
	assert.Equal(t, " world", tokens[1].Content)
	assert.Equal(t, "!", tokens[2].Content)
	assert.True(t, tokens[3].Done)
}

func TestGenerateStream_ErrorLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response":"partial","done":false}` + "\n"))
		w.Write([]byte(`{"error":"model crashed"}` + "\n"))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	ch, err := svc.GenerateStream(context.Background(), "", "hi")
	require.NoError(t, err)

	tokens := drain(t, ch)
	require.Len(t, tokens, 2)
	require.Error(t, tokens[1].Err)
	assert.Contains(t, tokens[1].Err.Error(), "model crashed")
}

func TestGenerateStream_TruncatedStreamEndsWithError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response":"partial","done":false}` + "\n"))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	ch, err := svc.GenerateStream(context.Background(), "", "hi")
	require.NoError(t, err)

	tokens := drain(t, ch)
	require.Len(t, tokens, 2)
	assert.Error(t, tokens[1].Err)
}

func TestGenerateStream_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	_, err := svc.GenerateStream(context.Background(), "", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestGenerateStream_CancelStopsStream(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"first","done":false}` + "\n"))
		w.Write([]byte(`{"response":"second","done":false}` + "\n"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := svc.GenerateStream(ctx, "", "hi")
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, "first", first.Content)
	second := <-ch
	assert.Equal(t, "second", second.Content)

	cancel()

	terminal, ok := <-ch
	require.True(t, ok)
	assert.Error(t, terminal.Err)
	assert.False(t, terminal.Done)

	_, ok = <-ch
	assert.False(t, ok)
}
