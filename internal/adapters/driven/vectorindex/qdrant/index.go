// Package qdrant provides a vector index adapter backed by the Qdrant
// REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "docchat"
	DefaultTimeout    = 15 * time.Second
)

// pointIDNamespace maps deterministic vector IDs onto the UUID space
// Qdrant requires for point IDs. Same input, same point, so re-ingesting
// a document overwrites its points.
var pointIDNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("docchat-qdrant"))

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey authenticates requests (optional for local instances).
	APIKey string

	// Collection is the collection name (default: docchat).
	Collection string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Index is a REST client for one Qdrant collection using cosine distance.
type Index struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
}

// NewIndex creates a Qdrant vector index client.
func NewIndex(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}
}

// EnsureReady creates the collection with cosine distance if it does not
// exist. An already existing collection is fine.
func (x *Index) EnsureReady(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("qdrant: invalid dimensions %d", dimensions)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}

	status, err := x.send(ctx, http.MethodPut, x.collectionURL(""), body, nil)
	if err != nil {
		return err
	}
	// 409 means the collection already exists.
	if status != http.StatusOK && status != http.StatusConflict {
		return fmt.Errorf("qdrant: create collection returned status %d", status)
	}
	return nil
}

// Upsert writes points in one request and waits for them to be persisted,
// so a query immediately after ingestion sees the new vectors.
func (x *Index) Upsert(ctx context.Context, points []driven.Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]map[string]any, len(points))
	for i, p := range points {
		qdrantPoints[i] = map[string]any{
			"id":     pointID(p.ID),
			"vector": p.Vector,
			"payload": map[string]any{
				"vector_id":       p.ID,
				"text":            p.Text,
				"document_id":     p.DocumentID,
				"document_name":   p.DocumentName,
				"ordinal":         p.Ordinal,
				"embedding_model": p.EmbeddingModel,
			},
		}
	}

	body := map[string]any{"points": qdrantPoints}
	status, err := x.send(ctx, http.MethodPut, x.collectionURL("/points?wait=true"), body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant: upsert returned status %d", status)
	}
	return nil
}

// Query returns the k nearest points by cosine similarity.
func (x *Index) Query(ctx context.Context, vector []float32, k int) ([]driven.Hit, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	status, err := x.send(ctx, http.MethodPost, x.collectionURL("/points/search"), body, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("qdrant: search returned status %d", status)
	}

	hits := make([]driven.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hit := driven.Hit{Score: r.Score}
		if v, ok := r.Payload["text"].(string); ok {
			hit.Text = v
		}
		if v, ok := r.Payload["document_id"].(string); ok {
			hit.DocumentID = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// DeleteByDocument removes every point belonging to one document.
func (x *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "document_id",
					"match": map[string]any{"value": documentID},
				},
			},
		},
	}

	status, err := x.send(ctx, http.MethodPost, x.collectionURL("/points/delete?wait=true"), body, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("qdrant: delete returned status %d", status)
	}
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// pointID converts a deterministic vector ID into a Qdrant-valid UUID.
func pointID(vectorID string) string {
	return uuid.NewSHA1(pointIDNamespace, []byte(vectorID)).String()
}

func (x *Index) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", x.baseURL, x.collection, suffix)
}

// send issues one JSON request and decodes the response into out when
// given. The HTTP status is returned for the caller to interpret.
func (x *Index) send(ctx context.Context, method, url string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
		return resp.StatusCode, nil
	}

	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
