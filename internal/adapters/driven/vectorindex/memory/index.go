// Package memory provides an in-process vector index. It keeps every
// vector in a map and scans linearly on query, which is plenty for a few
// thousand chunks and keeps local development free of infrastructure.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a thread-safe in-memory vector index using cosine similarity.
type Index struct {
	mu         sync.RWMutex
	points     map[string]driven.Point
	dimensions int
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		points: make(map[string]driven.Point),
	}
}

// EnsureReady pins the index to one dimensionality.
func (x *Index) EnsureReady(_ context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("memory: invalid dimensions %d", dimensions)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.dimensions != 0 && x.dimensions != dimensions {
		return fmt.Errorf("memory: index holds %d-dimensional vectors, got %d", x.dimensions, dimensions)
	}
	x.dimensions = dimensions
	return nil
}

// Upsert stores points, replacing any with the same ID.
func (x *Index) Upsert(_ context.Context, points []driven.Point) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, p := range points {
		if x.dimensions != 0 && len(p.Vector) != x.dimensions {
			return fmt.Errorf("memory: point %s has %d dimensions, expected %d", p.ID, len(p.Vector), x.dimensions)
		}
		x.points[p.ID] = p
	}
	return nil
}

// Query scans all points and returns the k most similar.
func (x *Index) Query(_ context.Context, vector []float32, k int) ([]driven.Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	type scored struct {
		point driven.Point
		score float64
	}

	results := make([]scored, 0, len(x.points))
	for _, p := range x.points {
		results = append(results, scored{point: p, score: cosineSimilarity(vector, p.Vector)})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}
	hits := make([]driven.Hit, 0, k)
	for _, r := range results[:k] {
		hits = append(hits, driven.Hit{
			Text:       r.point.Text,
			Score:      r.score,
			DocumentID: r.point.DocumentID,
		})
	}
	return hits, nil
}

// DeleteByDocument removes every point belonging to one document.
func (x *Index) DeleteByDocument(_ context.Context, documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for id, p := range x.points {
		if p.DocumentID == documentID {
			delete(x.points, id)
		}
	}
	return nil
}

// Len returns the number of stored points.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.points)
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector is zero or lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
