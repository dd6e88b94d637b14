// Package memory provides an in-memory vector store for tests and
// local development. Passages are partitioned by namespace and ranked
// by cosine similarity.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

type record struct {
	chunk  domain.Chunk
	vector []float32
}

// Store keeps vectors in process memory.
type Store struct {
	mu         sync.RWMutex
	records    map[domain.Namespace]map[string]record
	dimensions int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[domain.Namespace]map[string]record),
	}
}

// Query returns the top-k passages in one namespace ranked by cosine
// similarity. Other namespaces never contribute matches.
func (s *Store) Query(_ context.Context, namespace domain.Namespace, vector []float32, k int) ([]domain.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	partition := s.records[namespace]
	if len(partition) == 0 || k <= 0 {
		return nil, nil
	}

	scored := make([]domain.Passage, 0, len(partition))
	for _, rec := range partition {
		scored = append(scored, domain.Passage{
			Text:  rec.chunk.Text,
			Score: cosineSimilarity(vector, rec.vector),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// Upsert writes chunks into one namespace, replacing same-ID entries.
func (s *Store) Upsert(_ context.Context, namespace domain.Namespace, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memory: %d chunks for %d vectors", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	partition := s.records[namespace]
	if partition == nil {
		partition = make(map[string]record)
		s.records[namespace] = partition
	}
	for i, chunk := range chunks {
		partition[chunk.ID] = record{chunk: chunk, vector: vectors[i]}
	}
	return nil
}

// EnsureIndex records the vector dimensionality.
func (s *Store) EnsureIndex(_ context.Context, dimensions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimensions = dimensions
	return nil
}

// Reset drops all data.
func (s *Store) Reset(_ context.Context, dimensions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[domain.Namespace]map[string]record)
	s.dimensions = dimensions
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close releases nothing.
func (s *Store) Close() error { return nil }

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
