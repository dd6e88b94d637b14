package driven

import (
	"context"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

// VectorStore provides namespace-partitioned nearest-neighbour search.
// Every operation takes the namespace explicitly; the store must never
// return passages from another partition.
type VectorStore interface {
	// Query returns the top k passages most similar to the vector,
	// scoped strictly to the namespace, in store relevance order.
	// Zero matches yields an empty slice, not an error.
	Query(ctx context.Context, namespace domain.Namespace, vector []float32, k int) ([]domain.Passage, error)

	// Upsert writes chunk texts and their vectors into the namespace.
	// Chunks and vectors correspond by position.
	Upsert(ctx context.Context, namespace domain.Namespace, chunks []domain.Chunk, vectors [][]float32) error

	// EnsureIndex creates the backing index with the given dimensionality
	// if it does not exist yet.
	EnsureIndex(ctx context.Context, dimensions int) error

	// Reset drops and recreates the backing index, discarding all
	// namespaces. Used by the batch indexer to avoid duplicate data.
	Reset(ctx context.Context, dimensions int) error

	// Ping validates the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
