package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
	"github.com/maestro-chat/maestro/internal/logger"
)

// DefaultTopK is the retrieval depth when none is configured.
const DefaultTopK = 8

// Retriever queries the vector store for the passages most similar to a
// question, scoped strictly to one namespace.
type Retriever struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	topK     int
}

// NewRetriever creates a retriever with the configured retrieval depth.
// A non-positive topK falls back to DefaultTopK.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		topK:     topK,
	}
}

// Retrieve returns the top-K passages for the question, concatenated in
// store relevance order with the fixed separator. Zero matches yields an
// empty string, not an error; a store or embedding failure is an error
// and never a partial result.
func (r *Retriever) Retrieve(ctx context.Context, namespace domain.Namespace, question string) (string, error) {
	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("%w: embedding question: %w", domain.ErrRetrievalFailed, err)
	}

	passages, err := r.store.Query(ctx, namespace, vector, r.topK)
	if err != nil {
		return "", fmt.Errorf("%w: querying namespace %q: %w", domain.ErrRetrievalFailed, namespace, err)
	}

	logger.Debug("retrieved %d passages from namespace %q", len(passages), namespace)

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return strings.Join(texts, domain.ContextSeparator), nil
}
