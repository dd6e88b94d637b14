package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

// TestRetriever_Retrieve tests context assembly from store passages
func TestRetriever_Retrieve(t *testing.T) {
	store := newMockVectorStore()
	store.passages["tocqueville"] = []domain.Passage{
		{Text: "first passage", Score: 0.92},
		{Text: "second passage", Score: 0.85},
		{Text: "third passage", Score: 0.71},
	}

	retriever := NewRetriever(&mockEmbedder{embedding: []float32{0.1, 0.2}}, store, 8)

	got, err := retriever.Retrieve(context.Background(), "tocqueville", "a question")
	require.NoError(t, err)

	assert.Equal(t, "first passage\n---\nsecond passage\n---\nthird passage", got)
	assert.Equal(t, domain.Namespace("tocqueville"), store.lastNS)
	assert.Equal(t, 8, store.lastK)
}

// TestRetriever_Retrieve_NamespaceScoped tests that retrieval never
// bleeds across partitions
func TestRetriever_Retrieve_NamespaceScoped(t *testing.T) {
	store := newMockVectorStore()
	store.passages["tocqueville"] = []domain.Passage{{Text: "tocqueville material"}}
	store.passages["common"] = []domain.Passage{{Text: "common material"}}

	retriever := NewRetriever(&mockEmbedder{embedding: []float32{0.1}}, store, 8)

	got, err := retriever.Retrieve(context.Background(), "common", "a question")
	require.NoError(t, err)

	assert.Equal(t, "common material", got)
	assert.NotContains(t, got, "tocqueville")
}

// TestRetriever_Retrieve_ZeroMatches tests the empty-context contract
func TestRetriever_Retrieve_ZeroMatches(t *testing.T) {
	retriever := NewRetriever(&mockEmbedder{embedding: []float32{0.1}}, newMockVectorStore(), 8)

	got, err := retriever.Retrieve(context.Background(), "tocqueville", "a question")
	require.NoError(t, err)
	assert.Empty(t, got)
}

// TestRetriever_Retrieve_RespectsTopK tests the retrieval depth
func TestRetriever_Retrieve_RespectsTopK(t *testing.T) {
	store := newMockVectorStore()
	store.passages["common"] = []domain.Passage{
		{Text: "one"}, {Text: "two"}, {Text: "three"}, {Text: "four"},
	}

	retriever := NewRetriever(&mockEmbedder{embedding: []float32{0.1}}, store, 2)

	got, err := retriever.Retrieve(context.Background(), "common", "q")
	require.NoError(t, err)
	assert.Equal(t, "one\n---\ntwo", got)
}

// TestRetriever_DefaultTopK tests the configured default depth
func TestRetriever_DefaultTopK(t *testing.T) {
	store := newMockVectorStore()
	retriever := NewRetriever(&mockEmbedder{embedding: []float32{0.1}}, store, 0)

	_, err := retriever.Retrieve(context.Background(), "common", "q")
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, store.lastK)
}

// TestRetriever_Retrieve_StoreFailure tests error classification
func TestRetriever_Retrieve_StoreFailure(t *testing.T) {
	store := newMockVectorStore()
	store.queryErr = errors.New("connection reset")

	retriever := NewRetriever(&mockEmbedder{embedding: []float32{0.1}}, store, 8)

	_, err := retriever.Retrieve(context.Background(), "common", "q")
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
}

// TestRetriever_Retrieve_EmbeddingFailure tests error classification
func TestRetriever_Retrieve_EmbeddingFailure(t *testing.T) {
	embedder := &mockEmbedder{embedErr: errors.New("quota exceeded")}
	store := newMockVectorStore()

	retriever := NewRetriever(embedder, store, 8)

	_, err := retriever.Retrieve(context.Background(), "common", "q")
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	assert.Zero(t, store.queryCalls, "store must not be queried after embedding failure")
}
