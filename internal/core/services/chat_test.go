package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

func newTestChatService(llm *mockLLM, embedder *mockEmbedder, store *mockVectorStore, mode RoutingMode) *ChatService {
	set := testNamespaces()
	resolver := NewNamespaceResolver(set, llm)
	retriever := NewRetriever(embedder, store, DefaultTopK)
	composer := NewPromptComposer(DefaultLanguage)
	generator := NewResponseGenerator(llm)
	return NewChatService(resolver, retriever, composer, generator, mode)
}

// TestChatService_Chat tests the full pipeline against a known namespace
func TestChatService_Chat(t *testing.T) {
	llm := &mockLLM{reply: "Equality of conditions is the fundamental fact."}
	embedder := &mockEmbedder{embedding: []float32{0.1, 0.2}}
	store := newMockVectorStore()
	store.passages["tocqueville"] = []domain.Passage{
		{Text: "Democracy in America, volume one.", Score: 0.92},
		{Text: "Notes on the township system.", Score: 0.85},
	}

	svc := newTestChatService(llm, embedder, store, RoutingDirect)

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{
		Character: "Tocqueville",
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: "What did you observe in America?"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Equality of conditions is the fundamental fact.", resp.Result.Message.Content)
	assert.Equal(t, domain.FinishReasonStop, resp.Result.FinishReason)
	assert.True(t, strings.HasPrefix(resp.ID, "toc-"))

	// The composed prompt carries the persona and the retrieved context.
	assert.Contains(t, llm.lastPrompt.System, "Tocqueville Master")
	assert.Contains(t, llm.lastPrompt.User, "Democracy in America, volume one.")
	assert.Contains(t, llm.lastPrompt.User, domain.ContextSeparator)
	assert.Equal(t, "tocqueville", string(store.lastNS))

	// The last user turn, not the first, drives retrieval and the prompt.
	assert.Contains(t, llm.lastPrompt.User, "What did you observe in America?")
}

// TestChatService_Chat_LastUserTurnWins tests question selection from a
// multi-turn conversation
func TestChatService_Chat_LastUserTurnWins(t *testing.T) {
	llm := &mockLLM{reply: "x"}
	store := newMockVectorStore()
	svc := newTestChatService(llm, &mockEmbedder{embedding: []float32{0.1}}, store, RoutingDirect)

	_, err := svc.Chat(context.Background(), domain.ChatRequest{
		Character: "tocqueville",
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: "first question"},
			{Role: domain.RoleAssistant, Content: "first answer"},
			{Role: domain.RoleUser, Content: "second question"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, llm.lastPrompt.User, "second question")
	assert.NotContains(t, llm.lastPrompt.User, "first question")
}

// TestChatService_Chat_UnknownCharacterFallsBack tests the default
// namespace path end to end
func TestChatService_Chat_UnknownCharacterFallsBack(t *testing.T) {
	llm := &mockLLM{reply: "General knowledge answer."}
	store := newMockVectorStore()
	store.passages["common"] = []domain.Passage{{Text: "shared corpus passage", Score: 0.5}}

	svc := newTestChatService(llm, &mockEmbedder{embedding: []float32{0.1}}, store, RoutingDirect)

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{
		Character: "nonexistent-school",
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: "hello"}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ID, "com-"))
	assert.Contains(t, llm.lastPrompt.System, "Common Master")
	assert.Equal(t, "common", string(store.lastNS))
}

// TestChatService_Chat_QueryRouting tests that query mode consults the
// model with the question rather than the character field
func TestChatService_Chat_QueryRouting(t *testing.T) {
	llm := &mockLLM{reply: "answer", routerReply: "tocqueville"}
	store := newMockVectorStore()
	svc := newTestChatService(llm, &mockEmbedder{embedding: []float32{0.1}}, store, RoutingQuery)

	_, err := svc.Chat(context.Background(), domain.ChatRequest{
		Character: "ignored-in-query-mode",
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: "Who wrote about American democracy?"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "tocqueville", string(store.lastNS))
}

// TestChatService_Chat_ValidationRejectsBeforeAnyCall tests that a bad
// request never reaches the model, embedder or store
func TestChatService_Chat_ValidationRejectsBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name string
		req  domain.ChatRequest
		want error
	}{
		{
			name: "empty conversation",
			req:  domain.ChatRequest{Character: "tocqueville"},
			want: domain.ErrEmptyConversation,
		},
		{
			name: "no user turn",
			req: domain.ChatRequest{
				Character: "tocqueville",
				Messages:  []domain.Message{{Role: domain.RoleAssistant, Content: "hi"}},
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "invalid role",
			req: domain.ChatRequest{
				Character: "tocqueville",
				Messages:  []domain.Message{{Role: "moderator", Content: "hi"}},
			},
			want: domain.ErrInvalidInput,
		},
		{
			name: "temperature out of range",
			req: domain.ChatRequest{
				Character:   "tocqueville",
				Messages:    []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
				Temperature: floatPtr(2.5),
			},
			want: domain.ErrTemperatureRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLM{reply: "x"}
			embedder := &mockEmbedder{embedding: []float32{0.1}}
			store := newMockVectorStore()
			svc := newTestChatService(llm, embedder, store, RoutingDirect)

			_, err := svc.Chat(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)

			complete, stream := llm.calls()
			assert.Zero(t, complete, "model must not be called")
			assert.Zero(t, stream, "model stream must not be opened")
			assert.Zero(t, embedder.calls, "embedder must not be called")
			assert.Zero(t, store.queryCalls, "store must not be queried")
		})
	}
}

// TestChatService_Chat_RetrievalFailure tests error propagation
func TestChatService_Chat_RetrievalFailure(t *testing.T) {
	llm := &mockLLM{reply: "x"}
	store := newMockVectorStore()
	store.queryErr = domain.ErrVectorStoreUnavailable
	svc := newTestChatService(llm, &mockEmbedder{embedding: []float32{0.1}}, store, RoutingDirect)

	_, err := svc.Chat(context.Background(), domain.ChatRequest{
		Character: "tocqueville",
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
	})
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	assert.Zero(t, llm.completeCalls, "generation must not run after retrieval fails")
}

// TestChatService_Chat_EmptyIndexStillAnswers tests the empty-context path
func TestChatService_Chat_EmptyIndexStillAnswers(t *testing.T) {
	llm := &mockLLM{reply: "Answer from general knowledge."}
	svc := newTestChatService(llm, &mockEmbedder{embedding: []float32{0.1}}, newMockVectorStore(), RoutingDirect)

	resp, err := svc.Chat(context.Background(), domain.ChatRequest{
		Character: "tocqueville",
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Answer from general knowledge.", resp.Result.Message.Content)
}

// TestChatService_Chat_DefaultTemperature tests the configured fallback
func TestChatService_Chat_DefaultTemperature(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	svc := newTestChatService(llm, &mockEmbedder{embedding: []float32{0.1}}, newMockVectorStore(), RoutingDirect)
	svc.SetDefaultTemperature(floatPtr(0.4))

	_, err := svc.Chat(context.Background(), domain.ChatRequest{
		Character: "tocqueville",
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	require.NotNil(t, llm.lastOpts.Temperature)
	assert.Equal(t, 0.4, *llm.lastOpts.Temperature)

	// A per-request override beats the configured default.
	_, err = svc.Chat(context.Background(), domain.ChatRequest{
		Character:   "tocqueville",
		Messages:    []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
		Temperature: floatPtr(1.1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1.1, *llm.lastOpts.Temperature)
}

// TestChatService_ChatStream tests that the streaming entrypoint runs
// the same pipeline and honours the envelope order
func TestChatService_ChatStream(t *testing.T) {
	llm := &mockLLM{fragments: []string{"Equality ", "of conditions."}}
	store := newMockVectorStore()
	store.passages["tocqueville"] = []domain.Passage{{Text: "ctx", Score: 0.9}}
	svc := newTestChatService(llm, &mockEmbedder{embedding: []float32{0.1}}, store, RoutingDirect)

	events, err := svc.ChatStream(context.Background(), domain.ChatRequest{
		Character: "tocqueville",
		Messages:  []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
		Stream:    true,
	})
	require.NoError(t, err)

	var content strings.Builder
	doneCount := 0
	for ev := range events {
		if ev.Chunk != nil && ev.Chunk.Result != nil {
			content.WriteString(ev.Chunk.Result.Delta.Content)
		}
		if ev.Done {
			doneCount++
		}
	}
	assert.Equal(t, "Equality of conditions.", content.String())
	assert.Equal(t, 1, doneCount)
	assert.Contains(t, llm.lastPrompt.User, "ctx")
}

// TestChatService_ChatStream_ValidationFailsSynchronously tests that a
// bad request errors before any stream is opened
func TestChatService_ChatStream_ValidationFailsSynchronously(t *testing.T) {
	llm := &mockLLM{fragments: []string{"x"}}
	svc := newTestChatService(llm, &mockEmbedder{embedding: []float32{0.1}}, newMockVectorStore(), RoutingDirect)

	events, err := svc.ChatStream(context.Background(), domain.ChatRequest{Character: "tocqueville"})
	assert.ErrorIs(t, err, domain.ErrEmptyConversation)
	assert.Nil(t, events)
	assert.Zero(t, llm.streamCalls)
}

func floatPtr(f float64) *float64 { return &f }
