package services

import (
	"context"
	"errors"
	"sync"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockLLM implements driven.LLMService with scripted replies.
type mockLLM struct {
	mu sync.Mutex

	reply       string
	completeErr error

	// routerReply, when set, answers the capped classification call the
	// resolver makes instead of the general reply.
	routerReply string

	// fragments are emitted in order by StreamComplete; failAfter > 0
	// injects streamErr after that many fragments.
	fragments []string
	failAfter int
	streamErr error

	completeCalls int
	streamCalls   int
	lastPrompt    domain.Prompt
	lastOpts      driven.CompleteOptions
}

func (m *mockLLM) Complete(_ context.Context, prompt domain.Prompt, opts driven.CompleteOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.completeErr != nil {
		return "", m.completeErr
	}
	if m.routerReply != "" && opts.MaxTokens > 0 {
		return m.routerReply, nil
	}
	return m.reply, nil
}

func (m *mockLLM) StreamComplete(ctx context.Context, prompt domain.Prompt, opts driven.CompleteOptions) (<-chan string, <-chan error) {
	m.mu.Lock()
	m.streamCalls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	fragments := m.fragments
	failAfter := m.failAfter
	streamErr := m.streamErr
	m.mu.Unlock()

	contentCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(contentCh)
		defer close(errCh)
		for i, frag := range fragments {
			if streamErr != nil && failAfter > 0 && i == failAfter {
				errCh <- streamErr
				return
			}
			select {
			case contentCh <- frag:
			case <-ctx.Done():
				return
			}
		}
		if streamErr != nil && failAfter >= len(fragments) {
			errCh <- streamErr
		}
	}()

	return contentCh, errCh
}

func (m *mockLLM) ModelName() string            { return "mock-chat" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) calls() (complete, stream int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completeCalls, m.streamCalls
}

// mockEmbedder implements driven.EmbeddingService.
type mockEmbedder struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	dims      int
	calls     int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.embedding
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 768
}

func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockVectorStore implements driven.VectorStore with per-namespace
// passages.
type mockVectorStore struct {
	mu         sync.Mutex
	passages   map[domain.Namespace][]domain.Passage
	queryErr   error
	queryCalls int
	lastNS     domain.Namespace
	lastK      int

	upserts map[domain.Namespace][]domain.Chunk
	resets  int
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{
		passages: make(map[domain.Namespace][]domain.Passage),
		upserts:  make(map[domain.Namespace][]domain.Chunk),
	}
}

func (m *mockVectorStore) Query(_ context.Context, ns domain.Namespace, _ []float32, k int) ([]domain.Passage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++
	m.lastNS = ns
	m.lastK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	hits := m.passages[ns]
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockVectorStore) Upsert(_ context.Context, ns domain.Namespace, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts[ns] = append(m.upserts[ns], chunks...)
	return nil
}

func (m *mockVectorStore) EnsureIndex(_ context.Context, _ int) error { return nil }

func (m *mockVectorStore) Reset(_ context.Context, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.upserts = make(map[domain.Namespace][]domain.Chunk)
	return nil
}

func (m *mockVectorStore) Ping(_ context.Context) error { return nil }
func (m *mockVectorStore) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore with a fixed template map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	tmpl, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found")
	}
	return tmpl, nil
}

func (m *mockPromptStore) Reload() {}

// mockFeedbackStore implements driven.FeedbackStore in memory.
type mockFeedbackStore struct {
	mu        sync.Mutex
	saved     []domain.Feedback
	saveErr   error
	nextID    int64
	purged    int64
	purgeDays int
}

func (m *mockFeedbackStore) Save(_ context.Context, fb *domain.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.nextID++
	fb.ID = m.nextID
	m.saved = append(m.saved, *fb)
	return nil
}

func (m *mockFeedbackStore) ListByUser(_ context.Context, userID string, limit int) ([]domain.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Feedback
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if m.saved[i].UserID == userID {
			out = append(out, m.saved[i])
		}
	}
	return out, nil
}

func (m *mockFeedbackStore) ListRecent(_ context.Context, limit int) ([]domain.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Feedback
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.saved[i])
	}
	return out, nil
}

func (m *mockFeedbackStore) AverageRating(_ context.Context, _ int) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return 0, nil
	}
	sum := 0
	for _, fb := range m.saved {
		sum += fb.Rating.Overall
	}
	return float64(sum) / float64(len(m.saved)), nil
}

func (m *mockFeedbackStore) RatingDistribution(_ context.Context) (map[int]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dist := make(map[int]int)
	for _, fb := range m.saved {
		dist[fb.Rating.Overall]++
	}
	return dist, nil
}

func (m *mockFeedbackStore) ListLowRated(_ context.Context, threshold, limit int) ([]domain.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Feedback
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if m.saved[i].Rating.Overall <= threshold {
			out = append(out, m.saved[i])
		}
	}
	return out, nil
}

func (m *mockFeedbackStore) PurgeOlderThan(_ context.Context, days int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeDays = days
	return m.purged, nil
}

func (m *mockFeedbackStore) Close() error { return nil }

// testNamespaces is the configured set used across the service tests.
func testNamespaces() domain.NamespaceSet {
	return domain.NewNamespaceSet("common", []string{"tocqueville", "common"})
}
