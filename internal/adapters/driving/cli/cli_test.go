package cli

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driving"
	"github.com/maestro-chat/maestro/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

// mockChatService scripts chat pipeline responses for command tests.
type mockChatService struct {
	resp   *domain.ChatResponse
	err    error
	deltas []string
}

func (m *mockChatService) Chat(_ context.Context, _ domain.ChatRequest) (*domain.ChatResponse, error) {
	return m.resp, m.err
}

func (m *mockChatService) ChatStream(_ context.Context, _ domain.ChatRequest) (<-chan domain.StreamEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan domain.StreamEvent, len(m.deltas)+1)
	for _, delta := range m.deltas {
		ch <- domain.StreamEvent{Chunk: &domain.StreamChunk{
			Result: &domain.StreamResult{Delta: domain.StreamDelta{Content: delta}},
		}}
	}
	ch <- domain.StreamEvent{Done: true}
	close(ch)
	return ch, nil
}

// mockFeedbackService scripts feedback responses.
type mockFeedbackService struct {
	stats         *domain.FeedbackStats
	statsErr      error
	recent        []domain.Feedback
	lowRated      []domain.Feedback
	byUser        []domain.Feedback
	purged        int64
	purgeErr      error
	lastThreshold int
	lastUserID    string
	lastPurgeDays int
}

func (m *mockFeedbackService) Submit(_ context.Context, _ string, _ domain.Rating, _ []domain.Message) error {
	return nil
}

func (m *mockFeedbackService) Stats(_ context.Context) (*domain.FeedbackStats, error) {
	return m.stats, m.statsErr
}

func (m *mockFeedbackService) Recent(_ context.Context, _ int) ([]domain.Feedback, error) {
	return m.recent, nil
}

func (m *mockFeedbackService) ByUser(_ context.Context, userID string, _ int) ([]domain.Feedback, error) {
	m.lastUserID = userID
	return m.byUser, nil
}

func (m *mockFeedbackService) LowRated(_ context.Context, threshold, _ int) ([]domain.Feedback, error) {
	m.lastThreshold = threshold
	return m.lowRated, nil
}

func (m *mockFeedbackService) Purge(_ context.Context, days int) (int64, error) {
	m.lastPurgeDays = days
	return m.purged, m.purgeErr
}

// mockIndexerService scripts indexing outcomes.
type mockIndexerService struct {
	stats   *driving.IndexStats
	err     error
	lastDir string
	reset   bool
}

func (m *mockIndexerService) BuildIndex(_ context.Context, dataDir string, reset bool) (*driving.IndexStats, error) {
	m.lastDir = dataDir
	m.reset = reset
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

var errMock = errors.New("mock failure")

// setupTestServices installs mocks and returns a cleanup restoring the
// previous wiring.
func setupTestServices() func() {
	oldChat, oldFeedback, oldIndexer := chatService, feedbackService, indexerService

	chatService = &mockChatService{
		resp: &domain.ChatResponse{
			Result: domain.ResponseResult{
				Message:      domain.ResponseMessage{Role: domain.RoleAssistant, Content: "a considered answer"},
				FinishReason: domain.FinishReasonStop,
			},
			Created: time.Now().Unix(),
			ID:      "toc-test",
		},
		deltas: []string{"a considered", " answer"},
	}
	feedbackService = &mockFeedbackService{
		stats: &domain.FeedbackStats{
			AverageRating:      8.25,
			TotalFeedback:      4,
			RatingDistribution: map[int]int{7: 1, 8: 1, 9: 2},
		},
		recent: []domain.Feedback{
			{ID: 2, UserID: "u1", Rating: domain.Rating{Overall: 9, Comment: "great"}, CreatedAt: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
		},
	}
	indexerService = &mockIndexerService{
		stats: &driving.IndexStats{
			Files:      3,
			Chunks:     42,
			Namespaces: []domain.Namespace{"tocqueville", "common"},
		},
	}

	return func() {
		chatService = oldChat
		feedbackService = oldFeedback
		indexerService = oldIndexer
	}
}
