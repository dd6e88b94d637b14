package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
	"github.com/maestro-chat/maestro/internal/core/ports/driving"
	"github.com/maestro-chat/maestro/internal/logger"
)

// Ensure FeedbackService implements the interface.
var _ driving.FeedbackService = (*FeedbackService)(nil)

// FeedbackService validates and persists user feedback ratings and
// aggregates them for reporting.
type FeedbackService struct {
	store driven.FeedbackStore
}

// NewFeedbackService creates a feedback service over the given store.
func NewFeedbackService(store driven.FeedbackStore) *FeedbackService {
	return &FeedbackService{store: store}
}

// Submit validates and persists one feedback event.
func (s *FeedbackService) Submit(ctx context.Context, userID string, rating domain.Rating, messages []domain.Message) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if err := rating.Validate(); err != nil {
		return err
	}
	if len(messages) == 0 {
		return fmt.Errorf("%w: feedback must reference a conversation", domain.ErrInvalidInput)
	}
	for _, m := range messages {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	fb := domain.Feedback{
		UserID:   userID,
		Rating:   rating,
		Messages: messages,
	}
	if err := s.store.Save(ctx, &fb); err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}

	logger.Info("feedback saved: user=%s rating=%d", userID, rating.Overall)
	return nil
}

// Stats aggregates stored feedback.
func (s *FeedbackService) Stats(ctx context.Context) (*domain.FeedbackStats, error) {
	avg, err := s.store.AverageRating(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	dist, err := s.store.RatingDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}

	total := 0
	for _, count := range dist {
		total += count
	}

	return &domain.FeedbackStats{
		AverageRating:      avg,
		TotalFeedback:      total,
		RatingDistribution: dist,
	}, nil
}

// Recent returns the latest feedback records.
func (s *FeedbackService) Recent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListRecent(ctx, limit)
}

// ByUser returns one user's feedback history.
func (s *FeedbackService) ByUser(ctx context.Context, userID string, limit int) ([]domain.Feedback, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListByUser(ctx, userID, limit)
}

// LowRated returns feedback scored at or below the threshold.
func (s *FeedbackService) LowRated(ctx context.Context, threshold, limit int) ([]domain.Feedback, error) {
	if threshold < domain.MinRating || threshold > domain.MaxRating {
		return nil, fmt.Errorf("%w: threshold must be between %d and %d", domain.ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListLowRated(ctx, threshold, limit)
}

// Purge deletes feedback older than the given number of days.
func (s *FeedbackService) Purge(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("%w: days must be positive", domain.ErrInvalidInput)
	}
	removed, err := s.store.PurgeOlderThan(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("purging feedback: %w", err)
	}
	logger.Info("feedback purged: days=%d removed=%d", days, removed)
	return removed, nil
}
