package driven

import (
	"context"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

// FeedbackStore durably records user feedback events.
type FeedbackStore interface {
	// Save persists a feedback record and assigns its ID.
	Save(ctx context.Context, fb *domain.Feedback) error

	// ListByUser returns a user's feedback, most recent first.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Feedback, error)

	// ListRecent returns the latest feedback across all users.
	ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error)

	// AverageRating returns the mean overall score over the last days
	// (zero days means all time), 0 when no feedback exists.
	AverageRating(ctx context.Context, days int) (float64, error)

	// RatingDistribution maps each overall score to its count.
	RatingDistribution(ctx context.Context) (map[int]int, error)

	// ListLowRated returns feedback at or below the threshold score,
	// most recent first.
	ListLowRated(ctx context.Context, threshold, limit int) ([]domain.Feedback, error)

	// PurgeOlderThan deletes records older than the given number of days
	// and reports how many were removed.
	PurgeOlderThan(ctx context.Context, days int) (int64, error)

	// Close releases resources.
	Close() error
}
