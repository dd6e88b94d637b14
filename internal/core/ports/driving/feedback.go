package driving

import (
	"context"

	"github.com/maestro-chat/maestro/internal/core/domain"
)

// FeedbackService collects and aggregates user feedback ratings.
type FeedbackService interface {
	// Submit validates and persists one feedback event.
	Submit(ctx context.Context, userID string, rating domain.Rating, messages []domain.Message) error

	// Stats aggregates stored feedback for reporting.
	Stats(ctx context.Context) (*domain.FeedbackStats, error)

	// Recent returns the latest feedback records.
	Recent(ctx context.Context, limit int) ([]domain.Feedback, error)

	// ByUser returns one user's feedback history, most recent first.
	ByUser(ctx context.Context, userID string, limit int) ([]domain.Feedback, error)

	// LowRated returns feedback scored at or below the threshold.
	LowRated(ctx context.Context, threshold, limit int) ([]domain.Feedback, error)

	// Purge deletes feedback older than the given number of days and
	// reports how many records were removed.
	Purge(ctx context.Context, days int) (int64, error)
}
