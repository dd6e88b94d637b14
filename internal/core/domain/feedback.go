package domain

import (
	"fmt"
	"time"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 10
)

// Rating is a user's score for one conversation.
type Rating struct {
	// Overall is the 1-10 overall score.
	Overall int `json:"overall_rating"`

	// Comment is optional free text.
	Comment string `json:"comment,omitempty"`
}

// Validate checks the rating range.
func (r Rating) Validate() error {
	if r.Overall < MinRating || r.Overall > MaxRating {
		return fmt.Errorf("%w: overall rating must be between %d and %d (got %d)",
			ErrInvalidInput, MinRating, MaxRating, r.Overall)
	}
	return nil
}

// Feedback is one persisted user feedback event, tied to the conversation
// it rates.
type Feedback struct {
	// ID is the record identifier, assigned on save.
	ID int64

	// UserID identifies the submitting user.
	UserID string

	// Rating is the score and comment.
	Rating Rating

	// Messages is the rated conversation.
	Messages []Message

	// CreatedAt is when the feedback was recorded.
	CreatedAt time.Time
}

// FeedbackStats aggregates stored feedback for reporting.
type FeedbackStats struct {
	// AverageRating is the mean overall score, 0 when no feedback exists.
	AverageRating float64 `json:"average_rating"`

	// TotalFeedback is the number of stored records.
	TotalFeedback int `json:"total_feedback"`

	// RatingDistribution maps each score to its count.
	RatingDistribution map[int]int `json:"rating_distribution"`
}
