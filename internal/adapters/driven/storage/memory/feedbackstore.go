// Package memory provides in-memory storage adapters for tests and
// ephemeral local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
)

// Ensure FeedbackStore implements the interface.
var _ driven.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore keeps feedback in process memory. Records are lost on
// restart.
type FeedbackStore struct {
	mu      sync.RWMutex
	records []domain.Feedback
	nextID  int64
}

// NewFeedbackStore creates an empty in-memory feedback store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

// Save persists a feedback record and assigns its ID.
func (s *FeedbackStore) Save(_ context.Context, fb *domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	fb.ID = s.nextID
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, *fb)
	return nil
}

// ListByUser returns a user's feedback, most recent first.
func (s *FeedbackStore) ListByUser(_ context.Context, userID string, limit int) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Feedback
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if s.records[i].UserID == userID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// ListRecent returns the latest feedback across all users.
func (s *FeedbackStore) ListRecent(_ context.Context, limit int) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Feedback
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// AverageRating returns the mean overall score over the last days (zero
// days means all time), 0 when no feedback exists.
func (s *FeedbackStore) AverageRating(_ context.Context, days int) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cutoff time.Time
	if days > 0 {
		cutoff = time.Now().UTC().AddDate(0, 0, -days)
	}

	sum, count := 0, 0
	for _, fb := range s.records {
		if days > 0 && fb.CreatedAt.Before(cutoff) {
			continue
		}
		sum += fb.Rating.Overall
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

// RatingDistribution maps each overall score to its count.
func (s *FeedbackStore) RatingDistribution(_ context.Context) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dist := make(map[int]int)
	for _, fb := range s.records {
		dist[fb.Rating.Overall]++
	}
	return dist, nil
}

// ListLowRated returns feedback at or below the threshold score, most
// recent first.
func (s *FeedbackStore) ListLowRated(_ context.Context, threshold, limit int) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Feedback
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if s.records[i].Rating.Overall <= threshold {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// PurgeOlderThan deletes records older than the given number of days
// and reports how many were removed.
func (s *FeedbackStore) PurgeOlderThan(_ context.Context, days int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	kept := s.records[:0]
	var removed int64
	for _, fb := range s.records {
		if fb.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, fb)
	}
	s.records = kept
	return removed, nil
}

// Close releases nothing.
func (s *FeedbackStore) Close() error { return nil }
