package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/maestro-chat/maestro/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FeedbackStore = (*Store)(nil)

// Store persists feedback in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite-backed feedback store at the specified data
// directory. If dataDir is empty, defaults to ~/.maestro/data/feedback.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".maestro", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "feedback.db")

	// WAL mode keeps concurrent HTTP handlers from blocking each other.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save persists a feedback record and assigns its ID.
func (s *Store) Save(ctx context.Context, fb *domain.Feedback) error {
	messagesJSON, err := json.Marshal(fb.Messages)
	if err != nil {
		return fmt.Errorf("marshaling messages: %w", err)
	}

	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (user_id, rating_overall, rating_comment, messages, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, fb.UserID, fb.Rating.Overall, fb.Rating.Comment, string(messagesJSON), fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting insert id: %w", err)
	}
	fb.ID = id
	return nil
}

// ListByUser returns a user's feedback, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, rating_overall, rating_comment, messages, created_at
		FROM feedback
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying feedback by user: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

// ListRecent returns the latest feedback across all users.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, rating_overall, rating_comment, messages, created_at
		FROM feedback
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent feedback: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

// AverageRating returns the mean overall score over the last days (zero
// days means all time), 0 when no feedback exists.
func (s *Store) AverageRating(ctx context.Context, days int) (float64, error) {
	query := "SELECT COALESCE(AVG(rating_overall), 0) FROM feedback"
	args := []any{}
	if days > 0 {
		query += " WHERE created_at >= ?"
		args = append(args, time.Now().UTC().AddDate(0, 0, -days))
	}

	var avg float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return 0, fmt.Errorf("querying average rating: %w", err)
	}
	return avg, nil
}

// RatingDistribution maps each overall score to its count.
func (s *Store) RatingDistribution(ctx context.Context) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rating_overall, COUNT(*)
		FROM feedback
		GROUP BY rating_overall
	`)
	if err != nil {
		return nil, fmt.Errorf("querying rating distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[int]int)
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scanning distribution row: %w", err)
		}
		dist[rating] = count
	}
	return dist, rows.Err()
}

// ListLowRated returns feedback at or below the threshold score, most
// recent first.
func (s *Store) ListLowRated(ctx context.Context, threshold, limit int) ([]domain.Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, rating_overall, rating_comment, messages, created_at
		FROM feedback
		WHERE rating_overall <= ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("querying low-rated feedback: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

// PurgeOlderThan deletes records older than the given number of days
// and reports how many were removed.
func (s *Store) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result, err := s.db.ExecContext(ctx, "DELETE FROM feedback WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging feedback: %w", err)
	}
	return result.RowsAffected()
}

func scanFeedback(rows *sql.Rows) ([]domain.Feedback, error) {
	var out []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		var messagesJSON string
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.Rating.Overall, &fb.Rating.Comment, &messagesJSON, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		if err := json.Unmarshal([]byte(messagesJSON), &fb.Messages); err != nil {
			return nil, fmt.Errorf("unmarshaling messages: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}
