package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/qanoon/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		law_ids TEXT,
		confidence_score REAL NOT NULL,
		confidence_level TEXT NOT NULL,
		status TEXT NOT NULL,
		note TEXT,
		created_at TIMESTAMP NOT NULL,
		resolved_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_status_created ON reviews(status, created_at);

	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		message TEXT NOT NULL,
		category TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateReview inserts a pending review, assigning an id and creation time when unset.
func (s *SQLiteStorage) CreateReview(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now().UTC()
	}
	review.Status = models.ReviewPending
	review.ResolvedAt = nil

	lawIDsJSON, err := json.Marshal(review.LawIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal law ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, question, answer, law_ids, confidence_score, confidence_level, status, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		review.ID, review.Question, review.Answer, string(lawIDsJSON),
		float64(review.ConfidenceScore), review.ConfidenceLevel, string(review.Status), review.Note, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

const reviewColumns = `id, question, answer, law_ids, confidence_score, confidence_level, status, note, created_at, resolved_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*models.Review, error) {
	var (
		r          models.Review
		lawIDsJSON sql.NullString
		score      float64
		status     string
		note       sql.NullString
		resolvedAt sql.NullTime
	)
	if err := row.Scan(&r.ID, &r.Question, &r.Answer, &lawIDsJSON, &score, &r.ConfidenceLevel,
		&status, &note, &r.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}
	r.ConfidenceScore = models.UnitScore(score)
	r.Status = models.ReviewStatus(status)
	r.Note = note.String
	if resolvedAt.Valid {
		t := resolvedAt.Time
		r.ResolvedAt = &t
	}
	if lawIDsJSON.String != "" {
		if err := json.Unmarshal([]byte(lawIDsJSON.String), &r.LawIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal law ids: %w", err)
		}
	}
	return &r, nil
}

// GetReview returns a review by ID.
func (s *SQLiteStorage) GetReview(ctx context.Context, id string) (*models.Review, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviews returns reviews oldest first. An empty status lists every review.
func (s *SQLiteStorage) ListReviews(ctx context.Context, status models.ReviewStatus, offset, limit int) ([]*models.Review, error) {
	if limit <= 0 {
		limit = -1
	}
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+reviewColumns+` FROM reviews ORDER BY created_at, id LIMIT ? OFFSET ?`,
			limit, offset)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+reviewColumns+` FROM reviews WHERE status = ? ORDER BY created_at, id LIMIT ? OFFSET ?`,
			string(status), limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// ResolveReview marks a pending review approved or rejected and returns it.
func (s *SQLiteStorage) ResolveReview(ctx context.Context, id string, status models.ReviewStatus, note string) (*models.Review, error) {
	if status != models.ReviewApproved && status != models.ReviewRejected {
		return nil, fmt.Errorf("invalid resolution status %q", status)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE reviews SET status = ?, note = ?, resolved_at = ? WHERE id = ? AND status = ?`,
		string(status), note, s.now().UTC(), id, string(models.ReviewPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve review: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish a missing review from one resolved earlier.
		if _, err := s.GetReview(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrAlreadyResolved, id)
	}
	return s.GetReview(ctx, id)
}

// CreateFeedback inserts a feedback message, assigning an id and creation time when unset.
func (s *SQLiteStorage) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, message, category, created_at) VALUES (?, ?, ?, ?)`,
		feedback.ID, feedback.Message, feedback.Category, feedback.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// ListFeedback returns feedback newest first.
func (s *SQLiteStorage) ListFeedback(ctx context.Context, offset, limit int) ([]*models.Feedback, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, message, category, created_at FROM feedback ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.Feedback, 0)
	for rows.Next() {
		var f models.Feedback
		var category sql.NullString
		if err := rows.Scan(&f.ID, &f.Message, &category, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Category = category.String
		items = append(items, &f)
	}
	return items, rows.Err()
}

// CountReviews returns the number of reviews with status, or of all reviews when status is empty.
func (s *SQLiteStorage) CountReviews(ctx context.Context, status models.ReviewStatus) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews").Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews WHERE status = ?", string(status)).Scan(&count)
	}
	return count, err
}

// CountFeedback returns the number of stored feedback messages.
func (s *SQLiteStorage) CountFeedback(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
