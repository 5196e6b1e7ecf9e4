// Package storage persists the answer review queue and user feedback.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/qanoon/internal/models"
)

var (
	// ErrNotFound is returned when a review id does not exist.
	ErrNotFound = errors.New("review not found")
	// ErrAlreadyResolved is returned when resolving a review that is not pending.
	ErrAlreadyResolved = errors.New("review already resolved")
)

// Storage defines review and feedback persistence operations.
type Storage interface {
	// Review operations
	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id string) (*models.Review, error)
	ListReviews(ctx context.Context, status models.ReviewStatus, offset, limit int) ([]*models.Review, error)
	ResolveReview(ctx context.Context, id string, status models.ReviewStatus, note string) (*models.Review, error)

	// Feedback operations
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedback(ctx context.Context, offset, limit int) ([]*models.Feedback, error)

	// Stats
	CountReviews(ctx context.Context, status models.ReviewStatus) (int64, error)
	CountFeedback(ctx context.Context) (int64, error)

	Close() error
}
