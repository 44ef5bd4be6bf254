package repositories

import (
	"context"

	"github.com/gspp-platform/learning-service/internal/models"
)

// SocialRepository interface for comments and reviews
type SocialRepository interface {
	// Comment operations
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByCourse(ctx context.Context, courseID uint) ([]*models.Comment, error)

	// Review operations
	CreateReview(ctx context.Context, review *models.Review) error
	ListReviewsByCourse(ctx context.Context, courseID uint) ([]*models.Review, error)
	GetReviewStats(ctx context.Context, courseID uint) (*ReviewStats, error)
	HasReviewed(ctx context.Context, giverID, courseID uint) (bool, error)
}
