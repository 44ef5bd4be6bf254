package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
)

type socialRepository struct {
	db *gorm.DB
}

func NewSocialPostgreSQL(db *gorm.DB) repositories.SocialRepository {
	return &socialRepository{db: db}
}

// ===== COMMENT OPERATIONS =====

func (r *socialRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return handleDBError(err, "create comment")
	}
	return nil
}

func (r *socialRepository) ListCommentsByCourse(ctx context.Context, courseID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("Owner").
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, handleDBError(err, "list comments by course")
	}
	return comments, nil
}

// ===== REVIEW OPERATIONS =====

func (r *socialRepository) CreateReview(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return handleDBError(err, "create review")
	}
	return nil
}

func (r *socialRepository) ListReviewsByCourse(ctx context.Context, courseID uint) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("Giver").
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, handleDBError(err, "list reviews by course")
	}
	return reviews, nil
}

func (r *socialRepository) GetReviewStats(ctx context.Context, courseID uint) (*repositories.ReviewStats, error) {
	stats := &repositories.ReviewStats{}
	row := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(star), 0), COUNT(*)").
		Where("course_id = ?", courseID).
		Row()
	if err := row.Scan(&stats.Average, &stats.Count); err != nil {
		return nil, handleDBError(err, "get review stats")
	}
	return stats, nil
}

func (r *socialRepository) HasReviewed(ctx context.Context, giverID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("giver_id = ? AND course_id = ?", giverID, courseID).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check review exists")
	}
	return count > 0, nil
}
