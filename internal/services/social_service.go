package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/events"
	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
	"github.com/gspp-platform/learning-service/internal/validator"
)

type socialService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewSocialService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) SocialService {
	return &socialService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: publisher,
	}
}

func (s *socialService) CreateComment(ctx context.Context, req *CommentCreateRequest, ownerID uint) (*models.Comment, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Catalog().GetCourseByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load commented course: %w", err)
	}

	comment := &models.Comment{
		OwnerID:  ownerID,
		CourseID: req.CourseID,
		Text:     req.Text,
	}

	if err := s.repo.Social().CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.Info("Comment created", "comment_id", comment.ID, "course_id", req.CourseID, "owner_id", ownerID)

	event := events.NewEvent(events.TopicCommentCreated, events.CommentCreatedEvent{
		CommentID: comment.ID,
		CourseID:  comment.CourseID,
		OwnerID:   comment.OwnerID,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish comment event", "error", err, "comment_id", comment.ID)
	}

	return comment, nil
}

func (s *socialService) CreateReview(ctx context.Context, req *ReviewCreateRequest, giverID uint) (*models.Review, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.repo.Catalog().GetCourseByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load reviewed course: %w", err)
	}

	already, err := s.repo.Social().HasReviewed(ctx, giverID, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if already {
		return nil, NewBusinessRuleError("one_review_per_course", "user already reviewed this course")
	}

	review := &models.Review{
		Star:     req.Star,
		Comment:  req.Comment,
		GiverID:  giverID,
		CourseID: req.CourseID,
	}

	var rating float64
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Social().CreateReview(ctx, review); err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		// Course rating is the running mean of its review stars.
		stats, err := txRepo.Social().GetReviewStats(ctx, req.CourseID)
		if err != nil {
			return fmt.Errorf("failed to recompute rating: %w", err)
		}
		rating = stats.Average

		if err := txRepo.Catalog().UpdateCourseRating(ctx, req.CourseID, rating); err != nil {
			return fmt.Errorf("failed to store rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Review created", "review_id", review.ID, "course_id", req.CourseID, "star", req.Star, "rating", rating)

	event := events.NewEvent(events.TopicReviewCreated, events.ReviewCreatedEvent{
		ReviewID: review.ID,
		CourseID: review.CourseID,
		GiverID:  review.GiverID,
		Star:     review.Star,
		Rating:   rating,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish review event", "error", err, "review_id", review.ID)
	}

	return review, nil
}
