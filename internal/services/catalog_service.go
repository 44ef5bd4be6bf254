package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/cache"
	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
	"github.com/gspp-platform/learning-service/internal/validator"
)

// bestCoursesLimit caps the landing-page course list.
const bestCoursesLimit = 9

type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheHelper
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cacheHelper *cache.CacheHelper) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		cache:     cacheHelper,
	}
}

// ===== WRITE OPERATIONS =====

func (s *catalogService) CreateModule(ctx context.Context, req *ModuleCreateRequest) (*models.Module, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	module := &models.Module{
		Title:       req.Title,
		Description: req.Description,
		Video:       req.Video,
		Position:    req.Position,
	}

	if err := s.repo.Catalog().CreateModule(ctx, module); err != nil {
		return nil, fmt.Errorf("failed to create module: %w", err)
	}

	s.logger.Info("Module created", "module_id", module.ID, "title", module.Title)
	return module, nil
}

func (s *catalogService) CreateCourse(ctx context.Context, req *CourseCreateRequest, ownerID uint) (*models.Course, error) {
	s.logger.Info("Creating course", "owner_id", ownerID, "title", req.Title)

	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	owner, err := s.repo.User().GetByID(ctx, ownerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load course owner: %w", err)
	}
	if !owner.IsTeacher() && owner.Role != models.RoleAdmin {
		return nil, NewPermissionError(ownerID, 0, "course", "create", "only teachers can publish courses")
	}

	var course *models.Course
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		course = &models.Course{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Thumb:       req.Photo,
			OwnerID:     ownerID,
		}

		if err := txRepo.Catalog().CreateCourse(ctx, course); err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}

		// Attach pre-uploaded modules by reference, keeping request order.
		for i, moduleID := range req.Modules {
			module, err := txRepo.Catalog().GetModuleByID(ctx, moduleID)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return ErrModuleNotFound
				}
				return fmt.Errorf("failed to load module %d: %w", moduleID, err)
			}

			module.CourseID = &course.ID
			module.Position = i
			if err := txRepo.Catalog().UpdateModule(ctx, module); err != nil {
				return fmt.Errorf("failed to attach module %d: %w", moduleID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return course, nil
}

// ===== READ OPERATIONS =====

func (s *catalogService) BestCourses(ctx context.Context) ([]*models.Course, error) {
	var cached []*models.Course
	if err := s.cache.GetWithConfig(ctx, "best", &cached, cache.CatalogCacheConfig); err == nil {
		return cached, nil
	}

	courses, err := s.repo.Catalog().ListBestCourses(ctx, bestCoursesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list best courses: %w", err)
	}

	if err := s.cache.SetWithConfig(ctx, "best", courses, cache.CatalogCacheConfig); err != nil {
		s.logger.Warn("Failed to cache best courses", "error", err)
	}

	return courses, nil
}

func (s *catalogService) AllCourses(ctx context.Context) ([]*models.Course, error) {
	courses, _, err := s.repo.Catalog().ListCourses(ctx, repositories.CourseFilters{
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *catalogService) CourseDetail(ctx context.Context, id uint) (*models.CourseDetailResponse, error) {
	course, err := s.repo.Catalog().GetCourseWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	comments, err := s.repo.Social().ListCommentsByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	reviews, err := s.repo.Social().ListReviewsByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	detail := &models.CourseDetailResponse{
		Course:  course,
		Owner:   course.Owner.Public(),
		Modules: course.Modules,
	}
	for _, c := range comments {
		detail.Comments = append(detail.Comments, models.CommentDetail{Comment: *c, Author: c.Owner.Public()})
	}
	for _, rv := range reviews {
		detail.Reviews = append(detail.Reviews, models.ReviewDetail{Review: *rv, Author: rv.Giver.Public()})
	}

	return detail, nil
}

func (s *catalogService) EnrolledCourses(ctx context.Context, studentID uint) ([]*models.Course, error) {
	if _, err := s.repo.User().GetByID(ctx, studentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	courses, err := s.repo.Catalog().ListEnrolledCourses(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
	}
	return courses, nil
}

func (s *catalogService) Teachers(ctx context.Context) ([]*models.User, error) {
	role := models.RoleTeacher
	teachers, _, err := s.repo.User().List(ctx, repositories.UserFilters{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	return teachers, nil
}

func (s *catalogService) invalidateCatalogCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.CatalogCacheConfig.Prefix+"best"); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", "error", err)
	}
}
