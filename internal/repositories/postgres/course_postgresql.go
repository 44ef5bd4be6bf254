package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories"
)

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogPostgreSQL(db *gorm.DB) repositories.CatalogRepository {
	return &catalogRepository{db: db}
}

// ===== COURSE CRUD =====

func (r *catalogRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}
	return nil
}

func (r *catalogRepository) GetCourseByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course by id")
	}
	return &course, nil
}

func (r *catalogRepository) GetCourseWithDetails(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course with details")
	}
	return &course, nil
}

func (r *catalogRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return handleDBError(err, "update course")
	}
	return nil
}

func (r *catalogRepository) UpdateCourseRating(ctx context.Context, id uint, rating float64) error {
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Update("rating", rating).Error
	if err != nil {
		return handleDBError(err, "update course rating")
	}
	return nil
}

// ===== COURSE QUERIES =====

func (r *catalogRepository) ListCourses(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Course{}).Preload("Owner")

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.Query != "" {
		query = query.Where("title LIKE ?", "%"+filters.Query+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count courses")
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, handleDBError(err, "list courses")
	}

	return courses, total, nil
}

func (r *catalogRepository) ListBestCourses(ctx context.Context, limit int) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("rating DESC, id ASC").
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, handleDBError(err, "list best courses")
	}
	return courses, nil
}

// ===== MODULE OPERATIONS =====

func (r *catalogRepository) CreateModule(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Create(module).Error; err != nil {
		return handleDBError(err, "create module")
	}
	return nil
}

func (r *catalogRepository) UpdateModule(ctx context.Context, module *models.Module) error {
	if err := r.db.WithContext(ctx).Save(module).Error; err != nil {
		return handleDBError(err, "update module")
	}
	return nil
}

func (r *catalogRepository) GetModuleByID(ctx context.Context, id uint) (*models.Module, error) {
	var module models.Module
	if err := r.db.WithContext(ctx).First(&module, id).Error; err != nil {
		return nil, handleDBError(err, "get module by id")
	}
	return &module, nil
}

func (r *catalogRepository) ListModulesByCourse(ctx context.Context, courseID uint) ([]*models.Module, error) {
	var modules []*models.Module
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&modules).Error
	if err != nil {
		return nil, handleDBError(err, "list modules by course")
	}
	return modules, nil
}

// ===== ENROLLMENT EDGES =====

func (r *catalogRepository) UpsertEnrollment(ctx context.Context, studentID, courseID uint) error {
	enrollment := models.Enrollment{StudentID: studentID, CourseID: courseID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&enrollment).Error
	if err != nil {
		return handleDBError(err, "upsert enrollment")
	}
	return nil
}

func (r *catalogRepository) ListEnrolledCourses(ctx context.Context, studentID uint) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", studentID).
		Preload("Owner").
		Order("enrollments.id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, handleDBError(err, "list enrolled courses")
	}
	return courses, nil
}

func (r *catalogRepository) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check enrollment")
	}
	return count > 0, nil
}

func (r *catalogRepository) UpsertTeacherStudent(ctx context.Context, teacherID, studentID uint) error {
	edge := models.TeacherStudent{TeacherID: teacherID, StudentID: studentID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
	if err != nil {
		return handleDBError(err, "upsert teacher-student edge")
	}
	return nil
}
