package repositories

import (
	"context"

	"github.com/gspp-platform/learning-service/internal/models"
)

// CatalogRepository interface for courses, modules and enrollment edges
type CatalogRepository interface {
	// Course CRUD
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id uint) (*models.Course, error)
	GetCourseWithDetails(ctx context.Context, id uint) (*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	UpdateCourseRating(ctx context.Context, id uint, rating float64) error

	// Course queries
	ListCourses(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	ListBestCourses(ctx context.Context, limit int) ([]*models.Course, error)

	// Module operations
	CreateModule(ctx context.Context, module *models.Module) error
	UpdateModule(ctx context.Context, module *models.Module) error
	GetModuleByID(ctx context.Context, id uint) (*models.Module, error)
	ListModulesByCourse(ctx context.Context, courseID uint) ([]*models.Module, error)

	// Enrollment edge. Upsert semantics: a repeated enrollment of the same
	// student in the same course is a no-op, never a duplicate row.
	UpsertEnrollment(ctx context.Context, studentID, courseID uint) error
	ListEnrolledCourses(ctx context.Context, studentID uint) ([]*models.Course, error)
	IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error)

	// Teacher-student edge, same upsert semantics as enrollments.
	UpsertTeacherStudent(ctx context.Context, teacherID, studentID uint) error
}
