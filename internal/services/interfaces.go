package services

import (
	"context"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/validator"
)

// Request DTO aliases keep the handler surface stable while validation rules
// live in the validator package.
type StudentRegisterRequest = validator.StudentRegisterRequest
type TeacherRegisterRequest = validator.TeacherRegisterRequest
type LoginRequest = validator.LoginRequest
type ModuleCreateRequest = validator.ModuleCreateRequest
type CourseCreateRequest = validator.CourseCreateRequest
type CommentCreateRequest = validator.CommentCreateRequest
type ReviewCreateRequest = validator.ReviewCreateRequest
type TransferRequest = validator.TransferRequest
type TopUpRequest = validator.TopUpRequest
type ChatMessageRequest = validator.ChatMessageRequest

// ===== SERVICE INTERFACES =====

type AuthService interface {
	RegisterStudent(ctx context.Context, req *StudentRegisterRequest) (*models.User, error)
	RegisterTeacher(ctx context.Context, req *TeacherRegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*models.AuthResponse, error)

	// VerifyToken returns the authenticated user for a bearer token.
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

type CatalogService interface {
	CreateModule(ctx context.Context, req *ModuleCreateRequest) (*models.Module, error)
	CreateCourse(ctx context.Context, req *CourseCreateRequest, ownerID uint) (*models.Course, error)

	BestCourses(ctx context.Context) ([]*models.Course, error)
	AllCourses(ctx context.Context) ([]*models.Course, error)
	CourseDetail(ctx context.Context, id uint) (*models.CourseDetailResponse, error)
	EnrolledCourses(ctx context.Context, studentID uint) ([]*models.Course, error)
	Teachers(ctx context.Context) ([]*models.User, error)
}

type SocialService interface {
	CreateComment(ctx context.Context, req *CommentCreateRequest, ownerID uint) (*models.Comment, error)
	CreateReview(ctx context.Context, req *ReviewCreateRequest, giverID uint) (*models.Review, error)
}

type PaymentService interface {
	// Transfer moves funds from payer to payee, records the ledger row,
	// enrolls the student and bootstraps the chat room, all atomically.
	Transfer(ctx context.Context, req *TransferRequest, payerID uint) (*models.TransferResult, error)

	TopUp(ctx context.Context, req *TopUpRequest, userID uint) (*models.TopUpResult, error)
	History(ctx context.Context, userID uint) ([]*models.Transaction, error)
}

type ChatService interface {
	RoomsForUser(ctx context.Context, userID uint) ([]*models.ChatRoom, error)
	SendMessage(ctx context.Context, req *ChatMessageRequest, senderID uint) (*models.ChatRoom, error)
}

type ExportService interface {
	// ExportTransactions renders the ledger as an xlsx workbook.
	ExportTransactions(ctx context.Context) ([]byte, error)

	// ExportCourses renders the course catalog as an xlsx workbook.
	ExportCourses(ctx context.Context) ([]byte, error)
}

// ServiceManager owns service construction and lifecycle.
type ServiceManager interface {
	Auth() AuthService
	Catalog() CatalogService
	Social() SocialService
	Payment() PaymentService
	Chat() ChatService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
