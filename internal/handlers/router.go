package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/services"
	"github.com/gspp-platform/learning-service/internal/utils"
	"github.com/gspp-platform/learning-service/internal/validator"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	catalogHandler *CatalogHandler
	socialHandler  *SocialHandler
	paymentHandler *PaymentHandler
	chatHandler    *ChatHandler
	exportHandler  *ExportHandler
	authMiddleware *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	mediaDir string,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(serviceManager.Auth())

	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), validator, logger, mediaDir),
		catalogHandler: NewCatalogHandler(serviceManager.Catalog(), validator, logger),
		socialHandler:  NewSocialHandler(serviceManager.Social(), validator, logger),
		paymentHandler: NewPaymentHandler(serviceManager.Payment(), validator, logger),
		chatHandler:    NewChatHandler(serviceManager.Chat(), validator, logger),
		exportHandler:  NewExportHandler(serviceManager.Export(), logger),
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes sets up all API routes. The route names are the wire contract
// with the existing web client and keep their original casing.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	// Public routes
	router.POST("/sturegister", hm.authHandler.RegisterStudent)
	router.POST("/teacherregister", hm.authHandler.RegisterTeacher)
	router.POST("/login", hm.authHandler.Login)
	router.POST("/uploadmodule", hm.catalogHandler.UploadModule)
	router.GET("/bestcourses", hm.catalogHandler.BestCourses)
	router.GET("/allcourses", hm.catalogHandler.AllCourses)
	router.GET("/courseDetail/:id", hm.catalogHandler.CourseDetail)
	router.GET("/teacher", hm.catalogHandler.Teachers)

	// Authenticated routes
	auth := router.Group("")
	auth.Use(hm.authMiddleware.AuthMiddleware())
	{
		auth.GET("/user", hm.authHandler.CurrentUser)

		auth.POST("/uploadCourse",
			hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin),
			hm.catalogHandler.UploadCourse)

		auth.POST("/uploadComment", hm.socialHandler.UploadComment)
		auth.POST("/uploadReview", hm.socialHandler.UploadReview)

		auth.POST("/payment", hm.paymentHandler.Payment)
		auth.POST("/topup", hm.paymentHandler.TopUp)
		auth.GET("/transactions", hm.paymentHandler.History)
		auth.GET("/enrolledCourses", hm.catalogHandler.EnrolledCourses)

		auth.GET("/chatRoom", hm.chatHandler.Rooms)
		auth.POST("/chatRoom/message", hm.chatHandler.SendMessage)

		export := auth.Group("/export")
		export.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			export.GET("/transactions", hm.exportHandler.Transactions)
			export.GET("/courses", hm.exportHandler.Courses)
		}
	}
}

// HealthCheck endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "learning-service",
	})
}
