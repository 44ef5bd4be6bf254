package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gspp-platform/learning-service/internal/services"
	"github.com/gspp-platform/learning-service/internal/utils"
	"github.com/gspp-platform/learning-service/internal/validator"
)

type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
	validator      *validator.Validator
}

func NewCatalogHandler(catalogService services.CatalogService, validator *validator.Validator, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
		validator:      validator,
	}
}

// UploadModule handles POST /uploadmodule
func (h *CatalogHandler) UploadModule(c *gin.Context) {
	var req services.ModuleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	module, err := h.catalogService.CreateModule(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": module.ID})
}

// UploadCourse handles POST /uploadCourse
func (h *CatalogHandler) UploadCourse(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	var req services.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Uploading course", "owner_id", userID, "title", req.Title)

	course, err := h.catalogService.CreateCourse(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": course.ID})
}

// BestCourses handles GET /bestcourses
func (h *CatalogHandler) BestCourses(c *gin.Context) {
	courses, err := h.catalogService.BestCourses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// AllCourses handles GET /allcourses
func (h *CatalogHandler) AllCourses(c *gin.Context) {
	courses, err := h.catalogService.AllCourses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// CourseDetail handles GET /courseDetail/:id
func (h *CatalogHandler) CourseDetail(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	detail, err := h.catalogService.CourseDetail(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// EnrolledCourses handles GET /enrolledCourses
func (h *CatalogHandler) EnrolledCourses(c *gin.Context) {
	user, ok := GetUserFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	courses, err := h.catalogService.EnrolledCourses(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"courses": courses,
	})
}

// Teachers handles GET /teacher
func (h *CatalogHandler) Teachers(c *gin.Context) {
	teachers, err := h.catalogService.Teachers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teachers)
}
