package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gspp-platform/learning-service/internal/services"
	"github.com/gspp-platform/learning-service/internal/utils"
	"github.com/gspp-platform/learning-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	validator   *validator.Validator
	mediaDir    string
}

func NewAuthHandler(authService services.AuthService, validator *validator.Validator, logger utils.Logger, mediaDir string) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		validator:   validator,
		mediaDir:    mediaDir,
	}
}

// RegisterStudent handles POST /sturegister. The payload arrives as JSON or
// as a multipart form with an optional photo.
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req services.StudentRegisterRequest
	if err := h.bindRegister(c, &req, &req.Photo); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering student", "email", req.Email)

	user, err := h.authService.RegisterStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      user.ID,
		"name":    user.Username,
		"email":   user.Email,
		"profile": user.Profile,
	})
}

// RegisterTeacher handles POST /teacherregister
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	var req services.TeacherRegisterRequest
	if err := h.bindRegister(c, &req, &req.Photo); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering teacher", "email", req.Email)

	user, err := h.authService.RegisterTeacher(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      user.ID,
		"name":    user.Username,
		"email":   user.Email,
		"profile": user.Profile,
	})
}

// Login handles POST /login. The legacy contract answers 201 on success and
// 403 on a bad email or password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error:   "forbidden",
				Message: "user not found",
				Code:    "USER_NOT_FOUND",
			})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": resp.Token,
		"user":  resp.User,
	})
}

// bindRegister accepts either a JSON body or a multipart form. The multipart
// path stores the uploaded photo under the media dir and records its
// generated filename in the request.
func (h *AuthHandler) bindRegister(c *gin.Context, req interface{}, photo **string) error {
	contentType := c.ContentType()
	if contentType != gin.MIMEMultipartPOSTForm {
		return c.ShouldBindJSON(req)
	}

	if err := c.ShouldBind(req); err != nil {
		return err
	}

	filename, err := h.savePhoto(c)
	if err != nil {
		return err
	}
	if filename != "" {
		*photo = &filename
	}
	return nil
}

// savePhoto stores the optional "photo" form file under a generated name.
// Returns an empty string when no file was uploaded.
func (h *AuthHandler) savePhoto(c *gin.Context) (string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}

	if err := os.MkdirAll(h.mediaDir, 0o755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.mediaDir, filename)); err != nil {
		return "", err
	}
	return filename, nil
}

// CurrentUser handles GET /user
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := GetUserFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	c.JSON(http.StatusOK, user)
}
