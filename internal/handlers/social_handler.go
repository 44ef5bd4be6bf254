package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gspp-platform/learning-service/internal/services"
	"github.com/gspp-platform/learning-service/internal/utils"
	"github.com/gspp-platform/learning-service/internal/validator"
)

type SocialHandler struct {
	BaseHandler
	socialService services.SocialService
	validator     *validator.Validator
}

func NewSocialHandler(socialService services.SocialService, validator *validator.Validator, logger utils.Logger) *SocialHandler {
	return &SocialHandler{
		BaseHandler:   NewBaseHandler(logger),
		socialService: socialService,
		validator:     validator,
	}
}

// UploadComment handles POST /uploadComment
func (h *SocialHandler) UploadComment(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	var req services.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	comment, err := h.socialService.CreateComment(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": comment.ID})
}

// UploadReview handles POST /uploadReview
func (h *SocialHandler) UploadReview(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	var req services.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	review, err := h.socialService.CreateReview(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": review.ID})
}
