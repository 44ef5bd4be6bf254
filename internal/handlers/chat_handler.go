package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gspp-platform/learning-service/internal/services"
	"github.com/gspp-platform/learning-service/internal/utils"
	"github.com/gspp-platform/learning-service/internal/validator"
)

type ChatHandler struct {
	BaseHandler
	chatService services.ChatService
	validator   *validator.Validator
}

func NewChatHandler(chatService services.ChatService, validator *validator.Validator, logger utils.Logger) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(logger),
		chatService: chatService,
		validator:   validator,
	}
}

// Rooms handles GET /chatRoom
func (h *ChatHandler) Rooms(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	rooms, err := h.chatService.RoomsForUser(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// SendMessage handles POST /chatRoom/message
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	var req services.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	room, err := h.chatService.SendMessage(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}
