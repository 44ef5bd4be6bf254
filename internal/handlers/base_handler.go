package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/services"
	"github.com/gspp-platform/learning-service/internal/utils"
	"github.com/gspp-platform/learning-service/internal/validator"
)

// Error envelope shared by every handler.
type ErrorResponse = models.ErrorResponse

// BaseHandler carries the logging helpers every handler embeds.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	logger := utils.LoggerFromContext(c.Request.Context(), h.logger)
	logger.Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, msg string, err error, args ...any) {
	logger := utils.LoggerFromContext(c.Request.Context(), h.logger)
	logger.Error(msg, append([]any{"error", err}, args...)...)
}

// parseIDParam reads a positive integer path parameter, writing the 400
// itself on failure.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "bad_request",
			Message:   "Invalid " + name + " parameter",
			Code:      "INVALID_ID",
			Timestamp: time.Now().UTC(),
			Path:      c.Request.URL.Path,
		})
		return 0
	}
	return uint(id)
}

// handleServiceError maps service errors onto HTTP responses. The wallet
// endpoints keep the legacy contract of answering 403 for validation,
// not-found and pin failures.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	path := c.Request.URL.Path
	now := time.Now().UTC()

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]models.ValidationErrorResponse, 0, len(validationErrs))
		for _, ve := range validationErrs {
			value := ""
			if s, ok := ve.Value.(string); ok {
				value = s
			}
			fields = append(fields, models.ValidationErrorResponse{
				Field:   ve.Field,
				Message: ve.Message,
				Value:   value,
				Code:    ve.Rule,
			})
		}
		c.JSON(h.validationStatus(path), ErrorResponse{
			Error:            "validation_failed",
			Message:          "Request validation failed",
			Code:             "VALIDATION_ERROR",
			Timestamp:        now,
			Path:             path,
			ValidationErrors: fields,
		})
		return
	}

	var permErr *services.PermissionError
	if errors.As(err, &permErr) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:     "forbidden",
			Message:   permErr.Reason,
			Code:      "PERMISSION_DENIED",
			Timestamp: now,
			Path:      path,
		})
		return
	}

	var ruleErr *services.BusinessRuleError
	if errors.As(err, &ruleErr) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:     "business_rule_violation",
			Message:   ruleErr.Message,
			Code:      ruleErr.Rule,
			Timestamp: now,
			Path:      path,
		})
		return
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error:     "timeout",
			Message:   "Request timed out",
			Code:      "TIMEOUT",
			Timestamp: now,
			Path:      path,
		})

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrModuleNotFound),
		errors.Is(err, services.ErrRoomNotFound):
		status := http.StatusNotFound
		if isWalletPath(path) {
			status = http.StatusForbidden
		}
		c.JSON(status, ErrorResponse{
			Error:     "not_found",
			Message:   err.Error(),
			Code:      "NOT_FOUND",
			Timestamp: now,
			Path:      path,
		})

	case errors.Is(err, services.ErrPayerNotFound),
		errors.Is(err, services.ErrPayeeNotFound),
		errors.Is(err, services.ErrPinMismatch):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:     "forbidden",
			Message:   err.Error(),
			Code:      "WALLET_REJECTED",
			Timestamp: now,
			Path:      path,
		})

	case errors.Is(err, services.ErrInsufficientFunds):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:     "forbidden",
			Message:   err.Error(),
			Code:      "INSUFFICIENT_FUNDS",
			Timestamp: now,
			Path:      path,
		})

	case errors.Is(err, services.ErrDuplicateTransfer):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:     "conflict",
			Message:   err.Error(),
			Code:      "DUPLICATE_TRANSFER",
			Timestamp: now,
			Path:      path,
		})

	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:     "conflict",
			Message:   err.Error(),
			Code:      "EMAIL_TAKEN",
			Timestamp: now,
			Path:      path,
		})

	case errors.Is(err, services.ErrInvalidCredential):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:     "forbidden",
			Message:   "incorrect password",
			Code:      "INVALID_CREDENTIAL",
			Timestamp: now,
			Path:      path,
		})

	default:
		h.LogError(c, "Unhandled service error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "internal_error",
			Message:   "An unexpected error occurred",
			Code:      "INTERNAL_ERROR",
			Timestamp: now,
			Path:      path,
		})
	}
}

// validationStatus keeps /payment and /topup answering 403 on bad input.
func (h *BaseHandler) validationStatus(path string) int {
	if isWalletPath(path) {
		return http.StatusForbidden
	}
	return http.StatusBadRequest
}

func isWalletPath(path string) bool {
	return path == "/payment" || path == "/topup"
}
