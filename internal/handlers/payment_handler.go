package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gspp-platform/learning-service/internal/services"
	"github.com/gspp-platform/learning-service/internal/utils"
	"github.com/gspp-platform/learning-service/internal/validator"
)

type PaymentHandler struct {
	BaseHandler
	paymentService services.PaymentService
	validator      *validator.Validator
}

func NewPaymentHandler(paymentService services.PaymentService, validator *validator.Validator, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    NewBaseHandler(logger),
		paymentService: paymentService,
		validator:      validator,
	}
}

// Payment handles POST /payment. Malformed payloads answer 403 to keep the
// legacy wallet contract.
func (h *PaymentHandler) Payment(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	var req services.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Processing payment", "payer_id", userID, "course_id", req.CourseID, "amount", req.Amount)

	result, err := h.paymentService.Transfer(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// TopUp handles POST /topup
func (h *PaymentHandler) TopUp(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	var req services.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Invalid request payload",
			Code:    "INVALID_PAYLOAD",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Processing top-up", "user_id", userID, "amount", req.Amount)

	result, err := h.paymentService.TopUp(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History handles GET /transactions
func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		abortUnauthorized(c, "user not authenticated")
		return
	}

	txns, err := h.paymentService.History(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, txns)
}
