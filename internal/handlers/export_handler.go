package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gspp-platform/learning-service/internal/services"
	"github.com/gspp-platform/learning-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// Transactions handles GET /export/transactions
func (h *ExportHandler) Transactions(c *gin.Context) {
	h.LogRequest(c, "Exporting transactions")

	data, err := h.exportService.ExportTransactions(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendWorkbook(c, "transactions", data)
}

// Courses handles GET /export/courses
func (h *ExportHandler) Courses(c *gin.Context) {
	h.LogRequest(c, "Exporting courses")

	data, err := h.exportService.ExportCourses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendWorkbook(c, "courses", data)
}

func (h *ExportHandler) sendWorkbook(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
