package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armonia-music/pos-backend/internal/platform/logger"
	"github.com/armonia-music/pos-backend/internal/reports/service"
)

type GenerateRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type ReportsHandler struct {
	reportService service.ReportService
}

func NewReportsHandler(rs service.ReportService) *ReportsHandler {
	return &ReportsHandler{reportService: rs}
}

func (h *ReportsHandler) RegisterRoutes(router *gin.RouterGroup) {
	reportRoutes := router.Group("/reports")
	{
		reportRoutes.GET("/summary", h.Summary)
		reportRoutes.POST("/view/:view", h.SelectView)
		reportRoutes.POST("/generate", h.Generate)
		reportRoutes.GET("/export", h.Export)
	}
}

func (h *ReportsHandler) Summary(c *gin.Context) {
	summary, err := h.reportService.Summary(c.Request.Context())
	if err != nil {
		logger.Error("Summary: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportsHandler) SelectView(c *gin.Context) {
	report, err := h.reportService.Select(c.Request.Context(), service.ReportView(c.Param("view")))
	if err != nil {
		if errors.Is(err, service.ErrUnknownView) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("SelectView: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportsHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}
	// End of day keeps the upper bound inclusive.
	to = to.Add(24*time.Hour - time.Nanosecond)

	if err := h.reportService.SetWindow(from, to); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.Generate(c.Request.Context())
	if err != nil {
		logger.Error("Generate: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportsHandler) Export(c *gin.Context) {
	filename, content, err := h.reportService.ExportCSV(c.Request.Context())
	if err != nil {
		logger.Error("Export: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}
