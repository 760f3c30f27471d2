package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/armonia-music/pos-backend/internal/platform/logger"
	"github.com/armonia-music/pos-backend/internal/sales/service"
)

type SalesHandler struct {
	salesService service.SalesService
}

func NewSalesHandler(ss service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: ss}
}

func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	salesRoutes := router.Group("/sales")
	{
		salesRoutes.GET("", h.ListSales)
		salesRoutes.GET("/statistics/daily", h.DailyStatistics)
		salesRoutes.GET("/statistics/monthly", h.MonthlyStatistics)
		salesRoutes.GET("/top-products", h.TopProducts)
		salesRoutes.GET("/revenue", h.Revenue)
	}
}

// parseDateRange reads optional from/to query params (YYYY-MM-DD). Either
// side may be omitted for an open-ended bound. The "to" date is extended to
// the end of its day so the bound stays inclusive.
func parseDateRange(c *gin.Context) (from, to time.Time, ok bool, err error) {
	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw == "" && toRaw == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if fromRaw != "" {
		from, err = time.Parse("2006-01-02", fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", fromRaw)
		}
	}
	if toRaw == "" {
		to = openUpperBound
	} else {
		to, err = time.Parse("2006-01-02", toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", toRaw)
		}
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, true, nil
}

// openUpperBound stands in for a missing "to" param; no sale dates past it.
var openUpperBound = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

func (h *SalesHandler) ListSales(c *gin.Context) {
	ctx := c.Request.Context()

	if seller := c.Query("seller"); seller != "" {
		sales, err := h.salesService.SalesBySeller(ctx, seller)
		if err != nil {
			logger.Error("ListSales: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sales"})
			return
		}
		c.JSON(http.StatusOK, sales)
		return
	}

	from, to, ranged, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ranged {
		sales, err := h.salesService.SalesInRange(ctx, from, to)
		if err != nil {
			logger.Error("ListSales: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sales"})
			return
		}
		c.JSON(http.StatusOK, sales)
		return
	}

	sales, err := h.salesService.Sales(ctx)
	if err != nil {
		logger.Error("ListSales: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SalesHandler) DailyStatistics(c *gin.Context) {
	stats, err := h.salesService.DailyStatistics(c.Request.Context())
	if err != nil {
		logger.Error("DailyStatistics: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *SalesHandler) MonthlyStatistics(c *gin.Context) {
	stats, err := h.salesService.MonthlyStatistics(c.Request.Context())
	if err != nil {
		logger.Error("MonthlyStatistics: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *SalesHandler) TopProducts(c *gin.Context) {
	limit := service.DefaultTopLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	top, err := h.salesService.TopSellingProducts(c.Request.Context(), limit)
	if err != nil {
		logger.Error("TopProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top products"})
		return
	}
	c.JSON(http.StatusOK, top)
}

func (h *SalesHandler) Revenue(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, ranged, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var revenue float64
	if ranged {
		revenue, err = h.salesService.RevenueInRange(ctx, from, to)
	} else {
		revenue, err = h.salesService.TotalRevenue(ctx)
	}
	if err != nil {
		logger.Error("Revenue: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": revenue})
}
