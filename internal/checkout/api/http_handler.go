package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authapi "github.com/armonia-music/pos-backend/internal/auth/api"
	"github.com/armonia-music/pos-backend/internal/checkout/service"
	"github.com/armonia-music/pos-backend/internal/inventory/repository"
	inventoryservice "github.com/armonia-music/pos-backend/internal/inventory/service"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
	salesdomain "github.com/armonia-music/pos-backend/internal/sales/domain"
)

type CheckoutRequest struct {
	Lines    []salesdomain.SaleLine `json:"lines" binding:"required,dive"`
	Customer string                 `json:"customer"`
}

type CartCheckoutRequest struct {
	Customer string `json:"customer"`
}

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(cs service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/checkout", h.Checkout)
	router.POST("/checkout/cart", h.CheckoutCart)
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	sale, err := h.checkoutService.Checkout(c.Request.Context(), req.Lines, authapi.CurrentUserName(c), req.Customer)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *CheckoutHandler) CheckoutCart(c *gin.Context) {
	var req CartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	sale, err := h.checkoutService.CheckoutCart(c.Request.Context(), authapi.CurrentUserName(c), req.Customer)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyTicket):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, inventoryservice.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error("Checkout: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process sale"})
	}
}
