package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/armonia-music/pos-backend/internal/cart/domain"
	cartservice "github.com/armonia-music/pos-backend/internal/cart/service"
	"github.com/armonia-music/pos-backend/internal/inventory/repository"
	inventoryservice "github.com/armonia-music/pos-backend/internal/inventory/service"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
)

type CartHandler struct {
	cartService      cartservice.CartService
	inventoryService inventoryservice.InventoryService
}

func NewCartHandler(cs cartservice.CartService, is inventoryservice.InventoryService) *CartHandler {
	return &CartHandler{cartService: cs, inventoryService: is}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cartRoutes := router.Group("/cart")
	{
		cartRoutes.GET("", h.GetCart)
		cartRoutes.POST("/items", h.AddItem)
		cartRoutes.PUT("/items/:sku", h.UpdateQuantity)
		cartRoutes.DELETE("/items/:sku", h.RemoveItem)
		cartRoutes.DELETE("", h.ClearCart)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"items":          h.cartService.Items(ctx),
		"total_quantity": h.cartService.TotalQuantity(ctx),
		"subtotal":       h.cartService.Subtotal(ctx),
		"total":          h.cartService.Total(ctx),
	})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req domain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	product, err := h.inventoryService.GetBySKU(ctx, req.SKU)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("AddItem: inventory lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	if err := h.cartService.Add(ctx, *product, req.Quantity); err != nil {
		logger.Error("AddItem: cart update failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.cartService.Items(ctx)})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req domain.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	found, err := h.cartService.UpdateQuantity(ctx, c.Param("sku"), req.Quantity)
	if err != nil {
		logger.Error("UpdateQuantity: cart update failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.cartService.Items(ctx)})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx := c.Request.Context()
	found, err := h.cartService.Remove(ctx, c.Param("sku"))
	if err != nil {
		logger.Error("RemoveItem: cart update failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.cartService.Items(ctx)})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context()); err != nil {
		logger.Error("ClearCart: cart update failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.Status(http.StatusNoContent)
}
