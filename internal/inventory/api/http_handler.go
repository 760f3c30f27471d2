package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/armonia-music/pos-backend/internal/inventory/domain"
	"github.com/armonia-music/pos-backend/internal/inventory/repository"
	"github.com/armonia-music/pos-backend/internal/inventory/service"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(is service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// RegisterRoutes mounts read endpoints on the public group and mutating
// endpoints on the admin group; the caller decides which middleware guards
// each group.
func (h *InventoryHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	products := public.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:sku", h.GetProduct)
		products.GET("/search", h.SearchProducts)
		products.GET("/low-stock", h.LowStock)
		products.GET("/categories", h.Categories)
	}

	adminProducts := admin.Group("/products")
	{
		adminProducts.POST("", h.AddProduct)
		adminProducts.PUT("/:sku", h.UpdateProduct)
		adminProducts.DELETE("/:sku", h.DeleteProduct)
		adminProducts.PATCH("/:sku/stock", h.SetStock)
	}
}

func (h *InventoryHandler) ListProducts(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		products, err := h.inventoryService.ByCategory(c.Request.Context(), category)
		if err != nil {
			logger.Error("ListProducts: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}

	products, err := h.inventoryService.List(c.Request.Context())
	if err != nil {
		logger.Error("ListProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.inventoryService.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *InventoryHandler) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	products, err := h.inventoryService.Search(c.Request.Context(), term)
	if err != nil {
		logger.Error("SearchProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	threshold := service.DefaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative integer"})
			return
		}
		threshold = parsed
	}

	products, err := h.inventoryService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		logger.Error("LowStock: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve low stock products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *InventoryHandler) Categories(c *gin.Context) {
	categories, err := h.inventoryService.Categories(c.Request.Context())
	if err != nil {
		logger.Error("Categories: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *InventoryHandler) AddProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if err := h.inventoryService.Add(c.Request.Context(), product); err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("AddProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if err := h.inventoryService.Update(c.Request.Context(), c.Param("sku"), product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("UpdateProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.inventoryService.Remove(c.Request.Context(), c.Param("sku")); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("DeleteProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *InventoryHandler) SetStock(c *gin.Context) {
	var req domain.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	updated, err := h.inventoryService.SetStock(c.Request.Context(), c.Param("sku"), req.Stock)
	if err != nil {
		logger.Error("SetStock: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
