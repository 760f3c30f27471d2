package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	authapi "github.com/armonia-music/pos-backend/internal/auth/api"
	authdomain "github.com/armonia-music/pos-backend/internal/auth/domain"
	authrepo "github.com/armonia-music/pos-backend/internal/auth/repository"
	authservice "github.com/armonia-music/pos-backend/internal/auth/service"
	cartapi "github.com/armonia-music/pos-backend/internal/cart/api"
	cartservice "github.com/armonia-music/pos-backend/internal/cart/service"
	checkoutapi "github.com/armonia-music/pos-backend/internal/checkout/api"
	checkoutservice "github.com/armonia-music/pos-backend/internal/checkout/service"
	inventoryapi "github.com/armonia-music/pos-backend/internal/inventory/api"
	inventoryrepo "github.com/armonia-music/pos-backend/internal/inventory/repository"
	inventoryservice "github.com/armonia-music/pos-backend/internal/inventory/service"
	"github.com/armonia-music/pos-backend/internal/platform/config"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
	reportsapi "github.com/armonia-music/pos-backend/internal/reports/api"
	reportsservice "github.com/armonia-music/pos-backend/internal/reports/service"
	salesapi "github.com/armonia-music/pos-backend/internal/sales/api"
	salesrepo "github.com/armonia-music/pos-backend/internal/sales/repository"
	salesservice "github.com/armonia-music/pos-backend/internal/sales/service"
)

func newStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "file":
		return storage.NewFileStore(cfg.FileDir)
	case "redis":
		return storage.NewRedisStore(cfg.RedisAddr, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func main() {
	config.LoadDotEnv()

	serverCfg := config.LoadServerConfig("8080")
	storageCfg := config.LoadStorageConfig()
	authCfg := config.LoadAuthConfig()

	logger.Info("Starting POS Backend Service...")

	store, err := newStore(storageCfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage backend", err)
	}
	logger.Info("Using storage backend: " + storageCfg.Backend)

	ctx := context.Background()

	// Setup Repositories
	productRepo, err := inventoryrepo.NewStoreProductRepository(ctx, store)
	if err != nil {
		logger.Fatal("Failed to initialize product repository", err)
	}
	salesRepo, err := salesrepo.NewStoreSalesRepository(ctx, store)
	if err != nil {
		logger.Fatal("Failed to initialize sales repository", err)
	}
	userRepo, err := authrepo.NewStoreUserRepository(ctx, store)
	if err != nil {
		logger.Fatal("Failed to initialize user repository", err)
	}

	// Setup Services
	inventoryService := inventoryservice.NewInventoryService(productRepo)
	salesService := salesservice.NewSalesService(salesRepo)
	cartService, err := cartservice.NewCartService(ctx, store)
	if err != nil {
		logger.Fatal("Failed to initialize cart service", err)
	}
	checkoutService := checkoutservice.NewCheckoutService(salesService, inventoryService, cartService)
	authService, err := authservice.NewAuthService(userRepo, store, authCfg)
	if err != nil {
		logger.Fatal("Failed to initialize auth service", err)
	}
	reportService := reportsservice.NewReportService(salesService, inventoryService)

	// Setup Handlers
	authHandler := authapi.NewAuthHandler(authService)
	usersHandler := authapi.NewUsersHandler(authService)
	inventoryHandler := inventoryapi.NewInventoryHandler(inventoryService)
	salesHandler := salesapi.NewSalesHandler(salesService)
	cartHandler := cartapi.NewCartHandler(cartService, inventoryService)
	checkoutHandler := checkoutapi.NewCheckoutHandler(checkoutService)
	reportsHandler := reportsapi.NewReportsHandler(reportService)

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	apiRoutes := router.Group("/api/v1")

	// Login and product browsing need no token.
	authHandler.RegisterRoutes(apiRoutes)

	authed := apiRoutes.Group("")
	authed.Use(authapi.RequireAuth(authService))

	// The user directory is for administrators only.
	userAdmin := authed.Group("")
	userAdmin.Use(authapi.RequireRoles(authdomain.RoleAdmin))
	usersHandler.RegisterRoutes(userAdmin)

	// Catalog writes stay behind the admin and inventory roles.
	adminRoutes := authed.Group("")
	adminRoutes.Use(authapi.RequireRoles(authdomain.RoleAdmin, authdomain.RoleInventory))
	inventoryHandler.RegisterRoutes(apiRoutes, adminRoutes)

	// Selling is for employees at the register.
	posRoutes := authed.Group("")
	posRoutes.Use(authapi.RequireRoles(authdomain.RoleAdmin, authdomain.RoleSeller))
	checkoutHandler.RegisterRoutes(posRoutes)

	// Carts belong to whoever is logged in, customers included.
	cartHandler.RegisterRoutes(authed)

	// Ledger queries and reports are back-office surfaces.
	backOffice := authed.Group("")
	backOffice.Use(authapi.RequireRoles(authdomain.RoleAdmin, authdomain.RoleSeller, authdomain.RoleInventory))
	salesHandler.RegisterRoutes(backOffice)
	reportsHandler.RegisterRoutes(backOffice)

	logger.Info("POS Backend Service starting on port " + serverCfg.Port)
	if err := router.Run(serverCfg.Port); err != nil {
		logger.Fatal("Failed to start POS Backend Service", err)
	}
}
