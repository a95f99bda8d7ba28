// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bodega/internal/domain/auth"
	"bodega/internal/domain/catalogs/category"
	"bodega/internal/domain/catalogs/product"
	"bodega/internal/domain/catalogs/supplier"
	"bodega/internal/domain/catalogs/warehouse"
	"bodega/internal/domain/ledger"
	"bodega/internal/domain/movements"
	"bodega/internal/infrastructure/http/v1/handlers"
	"bodega/internal/infrastructure/http/v1/middleware"
	"bodega/internal/infrastructure/storage/postgres"
	"bodega/internal/infrastructure/storage/postgres/auth_repo"
	"bodega/internal/infrastructure/storage/postgres/catalog_repo"
	"bodega/internal/infrastructure/storage/postgres/ledger_repo"
	"bodega/internal/infrastructure/storage/postgres/movement_repo"
	"bodega/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	Logger    *logger.Logger
	JWTSecret string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Repositories
	ledgerRepo := ledger_repo.NewLedgerRepo(cfg.TxManager)
	movementRepo := movement_repo.NewMovementRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	userRepo := auth_repo.NewUserRepo(cfg.TxManager)

	auditService, err := postgres.NewAuditService(cfg.TxManager)
	if err != nil {
		return nil, err
	}

	// Services
	ledgerService := ledger.NewService(ledgerRepo)
	movementService := movements.NewService(movementRepo, ledgerService, cfg.TxManager, auditService)
	productService := product.NewService(productRepo, movementRepo, ledgerService, cfg.TxManager)
	warehouseService := warehouse.NewService(warehouseRepo)
	categoryService := category.NewService(categoryRepo)
	supplierService := supplier.NewService(supplierRepo)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))
	authService := auth.NewService(userRepo, jwtService)

	// Handlers
	movementHandler := handlers.NewMovementHandler(movementService, auditService)
	productHandler := handlers.NewProductHandler(productService)
	warehouseHandler := handlers.NewWarehouseHandler(warehouseService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	stockHandler := handlers.NewStockHandler(ledgerService)
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(cfg.Pool.Pool)

	// Health endpoints (no auth)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.Auth(jwtService))

		adminOnly := middleware.RequireRole(auth.RoleAdmin)

		protected.POST("/auth/password", authHandler.ChangePassword)
		protected.POST("/auth/users", adminOnly, authHandler.Register)
		protected.GET("/auth/users", adminOnly, authHandler.ListUsers)

		mv := protected.Group("/movements")
		{
			mv.GET("", movementHandler.List)
			mv.GET("/:id", movementHandler.Get)
			mv.GET("/:id/audit", adminOnly, movementHandler.Audit)
			mv.POST("/entries", movementHandler.RegisterEntry)
			mv.POST("/entries/:id/return", movementHandler.ReturnEntry)
			mv.POST("/exits", movementHandler.RegisterExit)
			mv.POST("/exits/:id/return", movementHandler.ReturnExit)
			mv.POST("/transfers", movementHandler.RegisterTransfer)
			mv.POST("/transfers/:id/return", movementHandler.ReturnTransfer)
		}

		pr := protected.Group("/products")
		{
			pr.GET("", productHandler.List)
			pr.GET("/:code", productHandler.Get)
			pr.POST("", productHandler.Create)
			pr.PUT("/:code", productHandler.Update)
			pr.POST("/:code/action", productHandler.Action)
		}

		wh := protected.Group("/warehouses")
		{
			wh.GET("", warehouseHandler.List)
			wh.POST("", adminOnly, warehouseHandler.Create)
			wh.PUT("/:id", adminOnly, warehouseHandler.Update)
			wh.DELETE("/:id", adminOnly, warehouseHandler.Delete)
		}

		ct := protected.Group("/categories")
		{
			ct.GET("", categoryHandler.List)
			ct.POST("", categoryHandler.Create)
			ct.PUT("/:id", categoryHandler.Update)
			ct.DELETE("/:id", categoryHandler.Delete)
		}

		sp := protected.Group("/suppliers")
		{
			sp.GET("", supplierHandler.List)
			sp.POST("", supplierHandler.Create)
			sp.PUT("/:id", supplierHandler.Update)
			sp.DELETE("/:id", supplierHandler.Delete)
		}

		st := protected.Group("/stock")
		{
			st.GET("/warehouses/:id", stockHandler.ByWarehouse)
			st.GET("/warehouses/:id/products/:code", stockHandler.Quantity)
			st.GET("/products/:code", stockHandler.ByProduct)
		}
	}

	return router, nil
}
