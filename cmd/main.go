package main

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/suteetoe/inventory-service/internal/handler"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/internal/service"
	"github.com/suteetoe/inventory-service/pkg/config"
	"github.com/suteetoe/inventory-service/pkg/database"
	"github.com/suteetoe/inventory-service/pkg/jwtutil"
	"github.com/suteetoe/inventory-service/pkg/logger"
	"github.com/suteetoe/inventory-service/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use the structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting inventory-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtUtil := jwtutil.NewJWTUtil(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics()
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockRepo := repository.NewStockRepository(db)
	purchaseRepo := repository.NewPurchaseOrderRepository(db)
	salesRepo := repository.NewSalesOrderRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	auditSvc := service.NewAuditService(auditRepo)
	stockSvc := service.NewStockService(db, stockRepo, productRepo, warehouseRepo, auditSvc)
	orderSvc := service.NewOrderService(db, purchaseRepo, salesRepo, stockRepo, productRepo, warehouseRepo, auditSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, tenantRepo, jwtUtil)
	tenantHandler := handler.NewTenantHandler(tenantRepo)
	userHandler := handler.NewUserHandler(userRepo)
	warehouseHandler := handler.NewWarehouseHandler(db, warehouseRepo, auditSvc)
	supplierHandler := handler.NewSupplierHandler(db, supplierRepo, productRepo, auditSvc)
	productHandler := handler.NewProductHandler(db, productRepo, supplierRepo, auditSvc)
	stockHandler := handler.NewStockHandler(stockSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", prometheus.MetricsHandler)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/pin-login", authHandler.PinLogin)
	e.POST("/tenants", tenantHandler.Create)

	// Authenticated API routes
	api := e.Group("/api", middleware.AuthMiddleware(jwtUtil))

	api.GET("/me", authHandler.Me)
	api.GET("/tenants/:id", tenantHandler.Get)

	api.GET("/users", userHandler.List)
	api.PUT("/users/:id", userHandler.Update)
	api.POST("/roles", userHandler.CreateRole)
	api.GET("/roles", userHandler.ListRoles)
	api.POST("/users/:user_id/roles/:role_id", userHandler.AssignRole)
	api.DELETE("/users/:user_id/roles/:role_id", userHandler.RemoveRole)

	api.POST("/warehouses", warehouseHandler.Create)
	api.GET("/warehouses", warehouseHandler.List)
	api.GET("/warehouses/:id", warehouseHandler.Get)
	api.PUT("/warehouses/:id", warehouseHandler.Update)
	api.DELETE("/warehouses/:id", warehouseHandler.Delete)

	api.POST("/suppliers", supplierHandler.Create)
	api.GET("/suppliers", supplierHandler.List)
	api.GET("/suppliers/:id", supplierHandler.Get)
	api.PUT("/suppliers/:id", supplierHandler.Update)
	api.DELETE("/suppliers/:id", supplierHandler.Delete)

	api.POST("/products", productHandler.Create)
	api.GET("/products", productHandler.List)
	api.GET("/products/:sku", productHandler.Get)
	api.PUT("/products/:sku", productHandler.Update)
	api.DELETE("/products/:sku", productHandler.Delete)

	api.POST("/stock/ensure", stockHandler.Ensure)
	api.POST("/stock/adjust", stockHandler.Adjust)
	api.GET("/stock/:sku/:warehouse_id", stockHandler.Get)
	api.GET("/stock/product/:sku", stockHandler.ListByProduct)
	api.GET("/stock/warehouse/:warehouse_id", stockHandler.ListByWarehouse)

	api.POST("/purchase-orders", orderHandler.CreatePurchaseOrder)
	api.GET("/purchase-orders", orderHandler.ListPurchaseOrders)
	api.GET("/purchase-orders/:id", orderHandler.GetPurchaseOrder)
	api.POST("/purchase-orders/:id/approve", orderHandler.ApprovePurchaseOrder)
	api.POST("/purchase-orders/:id/receive", orderHandler.ReceivePurchaseOrder)
	api.POST("/purchase-orders/:id/cancel", orderHandler.CancelPurchaseOrder)

	api.POST("/sales-orders", orderHandler.CreateSalesOrder)
	api.GET("/sales-orders", orderHandler.ListSalesOrders)
	api.GET("/sales-orders/:id", orderHandler.GetSalesOrder)
	api.POST("/sales-orders/:id/confirm", orderHandler.ConfirmSalesOrder)
	api.POST("/sales-orders/:id/fulfill", orderHandler.FulfillSalesOrder)
	api.POST("/sales-orders/:id/cancel", orderHandler.CancelSalesOrder)
	api.POST("/sales-orders/:id/refund", orderHandler.RefundSalesOrder)

	api.GET("/audit-logs", auditHandler.List)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
