package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"netshop-backend/internal/shared/middleware"
	"netshop-backend/internal/shared/response"
	"netshop-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowOrigins),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCartRoutes(v1, c)
		setupAddressRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupPaymentRoutes(v1, c)
		setupAdminOrderRoutes(v1, c)
	}

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "Route not found")
	})

	return router
}

// ========================================
// CART ROUTES
// ========================================
func setupCartRoutes(v1 *gin.RouterGroup, c *container.Container) {
	cart := v1.Group("/cart")
	cart.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		cart.GET("", c.CartHandler.GetCart)
		cart.GET("/validate", c.CartHandler.ValidateCart)
		cart.POST("/items", c.CartHandler.AddItem)
		cart.PATCH("/items/:productId", c.CartHandler.UpdateItem)
		cart.DELETE("/items/:productId", c.CartHandler.RemoveItem)
	}
}

// ========================================
// ADDRESS ROUTES
// ========================================
func setupAddressRoutes(v1 *gin.RouterGroup, c *container.Container) {
	addresses := v1.Group("/addresses")
	addresses.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		addresses.POST("", c.AddressHandler.CreateAddress)
		addresses.GET("", c.AddressHandler.ListAddresses)
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.POST("", c.OrderHandler.CreateOrder)
		orders.GET("", c.OrderHandler.ListOrders)
		orders.GET("/number/:orderNumber", c.OrderHandler.GetOrderByNumber)
		orders.GET("/:id", c.OrderHandler.GetOrderDetail)
		orders.GET("/:id/history", c.OrderHandler.GetOrderHistory)
		orders.PATCH("/:id/cancel", c.OrderHandler.CancelOrder)
		orders.POST("/:id/retry-payment", c.PaymentHandler.RetryPayment)
		orders.PATCH("/:id/status", middleware.AdminMiddleware(), c.OrderHandler.UpdateOrderStatus)
	}
}

// ========================================
// PAYMENT ROUTES
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// IPN và return do MoMo/browser gọi: không có JWT, chỉ rate limit
	momo := v1.Group("/payments/momo")
	momo.Use(middleware.RateLimitMiddleware(c.Config.RateLimit))
	{
		momo.POST("/ipn", c.PaymentHandler.MomoIPN)
		momo.GET("/return", c.PaymentHandler.MomoReturn)
		momo.GET("/query", middleware.AuthMiddleware(c.JWTManager), c.PaymentHandler.QueryPayment)
	}
}

// ========================================
// ADMIN ORDER ROUTES
// ========================================
func setupAdminOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	adminOrders := v1.Group("/admin/orders")
	adminOrders.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		adminOrders.GET("", c.OrderHandler.ListAllOrders)
		adminOrders.GET("/export", c.OrderHandler.ExportOrders)
		adminOrders.GET("/:id/payment-logs", c.PaymentHandler.ListPaymentLogs)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		database := gin.H{"status": dbStatus}
		if appCtx.DB != nil {
			database["pool"] = appCtx.DB.Stats()
		}
		health["services"] = gin.H{
			"database": database,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
