package main

import (
	"context"
	"net/http"
	"time"

	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/middleware"
	"bookstore-marketplace/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.FrontendURL),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)

		// Mọi route còn lại cần Bearer token
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager, c.UserService))

		setupUserRoutes(authed, c)
		setupBookRoutes(authed, c)
		setupOrderRoutes(authed, c)
		setupStatsRoutes(authed, c)
		setupPaymentRoutes(authed, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(rg *gin.RouterGroup, c *container.Container) {
	rg.POST("/get-role", c.UserHandler.GetRole)

	users := rg.Group("/user")
	{
		users.GET("/profile", middleware.RequirePermission(authz.ActionRead, authz.ResourceUser), c.UserHandler.GetProfile)
		users.GET("/wishlist", middleware.RequirePermission(authz.ActionRead, authz.ResourceWishlist), c.UserHandler.GetWishlist)
		users.POST("/wishlist/add-remove", middleware.RequirePermission(authz.ActionUpdate, authz.ResourceWishlist), c.UserHandler.ToggleWishlist)

		// Admin
		users.GET("", middleware.RequirePermission(authz.ActionList, authz.ResourceUser), c.UserHandler.ListUsers)
		users.PUT("/:id", middleware.RequirePermission(authz.ActionUpdate, authz.ResourceUser), c.UserHandler.UpdateUser)
		users.DELETE("/:id", middleware.RequirePermission(authz.ActionDelete, authz.ResourceUser), c.UserHandler.DeleteUser)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(rg *gin.RouterGroup, c *container.Container) {
	books := rg.Group("/books")
	{
		books.GET("", middleware.RequirePermission(authz.ActionList, authz.ResourceBook), c.BookHandler.ListBooks)
		books.POST("", middleware.RequirePermission(authz.ActionCreate, authz.ResourceBook), c.BookHandler.CreateBook)

		books.GET("/my-products", middleware.RequirePermission(authz.ActionList, authz.ResourceBook), c.BookHandler.ListMyProducts)
		books.GET("/my-products/export", middleware.RequirePermission(authz.ActionExport, authz.ResourceBook), c.BookHandler.ExportMyProducts)

		books.GET("/:id", middleware.RequirePermission(authz.ActionRead, authz.ResourceBook), c.BookHandler.GetBook)
		books.PUT("/:id", middleware.RequirePermission(authz.ActionUpdate, authz.ResourceBook), c.BookHandler.UpdateBook)
		books.DELETE("/:id", middleware.RequirePermission(authz.ActionDelete, authz.ResourceBook), c.BookHandler.DeleteBook)
		books.POST("/:id/cover", middleware.RequirePermission(authz.ActionUpdate, authz.ResourceBook), c.BookHandler.UploadCover)
	}
}

// ========================================
// ORDER ROUTES
// ========================================
func setupOrderRoutes(rg *gin.RouterGroup, c *container.Container) {
	orders := rg.Group("/order")
	{
		orders.POST("", middleware.RequirePermission(authz.ActionCreate, authz.ResourceOrder), c.OrderHandler.CreateOrder)
		orders.GET("", middleware.RequirePermission(authz.ActionList, authz.ResourceAllOrders), c.OrderHandler.ListOrders)

		orders.GET("/user", middleware.RequirePermission(authz.ActionList, authz.ResourceOrder), c.OrderHandler.ListUserOrders)
		orders.GET("/seller", middleware.RequirePermission(authz.ActionList, authz.ResourceOrder), c.OrderHandler.ListSellerOrders)
		orders.GET("/seller/export", middleware.RequirePermission(authz.ActionExport, authz.ResourceOrder), c.OrderHandler.ExportSellerOrders)
		orders.GET("/book/:bookId", middleware.RequirePermission(authz.ActionList, authz.ResourceOrder), c.OrderHandler.ListBookOrders)

		orders.GET("/:id", middleware.RequirePermission(authz.ActionRead, authz.ResourceOrder), c.OrderHandler.GetOrder)
		orders.PUT("/:id", middleware.RequirePermission(authz.ActionUpdate, authz.ResourceOrder), c.OrderHandler.UpdateOrder)
		orders.DELETE("/:id", middleware.RequirePermission(authz.ActionDelete, authz.ResourceOrder), c.OrderHandler.DeleteOrder)
	}
}

// ========================================
// STATS ROUTES
// ========================================
func setupStatsRoutes(rg *gin.RouterGroup, c *container.Container) {
	rg.GET("/seller/stats", middleware.RequirePermission(authz.ActionRead, authz.ResourceSellerStats), c.StatsHandler.SellerStats)
	rg.GET("/admin/stats", middleware.RequirePermission(authz.ActionRead, authz.ResourceAdminStats), c.StatsHandler.AdminStats)
}

// ========================================
// PAYMENT ROUTES
// ========================================
func setupPaymentRoutes(rg *gin.RouterGroup, c *container.Container) {
	rg.POST("/create-razorpay-order", middleware.RequirePermission(authz.ActionCreate, authz.ResourcePayment), c.PaymentHandler.CreatePaymentIntent)
	rg.POST("/verify-razorpay-signature", middleware.RequirePermission(authz.ActionUpdate, authz.ResourcePayment), c.PaymentHandler.VerifyPayment)
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			health["status"] = "degraded"
		}

		// Check redis, lỗi redis chỉ làm chậm chứ không sai dữ liệu
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Redis.HealthCheck(ctx); err != nil {
			redisStatus = "error: " + err.Error()
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
