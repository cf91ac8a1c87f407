package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/marketplace-backend/internal/handlers"
	"github.com/yungbote/marketplace-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins   []string
	AuthMiddleware   *middleware.AuthMiddleware
	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	StoreHandler     *handlers.StoreHandler
	ProductHandler   *handlers.ProductHandler
	CategoryHandler  *handlers.CategoryHandler
	OrderHandler     *handlers.OrderHandler
	AnalyticsHandler *handlers.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.GET("/categories", cfg.CategoryHandler.ListRoots)
		api.GET("/categories/:id", cfg.CategoryHandler.Get)
		api.GET("/categories/:id/children", cfg.CategoryHandler.ListChildren)
		api.GET("/categories/:id/products", cfg.ProductHandler.ListByCategory)
		api.GET("/stores", cfg.StoreHandler.List)
		api.GET("/stores/:id", cfg.StoreHandler.Get)
		api.GET("/stores/:id/products", cfg.ProductHandler.ListByStore)
		api.GET("/products/:id", cfg.ProductHandler.Get)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.GET("/me", cfg.UserHandler.GetMe)
		protected.PATCH("/me", cfg.UserHandler.UpdateMe)

		protected.POST("/stores", cfg.StoreHandler.Create)
		protected.GET("/my-stores", cfg.StoreHandler.Mine)
		protected.PATCH("/stores/:id", cfg.StoreHandler.Update)
		protected.GET("/stores/:id/orders", cfg.OrderHandler.ListByStore)
		protected.GET("/stores/:id/analytics", cfg.AnalyticsHandler.StoreSummary)

		protected.POST("/products", cfg.ProductHandler.Create)
		protected.PATCH("/products/:id", cfg.ProductHandler.Update)

		protected.POST("/categories", cfg.CategoryHandler.Create)

		protected.POST("/orders", cfg.OrderHandler.Create)
		protected.GET("/orders", cfg.OrderHandler.List)
		protected.GET("/orders/:id", cfg.OrderHandler.Get)
		protected.GET("/orders/number/:orderNumber", cfg.OrderHandler.GetByNumber)
		protected.GET("/my-orders", cfg.OrderHandler.ListMine)
		protected.PATCH("/orders/:id/status", cfg.OrderHandler.UpdateStatus)
		protected.PATCH("/orders/:id/payment", cfg.OrderHandler.UpdatePayment)
		protected.PATCH("/orders/:id/shipping", cfg.OrderHandler.UpdateShipping)
		protected.DELETE("/orders/:id", cfg.OrderHandler.Cancel)

		protected.GET("/analytics/orders/summary", cfg.AnalyticsHandler.OrderSummary)
		protected.GET("/analytics/stores/top", cfg.AnalyticsHandler.TopStores)
		protected.GET("/analytics/products/top", cfg.AnalyticsHandler.TopProducts)
	}

	return router
}
