package app

import (
	"github.com/yungbote/marketplace-backend/internal/handlers"
	"github.com/yungbote/marketplace-backend/internal/logger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Store     *handlers.StoreHandler
	Product   *handlers.ProductHandler
	Category  *handlers.CategoryHandler
	Order     *handlers.OrderHandler
	Analytics *handlers.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:      handlers.NewAuthHandler(s.Auth),
		User:      handlers.NewUserHandler(s.User),
		Store:     handlers.NewStoreHandler(s.Store),
		Product:   handlers.NewProductHandler(s.Product),
		Category:  handlers.NewCategoryHandler(s.Category),
		Order:     handlers.NewOrderHandler(s.Order),
		Analytics: handlers.NewAnalyticsHandler(s.Analytics),
	}
}
