package app

import (
	"gorm.io/gorm"

	redisclient "github.com/yungbote/marketplace-backend/internal/clients/redis"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/services"
)

type Services struct {
	Auth      services.AuthService
	User      services.UserService
	Store     services.StoreService
	Product   services.ProductService
	Category  services.CategoryService
	Order     services.OrderService
	Analytics services.AnalyticsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, cache *redisclient.Cache) Services {
	log.Info("Wiring services...")
	policy := services.NewOrderPolicy()
	return Services{
		Auth:      services.NewAuthService(db, log, r.User, r.Role, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:      services.NewUserService(db, log, r.User),
		Store:     services.NewStoreService(db, log, r.Store, r.User, r.Role),
		Product:   services.NewProductService(db, log, r.Product, r.Category, r.Store, r.User),
		Category:  services.NewCategoryService(db, log, r.Category, r.User),
		Order:     services.NewOrderService(db, log, cfg.Order, r.Order, r.Product, r.User, r.Store, policy),
		Analytics: services.NewAnalyticsService(log, r.Order, r.User, r.Store, cache, cfg.AnalyticsCacheTTL),
	}
}
