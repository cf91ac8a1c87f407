package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/marketplace-backend/internal/clients/redis"
	"github.com/yungbote/marketplace-backend/internal/db"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/middleware"
	"github.com/yungbote/marketplace-backend/internal/server"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Handlers Handlers
	cache    *redisclient.Cache
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := wireRepos(theDB, log)

	if err := reposet.Role.EnsureAll(context.Background(), nil,
		[]string{types.RoleUser, types.RoleSeller, types.RoleAdmin}); err != nil {
		log.Sync()
		return nil, fmt.Errorf("seed roles: %w", err)
	}

	cache, err := redisclient.NewCache(log, cfg.RedisAddr)
	if err != nil {
		// Analytics caching is optional; the services fall back to direct
		// queries when the cache is nil.
		log.Warn("Redis unavailable, running without analytics cache", "error", err)
		cache = nil
	}

	serviceset := wireServices(theDB, log, cfg, reposet, cache)
	handlerset := wireHandlers(log, serviceset)

	authMiddleware := middleware.NewAuthMiddleware(log, serviceset.Auth)

	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AuthMiddleware:   authMiddleware,
		AuthHandler:      handlerset.Auth,
		UserHandler:      handlerset.User,
		StoreHandler:     handlerset.Store,
		ProductHandler:   handlerset.Product,
		CategoryHandler:  handlerset.Category,
		OrderHandler:     handlerset.Order,
		AnalyticsHandler: handlerset.Analytics,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Handlers: handlerset,
		cache:    cache,
	}, nil
}

func (a *App) Run() error {
	a.Log.Info("Starting HTTP server", "port", a.Cfg.Port)
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	a.Log.Sync()
}
