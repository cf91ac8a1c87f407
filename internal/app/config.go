package app

import (
	"strings"
	"time"

	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/money"
	"github.com/yungbote/marketplace-backend/internal/services"
	"github.com/yungbote/marketplace-backend/internal/utils"
)

type Config struct {
	Port              string
	JWTSecretKey      string
	AccessTokenTTL    time.Duration
	RedisAddr         string
	AnalyticsCacheTTL time.Duration
	AllowedOrigins    []string
	Order             services.OrderConfig
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	analyticsCacheTTLSeconds := utils.GetEnvAsInt("ANALYTICS_CACHE_TTL", 300, log)
	origins := utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000", log)

	orderCfg := services.DefaultOrderConfig()
	if raw := utils.GetEnv("FLAT_SHIPPING_RATE", "15.00", log); raw != "" {
		if rate, err := money.FromString(raw); err == nil && !rate.IsNegative() {
			orderCfg.FlatShippingRate = rate
		} else {
			log.Warn("Invalid FLAT_SHIPPING_RATE, using default", "value", raw)
		}
	}
	orderCfg.EstimatedDeliveryDays = utils.GetEnvAsInt("ESTIMATED_DELIVERY_DAYS", 7, log)

	return Config{
		Port:              port,
		JWTSecretKey:      jwtSecretKey,
		AccessTokenTTL:    time.Duration(accessTokenTTLSeconds) * time.Second,
		RedisAddr:         redisAddr,
		AnalyticsCacheTTL: time.Duration(analyticsCacheTTLSeconds) * time.Second,
		AllowedOrigins:    strings.Split(origins, ","),
		Order:             orderCfg,
	}
}
