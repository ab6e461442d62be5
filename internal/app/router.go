// Package app provides router configuration.
package app

import (
	"context"

	"github.com/guttosm/image-proxy/config"
	"github.com/guttosm/image-proxy/internal/http"
	"github.com/guttosm/image-proxy/internal/middleware"
	"github.com/guttosm/image-proxy/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *middleware.RateLimiter
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	var loggingService service.LoggingService
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService
	}

	handler := http.NewHandler(services.ImageService, http.WithCacheMaxAge(cfg.Image.CacheMaxAge))
	healthHandler := http.NewHealthHandler()

	if dbComponents != nil {
		healthHandler.RegisterCircuitBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
		if db := dbComponents.DB; db != nil {
			healthHandler.RegisterChecker("mongodb", http.HealthCheckerFunc(func(ctx context.Context) error {
				return db.HealthCheck(ctx)
			}))
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}

	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		RateLimiter:    limiter,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
		LoggingService: loggingService,
		TokenService:   services.TokenService,
		Cache:          services.Cache,
		CacheMaxAge:    cfg.Image.CacheMaxAge,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
		RateLimiter:   limiter,
	}
}
