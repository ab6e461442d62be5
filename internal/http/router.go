package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/image-proxy/internal/cache"
	"github.com/guttosm/image-proxy/internal/metrics"
	"github.com/guttosm/image-proxy/internal/middleware"
	"github.com/guttosm/image-proxy/internal/service"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit  int
	RateWindow time.Duration
	// RateLimiter is used when set; otherwise one is built from RateLimit and
	// RateWindow. The caller owns its lifetime.
	RateLimiter    *middleware.RateLimiter
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	LoggingService service.LoggingService
	// TokenService enables bearer authentication on /api when non-nil.
	TokenService service.TokenService
	Cache        cache.CacheWithMetrics
	CacheMaxAge  time.Duration
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      100,
		RateWindow:     time.Minute,
		RequestTimeout: middleware.DefaultRequestTimeout,
		CacheMaxAge:    24 * time.Hour,
	}
}

// NewRouter creates and configures the Gin router for the image proxy.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	timeout := middleware.Timeout(cfg.RequestTimeout)

	if handler != nil {
		NewImageRoutes(handler).RegisterPublicRoutes(router.Group("", timeout))
	}

	api := router.Group("/api", timeout)
	apiRoutes := NewAPIRoutes(
		NewSpecHandler(cfg.LoggingService),
		NewAdminHandler(cfg.Cache, cfg.LoggingService),
	)
	if cfg.TokenService != nil {
		apiRoutes.RegisterProtectedRoutes(api, &cfg)
	} else {
		apiRoutes.RegisterPublicRoutes(api)
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(ImagePathPrefix, "/metrics"),
		middleware.RequestLogger(cfg.LoggingService, "/healthz", "/readyz", "/metrics", "/swagger"),
		middleware.ErrorHandler(),
	)

	limiter := cfg.RateLimiter
	if limiter == nil && cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	}
	if limiter != nil {
		router.Use(limiter.Middleware())
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger with optional basic auth
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
