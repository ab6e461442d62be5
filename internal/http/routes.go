package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/image-proxy/internal/middleware"
)

// PublicRouteGroup defines routes that don't require authentication.
type PublicRouteGroup interface {
	// RegisterPublicRoutes registers public routes to the given router group.
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// ProtectedRouteGroup defines routes that require authentication.
type ProtectedRouteGroup interface {
	// RegisterProtectedRoutes registers protected routes to the given router group.
	RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// ImageRoutes registers the transform endpoint.
type ImageRoutes struct {
	handler *Handler
}

var _ PublicRouteGroup = (*ImageRoutes)(nil)

// NewImageRoutes creates image routes.
func NewImageRoutes(handler *Handler) *ImageRoutes {
	return &ImageRoutes{handler: handler}
}

// RegisterPublicRoutes registers GET /image/:spec/*url.
func (r *ImageRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/image/:spec/*url", r.handler.ServeImage)
}

// APIRoutes registers the management API.
type APIRoutes struct {
	specs *SpecHandler
	admin *AdminHandler
}

var (
	_ PublicRouteGroup    = (*APIRoutes)(nil)
	_ ProtectedRouteGroup = (*APIRoutes)(nil)
)

// NewAPIRoutes creates management API routes.
func NewAPIRoutes(specs *SpecHandler, admin *AdminHandler) *APIRoutes {
	return &APIRoutes{specs: specs, admin: admin}
}

// RegisterPublicRoutes registers the management API without authentication.
func (r *APIRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	r.register(rg)
}

// RegisterProtectedRoutes registers the management API behind bearer authentication.
func (r *APIRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	protected := rg.Group("", middleware.JWTAuth(cfg.TokenService))
	r.register(protected)
}

func (r *APIRoutes) register(rg *gin.RouterGroup) {
	rg.POST("/specs", r.specs.CreateSpec)
	rg.GET("/specs/:token", r.specs.DescribeSpec)
	rg.GET("/cache", r.admin.CacheStats)
	rg.GET("/logs", r.admin.Logs)
	rg.GET("/logs/summary", r.admin.LogsSummary)
}
