// Package app provides service initialization.
package app

import (
	"github.com/guttosm/image-proxy/config"
	"github.com/guttosm/image-proxy/internal/cache"
	"github.com/guttosm/image-proxy/internal/engine"
	"github.com/guttosm/image-proxy/internal/fetch"
	"github.com/guttosm/image-proxy/internal/service"
)

// ServiceComponents holds the image pipeline components.
type ServiceComponents struct {
	Fetcher      fetch.Fetcher
	Cache        *cache.Store
	Engine       engine.Engine
	ImageService *service.ImageService
	// TokenService is nil when admin authentication is disabled.
	TokenService service.TokenService
}

// InitializeServices builds the fetch client, the source cache, the engine and
// the orchestrator. It fails only when a configured watermark cannot be loaded.
func InitializeServices(cfg config.Config) (*ServiceComponents, error) {
	fetcher := fetch.NewClient(fetch.Options{
		Timeout:   cfg.Fetch.Timeout,
		MaxBytes:  cfg.Fetch.MaxBytes,
		UserAgent: cfg.Fetch.UserAgent,
		AllowFile: cfg.Fetch.AllowFile,
	})

	size := cfg.Cache.Size
	if size <= 0 {
		size = cache.DefaultCapacity
	}
	store := cache.NewStore(size)

	watermark, err := engine.LoadWatermark(cfg.Image.WatermarkPath)
	if err != nil {
		return nil, err
	}
	eng := engine.New(watermark)

	imageService := service.NewImageService(fetcher, store, eng,
		service.WithQuality(cfg.Image.Quality),
		service.WithSingleFlight(cfg.Fetch.SingleFlight),
	)

	components := &ServiceComponents{
		Fetcher:      fetcher,
		Cache:        store,
		Engine:       eng,
		ImageService: imageService,
	}
	if cfg.Auth.Enabled() {
		components.TokenService = service.NewTokenService(cfg.Auth)
	}
	return components, nil
}
