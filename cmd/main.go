// Package main is the entry point for the image-proxy application.
//
// @title           Image Proxy API
// @version         1.0.0
// @description     HTTP proxy that fetches a source image, applies an encoded list of
// @description     transformations and returns the result as JPEG.
//
//	Source images are cached in memory; transformed output is not.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/image-proxy
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Admin JWT as "Bearer <token>". Required on /api when ADMIN_JWT_SECRET is set.
//
// @tag.name        Images
// @tag.description Image transformation
//
// @tag.name        Specs
// @tag.description Transform token encoding and decoding
//
// @tag.name        Admin
// @tag.description Cache statistics and request logs
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/image-proxy/config"
	_ "github.com/guttosm/image-proxy/docs" // swagger docs
	"github.com/guttosm/image-proxy/internal/app"
)

func main() {
	cfg := config.Load()

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server)
	runErr := server.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to release resources")
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
