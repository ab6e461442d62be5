// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/image-proxy/config"
	"github.com/guttosm/image-proxy/internal/http"
)

// App is the wired application: the router plus the components that need
// an orderly shutdown.
type App struct {
	Router   *gin.Engine
	Services *ServiceComponents
	database *DatabaseComponents
	routing  *RouterComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*App, error) {
	// Logger first; every other component logs during setup.
	InitializeLogger(cfg.Log)

	services, err := InitializeServices(cfg)
	if err != nil {
		return nil, err
	}

	dbComponents := InitializeDatabase(cfg.Database)
	routerComponents := InitializeRouter(services, dbComponents, cfg)

	return &App{
		Router:   http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config),
		Services: services,
		database: dbComponents,
		routing:  routerComponents,
	}, nil
}

// Close stops background workers and releases the database connection.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.routing != nil && a.routing.RateLimiter != nil {
		a.routing.RateLimiter.Stop()
	}
	if err := a.database.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
