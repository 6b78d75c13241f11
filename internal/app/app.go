// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/storefront-cart/config"
	"github.com/guttosm/storefront-cart/internal/http"
)

// App holds the wired application and the resources it must release.
type App struct {
	Router *gin.Engine

	db       *DatabaseComponents
	services *ServiceComponents
	routes   *RouterComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := InitializeDatabase(ctx, cfg.Database)
	if err != nil {
		if cfg.CartAPI.Backend == config.BackendMongo {
			return nil, err
		}
		// The HTTP backend does not need the database; only the audit trail is lost.
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without audit trail")
		db = nil
	}

	services, err := InitializeServices(cfg, db)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}

	routes := InitializeRouter(services, db, cfg)

	return &App{
		Router:   http.NewRouter(routes.CartHandler, routes.HealthHandler, routes.Config),
		db:       db,
		services: services,
		routes:   routes,
	}, nil
}

// Close releases background workers and connections. Pending audit entries
// are flushed before the database is disconnected.
func (a *App) Close(ctx context.Context) {
	a.routes.Stop()
	a.services.Close()
	a.db.Close(ctx)
	log.Info().Msg("Application resources released")
}
