// Package app provides database initialization and setup.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/storefront-cart/config"
	"github.com/guttosm/storefront-cart/internal/circuitbreaker"
	"github.com/guttosm/storefront-cart/internal/repository"
)

const databaseSetupTimeout = 10 * time.Second

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                  *repository.MongoDB
	Menus               *repository.MenuRepository
	AuditRepo           repository.AuditRepositoryInterface
	AuditCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and creates the repositories.
// It returns nil components and no error when the database is disabled.
func InitializeDatabase(ctx context.Context, cfg config.DatabaseConfig) (*DatabaseComponents, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(ctx, databaseSetupTimeout)
	defer cancel()

	if ttlDays := int(cfg.AuditTTL.Hours() / 24); ttlDays > 0 {
		if err := db.SetAuditTTL(ctx, ttlDays); err != nil {
			log.Warn().Err(err).Int("ttl_days", ttlDays).Msg("Failed to set audit TTL index")
		}
	}

	menus := repository.NewMenuRepository(db)
	if cfg.Seed {
		seeded, err := repository.SeedMenus(ctx, menus)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to seed menu catalogue")
		} else if seeded {
			log.Info().Int("menus", len(repository.DemoMenus())).Msg("Seeded demo menu catalogue")
		}
	}

	auditCB := circuitbreaker.New(breakerConfig("mongodb-audit", cfg))

	return &DatabaseComponents{
		DB:                  db,
		Menus:               menus,
		AuditRepo:           repository.NewAuditRepositoryWithCircuitBreaker(repository.NewAuditRepository(db), auditCB),
		AuditCircuitBreaker: auditCB,
	}, nil
}

// Close disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) {
	if d == nil || d.DB == nil {
		return
	}
	if err := d.DB.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
	}
}

func breakerConfig(name string, cfg config.DatabaseConfig) circuitbreaker.Config {
	return circuitbreaker.Config{
		Name:             name,
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
	}
}
