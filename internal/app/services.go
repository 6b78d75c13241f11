// Package app provides service initialization.
package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/storefront-cart/config"
	"github.com/guttosm/storefront-cart/internal/cartapi"
	"github.com/guttosm/storefront-cart/internal/circuitbreaker"
	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/guttosm/storefront-cart/internal/querycache"
	"github.com/guttosm/storefront-cart/internal/repository"
	"github.com/guttosm/storefront-cart/internal/service"
)

// ErrDatabaseRequired is returned when the mongo cart backend is selected without a database.
var ErrDatabaseRequired = errors.New("the mongo cart backend requires a database")

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Cache              *querycache.Cache[model.CartSnapshot]
	Carts              service.CartService
	Audit              service.AuditService
	CartCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeServices builds the cart backend, the query cache and the cart
// service on top of them. db may be nil when the HTTP backend is used; the
// audit trail is then disabled.
func InitializeServices(cfg config.Config, db *DatabaseComponents) (*ServiceComponents, error) {
	backend, err := newCartBackend(cfg.CartAPI, db)
	if err != nil {
		return nil, err
	}

	cartCB := circuitbreaker.New(cartapi.BreakerConfig(breakerConfig("cart-backend", cfg.Database)))
	api := cartapi.WithCircuitBreaker(backend, cartCB)

	cache := querycache.New[model.CartSnapshot](querycache.Config{
		Capacity:        cfg.Cache.Size,
		TTL:             cfg.Cache.TTL,
		StaleTime:       cfg.Cache.StaleTime,
		CleanupInterval: cfg.Cache.CleanupInterval,
		FetchTimeout:    cfg.Cache.FetchTimeout,
	})

	var audit service.AuditService
	if db != nil && db.AuditRepo != nil {
		audit = service.NewAuditService(db.AuditRepo, service.AuditConfig{
			BufferSize: cfg.Audit.BufferSize,
			NumWorkers: cfg.Audit.Workers,
		})
	}

	return &ServiceComponents{
		Cache:              cache,
		Carts:              service.NewCartService(api, cache, audit),
		Audit:              audit,
		CartCircuitBreaker: cartCB,
	}, nil
}

// Close flushes the audit trail and stops the cache sweeper.
func (s *ServiceComponents) Close() {
	if s == nil {
		return
	}
	if s.Audit != nil {
		s.Audit.Close()
	}
	if s.Cache != nil {
		s.Cache.Stop()
	}
}

func newCartBackend(cfg config.CartAPIConfig, db *DatabaseComponents) (cartapi.CartAPI, error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		log.Info().Str("base_url", cfg.BaseURL).Msg("Using HTTP cart backend")
		return cartapi.NewClient(cartapi.ClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		}), nil
	case config.BackendMongo:
		if db == nil {
			return nil, ErrDatabaseRequired
		}
		log.Info().Msg("Using MongoDB cart backend")
		return repository.NewCartRepository(db.DB, db.Menus), nil
	default:
		return nil, fmt.Errorf("unknown cart backend %q", cfg.Backend)
	}
}
