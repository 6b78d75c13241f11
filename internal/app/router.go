// Package app provides router configuration.
package app

import (
	"github.com/guttosm/storefront-cart/config"
	"github.com/guttosm/storefront-cart/internal/http"
	"github.com/guttosm/storefront-cart/internal/middleware"
)

// maxIdempotencyEntries bounds the idempotency store.
const maxIdempotencyEntries = 10000

// RouterComponents holds router-related components.
type RouterComponents struct {
	CartHandler   *http.CartHandler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(services *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterCircuitBreaker("cart_backend", services.CartCircuitBreaker)
	if services.Cache != nil {
		healthHandler.RegisterCache("cart", services.Cache)
	}
	if db != nil {
		healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(db.DB.HealthCheck))
		healthHandler.RegisterCircuitBreaker("mongodb_audit", db.AuditCircuitBreaker)
	}

	routerCfg := http.DefaultRouterConfig()
	if cfg.Server.RequestTimeout > 0 {
		routerCfg.RequestTimeout = cfg.Server.RequestTimeout
	}
	if cfg.Server.RateLimit > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}
	if cfg.Server.UserRateLimit > 0 {
		routerCfg.UserRateLimiter = middleware.NewRateLimiter(cfg.Server.UserRateLimit, cfg.Server.RateWindow)
	}
	routerCfg.Idempotency = middleware.NewIdempotencyStore(cfg.Server.IdempotencyTTL, maxIdempotencyEntries)
	routerCfg.CORSOrigins = cfg.Server.CORSOrigins
	routerCfg.SwaggerUser = cfg.Server.SwaggerUser
	routerCfg.SwaggerPass = cfg.Server.SwaggerPass
	routerCfg.EnableAuth = cfg.Auth.Enabled
	routerCfg.APIKeys = cfg.Auth.APIKeys
	routerCfg.TokenService = InitializeTokenService(cfg.Auth)

	return &RouterComponents{
		CartHandler:   http.NewCartHandler(services.Carts, services.Audit),
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}

// Stop releases the background cleanup of the limiters and the idempotency store.
func (r *RouterComponents) Stop() {
	if r == nil {
		return
	}
	if r.Config.RateLimiter != nil {
		r.Config.RateLimiter.Stop()
	}
	if r.Config.UserRateLimiter != nil {
		r.Config.UserRateLimiter.Stop()
	}
	if r.Config.Idempotency != nil {
		r.Config.Idempotency.Stop()
	}
}
