package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/storefront-cart/internal/metrics"
	"github.com/guttosm/storefront-cart/internal/middleware"
	"github.com/guttosm/storefront-cart/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	// RateLimiter limits every request per client IP. Nil disables it.
	RateLimiter *middleware.RateLimiter
	// UserRateLimiter limits cart requests per user. Nil disables it.
	UserRateLimiter *middleware.RateLimiter
	// Idempotency stores cart write responses for replay. Nil disables it.
	Idempotency    *middleware.IdempotencyStore
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string

	EnableAuth bool
	APIKeys    map[string]bool
	// TokenService, when set with EnableAuth, makes bearer tokens the identity source.
	TokenService service.TokenService
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RequestTimeout: middleware.DefaultRequestTimeout,
	}
}

// NewRouter creates and configures the Gin router for the cart service.
func NewRouter(cartHandler *CartHandler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	api.Use(identityMiddleware(&cfg)...)
	api.Use(middleware.RequireUser())

	if cartHandler != nil {
		NewCartRoutes(cartHandler).RegisterRoutes(api, &cfg)
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
		middleware.Compression(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
	)

	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.RateLimit())
	}
}

// identityMiddleware resolves the user whose cart a request addresses.
//
// With auth enabled the user comes from a bearer token, or from X-User-ID
// sent by a caller holding an API key. With auth disabled X-User-ID is
// trusted as is.
func identityMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	switch {
	case cfg.EnableAuth && cfg.TokenService != nil:
		return []gin.HandlerFunc{middleware.JWTAuth(cfg.TokenService)}
	case cfg.EnableAuth:
		return []gin.HandlerFunc{middleware.APIKeyAuth(cfg.APIKeys), middleware.UserFromHeader()}
	default:
		return []gin.HandlerFunc{middleware.UserFromHeader()}
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
