package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/storefront-cart/internal/middleware"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// CartRoutes registers the cart endpoints of the signed-in user.
type CartRoutes struct {
	handler *CartHandler
}

var _ RouteGroup = (*CartRoutes)(nil)

// NewCartRoutes creates a new CartRoutes instance.
func NewCartRoutes(handler *CartHandler) *CartRoutes {
	return &CartRoutes{handler: handler}
}

// RegisterRoutes registers the cart and session routes. The group must
// already resolve the user identity.
func (r *CartRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	if cfg.UserRateLimiter != nil {
		rg.Use(cfg.UserRateLimiter.UserRateLimit())
	}
	if cfg.Idempotency != nil {
		rg.Use(middleware.Idempotency(cfg.Idempotency))
	}

	cart := rg.Group("/cart")
	{
		cart.GET("", r.handler.GetCart)
		cart.DELETE("", r.handler.ClearCart)
		cart.GET("/history", r.handler.History)
		cart.POST("/items", r.handler.AddItem)
		cart.PATCH("/items/:itemId", r.handler.UpdateItemQuantity)
		cart.DELETE("/items/:itemId", r.handler.RemoveItem)
	}

	rg.POST("/session/logout", r.handler.Logout)
}
