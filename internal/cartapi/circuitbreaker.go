package cartapi

import (
	"context"

	"github.com/guttosm/storefront-cart/internal/circuitbreaker"
	"github.com/guttosm/storefront-cart/internal/domain/model"
)

// CartAPIWithCircuitBreaker wraps a CartAPI with circuit breaker protection.
// An open circuit surfaces as circuitbreaker.ErrCircuitOpen.
type CartAPIWithCircuitBreaker struct {
	api            CartAPI
	circuitBreaker *circuitbreaker.CircuitBreaker
}

var _ CartAPI = (*CartAPIWithCircuitBreaker)(nil)

// WithCircuitBreaker wraps api with cb.
func WithCircuitBreaker(api CartAPI, cb *circuitbreaker.CircuitBreaker) *CartAPIWithCircuitBreaker {
	return &CartAPIWithCircuitBreaker{api: api, circuitBreaker: cb}
}

// BreakerConfig returns cfg set up so that client rejections do not open the circuit.
func BreakerConfig(cfg circuitbreaker.Config) circuitbreaker.Config {
	cfg.IsFailure = IsBackendFailure
	return cfg
}

// FetchCart retrieves the cart with circuit breaker protection.
func (a *CartAPIWithCircuitBreaker) FetchCart(ctx context.Context, userID string) (model.CartSnapshot, error) {
	return circuitbreaker.Call(ctx, a.circuitBreaker, func() (model.CartSnapshot, error) {
		return a.api.FetchCart(ctx, userID)
	})
}

// AddItem adds an item with circuit breaker protection.
func (a *CartAPIWithCircuitBreaker) AddItem(ctx context.Context, userID string, input AddItemInput) error {
	return a.circuitBreaker.Execute(ctx, func() error {
		return a.api.AddItem(ctx, userID, input)
	})
}

// UpdateItemQuantity updates an item quantity with circuit breaker protection.
func (a *CartAPIWithCircuitBreaker) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	return a.circuitBreaker.Execute(ctx, func() error {
		return a.api.UpdateItemQuantity(ctx, userID, itemID, quantity)
	})
}

// RemoveItem removes an item with circuit breaker protection.
func (a *CartAPIWithCircuitBreaker) RemoveItem(ctx context.Context, userID, itemID string) error {
	return a.circuitBreaker.Execute(ctx, func() error {
		return a.api.RemoveItem(ctx, userID, itemID)
	})
}

// ClearCart clears the cart with circuit breaker protection.
func (a *CartAPIWithCircuitBreaker) ClearCart(ctx context.Context, userID string) error {
	return a.circuitBreaker.Execute(ctx, func() error {
		return a.api.ClearCart(ctx, userID)
	})
}
