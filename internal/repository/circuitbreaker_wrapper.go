// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"
	"errors"

	"github.com/guttosm/storefront-cart/internal/circuitbreaker"
	"github.com/guttosm/storefront-cart/internal/domain/model"
)

// AuditRepositoryWithCircuitBreaker wraps an audit repository with circuit breaker protection.
type AuditRepositoryWithCircuitBreaker struct {
	repo           AuditRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewAuditRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewAuditRepositoryWithCircuitBreaker(repo AuditRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *AuditRepositoryWithCircuitBreaker {
	return &AuditRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single audit entry with circuit breaker protection.
// If the circuit is open the entry is dropped; auditing never fails a cart operation.
func (r *AuditRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.AuditEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores audit entries with circuit breaker protection.
// If the circuit is open the entries are dropped.
func (r *AuditRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*model.AuditEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query retrieves audit entries with circuit breaker protection.
func (r *AuditRepositoryWithCircuitBreaker) Query(ctx context.Context, opts model.AuditQueryOptions) ([]*model.AuditEntry, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]*model.AuditEntry, error) {
		return r.repo.Query(ctx, opts)
	})
}

// Count returns the number of audit entries with circuit breaker protection.
func (r *AuditRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.AuditQueryOptions) (int64, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}
