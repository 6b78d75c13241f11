// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"github.com/guttosm/storefront-cart/internal/domain/model"
)

// AuditRepositoryInterface defines the interface for audit repository operations.
type AuditRepositoryInterface interface {
	Create(ctx context.Context, entry *model.AuditEntry) error
	CreateMany(ctx context.Context, entries []*model.AuditEntry) error
	Query(ctx context.Context, opts model.AuditQueryOptions) ([]*model.AuditEntry, error)
	Count(ctx context.Context, opts model.AuditQueryOptions) (int64, error)
}

var (
	_ AuditRepositoryInterface = (*AuditRepository)(nil)
	_ AuditRepositoryInterface = (*AuditRepositoryWithCircuitBreaker)(nil)
	_ MenuFinder               = (*MenuRepository)(nil)
)
