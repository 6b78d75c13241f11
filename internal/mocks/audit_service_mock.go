// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(entry *model.AuditEntry) bool {
	args := m.Called(entry)
	return args.Bool(0)
}

func (m *MockAuditService) Query(ctx context.Context, opts model.AuditQueryOptions) ([]*model.AuditEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	entries, _ := args.Get(0).([]*model.AuditEntry)
	return entries, args.Error(1)
}

func (m *MockAuditService) Count(ctx context.Context, opts model.AuditQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (m *MockAuditService) Close() {
	m.Called()
}
