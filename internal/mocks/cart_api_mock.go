// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/storefront-cart/internal/cartapi"
	"github.com/guttosm/storefront-cart/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockCartAPI struct {
	mock.Mock
}

var _ cartapi.CartAPI = (*MockCartAPI)(nil)

func (m *MockCartAPI) FetchCart(ctx context.Context, userID string) (model.CartSnapshot, error) {
	args := m.Called(ctx, userID)
	snapshot, _ := args.Get(0).(model.CartSnapshot)
	return snapshot, args.Error(1)
}

func (m *MockCartAPI) AddItem(ctx context.Context, userID string, input cartapi.AddItemInput) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}

func (m *MockCartAPI) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Error(0)
}

func (m *MockCartAPI) RemoveItem(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockCartAPI) ClearCart(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
