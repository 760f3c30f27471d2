package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/armonia-music/pos-backend/internal/inventory/domain"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if p := args.Get(0); p != nil {
		return p.(*domain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) Insert(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Replace(ctx context.Context, sku string, product domain.Product) error {
	args := m.Called(ctx, sku, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, sku string) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}
