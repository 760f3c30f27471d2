package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/armonia-music/pos-backend/internal/sales/domain"
)

type MockSalesRepository struct {
	mock.Mock
}

func (m *MockSalesRepository) List(ctx context.Context) ([]domain.Sale, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSalesRepository) Append(ctx context.Context, sale domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}
