package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
	salesdomain "github.com/armonia-music/pos-backend/internal/sales/domain"
)

type MockSaleRecorder struct {
	mock.Mock
}

func (m *MockSaleRecorder) RecordSale(ctx context.Context, lines []salesdomain.SaleLine, seller, customer string) (*salesdomain.Sale, error) {
	args := m.Called(ctx, lines, seller, customer)
	if s := args.Get(0); s != nil {
		return s.(*salesdomain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStockKeeper struct {
	mock.Mock
}

func (m *MockStockKeeper) GetBySKU(ctx context.Context, sku string) (*inventorydomain.Product, error) {
	args := m.Called(ctx, sku)
	if p := args.Get(0); p != nil {
		return p.(*inventorydomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStockKeeper) DecrementStock(ctx context.Context, sku string, quantity int) error {
	args := m.Called(ctx, sku, quantity)
	return args.Error(0)
}
