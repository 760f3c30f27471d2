package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cartservice "github.com/armonia-music/pos-backend/internal/cart/service"
	"github.com/armonia-music/pos-backend/internal/checkout/service/mocks"
	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
	inventoryrepo "github.com/armonia-music/pos-backend/internal/inventory/repository"
	inventoryservice "github.com/armonia-music/pos-backend/internal/inventory/service"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
	salesdomain "github.com/armonia-music/pos-backend/internal/sales/domain"
	salesrepo "github.com/armonia-music/pos-backend/internal/sales/repository"
	salesservice "github.com/armonia-music/pos-backend/internal/sales/service"
)

func ticketLine(product inventorydomain.Product, quantity int) salesdomain.SaleLine {
	return salesdomain.SaleLine{Product: product, Quantity: quantity}
}

func newTestCart(t *testing.T) cartservice.CartService {
	t.Helper()
	cart, err := cartservice.NewCartService(context.TODO(), storage.NewMemoryStore())
	assert.NoError(t, err)
	return cart
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.TODO()
	guitar := inventorydomain.Product{SKU: "GTR-1", Name: "Guitarra", Stock: 5, Price: 100}

	t.Run("Insufficient stock rejects before any mutation", func(t *testing.T) {
		mockSales := new(mocks.MockSaleRecorder)
		mockStock := new(mocks.MockStockKeeper)
		svc := NewCheckoutService(mockSales, mockStock, newTestCart(t))

		lowStock := guitar
		lowStock.Stock = 1
		mockStock.On("GetBySKU", ctx, "GTR-1").Return(&lowStock, nil).Once()

		_, err := svc.Checkout(ctx, []salesdomain.SaleLine{ticketLine(guitar, 2)}, "admin", "")
		assert.ErrorIs(t, err, inventoryservice.ErrInsufficientStock)

		mockSales.AssertNotCalled(t, "RecordSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockStock.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Repeated SKU lines are validated in aggregate", func(t *testing.T) {
		mockSales := new(mocks.MockSaleRecorder)
		mockStock := new(mocks.MockStockKeeper)
		svc := NewCheckoutService(mockSales, mockStock, newTestCart(t))

		twoLeft := guitar
		twoLeft.Stock = 2
		mockStock.On("GetBySKU", ctx, "GTR-1").Return(&twoLeft, nil).Once()

		// Each line fits on its own; together they exceed the stock.
		lines := []salesdomain.SaleLine{ticketLine(guitar, 2), ticketLine(guitar, 2)}
		_, err := svc.Checkout(ctx, lines, "admin", "")
		assert.ErrorIs(t, err, inventoryservice.ErrInsufficientStock)

		mockSales.AssertNotCalled(t, "RecordSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockStock.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown SKU rejects the whole ticket", func(t *testing.T) {
		mockSales := new(mocks.MockSaleRecorder)
		mockStock := new(mocks.MockStockKeeper)
		svc := NewCheckoutService(mockSales, mockStock, newTestCart(t))

		mockStock.On("GetBySKU", ctx, "GTR-1").Return(nil, inventoryrepo.ErrProductNotFound).Once()

		_, err := svc.Checkout(ctx, []salesdomain.SaleLine{ticketLine(guitar, 1)}, "admin", "")
		assert.ErrorIs(t, err, inventoryrepo.ErrProductNotFound)
		mockSales.AssertNotCalled(t, "RecordSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty ticket is rejected", func(t *testing.T) {
		svc := NewCheckoutService(new(mocks.MockSaleRecorder), new(mocks.MockStockKeeper), newTestCart(t))
		_, err := svc.Checkout(ctx, nil, "admin", "")
		assert.ErrorIs(t, err, ErrEmptyTicket)
	})

	t.Run("Successful checkout records the sale and decrements stock", func(t *testing.T) {
		mockSales := new(mocks.MockSaleRecorder)
		mockStock := new(mocks.MockStockKeeper)
		svc := NewCheckoutService(mockSales, mockStock, newTestCart(t))

		lines := []salesdomain.SaleLine{ticketLine(guitar, 2)}
		recorded := &salesdomain.Sale{ID: "VTA-1-1", Lines: lines, Subtotal: 200, Tax: 32, Total: 232, Seller: "admin"}

		mockStock.On("GetBySKU", ctx, "GTR-1").Return(&guitar, nil).Once()
		mockSales.On("RecordSale", ctx, lines, "admin", "").Return(recorded, nil).Once()
		mockStock.On("DecrementStock", ctx, "GTR-1", 2).Return(nil).Once()

		sale, err := svc.Checkout(ctx, lines, "admin", "")
		assert.NoError(t, err)
		assert.Equal(t, "VTA-1-1", sale.ID)
		assert.Equal(t, 232.0, sale.Total)
		mockSales.AssertExpectations(t)
		mockStock.AssertExpectations(t)
	})

	t.Run("Failed decrement after a recorded sale still returns the sale", func(t *testing.T) {
		mockSales := new(mocks.MockSaleRecorder)
		mockStock := new(mocks.MockStockKeeper)
		svc := NewCheckoutService(mockSales, mockStock, newTestCart(t))

		lines := []salesdomain.SaleLine{ticketLine(guitar, 1)}
		recorded := &salesdomain.Sale{ID: "VTA-1-2", Lines: lines, Total: 116}

		mockStock.On("GetBySKU", ctx, "GTR-1").Return(&guitar, nil).Once()
		mockSales.On("RecordSale", ctx, lines, "admin", "").Return(recorded, nil).Once()
		mockStock.On("DecrementStock", ctx, "GTR-1", 1).Return(storage.ErrUnavailable).Once()

		sale, err := svc.Checkout(ctx, lines, "admin", "")
		assert.NoError(t, err, "the ledger append already succeeded; the inconsistency window is accepted")
		assert.Equal(t, "VTA-1-2", sale.ID)
	})
}

// End-to-end over real ledgers: the full POS flow against memory storage.
func TestCheckoutService_WithRealLedgers(t *testing.T) {
	ctx := context.TODO()
	store := storage.NewMemoryStore()

	invRepo, err := inventoryrepo.NewStoreProductRepository(ctx, store)
	assert.NoError(t, err)
	inventory := inventoryservice.NewInventoryService(invRepo)

	sRepo, err := salesrepo.NewStoreSalesRepository(ctx, store)
	assert.NoError(t, err)
	sales := salesservice.NewSalesService(sRepo)

	cart := newTestCart(t)
	svc := NewCheckoutService(sales, inventory, cart)

	product, err := inventory.GetBySKU(ctx, "HOH-SP20") // seeded with stock 15
	assert.NoError(t, err)

	assert.NoError(t, cart.Add(ctx, *product, 3))
	sale, err := svc.CheckoutCart(ctx, "vendedor", "Cliente Uno")
	assert.NoError(t, err)

	assert.Equal(t, 2550.0, sale.Subtotal) // 3 * 850
	assert.Equal(t, 408.0, sale.Tax)
	assert.Equal(t, 2958.0, sale.Total)
	assert.Equal(t, "Cliente Uno", sale.Customer)

	after, err := inventory.GetBySKU(ctx, "HOH-SP20")
	assert.NoError(t, err)
	assert.Equal(t, 12, after.Stock)

	assert.True(t, cart.IsEmpty(ctx), "cart is cleared after checkout")

	revenue, err := sales.TotalRevenue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, sale.Total, revenue)
}
