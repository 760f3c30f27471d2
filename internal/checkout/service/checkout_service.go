package service

import (
	"context"
	"errors"
	"fmt"

	cartdomain "github.com/armonia-music/pos-backend/internal/cart/domain"
	cartservice "github.com/armonia-music/pos-backend/internal/cart/service"
	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
	inventoryservice "github.com/armonia-music/pos-backend/internal/inventory/service"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
	salesdomain "github.com/armonia-music/pos-backend/internal/sales/domain"
)

var ErrEmptyTicket = errors.New("ticket must contain at least one line")

// SaleRecorder is the slice of the sales ledger checkout needs.
type SaleRecorder interface {
	RecordSale(ctx context.Context, lines []salesdomain.SaleLine, seller, customer string) (*salesdomain.Sale, error)
}

// StockKeeper is the slice of the inventory ledger checkout needs.
type StockKeeper interface {
	GetBySKU(ctx context.Context, sku string) (*inventorydomain.Product, error)
	DecrementStock(ctx context.Context, sku string, quantity int) error
}

type CheckoutService interface {
	// Checkout validates every line against current stock, records the sale
	// and then decrements stock line by line. Validation failures leave both
	// ledgers untouched. The sale append and the stock decrements are two
	// separate writes with no transactional atomicity between them.
	Checkout(ctx context.Context, lines []salesdomain.SaleLine, seller, customer string) (*salesdomain.Sale, error)

	// CheckoutCart drains the shared cart through Checkout and clears it on
	// success.
	CheckoutCart(ctx context.Context, seller, customer string) (*salesdomain.Sale, error)
}

type checkoutServiceImpl struct {
	sales     SaleRecorder
	inventory StockKeeper
	cart      cartservice.CartService
}

func NewCheckoutService(sales SaleRecorder, inventory StockKeeper, cart cartservice.CartService) CheckoutService {
	return &checkoutServiceImpl{sales: sales, inventory: inventory, cart: cart}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, lines []salesdomain.SaleLine, seller, customer string) (*salesdomain.Sale, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyTicket
	}

	// Validate everything before touching either ledger. Quantities are
	// summed per SKU first, so a ticket repeating one product cannot slip
	// past a line-by-line stock check.
	requested := make(map[string]int)
	skus := []string{}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("invalid quantity %d for sku %s", line.Quantity, line.SKU)
		}
		if _, ok := requested[line.SKU]; !ok {
			skus = append(skus, line.SKU)
		}
		requested[line.SKU] += line.Quantity
	}
	for _, sku := range skus {
		product, err := s.inventory.GetBySKU(ctx, sku)
		if err != nil {
			return nil, fmt.Errorf("validate line %s: %w", sku, err)
		}
		if product.Stock < requested[sku] {
			return nil, fmt.Errorf("%w: sku %s has %d, requested %d",
				inventoryservice.ErrInsufficientStock, sku, product.Stock, requested[sku])
		}
	}

	sale, err := s.sales.RecordSale(ctx, lines, seller, customer)
	if err != nil {
		return nil, err
	}

	// Stock decrements follow the recorded sale. A failure here leaves the
	// sale in the ledger with stock not yet deducted; that window is logged
	// loudly instead of rolled back.
	for _, line := range lines {
		if err := s.inventory.DecrementStock(ctx, line.SKU, line.Quantity); err != nil {
			logger.Error(fmt.Sprintf("CRITICAL: sale %s recorded but stock deduction failed for sku %s", sale.ID, line.SKU), err)
		}
	}

	return sale, nil
}

func (s *checkoutServiceImpl) CheckoutCart(ctx context.Context, seller, customer string) (*salesdomain.Sale, error) {
	items := s.cart.Items(ctx)
	sale, err := s.Checkout(ctx, toSaleLines(items), seller, customer)
	if err != nil {
		return nil, err
	}
	if err := s.cart.Clear(ctx); err != nil {
		logger.Error("CheckoutCart: failed to clear cart after sale "+sale.ID, err)
	}
	return sale, nil
}

func toSaleLines(items []cartdomain.CartLine) []salesdomain.SaleLine {
	lines := make([]salesdomain.SaleLine, len(items))
	for i, item := range items {
		lines[i] = salesdomain.SaleLine{Product: item.Product, Quantity: item.Quantity}
	}
	return lines
}
