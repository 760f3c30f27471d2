package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/armonia-music/pos-backend/internal/cart/domain"
	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
	salesdomain "github.com/armonia-music/pos-backend/internal/sales/domain"
)

type CartService interface {
	// Add puts quantity units of the product in the cart, merging with an
	// existing line for the same SKU.
	Add(ctx context.Context, product inventorydomain.Product, quantity int) error
	// UpdateQuantity sets the quantity of an existing line; zero or less
	// removes the line. Returns false when the SKU is not in the cart.
	UpdateQuantity(ctx context.Context, sku string, quantity int) (bool, error)
	Remove(ctx context.Context, sku string) (bool, error)
	Items(ctx context.Context) []domain.CartLine
	TotalQuantity(ctx context.Context) int
	Subtotal(ctx context.Context) float64
	// Total applies the sale tax rate on top of the subtotal.
	Total(ctx context.Context) float64
	Clear(ctx context.Context) error
	IsEmpty(ctx context.Context) bool
	Contains(ctx context.Context, sku string) bool
	Subscribe(listener func([]domain.CartLine)) func()
}

// cartServiceImpl keeps the cart lines in memory and mirrors the snapshot
// into the store under its own key. The cart is transient state, so unlike
// the ledgers it talks to the store directly instead of through a repository.
type cartServiceImpl struct {
	mu    sync.Mutex
	store storage.Store
	items []domain.CartLine

	subMu     sync.Mutex
	subSeq    int
	listeners map[int]func([]domain.CartLine)
}

func NewCartService(ctx context.Context, store storage.Store) (CartService, error) {
	s := &cartServiceImpl{
		store:     store,
		items:     []domain.CartLine{},
		listeners: make(map[int]func([]domain.CartLine)),
	}

	raw, err := store.Get(ctx, storage.KeyCart)
	if err != nil {
		if errors.Is(err, storage.ErrNoValue) {
			return s, nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &s.items); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return s, nil
}

func (s *cartServiceImpl) Add(ctx context.Context, product inventorydomain.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].SKU == product.SKU {
			s.items[i].Quantity += quantity
			err := s.persistLocked(ctx)
			s.mu.Unlock()
			if err == nil {
				s.notify(ctx)
			}
			return err
		}
	}
	s.items = append(s.items, domain.CartLine{Product: product, Quantity: quantity})
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err == nil {
		s.notify(ctx)
	}
	return err
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, sku string, quantity int) (bool, error) {
	if quantity <= 0 {
		return s.Remove(ctx, sku)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].SKU == sku {
			s.items[i].Quantity = quantity
			err := s.persistLocked(ctx)
			s.mu.Unlock()
			if err == nil {
				s.notify(ctx)
			}
			return err == nil, err
		}
	}
	s.mu.Unlock()
	return false, nil
}

func (s *cartServiceImpl) Remove(ctx context.Context, sku string) (bool, error) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].SKU == sku {
			s.items = append(s.items[:i], s.items[i+1:]...)
			err := s.persistLocked(ctx)
			s.mu.Unlock()
			if err == nil {
				s.notify(ctx)
			}
			return err == nil, err
		}
	}
	s.mu.Unlock()
	return false, nil
}

func (s *cartServiceImpl) Items(_ context.Context) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.items))
	copy(out, s.items)
	return out
}

func (s *cartServiceImpl) TotalQuantity(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *cartServiceImpl) Subtotal(_ context.Context) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

func (s *cartServiceImpl) subtotalLocked() float64 {
	subtotal := decimal.Zero
	for _, item := range s.items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal.Round(2).InexactFloat64()
}

func (s *cartServiceImpl) Total(_ context.Context) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal := decimal.NewFromFloat(s.subtotalLocked())
	tax := subtotal.Mul(decimal.NewFromFloat(salesdomain.TaxRate)).Round(2)
	return subtotal.Add(tax).InexactFloat64()
}

func (s *cartServiceImpl) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = []domain.CartLine{}
	err := s.persistLocked(ctx)
	s.mu.Unlock()
	if err == nil {
		s.notify(ctx)
	}
	return err
}

func (s *cartServiceImpl) IsEmpty(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *cartServiceImpl) Contains(_ context.Context, sku string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.SKU == sku {
			return true
		}
	}
	return false
}

func (s *cartServiceImpl) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyCart, string(data)); err != nil {
		return fmt.Errorf("persist cart snapshot: %w", err)
	}
	return nil
}

func (s *cartServiceImpl) Subscribe(listener func([]domain.CartLine)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subSeq++
	id := s.subSeq
	s.listeners[id] = listener
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *cartServiceImpl) notify(ctx context.Context) {
	items := s.Items(ctx)
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, listener := range s.listeners {
		listener(items)
	}
}
