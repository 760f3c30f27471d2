package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/armonia-music/pos-backend/internal/inventory/domain"
	"github.com/armonia-music/pos-backend/internal/inventory/repository"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
)

var ErrInsufficientStock = errors.New("insufficient stock for requested quantity")

// DefaultLowStockThreshold flags products that need restocking.
const DefaultLowStockThreshold = 5

type InventoryService interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Add(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, sku string, product domain.Product) error
	Remove(ctx context.Context, sku string) error

	// SetStock rewrites only the stock count. An absent SKU is a no-op
	// reported as false, not an error; callers that need a hard failure use
	// Update instead.
	SetStock(ctx context.Context, sku string, stock int) (bool, error)

	// DecrementStock is the checkout path. It refuses to drive stock below
	// zero with ErrInsufficientStock.
	DecrementStock(ctx context.Context, sku string, quantity int) error

	Search(ctx context.Context, term string) ([]domain.Product, error)
	ByCategory(ctx context.Context, category string) ([]domain.Product, error)
	LowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)

	// Subscribe registers a listener invoked synchronously after each
	// successful mutation with the full catalog. The returned function
	// removes the subscription.
	Subscribe(listener func([]domain.Product)) func()
}

type inventoryServiceImpl struct {
	repo repository.ProductRepository

	subMu     sync.Mutex
	subSeq    int
	listeners map[int]func([]domain.Product)
}

func NewInventoryService(repo repository.ProductRepository) InventoryService {
	return &inventoryServiceImpl{
		repo:      repo,
		listeners: make(map[int]func([]domain.Product)),
	}
}

func (s *inventoryServiceImpl) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *inventoryServiceImpl) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return s.repo.GetBySKU(ctx, sku)
}

func (s *inventoryServiceImpl) Add(ctx context.Context, product domain.Product) error {
	if err := s.repo.Insert(ctx, product); err != nil {
		if !errors.Is(err, repository.ErrDuplicateSKU) {
			logger.Error("Svc.Add: repo error", err)
		}
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *inventoryServiceImpl) Update(ctx context.Context, sku string, product domain.Product) error {
	// Replace by value, not merge. The SKU stays the identity of the row.
	product.SKU = sku
	if err := s.repo.Replace(ctx, sku, product); err != nil {
		if !errors.Is(err, repository.ErrProductNotFound) {
			logger.Error("Svc.Update: repo error", err)
		}
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *inventoryServiceImpl) Remove(ctx context.Context, sku string) error {
	if err := s.repo.Delete(ctx, sku); err != nil {
		if !errors.Is(err, repository.ErrProductNotFound) {
			logger.Error("Svc.Remove: repo error", err)
		}
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *inventoryServiceImpl) SetStock(ctx context.Context, sku string, stock int) (bool, error) {
	product, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, nil
		}
		return false, err
	}
	product.Stock = stock
	if err := s.repo.Replace(ctx, sku, *product); err != nil {
		return false, err
	}
	s.notify(ctx)
	return true, nil
}

func (s *inventoryServiceImpl) DecrementStock(ctx context.Context, sku string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity to decrement must be positive, got %d", quantity)
	}
	product, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if product.Stock < quantity {
		return fmt.Errorf("%w: sku %s has %d, requested %d", ErrInsufficientStock, sku, product.Stock, quantity)
	}
	product.Stock -= quantity
	if err := s.repo.Replace(ctx, sku, *product); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *inventoryServiceImpl) Search(ctx context.Context, term string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	matches := []domain.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.SKU), term) ||
			(p.Category != "" && strings.Contains(strings.ToLower(p.Category), term)) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *inventoryServiceImpl) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matches := []domain.Product{}
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *inventoryServiceImpl) LowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	low := []domain.Product{}
	for _, p := range products {
		if p.Stock <= threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

func (s *inventoryServiceImpl) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	categories := []string{}
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories, nil
}

func (s *inventoryServiceImpl) Subscribe(listener func([]domain.Product)) func() {
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

func (s *inventoryServiceImpl) notify(ctx context.Context) {
	products, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("Svc.notify: failed to read catalog for subscribers", err)
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, listener := range s.listeners {
		listener(products)
	}
}
