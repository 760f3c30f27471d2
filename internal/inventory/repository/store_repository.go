package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/armonia-music/pos-backend/internal/inventory/domain"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSKU    = errors.New("product with this SKU already exists")
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Insert(ctx context.Context, product domain.Product) error
	Replace(ctx context.Context, sku string, product domain.Product) error
	Delete(ctx context.Context, sku string) error
}

// storeProductRepository owns the in-memory catalog snapshot and mirrors every
// mutation back into the persistent store under a single key.
type storeProductRepository struct {
	mu       sync.RWMutex
	store    storage.Store
	products []domain.Product
}

// NewStoreProductRepository loads the catalog snapshot. An absent snapshot is
// replaced by the seed catalog; a failing store backend is an error, never an
// empty catalog.
func NewStoreProductRepository(ctx context.Context, store storage.Store) (ProductRepository, error) {
	r := &storeProductRepository{store: store}

	raw, err := store.Get(ctx, storage.KeyInventory)
	if err != nil {
		if !errors.Is(err, storage.ErrNoValue) {
			return nil, fmt.Errorf("load inventory snapshot: %w", err)
		}
		r.products = SeedCatalog()
		if err := r.persist(ctx); err != nil {
			return nil, err
		}
		logger.Info("Inventory: seeded catalog with %d products", len(r.products))
		return r, nil
	}

	if err := json.Unmarshal([]byte(raw), &r.products); err != nil {
		return nil, fmt.Errorf("decode inventory snapshot: %w", err)
	}
	return r, nil
}

func (r *storeProductRepository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.products)
	if err != nil {
		return fmt.Errorf("encode inventory snapshot: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyInventory, string(data)); err != nil {
		return fmt.Errorf("persist inventory snapshot: %w", err)
	}
	return nil
}

func (r *storeProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *storeProductRepository) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.SKU == sku {
			found := p
			return &found, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *storeProductRepository) Insert(ctx context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == product.SKU {
			return ErrDuplicateSKU
		}
	}
	r.products = append(r.products, product)
	if err := r.persist(ctx); err != nil {
		r.products = r.products[:len(r.products)-1]
		return err
	}
	return nil
}

func (r *storeProductRepository) Replace(ctx context.Context, sku string, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.products {
		if p.SKU == sku {
			previous := r.products[i]
			r.products[i] = product
			if err := r.persist(ctx); err != nil {
				r.products[i] = previous
				return err
			}
			return nil
		}
	}
	return ErrProductNotFound
}

func (r *storeProductRepository) Delete(ctx context.Context, sku string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.products {
		if p.SKU == sku {
			removed := r.products[i]
			r.products = append(r.products[:i], r.products[i+1:]...)
			if err := r.persist(ctx); err != nil {
				r.products = append(r.products[:i], append([]domain.Product{removed}, r.products[i:]...)...)
				return err
			}
			return nil
		}
	}
	return ErrProductNotFound
}
