package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/armonia-music/pos-backend/internal/platform/storage"
	"github.com/armonia-music/pos-backend/internal/sales/domain"
)

type SalesRepository interface {
	// List returns the full ledger in append order.
	List(ctx context.Context) ([]domain.Sale, error)
	// Append adds one sale and re-persists the snapshot. There is no update
	// or delete: the ledger only grows.
	Append(ctx context.Context, sale domain.Sale) error
}

type storeSalesRepository struct {
	mu    sync.RWMutex
	store storage.Store
	sales []domain.Sale
}

// NewStoreSalesRepository loads the sales snapshot. An absent snapshot means
// an empty ledger; a failing backend is an error.
func NewStoreSalesRepository(ctx context.Context, store storage.Store) (SalesRepository, error) {
	r := &storeSalesRepository{store: store, sales: []domain.Sale{}}

	raw, err := store.Get(ctx, storage.KeySales)
	if err != nil {
		if errors.Is(err, storage.ErrNoValue) {
			return r, nil
		}
		return nil, fmt.Errorf("load sales snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &r.sales); err != nil {
		return nil, fmt.Errorf("decode sales snapshot: %w", err)
	}
	return r, nil
}

func (r *storeSalesRepository) List(_ context.Context) ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Sale, len(r.sales))
	copy(out, r.sales)
	return out, nil
}

func (r *storeSalesRepository) Append(ctx context.Context, sale domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, sale)

	data, err := json.Marshal(r.sales)
	if err != nil {
		r.sales = r.sales[:len(r.sales)-1]
		return fmt.Errorf("encode sales snapshot: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeySales, string(data)); err != nil {
		r.sales = r.sales[:len(r.sales)-1]
		return fmt.Errorf("persist sales snapshot: %w", err)
	}
	return nil
}
