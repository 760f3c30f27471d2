package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
)

var (
	guitar   = inventorydomain.Product{SKU: "FEN-FA125", Name: "Guitarra Fender", Stock: 8, Price: 3500}
	harmonic = inventorydomain.Product{SKU: "HOH-SP20", Name: "Armónica Hohner", Stock: 15, Price: 850}
)

func newCart(t *testing.T) CartService {
	t.Helper()
	svc, err := NewCartService(context.TODO(), storage.NewMemoryStore())
	assert.NoError(t, err)
	return svc
}

func TestCartService_Add(t *testing.T) {
	ctx := context.TODO()

	t.Run("Same SKU merges into one line", func(t *testing.T) {
		cart := newCart(t)

		assert.NoError(t, cart.Add(ctx, guitar, 1))
		assert.NoError(t, cart.Add(ctx, guitar, 2))

		items := cart.Items(ctx)
		assert.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
		assert.Equal(t, 3, cart.TotalQuantity(ctx))
	})

	t.Run("Non-positive quantity is rejected", func(t *testing.T) {
		cart := newCart(t)
		assert.Error(t, cart.Add(ctx, guitar, 0))
		assert.True(t, cart.IsEmpty(ctx))
	})
}

func TestCartService_Quantities(t *testing.T) {
	ctx := context.TODO()

	t.Run("UpdateQuantity replaces the line quantity", func(t *testing.T) {
		cart := newCart(t)
		assert.NoError(t, cart.Add(ctx, guitar, 1))

		ok, err := cart.UpdateQuantity(ctx, guitar.SKU, 5)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 5, cart.TotalQuantity(ctx))
	})

	t.Run("Zero quantity removes the line", func(t *testing.T) {
		cart := newCart(t)
		assert.NoError(t, cart.Add(ctx, guitar, 2))

		ok, err := cart.UpdateQuantity(ctx, guitar.SKU, 0)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, cart.Contains(ctx, guitar.SKU))
	})

	t.Run("Unknown SKU reports false", func(t *testing.T) {
		cart := newCart(t)
		ok, err := cart.UpdateQuantity(ctx, "GHOST", 2)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCartService_Totals(t *testing.T) {
	ctx := context.TODO()
	cart := newCart(t)

	assert.NoError(t, cart.Add(ctx, guitar, 1))   // 3500
	assert.NoError(t, cart.Add(ctx, harmonic, 2)) // 1700

	assert.Equal(t, 5200.0, cart.Subtotal(ctx))
	assert.Equal(t, 6032.0, cart.Total(ctx)) // 5200 * 1.16
}

func TestCartService_Persistence(t *testing.T) {
	ctx := context.TODO()
	store := storage.NewMemoryStore()

	first, err := NewCartService(ctx, store)
	assert.NoError(t, err)
	assert.NoError(t, first.Add(ctx, guitar, 2))

	// A new service over the same store sees the persisted cart.
	second, err := NewCartService(ctx, store)
	assert.NoError(t, err)
	assert.Equal(t, 2, second.TotalQuantity(ctx))

	assert.NoError(t, second.Clear(ctx))
	third, err := NewCartService(ctx, store)
	assert.NoError(t, err)
	assert.True(t, third.IsEmpty(ctx))
}
