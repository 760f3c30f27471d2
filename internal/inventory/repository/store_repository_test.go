package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/armonia-music/pos-backend/internal/inventory/domain"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
)

// brokenStore simulates a failing backend so unavailability is observable as
// an error instead of an empty catalog.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", storage.ErrUnavailable
}
func (brokenStore) Set(context.Context, string, string) error { return storage.ErrUnavailable }
func (brokenStore) Delete(context.Context, string) error      { return storage.ErrUnavailable }

func TestStoreProductRepository_Load(t *testing.T) {
	ctx := context.TODO()

	t.Run("Empty backend installs the seed catalog and persists it", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreProductRepository(ctx, store)
		assert.NoError(t, err)

		products, err := repo.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, len(SeedCatalog()), len(products))

		_, err = store.Get(ctx, storage.KeyInventory)
		assert.NoError(t, err, "seed catalog must be written back to the store")
	})

	t.Run("Unavailable backend surfaces as an error, not an empty catalog", func(t *testing.T) {
		_, err := NewStoreProductRepository(ctx, brokenStore{})
		assert.ErrorIs(t, err, storage.ErrUnavailable)
	})

	t.Run("Snapshot survives a reload through the same store", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreProductRepository(ctx, store)
		assert.NoError(t, err)

		newProduct := domain.Product{SKU: "VLN-ST44", Name: "Violín Stentor 4/4", Stock: 9, Price: 5600, Category: "Cuerdas"}
		assert.NoError(t, repo.Insert(ctx, newProduct))

		reloaded, err := NewStoreProductRepository(ctx, store)
		assert.NoError(t, err)
		fetched, err := reloaded.GetBySKU(ctx, "VLN-ST44")
		assert.NoError(t, err)
		assert.Equal(t, newProduct, *fetched)
	})

	t.Run("Malformed snapshot fails the load", func(t *testing.T) {
		store := storage.NewMemoryStore()
		assert.NoError(t, store.Set(ctx, storage.KeyInventory, "{not json"))

		_, err := NewStoreProductRepository(ctx, store)
		assert.Error(t, err)
	})
}

func TestStoreProductRepository_Mutations(t *testing.T) {
	ctx := context.TODO()

	t.Run("Insert rejects duplicate SKUs", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreProductRepository(ctx, store)
		assert.NoError(t, err)

		seed := SeedCatalog()[0]
		err = repo.Insert(ctx, domain.Product{SKU: seed.SKU, Name: "Clon", Stock: 1, Price: 1})
		assert.ErrorIs(t, err, ErrDuplicateSKU)
	})

	t.Run("Replace and Delete fail on unknown SKUs", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreProductRepository(ctx, store)
		assert.NoError(t, err)

		assert.ErrorIs(t, repo.Replace(ctx, "NOPE", domain.Product{SKU: "NOPE"}), ErrProductNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "NOPE"), ErrProductNotFound)
	})
}
