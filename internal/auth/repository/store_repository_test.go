package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/armonia-music/pos-backend/internal/auth/domain"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
)

// brokenStore simulates a failing backend so unavailability is observable as
// an error instead of an empty directory.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", storage.ErrUnavailable
}
func (brokenStore) Set(context.Context, string, string) error { return storage.ErrUnavailable }
func (brokenStore) Delete(context.Context, string) error      { return storage.ErrUnavailable }

func customerRecord(id, name string) Record {
	return Record{User: domain.User{
		ID:        id,
		Name:      name,
		Role:      domain.RoleCustomer,
		Active:    true,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
}

func TestStoreUserRepository_Load(t *testing.T) {
	ctx := context.TODO()

	t.Run("Empty backend installs the seed directory and persists it", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreUserRepository(ctx, store)
		assert.NoError(t, err)

		users, err := repo.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, len(SeedUsers()), len(users))

		_, err = store.Get(ctx, storage.KeyUsers)
		assert.NoError(t, err, "seed directory must be written back to the store")
	})

	t.Run("Unavailable backend surfaces as an error, not an empty directory", func(t *testing.T) {
		_, err := NewStoreUserRepository(ctx, brokenStore{})
		assert.ErrorIs(t, err, storage.ErrUnavailable)
	})

	t.Run("Snapshot survives a reload through the same store", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreUserRepository(ctx, store)
		assert.NoError(t, err)

		record := customerRecord("USR-90", "Sofía Torres")
		record.PasswordHash = "$2a$10$fakehashforthetest"
		assert.NoError(t, repo.Insert(ctx, record))

		reloaded, err := NewStoreUserRepository(ctx, store)
		assert.NoError(t, err)
		fetched, err := reloaded.GetByID(ctx, "USR-90")
		assert.NoError(t, err)
		assert.Equal(t, record, *fetched, "the password hash must survive the round trip")
	})

	t.Run("Malformed snapshot fails the load", func(t *testing.T) {
		store := storage.NewMemoryStore()
		assert.NoError(t, store.Set(ctx, storage.KeyUsers, "{not json"))

		_, err := NewStoreUserRepository(ctx, store)
		assert.Error(t, err)
	})
}

func TestStoreUserRepository_Mutations(t *testing.T) {
	ctx := context.TODO()

	t.Run("Insert rejects duplicate names case-insensitively", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreUserRepository(ctx, store)
		assert.NoError(t, err)

		err = repo.Insert(ctx, customerRecord("USR-91", "ADMIN"))
		assert.ErrorIs(t, err, ErrDuplicateUserName)
	})

	t.Run("GetByName matches regardless of case", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreUserRepository(ctx, store)
		assert.NoError(t, err)

		found, err := repo.GetByName(ctx, "VENDEDOR")
		assert.NoError(t, err)
		assert.Equal(t, "vendedor", found.Name)
	})

	t.Run("Replace refuses a name already held by another user", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreUserRepository(ctx, store)
		assert.NoError(t, err)

		stolen := customerRecord("USR-2", "admin")
		assert.ErrorIs(t, repo.Replace(ctx, "USR-2", stolen), ErrDuplicateUserName)
	})

	t.Run("Replace and Delete fail on unknown ids", func(t *testing.T) {
		store := storage.NewMemoryStore()
		repo, err := NewStoreUserRepository(ctx, store)
		assert.NoError(t, err)

		assert.ErrorIs(t, repo.Replace(ctx, "NOPE", customerRecord("NOPE", "Nadie")), ErrUserNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "NOPE"), ErrUserNotFound)
	})
}
