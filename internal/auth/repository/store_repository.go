package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/armonia-music/pos-backend/internal/auth/domain"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUserName = errors.New("a user with this name already exists")
)

// Record is the persisted account entry. The password hash is only set for
// self-registered customers; employee passwords live with the auth service.
type Record struct {
	domain.User
	PasswordHash string `json:"password_hash,omitempty"`
}

type UserRepository interface {
	List(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	// GetByName matches case-insensitively; the name is the login identity.
	GetByName(ctx context.Context, name string) (*Record, error)
	Insert(ctx context.Context, record Record) error
	Replace(ctx context.Context, id string, record Record) error
	Delete(ctx context.Context, id string) error
}

// storeUserRepository owns the in-memory user directory snapshot and mirrors
// every mutation back into the persistent store under a single key.
type storeUserRepository struct {
	mu    sync.RWMutex
	store storage.Store
	users []Record
}

// NewStoreUserRepository loads the user snapshot. An absent snapshot is
// replaced by the seed directory; a failing store backend is an error.
func NewStoreUserRepository(ctx context.Context, store storage.Store) (UserRepository, error) {
	r := &storeUserRepository{store: store}

	raw, err := store.Get(ctx, storage.KeyUsers)
	if err != nil {
		if !errors.Is(err, storage.ErrNoValue) {
			return nil, fmt.Errorf("load users snapshot: %w", err)
		}
		r.users = SeedUsers()
		if err := r.persist(ctx); err != nil {
			return nil, err
		}
		logger.Info("Auth: seeded user directory with %d users", len(r.users))
		return r, nil
	}

	if err := json.Unmarshal([]byte(raw), &r.users); err != nil {
		return nil, fmt.Errorf("decode users snapshot: %w", err)
	}
	return r, nil
}

func (r *storeUserRepository) persist(ctx context.Context) error {
	data, err := json.Marshal(r.users)
	if err != nil {
		return fmt.Errorf("encode users snapshot: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyUsers, string(data)); err != nil {
		return fmt.Errorf("persist users snapshot: %w", err)
	}
	return nil
}

func (r *storeUserRepository) List(_ context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *storeUserRepository) GetByID(_ context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *storeUserRepository) GetByName(_ context.Context, name string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Name, name) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *storeUserRepository) Insert(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Name, record.Name) {
			return ErrDuplicateUserName
		}
	}
	r.users = append(r.users, record)
	if err := r.persist(ctx); err != nil {
		r.users = r.users[:len(r.users)-1]
		return err
	}
	return nil
}

func (r *storeUserRepository) Replace(ctx context.Context, id string, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID != id {
			continue
		}
		for j, other := range r.users {
			if j != i && strings.EqualFold(other.Name, record.Name) {
				return ErrDuplicateUserName
			}
		}
		previous := r.users[i]
		r.users[i] = record
		if err := r.persist(ctx); err != nil {
			r.users[i] = previous
			return err
		}
		return nil
	}
	return ErrUserNotFound
}

func (r *storeUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			removed := r.users[i]
			r.users = append(r.users[:i], r.users[i+1:]...)
			if err := r.persist(ctx); err != nil {
				r.users = append(r.users[:i], append([]Record{removed}, r.users[i:]...)...)
				return err
			}
			return nil
		}
	}
	return ErrUserNotFound
}
