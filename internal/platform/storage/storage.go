// Package storage is the persistent store adapter: a string key-value store
// holding the JSON snapshots of every ledger. Absent keys and backend failures
// are distinct conditions so callers never mistake a broken backend for an
// empty dataset.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNoValue means the key has never been written (or was deleted).
	ErrNoValue = errors.New("no value stored for key")
	// ErrUnavailable means the backend itself failed.
	ErrUnavailable = errors.New("storage unavailable")
)

// Keys used by the ledgers. One key per collection, values are JSON snapshots.
const (
	KeyInventory = "inventario"
	KeySales     = "ventas"
	KeyCart      = "carrito"
	KeyUsers     = "usuarios"
	KeySession   = "currentUser"
	KeyLoginLock = "loginBlock"
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
