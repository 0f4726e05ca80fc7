// Package kvstore persists opaque values under string keys.
package kvstore

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

type Store interface {
	// Get returns ErrKeyNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or overwrites the value under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
