// Package kvstore is the persistence port of the messaging core: a flat
// string-to-string key-value store with a memory and a SQL (gorm) backend.
package kvstore

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kvstore: store is closed")

// Store is the durable key-value persistence the conversation services run on.
// Get reports ok=false for a missing key; that is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
	Close() error
}
