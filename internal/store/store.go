package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV is durable string storage. Implementations must be safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
