package metadata

import (
	"context"
)

// Repository is a small key/value table for client-local records that have
// no schema of their own, such as the session.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
