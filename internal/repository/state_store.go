package repository

import (
	"context"
	"time"
)

// StateStore abstracts ephemeral key-value state: server-side session
// payloads and cached storefront query responses.
// Implementations: Redis, Postgres, or in-memory (local dev / single instance).
// Get returns nil, nil for a missing or expired key.
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Sweeper is implemented by stores that do not expire keys on their own.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}
