package cache

import (
	"context"
	"errors"
)

// IdentityCache caches name-to-email resolution. Keys are the trimmed,
// lower-cased account name.
type IdentityCache interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, email string) error
	Delete(ctx context.Context, name string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Noop satisfies IdentityCache when no Redis is configured; every lookup
// misses and falls through to the store.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, error) { return "", ErrCacheMiss }
func (Noop) Set(context.Context, string, string) error   { return nil }
func (Noop) Delete(context.Context, string) error        { return nil }
