package cache

import (
	"context"
	"errors"
	"time"
)

// ResponseCache stores raw catalog responses keyed by request path so repeat
// browses don't hit the upstream API.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")
