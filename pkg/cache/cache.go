// Package cache stores registry responses so repeated scaffolding runs do not
// hit the package registry for data they already have.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (API server, CI runners)
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// Keys are built with [Key] so that different registries and query kinds
// never collide.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
//
// Get reports a miss with (nil, false, nil). Implementations must be safe for
// concurrent use: version lookups run in parallel.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON reads key from c and decodes it into v.
// A corrupt entry is treated as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
