// Package cache is the memoization layer in front of the permission, group
// and user queries. Values are opaque bytes so any key-value store can back
// it; the typed helpers encode with JSON.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Cache is a key-value memoization store. Fetch distinguishes "absent" from
// a present empty value through its bool result.
//
// Every key carries a version that Delete advances. A reader that takes the
// version before loading and writes back with StoreAt cannot resurrect a value
// that was invalidated while it was loading.
type Cache interface {
	Fetch(ctx context.Context, key string) ([]byte, bool, error)
	Store(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Version(ctx context.Context, key string) (uint64, error)
	// StoreAt stores value only if key is still at version and reports
	// whether it did.
	StoreAt(ctx context.Context, key string, value []byte, version uint64) (bool, error)
}

// FetchJSON fetches key and decodes it into a T. A value that no longer
// decodes is reported as absent so the caller repopulates it.
func FetchJSON[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var v T

	b, ok, err := c.Fetch(ctx, key)
	if err != nil || !ok {
		return v, false, err
	}

	if err := json.Unmarshal(b, &v); err != nil {
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}

// StoreJSON encodes v and stores it under key.
func StoreJSON[T any](ctx context.Context, c Cache, key string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.Store(ctx, key, b)
}

// StoreJSONAt encodes v and stores it under key if key is still at version.
func StoreJSONAt[T any](ctx context.Context, c Cache, key string, v T, version uint64) (bool, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.StoreAt(ctx, key, b, version)
}
