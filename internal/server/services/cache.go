// Package services contains the server-side business logic: the cached
// permission and group catalogs, the user repository and the session manager.
package services

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/cache"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// readThrough returns the value cached under key, or loads it and caches it.
// The value is written back only if key was not invalidated during the load.
// Cache failures only degrade to a database read.
func readThrough[T any](ctx context.Context, c cache.Cache, log logging.Logger, key string, load func(context.Context) (T, error)) (T, error) {
	v, ok, err := cache.FetchJSON[T](ctx, c, key)
	if err != nil {
		log.Warn(ctx, "cache fetch failed", "key", key, "error", err)
	}
	if ok {
		return v, nil
	}

	version, verr := c.Version(ctx, key)
	if verr != nil {
		log.Warn(ctx, "cache version failed", "key", key, "error", verr)
	}

	v, err = load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if verr != nil {
		return v, nil
	}
	stored, err := cache.StoreJSONAt(ctx, c, key, v, version)
	switch {
	case err != nil:
		log.Warn(ctx, "cache store failed", "key", key, "error", err)
	case !stored:
		log.Debug(ctx, "cache entry invalidated during load", "key", key)
	}
	return v, nil
}
