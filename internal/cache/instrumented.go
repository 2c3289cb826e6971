package cache

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/metrics"
)

// Instrumented wraps a Cache and records every operation in
// gophauth_cache_requests_total under the given name.
type Instrumented struct {
	next Cache
	name string
}

func NewInstrumented(next Cache, name string) *Instrumented {
	return &Instrumented{next: next, name: name}
}

func (c *Instrumented) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok, err := c.next.Fetch(ctx, key)
	switch {
	case err != nil:
		metrics.RecordCache(c.name, metrics.ResultError)
	case ok:
		metrics.RecordCache(c.name, metrics.ResultHit)
	default:
		metrics.RecordCache(c.name, metrics.ResultMiss)
	}
	return b, ok, err
}

func (c *Instrumented) Store(ctx context.Context, key string, value []byte) error {
	err := c.next.Store(ctx, key, value)
	c.record(metrics.ResultStore, err)
	return err
}

func (c *Instrumented) StoreAt(ctx context.Context, key string, value []byte, version uint64) (bool, error) {
	stored, err := c.next.StoreAt(ctx, key, value, version)
	switch {
	case err != nil:
		metrics.RecordCache(c.name, metrics.ResultError)
	case stored:
		metrics.RecordCache(c.name, metrics.ResultStore)
	default:
		metrics.RecordCache(c.name, metrics.ResultStale)
	}
	return stored, err
}

func (c *Instrumented) Version(ctx context.Context, key string) (uint64, error) {
	v, err := c.next.Version(ctx, key)
	if err != nil {
		metrics.RecordCache(c.name, metrics.ResultError)
	}
	return v, err
}

func (c *Instrumented) Delete(ctx context.Context, key string) error {
	err := c.next.Delete(ctx, key)
	c.record(metrics.ResultDelete, err)
	return err
}

func (c *Instrumented) record(result string, err error) {
	if err != nil {
		result = metrics.ResultError
	}
	metrics.RecordCache(c.name, result)
}
