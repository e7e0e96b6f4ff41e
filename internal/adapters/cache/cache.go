// Package cache memoizes external pulls per credential for a fixed time.
// Only I/O results are cached; scoring and ranking always run fresh.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/okian/worthboard/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

const defaultTTL = time.Hour

// Key identifies a cached result: whose credential and which query.
type Key struct {
	credential string // sha256 of the credential, never the raw token
	Query      string
}

// NewKey builds a key. The credential is hashed before it is stored.
func NewKey(credential, query string) Key {
	sum := sha256.Sum256([]byte(credential))
	return Key{credential: hex.EncodeToString(sum[:]), Query: query}
}

func (k Key) String() string { return k.credential + "/" + k.Query }

// Cache stores values with an expiry.
type Cache interface {
	Get(ctx context.Context, key Key) (any, bool)
	Set(ctx context.Context, key Key, value any)
	Len() int
}

// TTLCache is a bounded Cache. Entries expire ttl after they were stored;
// when full, the least recently used entry is evicted.
type TTLCache struct {
	lru        *expirable.LRU[Key, any]
	ttl        time.Duration
	maxEntries int
	group      singleflight.Group
}

// New creates a TTLCache with a one hour TTL unless configured otherwise.
func New(opts ...Option) *TTLCache {
	c := &TTLCache{
		ttl:        defaultTTL,
		maxEntries: 0,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lru = expirable.NewLRU[Key, any](c.maxEntries, nil, c.ttl)
	return c
}

// Get returns a live value.
func (c *TTLCache) Get(_ context.Context, key Key) (any, bool) {
	return c.lru.Get(key)
}

// Set stores value under key, replacing any previous value. Nothing is
// stored when the TTL is zero.
func (c *TTLCache) Set(_ context.Context, key Key, value any) {
	if c.ttl == 0 {
		return
	}
	if evicted := c.lru.Add(key, value); evicted {
		metrics.RecordCacheEviction()
	}
	metrics.UpdateCacheEntries(c.lru.Len())
}

// Len returns the number of stored entries.
func (c *TTLCache) Len() int {
	return c.lru.Len()
}

// GetOrLoad returns the cached value for key or calls load and caches its
// result. Concurrent loads of the same key share one call, which runs
// detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx is done. Errors are not cached. hit reports
// whether the value came from the cache.
func GetOrLoad[T any](ctx context.Context, c *TTLCache, key Key, load func(context.Context) (T, error)) (value T, hit bool, err error) {
	if v, ok := c.Get(ctx, key); ok {
		if typed, ok := v.(T); ok {
			metrics.RecordCacheHit(key.Query)
			return typed, true, nil
		}
	}
	metrics.RecordCacheMiss(key.Query)

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		loaded, err := load(shared)
		if err != nil {
			return nil, err
		}
		c.Set(shared, key, loaded)
		return loaded, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(T), false, nil
	}
}
