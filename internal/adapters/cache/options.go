package cache

import "time"

// Option applies a configuration option to the TTLCache.
type Option func(*TTLCache)

// WithTTL sets how long an entry stays valid. Zero disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(c *TTLCache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxEntries bounds the cache; the least recently used entry is
// evicted first. Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *TTLCache) {
		if n < 0 {
			n = 0
		}
		c.maxEntries = n
	}
}
