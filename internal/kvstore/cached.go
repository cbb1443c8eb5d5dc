package kvstore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cached is a read-through cache in front of another Store. Writes go
// to the backing store first and then refresh the cache.
type Cached struct {
	next Store
	lru  *expirable.LRU[string, string]
}

// NewCached wraps next with an LRU of the given size whose entries
// expire after ttl.
func NewCached(next Store, size int, ttl time.Duration) *Cached {
	return &Cached{
		next: next,
		lru:  expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func (c *Cached) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, true, nil
	}
	v, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	c.lru.Add(key, v)
	return v, true, nil
}

func (c *Cached) Set(ctx context.Context, key, value string) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		c.lru.Remove(key)
		return err
	}
	c.lru.Add(key, value)
	return nil
}

// Invalidate drops every cached entry.
func (c *Cached) Invalidate() {
	c.lru.Purge()
}
