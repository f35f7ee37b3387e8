package store

import (
	"context"

	"versioned-state/pkg/versioning"

	"github.com/rs/zerolog/log"
)

// CachingValueStore is a read-through, write-through LRU in front of another
// ValueStore. A Write reaches the wrapped store before the cache is updated,
// so a Read following a successful Write observes it. A failed Write drops
// the key from the cache since the stored state is then unknown.
type CachingValueStore[K comparable] struct {
	wrappedStore ValueStore[K]
	cache        *Cache[K, versioning.RawRecord]
}

var _ = ValueStore[string](&CachingValueStore[string]{})

func NewCachingValueStore[K comparable](store ValueStore[K], localCacheSize int) (*CachingValueStore[K], error) {
	cache, err := NewCache[K, versioning.RawRecord](localCacheSize)
	if err != nil {
		return nil, err
	}
	return &CachingValueStore[K]{wrappedStore: store, cache: cache}, nil
}

func (c *CachingValueStore[K]) Name() string {
	return c.wrappedStore.Name()
}

func (c *CachingValueStore[K]) TableType() TABLE_TYPE {
	return c.wrappedStore.TableType()
}

func (c *CachingValueStore[K]) Read(ctx context.Context, key K) (versioning.RawRecord, bool, error) {
	if rec, ok := c.cache.get(key); ok {
		return rec.Clone(), true, nil
	}
	rec, ok, err := c.wrappedStore.Read(ctx, key)
	if err != nil || !ok {
		return rec, ok, err
	}
	c.cache.put(key, rec.Clone())
	return rec, true, nil
}

func (c *CachingValueStore[K]) Write(ctx context.Context, key K, rec versioning.RawRecord) error {
	if err := c.wrappedStore.Write(ctx, key, rec); err != nil {
		c.cache.delete(key)
		return err
	}
	c.cache.put(key, rec.Clone())
	return nil
}

// Invalidate forgets every cached record, e.g. after another process
// rewrote the backing store.
func (c *CachingValueStore[K]) Invalidate() {
	c.cache.purge()
}

func (c *CachingValueStore[K]) HitRatio() float64 {
	return c.cache.HitRatio()
}

func (c *CachingValueStore[K]) Close(ctx context.Context) error {
	log.Debug().Str("store", c.Name()).Float64("hit_ratio", c.cache.HitRatio()).
		Uint64("evictions", c.cache.evictions()).Msg("closing cache")
	if closer, ok := c.wrappedStore.(Closer); ok {
		return closer.Close(ctx)
	}
	return nil
}
