package store

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DEFAULT_LOCAL_CACHE_SIZE = 1000

// Cache is a fixed-size LRU that keeps hit, miss, overwrite and eviction
// counters.
type Cache[K comparable, V any] struct {
	lru *lru.Cache[K, V]

	numReadHits   uint64
	numReadMisses uint64
	numOverwrites uint64
	numEvictions  uint64
}

func NewCache[K comparable, V any](size int) (*Cache[K, V], error) {
	if size <= 0 {
		size = DEFAULT_LOCAL_CACHE_SIZE
	}
	c := &Cache[K, V]{}
	l, err := lru.NewWithEvict[K, V](size, func(K, V) {
		atomic.AddUint64(&c.numEvictions, 1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

func (c *Cache[K, V]) hits() uint64 {
	return atomic.LoadUint64(&c.numReadHits)
}

func (c *Cache[K, V]) misses() uint64 {
	return atomic.LoadUint64(&c.numReadMisses)
}

func (c *Cache[K, V]) overwrites() uint64 {
	return atomic.LoadUint64(&c.numOverwrites)
}

func (c *Cache[K, V]) evictions() uint64 {
	return atomic.LoadUint64(&c.numEvictions)
}

func (c *Cache[K, V]) len() int {
	return c.lru.Len()
}

// HitRatio is hits / (hits + misses), 0 before the first lookup.
func (c *Cache[K, V]) HitRatio() float64 {
	h, m := c.hits(), c.misses()
	if h+m == 0 {
		return 0
	}
	return float64(h) / float64(h+m)
}

func (c *Cache[K, V]) get(key K) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		atomic.AddUint64(&c.numReadHits, 1)
	} else {
		atomic.AddUint64(&c.numReadMisses, 1)
	}
	return v, ok
}

func (c *Cache[K, V]) put(key K, value V) {
	if c.lru.Contains(key) {
		atomic.AddUint64(&c.numOverwrites, 1)
	}
	c.lru.Add(key, value)
}

func (c *Cache[K, V]) delete(key K) bool {
	return c.lru.Remove(key)
}

func (c *Cache[K, V]) purge() {
	c.lru.Purge()
}
