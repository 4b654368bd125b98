package utils

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds caches created without an explicit size
const DefaultCacheSize = 1024

// CacheItem represents a cached item with metadata for invalidation
type CacheItem[T any] struct {
	Value   T
	ModTime time.Time
	Size    int64
}

// Cache is a bounded LRU cache whose entries can be tied to a file's
// modification time and size
type Cache[K comparable, V any] struct {
	items *lru.Cache[K, *CacheItem[V]]
}

// NewCache creates a cache holding up to DefaultCacheSize items
func NewCache[K comparable, V any]() *Cache[K, V] {
	return NewSizedCache[K, V](DefaultCacheSize)
}

// NewSizedCache creates a cache holding up to size items. A non-positive size
// falls back to DefaultCacheSize.
func NewSizedCache[K comparable, V any](size int) *Cache[K, V] {
	if size <= 0 {
		size = DefaultCacheSize
	}
	items, err := lru.New[K, *CacheItem[V]](size)
	if err != nil {
		// only returned for non-positive sizes
		panic(err)
	}
	return &Cache[K, V]{items: items}
}

// Get retrieves an item from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	if item, ok := c.items.Get(key); ok {
		return item.Value, true
	}
	var zero V
	return zero, false
}

// GetWithFileValidation retrieves an item from the cache with file-based validation.
// If the file has been modified since caching, the item is removed and false is returned
func (c *Cache[K, V]) GetWithFileValidation(key K, filePath string) (V, bool) {
	var zero V
	item, ok := c.items.Get(key)
	if !ok {
		return zero, false
	}

	if stat, err := os.Stat(filePath); err == nil {
		if stat.ModTime().Equal(item.ModTime) && stat.Size() == item.Size {
			return item.Value, true
		}
	}

	c.items.Remove(key)
	return zero, false
}

// Set stores an item in the cache
func (c *Cache[K, V]) Set(key K, value V) {
	c.items.Add(key, &CacheItem[V]{Value: value})
}

// SetWithFileInfo stores an item in the cache with file metadata for validation
func (c *Cache[K, V]) SetWithFileInfo(key K, value V, filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return err
	}
	c.items.Add(key, &CacheItem[V]{
		Value:   value,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	})
	return nil
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.items.Remove(key)
}

// Clear removes all items from the cache
func (c *Cache[K, V]) Clear() {
	c.items.Purge()
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	return c.items.Len()
}

// Keys returns the keys from oldest to most recently used
func (c *Cache[K, V]) Keys() []K {
	return c.items.Keys()
}
