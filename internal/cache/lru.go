// Package cache provides the bounded memoization cache for analysis results.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"recscan/internal/domain"
)

// LRU is a fixed-capacity, least-recently-used result cache. It implements
// port.ResultCache. The underlying cache serializes its own reads and
// writes; unrelated requests never block each other beyond that.
type LRU struct {
	inner *lru.Cache[string, *domain.ReceiptRecord]
}

// NewLRU creates an LRU cache with the given capacity.
func NewLRU(capacity int) (*LRU, error) {
	inner, err := lru.New[string, *domain.ReceiptRecord](capacity)
	if err != nil {
		return nil, err
	}
	return &LRU{inner: inner}, nil
}

func (c *LRU) Get(key string) (*domain.ReceiptRecord, bool) {
	return c.inner.Get(key)
}

func (c *LRU) Put(key string, record *domain.ReceiptRecord) {
	c.inner.Add(key, record)
}

func (c *LRU) Evict(key string) {
	c.inner.Remove(key)
}

// Len returns the number of cached entries.
func (c *LRU) Len() int {
	return c.inner.Len()
}
