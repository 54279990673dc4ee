package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recscan/internal/cache"
	"recscan/internal/domain"
)

func record(merchant string) *domain.ReceiptRecord {
	return &domain.ReceiptRecord{MerchantName: merchant, Items: []domain.LineItem{}}
}

func TestLRU_PutGet(t *testing.T) {
	c, err := cache.NewLRU(10)
	require.NoError(t, err)

	c.Put("receipt text", record("Cafe One"))

	got, ok := c.Get("receipt text")
	require.True(t, ok)
	assert.Equal(t, "Cafe One", got.MerchantName)

	_, ok = c.Get("other text")
	assert.False(t, ok)
}

func TestLRU_Evict(t *testing.T) {
	c, err := cache.NewLRU(10)
	require.NoError(t, err)

	c.Put("k", record("Cafe One"))
	c.Evict("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestLRU_CapacityEvictsOldest(t *testing.T) {
	c, err := cache.NewLRU(2)
	require.NoError(t, err)

	c.Put("a", record("A"))
	c.Put("b", record("B"))
	c.Put("c", record("C"))

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_GetRefreshesRecency(t *testing.T) {
	c, err := cache.NewLRU(2)
	require.NoError(t, err)

	c.Put("a", record("A"))
	c.Put("b", record("B"))
	c.Get("a")
	c.Put("c", record("C"))

	_, ok := c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestLRU_InvalidCapacity(t *testing.T) {
	_, err := cache.NewLRU(0)
	assert.Error(t, err)
}
