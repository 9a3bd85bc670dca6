package cache

import (
	"testing"
	"time"

	"github.com/sandevgo/finsight/internal/config"
	"github.com/sandevgo/finsight/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		EmbeddingCacheSize: 10,
		EmbeddingCacheTTL:  time.Hour,
		DocumentCacheSize:  10,
		DocumentCacheTTL:   time.Hour,
		ResponseCacheSize:  10,
		ResponseCacheTTL:   time.Hour,
	}
}

func TestManager_ClearAll(t *testing.T) {
	m := NewManager(testCacheConfig())

	m.Embedding.Set(EmbeddingKey("text"), []float32{0.1, 0.2})
	m.Document.Set(DocumentKey("q", "", nil), []core.Passage{{Content: "doc"}})
	m.Response.Set(ResponseKey("q", "", nil, 10), core.QueryResponse{Answer: "a"})

	m.ClearAll()

	stats := m.AllStats()
	assert.Zero(t, stats.EmbeddingCache.Size)
	assert.Zero(t, stats.DocumentCache.Size)
	assert.Zero(t, stats.ResponseCache.Size)
}

func TestManager_ResponseSavings(t *testing.T) {
	m := NewManager(testCacheConfig())

	key := ResponseKey("q", "", nil, 10)
	m.Response.Set(key, core.QueryResponse{Answer: "a"})

	for i := 0; i < 5; i++ {
		_, ok := m.Response.Get(key)
		require.True(t, ok)
	}

	stats := m.AllStats()
	assert.InDelta(t, 5*costPerQuery, stats.ResponseCache.EstimatedSavingsUSD, 1e-9)
	assert.Zero(t, stats.EmbeddingCache.EstimatedSavingsUSD, "only the response cache reports savings")
}
