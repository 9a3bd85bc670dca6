package cache

import (
	"time"

	"github.com/sandevgo/finsight/internal/config"
	"github.com/sandevgo/finsight/internal/core"
)

// costPerQuery approximates the dollar cost of one answered LLM query,
// used to estimate savings from response-cache hits.
const costPerQuery = 0.0001

// Manager owns the three cache tables of the pipeline. It is constructed
// explicitly and injected into the chain; there is no process-wide instance.
type Manager struct {
	Embedding *Cache[[]float32]
	Document  *Cache[[]core.Passage]
	Response  *Cache[core.QueryResponse]
}

func NewManager(cfg *config.CacheConfig) *Manager {
	return &Manager{
		Embedding: New[[]float32](cfg.EmbeddingCacheSize, cfg.EmbeddingCacheTTL, EvictOldest),
		Document:  New[[]core.Passage](cfg.DocumentCacheSize, cfg.DocumentCacheTTL, EvictOldest),
		Response:  New[core.QueryResponse](cfg.ResponseCacheSize, cfg.ResponseCacheTTL, EvictColdest),
	}
}

func (m *Manager) ClearAll() {
	m.Embedding.Clear()
	m.Document.Clear()
	m.Response.Clear()
}

// AllStats bundles the per-table statistics.
type AllStats struct {
	EmbeddingCache Stats     `json:"embedding_cache"`
	DocumentCache  Stats     `json:"document_cache"`
	ResponseCache  Stats     `json:"response_cache"`
	Timestamp      time.Time `json:"timestamp"`
}

func (m *Manager) AllStats() AllStats {
	respStats := m.Response.Stats()
	respStats.EstimatedSavingsUSD = float64(respStats.Hits) * costPerQuery

	return AllStats{
		EmbeddingCache: m.Embedding.Stats(),
		DocumentCache:  m.Document.Stats(),
		ResponseCache:  respStats,
		Timestamp:      time.Now(),
	}
}
