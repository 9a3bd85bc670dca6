package rag

import (
	"context"

	"github.com/sandevgo/finsight/internal/cache"
	"github.com/sandevgo/finsight/internal/core"
)

// CachedEmbedder wraps an Embedder with the embedding cache. Batch calls
// only send cache misses upstream and splice the results back in input
// order. A nil cache table disables caching entirely.
type CachedEmbedder struct {
	inner core.Embedder
	table *cache.Cache[[]float32]
}

func NewCachedEmbedder(inner core.Embedder, table *cache.Cache[[]float32]) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, table: table}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.table != nil {
		if vec, ok := e.table.Get(cache.EmbeddingKey(text)); ok {
			return vec, nil
		}
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if e.table != nil {
		e.table.Set(cache.EmbeddingKey(text), vec)
	}
	return vec, nil
}

func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if e.table == nil {
		return e.inner.EmbedBatch(ctx, texts)
	}

	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if vec, ok := e.table.Get(cache.EmbeddingKey(text)); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := e.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, idx := range missingIdx {
		out[idx] = fetched[j]
		e.table.Set(cache.EmbeddingKey(texts[idx]), fetched[j])
	}
	return out, nil
}
