package rag

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/finsight/internal/cache"
)

func TestCachedEmbedder_SecondCallHitsCache(t *testing.T) {
	inner := &fakeEmbedder{vectors: map[string][]float32{"text": {1, 2, 3}}}
	table := cache.New[[]float32](10, time.Hour, cache.EvictOldest)
	e := NewCachedEmbedder(inner, table)

	first, err := e.Embed(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Embed(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}

	if inner.calls != 1 {
		t.Errorf("inner embedder called %d times, want 1", inner.calls)
	}
	if len(first) != 3 || second[0] != first[0] {
		t.Error("cached vector differs from original")
	}
}

func TestCachedEmbedder_BatchOnlyFetchesMisses(t *testing.T) {
	inner := &fakeEmbedder{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
		"c": {0, 0, 1},
	}}
	table := cache.New[[]float32](10, time.Hour, cache.EvictOldest)
	e := NewCachedEmbedder(inner, table)

	// Warm the cache with "b".
	if _, err := e.Embed(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}

	out, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	// Order must follow the input even though "b" came from cache.
	if out[0][0] != 1 || out[1][1] != 1 || out[2][2] != 1 {
		t.Errorf("batch results out of order: %v", out)
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2 (warm-up + one batch of misses)", inner.calls)
	}
}

func TestCachedEmbedder_AllHitsSkipUpstream(t *testing.T) {
	inner := &fakeEmbedder{}
	table := cache.New[[]float32](10, time.Hour, cache.EvictOldest)
	e := NewCachedEmbedder(inner, table)

	if _, err := e.EmbedBatch(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	calls := inner.calls

	if _, err := e.EmbedBatch(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != calls {
		t.Error("fully cached batch must not call upstream")
	}
}

func TestCachedEmbedder_NilTableDisablesCaching(t *testing.T) {
	inner := &fakeEmbedder{}
	e := NewCachedEmbedder(inner, nil)

	if _, err := e.Embed(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2 with caching disabled", inner.calls)
	}
}
