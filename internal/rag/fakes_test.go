package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/finsight/internal/core"
)

// fakeLLM answers Complete calls by matching a substring of the prompt to a
// scripted response. Prompts matching nothing get defaultResp.
type fakeLLM struct {
	mu          sync.Mutex
	responses   map[string]string
	defaultResp string
	err         error
	calls       []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, prompt)
	if f.err != nil {
		return "", f.err
	}
	for needle, resp := range f.responses {
		if strings.Contains(prompt, needle) {
			return resp, nil
		}
	}
	return f.defaultResp, nil
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeEmbedder returns deterministic unit vectors. Texts registered in
// vectors get those; everything else hashes to an arbitrary fixed vector.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vectorFor(t)
	}
	return out, nil
}

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	// Cheap deterministic spread so unregistered texts don't collide.
	sum := float32(0)
	for _, r := range text {
		sum += float32(r)
	}
	return []float32{sum, 1, 0}
}

// fakeSearch returns canned results and records every call.
type fakeSearch struct {
	mu      sync.Mutex
	results []core.SearchResult
	err     error
	queries []string
	filters []string
}

func (f *fakeSearch) Search(_ context.Context, query, filter string, k int) ([]core.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > k {
		return f.results[:k], nil
	}
	return f.results, nil
}

func (f *fakeSearch) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func testPassage(i int, content string) core.Passage {
	return core.Passage{
		Content: content,
		Meta: core.PassageMeta{
			Filename: fmt.Sprintf("doc%d.md", i),
			DocType:  "10k",
			Ticker:   "ACM",
			ChunkID:  fmt.Sprintf("%d", i),
		},
	}
}

var errUpstream = errors.New("upstream unavailable")
