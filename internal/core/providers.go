package core

import "context"

// Embedder turns text into a fixed-length vector. Implementations are
// fallible, possibly slow external calls.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch preserves input order: result[i] is the vector for texts[i].
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// SearchResult is one scored hit from a vector search.
type SearchResult struct {
	Passage Passage
	Score   float64
}

// VectorSearch runs a filtered similarity search. Results are ordered by
// descending score. The filter expression syntax is the retriever's
// (`ticker == "X" and (doc_type == "a" or doc_type == "b")`); empty means
// no filter.
type VectorSearch interface {
	Search(ctx context.Context, query string, filter string, k int) ([]SearchResult, error)
}

// TextCompletion generates text from a prompt. Used for decomposition,
// expansion, compression and final answer generation.
type TextCompletion interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
