package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/finsight/internal/cache"
	"github.com/sandevgo/finsight/internal/core"
)

// Retriever runs filtered similarity searches and caches the results per
// normalized (query, ticker, docTypes) key. A nil cache table disables
// caching.
type Retriever struct {
	search core.VectorSearch
	table  *cache.Cache[[]core.Passage]
}

func NewRetriever(search core.VectorSearch, table *cache.Cache[[]core.Passage]) *Retriever {
	return &Retriever{search: search, table: table}
}

// Retrieve returns up to topK passages matching the query and filters,
// ordered by descending similarity. Cache entries hold the full result set
// of the original search, so a hit can serve any topK up to that size.
func (r *Retriever) Retrieve(ctx context.Context, query, ticker string, docTypes []string, topK int) ([]core.Passage, error) {
	var key string
	if r.table != nil {
		key = cache.DocumentKey(query, ticker, docTypes)
		if passages, ok := r.table.Get(key); ok {
			if len(passages) > topK {
				passages = passages[:topK]
			}
			return passages, nil
		}
	}

	filter := BuildFilterExpression(ticker, docTypes)
	results, err := r.search.Search(ctx, query, filter, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	passages := make([]core.Passage, 0, len(results))
	for _, res := range results {
		p := res.Passage
		p.Meta.SimilarityScore = res.Score
		passages = append(passages, p)
	}

	if r.table != nil {
		r.table.Set(key, passages)
	}
	return passages, nil
}

// BuildFilterExpression renders the metadata filter for a search. Ticker
// and doc types are ANDed; multiple doc types are ORed inside parentheses.
// Returns "" when there is nothing to filter on.
func BuildFilterExpression(ticker string, docTypes []string) string {
	var conditions []string

	if ticker != "" {
		conditions = append(conditions, fmt.Sprintf("ticker == %q", ticker))
	}

	if len(docTypes) > 0 {
		parts := make([]string, 0, len(docTypes))
		for _, dt := range docTypes {
			parts = append(parts, fmt.Sprintf("doc_type == %q", dt))
		}
		conditions = append(conditions, "("+strings.Join(parts, " or ")+")")
	}

	return strings.Join(conditions, " and ")
}
