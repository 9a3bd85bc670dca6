package sqlite

import (
	"context"
	"fmt"

	"github.com/sandevgo/finsight/internal/core"
)

// SearchAdapter embeds query text and scans the passage store, implementing
// the pipeline's vector search over the local database.
type SearchAdapter struct {
	repo     *PassageRepo
	embedder core.Embedder
}

func NewSearchAdapter(repo *PassageRepo, embedder core.Embedder) *SearchAdapter {
	return &SearchAdapter{repo: repo, embedder: embedder}
}

func (s *SearchAdapter) Search(ctx context.Context, query, filter string, k int) ([]core.SearchResult, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.repo.Search(ctx, vec, filter, k)
}
