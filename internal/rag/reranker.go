package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sandevgo/finsight/internal/core"
)

// Reranker reorders retrieved passages with Maximal Marginal Relevance,
// balancing relevance to the query against redundancy with passages already
// picked:
//
//	mmr = lambda*sim(d, q) - (1-lambda)*max(sim(d, selected))
type Reranker struct {
	embedder core.Embedder
}

func NewReranker(embedder core.Embedder) *Reranker {
	return &Reranker{embedder: embedder}
}

// Rerank returns the topK passages selected by MMR. lambda near 1 favors
// relevance, near 0 favors diversity. When embedding fails, the passages
// are ordered by their retrieval similarity score instead and a non-nil
// error reports the degradation.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []core.Passage, topK int, lambda float64) ([]core.Passage, error) {
	if len(passages) == 0 {
		return nil, nil
	}
	if len(passages) <= topK {
		return passages, nil
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return rankBySimilarityScore(passages, topK), fmt.Errorf("rerank degraded to similarity order: %w", err)
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Content
	}
	docVecs, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return rankBySimilarityScore(passages, topK), fmt.Errorf("rerank degraded to similarity order: %w", err)
	}

	relevance := make([]float64, len(passages))
	for i, vec := range docVecs {
		relevance[i] = cosineSimilarity(queryVec, vec)
	}

	selected := make([]int, 0, topK)
	remaining := make([]int, len(passages))
	for i := range remaining {
		remaining[i] = i
	}

	for len(selected) < topK && len(remaining) > 0 {
		bestPos := 0
		bestScore := math.Inf(-1)

		for pos, idx := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				if sim := cosineSimilarity(docVecs[idx], docVecs[sel]); sim > redundancy {
					redundancy = sim
				}
			}

			score := lambda*relevance[idx] - (1-lambda)*redundancy
			// Strict > keeps the earliest index on ties, so equal-scoring
			// passages come out in retrieval order.
			if score > bestScore {
				bestScore = score
				bestPos = pos
			}
		}

		selected = append(selected, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	out := make([]core.Passage, len(selected))
	for i, idx := range selected {
		out[i] = passages[idx]
	}
	return out, nil
}

// rankBySimilarityScore is the fallback ordering: retrieval similarity,
// descending, stable on ties.
func rankBySimilarityScore(passages []core.Passage, topK int) []core.Passage {
	sorted := make([]core.Passage, len(passages))
	copy(sorted, passages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Meta.SimilarityScore > sorted[j].Meta.SimilarityScore
	})
	if len(sorted) > topK {
		sorted = sorted[:topK]
	}
	return sorted
}

// cosineSimilarity returns 0 for zero-length or zero-norm vectors instead
// of NaN so degenerate embeddings never poison the MMR scores.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
