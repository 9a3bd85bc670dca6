package rag

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sandevgo/finsight/internal/cache"
	"github.com/sandevgo/finsight/internal/citation"
	"github.com/sandevgo/finsight/internal/config"
	"github.com/sandevgo/finsight/internal/conversation"
	"github.com/sandevgo/finsight/internal/core"
	"github.com/sandevgo/finsight/pkg/log"
)

// historyWindow is how many recent messages (3 exchanges) are rendered into
// the answer prompt.
const historyWindow = 6

// Chain is the query pipeline: plan, retrieve, dedupe, rerank, compress,
// cite, answer. It owns the per-session conversation state; everything else
// is injected.
type Chain struct {
	cfg      *config.AppConfig
	cacheCfg *config.CacheConfig

	planner    *Planner
	retriever  *Retriever
	reranker   *Reranker
	compressor *Compressor
	llm        core.TextCompletion

	caches   *cache.Manager
	sessions *conversation.SessionStore
}

// NewChain wires the pipeline. embedder should already be cache-wrapped so
// the reranker shares the embedding cache with the search path.
func NewChain(
	cfg *config.AppConfig,
	cacheCfg *config.CacheConfig,
	caches *cache.Manager,
	embedder core.Embedder,
	search core.VectorSearch,
	llm core.TextCompletion,
) *Chain {
	var docTable *cache.Cache[[]core.Passage]
	if cacheCfg.EnableDocumentCache {
		docTable = caches.Document
	}

	return &Chain{
		cfg:        cfg,
		cacheCfg:   cacheCfg,
		planner:    NewPlanner(llm, cfg.MaxQueryVariations),
		retriever:  NewRetriever(search, docTable),
		reranker:   NewReranker(embedder),
		compressor: NewCompressor(llm),
		llm:        llm,
		caches:     caches,
		sessions:   conversation.NewSessionStore(cfg.MaxHistoryTokens),
	}
}

// Process answers one query. Retrieval and answer generation failures are
// fatal; planning, reranking and compression degrade with a logged warning.
func (c *Chain) Process(ctx context.Context, req core.QueryRequest) (core.QueryResponse, error) {
	start := time.Now()
	logger := log.FromCtx(ctx)

	topK := req.TopK
	if topK <= 0 {
		topK = c.cfg.DefaultTopK
	}

	// The response cache only serves session-less requests: with history in
	// play the same query text can mean something different.
	responseCacheable := c.cacheCfg.EnableResponseCache && req.SessionID == ""
	responseKey := cache.ResponseKey(req.Query, req.Ticker, req.DocTypes, topK)
	if responseCacheable {
		if resp, ok := c.caches.Response.Get(responseKey); ok {
			resp.ProcessingTime = roundSeconds(time.Since(start))
			resp.FromCache = true
			logger.Debug().Str("query", req.Query).Msg("answered from response cache")
			return resp, nil
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = conversation.NewSessionID()
	}
	conv := c.sessions.GetOrCreate(sessionID)
	tracker := citation.NewTracker()

	queries := []string{req.Query}
	if c.cfg.EnableQueryExpansion {
		planned, err := c.planner.Plan(ctx, req.Query)
		if err != nil {
			logger.Warn().Err(err).Msg("query planning degraded")
		}
		queries = planned
	}

	var collected []core.Passage
	for _, q := range queries {
		passages, err := c.retriever.Retrieve(ctx, q, req.Ticker, req.DocTypes, c.cfg.RetrievalTopK)
		if err != nil {
			return core.QueryResponse{}, fmt.Errorf("retrieve %q: %w", q, err)
		}
		collected = append(collected, passages...)
	}
	unique := dedupePassages(collected)

	var ranked []core.Passage
	if c.cfg.EnableReranking && len(unique) > topK {
		var err error
		ranked, err = c.reranker.Rerank(ctx, req.Query, unique, topK, c.cfg.MMRDiversityScore)
		if err != nil {
			logger.Warn().Err(err).Msg("reranking degraded")
		}
	} else {
		ranked = unique
		if len(ranked) > topK {
			ranked = ranked[:topK]
		}
	}

	docs := ranked
	if c.cfg.EnableCompression {
		docs = c.compressor.Compress(ctx, req.Query, ranked)
	}

	for _, p := range docs {
		tracker.Add(p)
	}

	answer, err := c.generate(ctx, conv.ContextPrompt(historyWindow), tracker.FormatContext(), req.Query)
	if err != nil {
		return core.QueryResponse{}, fmt.Errorf("generate answer: %w", err)
	}

	conv.Add(core.RoleUser, req.Query)
	conv.Add(core.RoleAssistant, answer)

	var expanded []string
	if len(queries) > 1 {
		expanded = queries
	}

	resp := core.QueryResponse{
		Answer:                answer,
		Sources:               tracker.Sources(),
		Query:                 req.Query,
		ProcessingTime:        roundSeconds(time.Since(start)),
		ExpandedQueries:       expanded,
		NumDocumentsRetrieved: len(docs),
		SessionID:             sessionID,
	}

	if responseCacheable {
		c.caches.Response.Set(responseKey, resp)
	}

	logger.Info().
		Str("session_id", sessionID).
		Int("queries", len(queries)).
		Int("documents", len(docs)).
		Float64("seconds", resp.ProcessingTime).
		Msg("query processed")

	return resp, nil
}

func (c *Chain) generate(ctx context.Context, history, context_, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.LLMTimeout)
	defer cancel()
	return c.llm.Complete(ctx, buildAnswerPrompt(history, context_, query))
}

// ClearSession drops the conversation history of one session.
func (c *Chain) ClearSession(sessionID string) {
	c.sessions.Clear(sessionID)
}

// SessionCount reports how many sessions currently hold history. Sessions
// never expire on their own, so this is the number worth watching.
func (c *Chain) SessionCount() int {
	return c.sessions.Len()
}

// CacheStats reports hit rates and sizes of all cache tables.
func (c *Chain) CacheStats() cache.AllStats {
	return c.caches.AllStats()
}

// ClearCaches empties all cache tables.
func (c *Chain) ClearCaches() {
	c.caches.ClearAll()
}

// dedupePassages keeps the first occurrence of each passage. Identity is
// provenance plus a content prefix, so distinct chunks that share a file
// survive while the same chunk retrieved by several query variations
// collapses to one.
func dedupePassages(passages []core.Passage) []core.Passage {
	seen := make(map[string]bool, len(passages))
	out := make([]core.Passage, 0, len(passages))

	for _, p := range passages {
		prefix := p.Content
		if len(prefix) > 100 {
			prefix = prefix[:100]
		}
		key := p.Meta.Filename + "_" + p.Meta.ChunkID + "_" + prefix
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
