package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sandevgo/finsight/internal/core"
)

var ordinalPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// Planner turns a raw query into the list of retrieval queries: the original
// first, then decomposed sub-questions of multi-part queries, then LLM
// phrasing variations of anything complex enough to benefit. The list never
// contains duplicates.
type Planner struct {
	llm           core.TextCompletion
	maxVariations int
}

// NewPlanner builds a planner. maxVariations caps the total variations per
// query counting the query itself, so the LLM is asked for maxVariations-1
// alternative phrasings.
func NewPlanner(llm core.TextCompletion, maxVariations int) *Planner {
	return &Planner{llm: llm, maxVariations: maxVariations}
}

// Plan expands query into retrieval queries. The original query is always
// first. A non-nil error reports a degraded plan: some LLM step failed and
// its output was skipped, but the returned list is still usable.
func (p *Planner) Plan(ctx context.Context, query string) ([]string, error) {
	all := []string{query}
	seen := map[string]bool{query: true}
	var degraded error

	add := func(q string) {
		if q != "" && !seen[q] {
			seen[q] = true
			all = append(all, q)
		}
	}

	subQueries, err := p.decompose(ctx, query)
	if err != nil {
		degraded = fmt.Errorf("decomposition skipped: %w", err)
		subQueries = []string{query}
	}

	numVariations := p.maxVariations - 1

	if len(subQueries) > 1 {
		for _, sub := range subQueries {
			add(sub)
			if !shouldExpand(sub) {
				continue
			}
			variations, err := p.generateVariations(ctx, sub, numVariations)
			if err != nil {
				if degraded == nil {
					degraded = fmt.Errorf("expansion skipped: %w", err)
				}
				continue
			}
			for _, v := range variations {
				add(v)
			}
		}
		return all, degraded
	}

	if shouldExpand(query) {
		variations, err := p.generateVariations(ctx, query, numVariations)
		if err != nil {
			if degraded == nil {
				degraded = fmt.Errorf("expansion skipped: %w", err)
			}
			return all, degraded
		}
		for _, v := range variations {
			add(v)
		}
	}
	return all, degraded
}

// decompose splits a multi-part question into standalone sub-queries. A
// query without multi-part markers is returned as-is without an LLM call.
func (p *Planner) decompose(ctx context.Context, query string) ([]string, error) {
	if !isMultiPart(query) {
		return []string{query}, nil
	}

	resp, err := p.llm.Complete(ctx, fmt.Sprintf(decomposePrompt, query))
	if err != nil {
		return nil, err
	}

	var subQueries []string
	for _, line := range strings.Split(strings.TrimSpace(resp), "\n") {
		cleaned := ordinalPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		if cleaned != "" {
			subQueries = append(subQueries, cleaned)
		}
	}
	if len(subQueries) == 0 {
		return []string{query}, nil
	}
	return subQueries, nil
}

func (p *Planner) generateVariations(ctx context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	resp, err := p.llm.Complete(ctx, fmt.Sprintf(expansionPrompt, n, query))
	if err != nil {
		return nil, err
	}

	var variations []string
	for _, line := range strings.Split(strings.TrimSpace(resp), "\n") {
		if v := strings.TrimSpace(line); v != "" {
			variations = append(variations, v)
		}
	}
	if len(variations) > n {
		variations = variations[:n]
	}
	return variations, nil
}

// isMultiPart reports whether a query carries multi-part markers worth a
// decomposition call: numbered items, several question marks, or a long
// conjunction.
func isMultiPart(query string) bool {
	switch {
	case strings.Contains(query, "1.") && strings.Contains(query, "2."):
		return true
	case strings.Contains(query, "1)") && strings.Contains(query, "2)"):
		return true
	case strings.Count(query, "?") > 1:
		return true
	case strings.Contains(strings.ToLower(query), " and ") && len(strings.Fields(query)) > 15:
		return true
	}
	return false
}

// shouldExpand filters out queries that don't benefit from variations:
// very short ones and simple factual patterns.
func shouldExpand(query string) bool {
	if len(strings.Fields(query)) < 5 {
		return false
	}

	lower := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(lower, "what is"),
		strings.HasPrefix(lower, "what was"),
		strings.HasPrefix(lower, "when did"),
		strings.HasPrefix(lower, "where is"),
		strings.Contains(lower, "yes or no"):
		return false
	}
	return true
}
