package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/finsight/internal/core"
	"github.com/sandevgo/finsight/pkg/log"
)

// notRelevantMarker is the sentinel the extraction prompt returns for a
// passage with nothing useful in it.
const notRelevantMarker = "NOT_RELEVANT"

// compressSkipBelow leaves short passages alone; they are already concise
// and the extraction call would cost more than it saves.
const compressSkipBelow = 200

// Compressor shrinks passages to just the sentences relevant to the query.
// Each passage is handled independently: an extraction failure keeps the
// original passage, a NOT_RELEVANT verdict drops it.
type Compressor struct {
	llm core.TextCompletion
}

func NewCompressor(llm core.TextCompletion) *Compressor {
	return &Compressor{llm: llm}
}

func (c *Compressor) Compress(ctx context.Context, query string, passages []core.Passage) []core.Passage {
	if len(passages) == 0 {
		return nil
	}

	out := make([]core.Passage, 0, len(passages))
	for _, p := range passages {
		if len(p.Content) < compressSkipBelow {
			out = append(out, p)
			continue
		}

		resp, err := c.llm.Complete(ctx, fmt.Sprintf(compressPrompt, query, p.Content))
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("filename", p.Meta.Filename).
				Msg("compression failed, keeping original passage")
			out = append(out, p)
			continue
		}

		extracted := strings.TrimSpace(resp)
		if extracted == "" || extracted == notRelevantMarker {
			continue
		}
		out = append(out, p.WithContent(extracted))
	}
	return out
}
