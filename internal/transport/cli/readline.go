package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/finsight/internal/cache"
	"github.com/sandevgo/finsight/internal/config"
	"github.com/sandevgo/finsight/internal/core"
	"github.com/sandevgo/finsight/pkg/log"
)

const defaultSessionID = "cli-local"

// QueryService is the part of the pipeline the terminal needs.
type QueryService interface {
	Process(ctx context.Context, req core.QueryRequest) (core.QueryResponse, error)
	ClearSession(sessionID string)
	SessionCount() int
	CacheStats() cache.AllStats
	ClearCaches()
}

// ReadLine is the interactive terminal: plain lines are queries, slash
// commands manage the session and caches.
type ReadLine struct {
	cfg   *config.AppConfig
	chain QueryService
	rl    *readline.Instance
	stop  func() // signals the rest of the process to shut down
}

func NewReadLine(chain QueryService, cfg *config.AppConfig, stop func()) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:   cfg,
		chain: chain,
		rl:    rl,
		stop:  stop,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("FinSight started. Ask about the loaded filings; /help lists commands.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					r.stop() // Exit on Ctrl+C
					return nil
				}
				continue
			} else if err == io.EOF {
				r.stop()
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") || line == "exit" {
			if r.handleCommand(line) {
				r.stop()
				return nil
			}
			continue
		}

		resp, err := r.chain.Process(ctx, core.QueryRequest{
			Query:     line,
			SessionID: defaultSessionID,
		})
		if err != nil {
			logger.Error().Err(err).Msg("query failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}

		r.printResponse(resp)
	}
}

// handleCommand runs a slash command and reports whether to exit.
func (r *ReadLine) handleCommand(line string) bool {
	out := r.rl.Stdout()

	switch line {
	case "/exit", "exit":
		return true
	case "/clear":
		r.chain.ClearSession(defaultSessionID)
		fmt.Fprintln(out, "Conversation cleared.")
	case "/cache":
		r.printCacheStats(out)
	case "/cache clear":
		r.chain.ClearCaches()
		fmt.Fprintln(out, "Caches cleared.")
	case "/help":
		fmt.Fprintln(out, "Commands: /clear  drop conversation history")
		fmt.Fprintln(out, "          /cache  show cache statistics")
		fmt.Fprintln(out, "          /cache clear  empty all caches")
		fmt.Fprintln(out, "          /exit   quit")
	default:
		fmt.Fprintf(out, "Unknown command %q, try /help\n", line)
	}
	return false
}

func (r *ReadLine) printResponse(resp core.QueryResponse) {
	out := r.rl.Stdout()

	fmt.Fprintf(out, "\n%s\n", resp.Answer)

	if len(resp.Sources) > 0 {
		fmt.Fprintln(out, "\nSources:")
		for _, s := range resp.Sources {
			fmt.Fprintf(out, "  [%d] %s (%s", s.SourceID, s.Filename, s.DocType)
			if s.Ticker != "" {
				fmt.Fprintf(out, ", %s", s.Ticker)
			}
			fmt.Fprintf(out, ") score=%.3f\n", s.SimilarityScore)
		}
	}

	cached := ""
	if resp.FromCache {
		cached = " (cached)"
	}
	fmt.Fprintf(out, "\n%.2fs, %d documents%s\n", resp.ProcessingTime, resp.NumDocumentsRetrieved, cached)
}

func (r *ReadLine) printCacheStats(out io.Writer) {
	stats := r.chain.CacheStats()

	printOne := func(name string, s cache.Stats) {
		fmt.Fprintf(out, "%-10s %d/%d entries, %.2f%% hit rate (%d hits, %d misses)\n",
			name, s.Size, s.MaxSize, s.HitRate, s.Hits, s.Misses)
	}
	printOne("embedding", stats.EmbeddingCache)
	printOne("document", stats.DocumentCache)
	printOne("response", stats.ResponseCache)
	fmt.Fprintf(out, "estimated savings: $%.4f\n", stats.ResponseCache.EstimatedSavingsUSD)
	fmt.Fprintf(out, "active sessions: %d\n", r.chain.SessionCount())
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
