// Package ingest loads financial documents into the passage store: files
// are chunked, embedded and saved with metadata derived from their names.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sandevgo/finsight/internal/core"
	"github.com/sandevgo/finsight/pkg/log"
)

// Store is where ingested passages land.
type Store interface {
	SavePassage(ctx context.Context, p core.Passage, embedding []float32) error
}

type Ingester struct {
	store    Store
	embedder core.Embedder
	chunkCfg ChunkerConfig
}

func NewIngester(store Store, embedder core.Embedder, cfg ChunkerConfig) *Ingester {
	return &Ingester{store: store, embedder: embedder, chunkCfg: cfg}
}

// IngestDir loads every .md and .txt file under dir. Returns the number of
// passages saved.
func (i *Ingester) IngestDir(ctx context.Context, dir string) (int, error) {
	total := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".txt":
		default:
			return nil
		}

		n, err := i.IngestFile(ctx, path)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		total += n
		return nil
	})
	return total, err
}

// IngestFile chunks, embeds and stores one document. All chunks of a file
// are embedded in a single batch call.
func (i *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	chunks := ChunkText(string(data), i.chunkCfg)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for j, c := range chunks {
		texts[j] = c.Text
	}
	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}

	filename := filepath.Base(path)
	ticker, docType := ParseDocName(filename)

	for j, c := range chunks {
		p := core.Passage{
			Content: c.Text,
			Meta: core.PassageMeta{
				Filename: filename,
				DocType:  docType,
				Ticker:   ticker,
				ChunkID:  strconv.Itoa(c.Index),
			},
		}
		if err := i.store.SavePassage(ctx, p, vectors[j]); err != nil {
			return 0, fmt.Errorf("save chunk %d: %w", c.Index, err)
		}
	}

	log.FromCtx(ctx).Info().
		Str("file", filename).
		Str("ticker", ticker).
		Str("doc_type", docType).
		Int("chunks", len(chunks)).
		Msg("document ingested")

	return len(chunks), nil
}

var tickerName = regexp.MustCompile(`^[A-Z]{1,5}$`)

// ParseDocName derives metadata from names like "ACM_balance_sheet.md":
// an uppercase ticker prefix before the first underscore, the rest is the
// document type. Files without a ticker prefix get an empty ticker and
// their whole base name as doc type.
func ParseDocName(filename string) (ticker, docType string) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	prefix, rest, found := strings.Cut(base, "_")
	if found && tickerName.MatchString(prefix) {
		return prefix, strings.ToLower(rest)
	}
	return "", strings.ToLower(base)
}
