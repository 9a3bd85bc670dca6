package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/sandevgo/finsight/internal/core"
)

var (
	tickerExpr  = regexp.MustCompile(`ticker == "([^"]+)"`)
	docTypeExpr = regexp.MustCompile(`doc_type == "([^"]+)"`)
)

// PassageRepo stores document passages with their embeddings. Similarity
// search is a linear scan with cosine in Go; the metadata filter narrows
// the candidate set in SQL first.
type PassageRepo struct {
	db *sql.DB
}

func NewPassageRepo(db *sql.DB) *PassageRepo {
	return &PassageRepo{db: db}
}

// SavePassage upserts one passage keyed by (filename, chunk_id).
func (r *PassageRepo) SavePassage(ctx context.Context, p core.Passage, embedding []float32) error {
	blob, err := serializeVector(embedding)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO passages (content, filename, doc_type, ticker, chunk_id, embedding)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(filename, chunk_id) DO UPDATE SET
		   content = excluded.content,
		   doc_type = excluded.doc_type,
		   ticker = excluded.ticker,
		   embedding = excluded.embedding`,
		p.Content, p.Meta.Filename, p.Meta.DocType, p.Meta.Ticker, p.Meta.ChunkID, blob,
	)
	if err != nil {
		return fmt.Errorf("failed to save passage: %w", err)
	}
	return nil
}

func (r *PassageRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count passages: %w", err)
	}
	return n, nil
}

// Search returns the k passages most similar to the query vector, filtered
// by the retriever's expression syntax, ordered by descending cosine score.
func (r *PassageRepo) Search(ctx context.Context, vector []float32, filter string, k int) ([]core.SearchResult, error) {
	where, args := filterToSQL(filter)

	query := `SELECT content, filename, doc_type, ticker, chunk_id, embedding FROM passages` + where
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("passage scan failed: %w", err)
	}
	defer rows.Close()

	var results []core.SearchResult
	for rows.Next() {
		var p core.Passage
		var blob []byte
		if err := rows.Scan(&p.Content, &p.Meta.Filename, &p.Meta.DocType, &p.Meta.Ticker, &p.Meta.ChunkID, &blob); err != nil {
			return nil, err
		}

		vec, err := deserializeVector(blob)
		if err != nil {
			return nil, err
		}
		results = append(results, core.SearchResult{
			Passage: p,
			Score:   cosine(vector, vec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// filterToSQL translates the retriever's filter expression into a WHERE
// clause. Only the shapes the retriever produces are recognized; anything
// else scans unfiltered.
func filterToSQL(filter string) (string, []any) {
	if filter == "" {
		return "", nil
	}

	var conditions []string
	var args []any

	if m := tickerExpr.FindStringSubmatch(filter); m != nil {
		conditions = append(conditions, "ticker = ?")
		args = append(args, m[1])
	}

	if ms := docTypeExpr.FindAllStringSubmatch(filter, -1); ms != nil {
		placeholders := make([]string, len(ms))
		for i, m := range ms {
			placeholders[i] = "?"
			args = append(args, m[1])
		}
		conditions = append(conditions, "doc_type IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func cosine(a, b []float32) float64 {
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
