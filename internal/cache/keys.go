package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Keys are derived from normalized inputs (lower-cased, trimmed query text;
// sorted filter lists; stringified numeric parameters) so that semantically
// identical calls with differing input ordering hit the same entry.

func hashKey(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// EmbeddingKey derives the key for a text embedding.
func EmbeddingKey(text string) string {
	return hashKey(strings.ToLower(strings.TrimSpace(text)))
}

// DocumentKey derives the key for a retrieval-result entry.
func DocumentKey(query, ticker string, docTypes []string) string {
	return hashKey(strings.Join(normalizeParts(query, ticker, docTypes), "|"))
}

// ResponseKey derives the key for a full-response entry.
func ResponseKey(query, ticker string, docTypes []string, topK int) string {
	parts := append(normalizeParts(query, ticker, docTypes), strconv.Itoa(topK))
	return hashKey(strings.Join(parts, "|"))
}

func normalizeParts(query, ticker string, docTypes []string) []string {
	sorted := make([]string, len(docTypes))
	copy(sorted, docTypes)
	sort.Strings(sorted)

	return []string{
		strings.ToLower(strings.TrimSpace(query)),
		strings.ToLower(ticker),
		strings.Join(sorted, ","),
	}
}
