package core

import "time"

const (
	AppName    = "FinSight"
	AppVersion = "1.0.0"
)

// PassageMeta is the provenance of a retrieved passage. Ticker and ChunkID
// are optional; empty string means absent.
type PassageMeta struct {
	Filename        string  `json:"filename"`
	DocType         string  `json:"doc_type"`
	Ticker          string  `json:"ticker,omitempty"`
	ChunkID         string  `json:"chunk_id,omitempty"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Passage is a retrieved unit of document text. It is immutable once
// retrieved; compression produces a copy with replaced Content.
type Passage struct {
	Content string      `json:"content"`
	Meta    PassageMeta `json:"metadata"`
}

// WithContent returns a copy of the passage carrying new content.
func (p Passage) WithContent(content string) Passage {
	return Passage{Content: content, Meta: p.Meta}
}

// Source is a deduplicated, numbered citation surfaced to the caller.
type Source struct {
	SourceID        int     `json:"source_id"`
	Filename        string  `json:"filename"`
	DocType         string  `json:"doc_type"`
	Ticker          string  `json:"ticker,omitempty"`
	SimilarityScore float64 `json:"similarity_score"`
	ChunkID         string  `json:"chunk_id,omitempty"`
	TextPreview     string  `json:"text_preview"`
}

type QueryRequest struct {
	Query     string   `json:"query"`
	Ticker    string   `json:"ticker,omitempty"`
	DocTypes  []string `json:"doc_types,omitempty"`
	TopK      int      `json:"top_k"`
	SessionID string   `json:"session_id,omitempty"`
}

type QueryResponse struct {
	Answer                string   `json:"answer"`
	Sources               []Source `json:"sources"`
	Query                 string   `json:"query"`
	ProcessingTime        float64  `json:"processing_time"`
	ExpandedQueries       []string `json:"expanded_queries,omitempty"`
	NumDocumentsRetrieved int      `json:"num_documents_retrieved"`
	SessionID             string   `json:"session_id"`
	FromCache             bool     `json:"from_cache,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
