package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sandevgo/finsight/pkg/retry"
)

// OpenAICompatible talks to any server exposing the OpenAI chat-completions
// and embeddings endpoints. Transient failures are retried with backoff.
type OpenAICompatible struct {
	baseProvider
	embeddingModel string
	embeddingDim   int
	authHeader     string
	authPrefix     string
	extraHeaders   map[string]string
	retrier        *retry.Retrier
}

type OpenAICompatibleConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	EmbeddingModel string
	EmbeddingDim   int
	AuthHeader     string // e.g., "Authorization"
	AuthPrefix     string // e.g., "Bearer "
	ExtraHeaders   map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider:   newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
		embeddingModel: cfg.EmbeddingModel,
		embeddingDim:   cfg.EmbeddingDim,
		authHeader:     cfg.AuthHeader,
		authPrefix:     cfg.AuthPrefix,
		extraHeaders:   cfg.ExtraHeaders,
		retrier:        retry.NewDefaultRetrier(),
	}
}

func (o *OpenAICompatible) headers() map[string]string {
	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}
	return headers
}

// Complete sends a single-turn chat completion and returns the text of the
// first choice.
func (o *OpenAICompatible) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":       o.model,
		"temperature": 0,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	err := o.retrier.Do(ctx, func() error {
		resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, o.headers())
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		return readJSON(resp, &result)
	})
	if err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices in completion response")
	}
	return result.Choices[0].Message.Content, nil
}

func (o *OpenAICompatible) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in one request. The API may return the data
// out of order, so vectors are placed by their reported index.
func (o *OpenAICompatible) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := map[string]any{
		"model": o.embeddingModel,
		"input": texts,
	}
	if o.embeddingDim > 0 {
		payload["dimensions"] = o.embeddingDim
	}

	var result struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}

	err := o.retrier.Do(ctx, func() error {
		resp, err := o.doRequest(ctx, http.MethodPost, "/v1/embeddings", payload, o.headers())
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		return readJSON(resp, &result)
	})
	if err != nil {
		return nil, err
	}

	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(result.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range result.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}
