package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/sandevgo/finsight/internal/core"
)

func TestCompressor_ShortPassagesPassThrough(t *testing.T) {
	llm := &fakeLLM{}
	c := NewCompressor(llm)

	passages := []core.Passage{testPassage(1, "short passage")}
	got := c.Compress(context.Background(), "q", passages)

	if len(got) != 1 || got[0].Content != "short passage" {
		t.Errorf("got %v, want unchanged", got)
	}
	if llm.callCount() != 0 {
		t.Errorf("short passages must skip the LLM, got %d calls", llm.callCount())
	}
}

func TestCompressor_ExtractsRelevantContent(t *testing.T) {
	llm := &fakeLLM{defaultResp: "Revenue was $16.14B in FY 2025."}
	c := NewCompressor(llm)

	long := strings.Repeat("Revenue details. ", 20)
	passages := []core.Passage{testPassage(1, long)}

	got := c.Compress(context.Background(), "q", passages)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Content != "Revenue was $16.14B in FY 2025." {
		t.Errorf("content = %q, want the extraction", got[0].Content)
	}
	if got[0].Meta.Filename != "doc1.md" {
		t.Error("compression must preserve passage metadata")
	}
}

func TestCompressor_DropsNotRelevant(t *testing.T) {
	llm := &fakeLLM{defaultResp: "NOT_RELEVANT"}
	c := NewCompressor(llm)

	long := strings.Repeat("Irrelevant boilerplate. ", 20)
	got := c.Compress(context.Background(), "q", []core.Passage{testPassage(1, long)})

	if len(got) != 0 {
		t.Errorf("got %d passages, want NOT_RELEVANT dropped", len(got))
	}
}

func TestCompressor_KeepsOriginalOnError(t *testing.T) {
	llm := &fakeLLM{err: errUpstream}
	c := NewCompressor(llm)

	long := strings.Repeat("Revenue details. ", 20)
	got := c.Compress(context.Background(), "q", []core.Passage{testPassage(1, long)})

	if len(got) != 1 || got[0].Content != long {
		t.Error("extraction failure must keep the original passage")
	}
}

func TestCompressor_EmptyInput(t *testing.T) {
	c := NewCompressor(&fakeLLM{})
	if got := c.Compress(context.Background(), "q", nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
