package ingest

import (
	"strings"
	"testing"
)

func TestChunkText_Empty(t *testing.T) {
	if got := ChunkText("   ", DefaultChunkerConfig()); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestChunkText_SmallTextSingleChunk(t *testing.T) {
	text := "Revenue was $16.14B. Net income was $561.77M."
	chunks := ChunkText(text, DefaultChunkerConfig())

	if len(chunks) != 1 {
		t.Fatalf("len = %d, want 1", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("text = %q", chunks[0].Text)
	}
	if chunks[0].Index != 0 {
		t.Errorf("index = %d, want 0", chunks[0].Index)
	}
}

func TestChunkText_SplitsOnSentenceBoundaries(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Total current assets were six point seven billion dollars in fiscal year twenty twenty five. ")
	}

	chunks := ChunkText(b.String(), ChunkerConfig{MaxTokens: 60, OverlapTokens: 0})
	if len(chunks) < 2 {
		t.Fatalf("len = %d, want multiple chunks", len(chunks))
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.TokenSize > 60 {
			t.Errorf("chunk %d has %d tokens, budget is 60", i, c.TokenSize)
		}
		if !strings.HasSuffix(c.Text, ".") {
			t.Errorf("chunk %d does not end on a sentence boundary: %q", i, c.Text)
		}
	}
}

func TestChunkText_OverlapCarriesContext(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Total current assets were six point seven billion dollars in fiscal year twenty twenty five. ")
	}

	chunks := ChunkText(b.String(), ChunkerConfig{MaxTokens: 60, OverlapTokens: 20})
	if len(chunks) < 2 {
		t.Fatalf("len = %d, want multiple chunks", len(chunks))
	}

	// Each later chunk starts with the tail of the previous one.
	first := strings.Fields(chunks[1].Text)[0]
	if !strings.Contains(chunks[0].Text, first) {
		t.Error("second chunk should start with overlapped context")
	}
}

func TestChunkText_OversizedSentenceIsSliced(t *testing.T) {
	// One enormous "sentence" with no enders.
	long := strings.Repeat("assets liabilities equity revenue ", 100)

	chunks := ChunkText(long, ChunkerConfig{MaxTokens: 50, OverlapTokens: 0})
	if len(chunks) < 2 {
		t.Fatalf("len = %d, want the sentence sliced into several chunks", len(chunks))
	}
	for i, c := range chunks {
		if c.TokenSize > 50 {
			t.Errorf("chunk %d has %d tokens, budget is 50", i, c.TokenSize)
		}
	}
}

func TestSplitParagraphs(t *testing.T) {
	text := "line one\nline two\n\nsecond para\r\n\r\nthird"
	got := splitParagraphs(text)

	want := []string{"line one line two", "second para", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
}
