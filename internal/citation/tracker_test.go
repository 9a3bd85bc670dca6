package citation

import (
	"strings"
	"testing"

	"github.com/sandevgo/finsight/internal/core"
)

func passage(filename, chunkID, content string) core.Passage {
	return core.Passage{
		Content: content,
		Meta: core.PassageMeta{
			Filename:        filename,
			DocType:         "10k",
			Ticker:          "ACM",
			ChunkID:         chunkID,
			SimilarityScore: 0.9,
		},
	}
}

func TestTracker_AddAssignsSequentialIDs(t *testing.T) {
	tr := NewTracker()

	if got := tr.Add(passage("a.pdf", "0", "alpha")); got != 1 {
		t.Errorf("first id = %d, want 1", got)
	}
	if got := tr.Add(passage("a.pdf", "1", "beta")); got != 2 {
		t.Errorf("second id = %d, want 2", got)
	}
	if got := tr.Add(passage("b.pdf", "0", "gamma")); got != 3 {
		t.Errorf("third id = %d, want 3", got)
	}
}

func TestTracker_AddIsIdempotent(t *testing.T) {
	tr := NewTracker()

	first := tr.Add(passage("a.pdf", "0", "alpha"))
	again := tr.Add(passage("a.pdf", "0", "alpha"))

	if first != again {
		t.Errorf("re-adding the same chunk: got %d, want %d", again, first)
	}
	if tr.Len() != 1 {
		t.Errorf("len = %d, want 1", tr.Len())
	}

	// Same filename, different chunk: a distinct source.
	other := tr.Add(passage("a.pdf", "1", "beta"))
	if other == first {
		t.Error("different chunk of the same file must get its own id")
	}
}

func TestTracker_IDsSurviveClear(t *testing.T) {
	tr := NewTracker()

	tr.Add(passage("a.pdf", "0", "alpha"))
	tr.Add(passage("a.pdf", "1", "beta"))
	tr.Clear()

	if tr.Len() != 0 {
		t.Fatalf("len after clear = %d, want 0", tr.Len())
	}

	// Numbers keep counting so citations from earlier turns stay unique.
	if got := tr.Add(passage("b.pdf", "0", "gamma")); got != 3 {
		t.Errorf("first id after clear = %d, want 3", got)
	}
}

func TestTracker_FormatContext(t *testing.T) {
	tr := NewTracker()
	tr.Add(passage("a.pdf", "0", "Revenue was $1.2B."))
	tr.Add(passage("a.pdf", "1", "Net income was $300M."))

	got := tr.FormatContext()
	want := "[Source 1] Revenue was $1.2B.\n\n[Source 2] Net income was $300M."
	if got != want {
		t.Errorf("context = %q, want %q", got, want)
	}
}

func TestTracker_SourcesPreviews(t *testing.T) {
	tr := NewTracker()

	long := strings.Repeat("x", previewLength+100)
	tr.Add(passage("a.pdf", "0", "short"))
	tr.Add(passage("a.pdf", "1", long))

	sources := tr.Sources()
	if len(sources) != 2 {
		t.Fatalf("len = %d, want 2", len(sources))
	}

	if sources[0].TextPreview != "short" {
		t.Errorf("short preview = %q", sources[0].TextPreview)
	}
	if sources[0].SourceID != 1 || sources[0].Filename != "a.pdf" {
		t.Errorf("source record = %+v", sources[0])
	}

	want := strings.Repeat("x", previewLength) + "..."
	if sources[1].TextPreview != want {
		t.Errorf("long preview not truncated to %d chars", previewLength)
	}
}
