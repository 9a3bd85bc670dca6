// Package citation assigns stable source numbers to retrieved passages so
// answers can reference them as [Source N].
package citation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/finsight/internal/core"
)

const previewLength = 200

// Tracker numbers passages in first-seen order. A passage is identified by
// its filename and chunk ID, so re-adding the same chunk returns the number
// it already has. IDs are monotonic for the lifetime of the tracker: Clear
// drops the registered sources but never reuses a number, so citations from
// earlier turns in a session stay unambiguous.
type Tracker struct {
	mu      sync.Mutex
	byKey   map[string]int
	ordered []trackedSource
	nextID  int
}

type trackedSource struct {
	id      int
	passage core.Passage
}

func NewTracker() *Tracker {
	return &Tracker{
		byKey:  make(map[string]int),
		nextID: 1,
	}
}

func sourceKey(meta core.PassageMeta) string {
	return meta.Filename + "_" + meta.ChunkID
}

// Add registers a passage and returns its source number. Adding a passage
// that is already tracked returns the existing number.
func (t *Tracker) Add(p core.Passage) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := sourceKey(p.Meta)
	if id, ok := t.byKey[key]; ok {
		return id
	}

	id := t.nextID
	t.nextID++
	t.byKey[key] = id
	t.ordered = append(t.ordered, trackedSource{id: id, passage: p})
	return id
}

// FormatContext renders the tracked passages as numbered context blocks for
// the completion prompt, separated by blank lines.
func (t *Tracker) FormatContext() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	blocks := make([]string, 0, len(t.ordered))
	for _, s := range t.ordered {
		blocks = append(blocks, fmt.Sprintf("[Source %d] %s", s.id, s.passage.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// Sources returns citation records for everything tracked, in source-number
// order, with content previews capped at 200 characters.
func (t *Tracker) Sources() []core.Source {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]core.Source, 0, len(t.ordered))
	for _, s := range t.ordered {
		preview := s.passage.Content
		if len(preview) > previewLength {
			preview = preview[:previewLength] + "..."
		}
		out = append(out, core.Source{
			SourceID:        s.id,
			Filename:        s.passage.Meta.Filename,
			DocType:         s.passage.Meta.DocType,
			Ticker:          s.passage.Meta.Ticker,
			ChunkID:         s.passage.Meta.ChunkID,
			TextPreview:     preview,
			SimilarityScore: s.passage.Meta.SimilarityScore,
		})
	}
	return out
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ordered)
}

// Clear forgets the tracked sources but keeps the ID counter running.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byKey = make(map[string]int)
	t.ordered = nil
}
