package conversation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sandevgo/finsight/internal/core"
)

func TestHistory_AddAndOrder(t *testing.T) {
	h := NewHistory(4000)

	h.Add(core.RoleUser, "What was the revenue?")
	h.Add(core.RoleAssistant, "Revenue was $1.2B.")
	h.Add(core.RoleUser, "And the net income?")

	msgs := h.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[0].Role != core.RoleUser || msgs[1].Role != core.RoleAssistant {
		t.Error("messages out of insertion order")
	}
	if msgs[2].Content != "And the net income?" {
		t.Errorf("last message = %q", msgs[2].Content)
	}
}

func TestHistory_TrimDropsOldestFirst(t *testing.T) {
	// A budget of 1 token cannot hold any full message, so every Add
	// must trim back down to the last two messages.
	h := NewHistory(1)

	for i := 0; i < 6; i++ {
		h.Add(core.RoleUser, fmt.Sprintf("message number %d with some words", i))
	}

	msgs := h.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2 (last exchange always kept)", len(msgs))
	}
	if msgs[0].Content != "message number 4 with some words" {
		t.Errorf("kept prefix wrong, first = %q", msgs[0].Content)
	}
	if msgs[1].Content != "message number 5 with some words" {
		t.Errorf("most recent message lost, last = %q", msgs[1].Content)
	}
}

func TestHistory_NeverTrimsBelowTwo(t *testing.T) {
	h := NewHistory(0)

	h.Add(core.RoleUser, "first")
	if h.Len() != 1 {
		t.Fatalf("single message must survive a zero budget, len = %d", h.Len())
	}

	h.Add(core.RoleAssistant, "second")
	h.Add(core.RoleUser, "third")
	if h.Len() != 2 {
		t.Errorf("len = %d, want 2", h.Len())
	}
}

func TestHistory_NoTrimUnderBudget(t *testing.T) {
	h := NewHistory(4000)

	for i := 0; i < 10; i++ {
		h.Add(core.RoleUser, "short question")
		h.Add(core.RoleAssistant, "short answer")
	}

	if h.Len() != 20 {
		t.Errorf("len = %d, want 20 (well under budget)", h.Len())
	}
}

func TestHistory_ContextPrompt(t *testing.T) {
	h := NewHistory(4000)

	if got := h.ContextPrompt(6); got != "" {
		t.Fatalf("empty history should render empty prompt, got %q", got)
	}

	h.Add(core.RoleUser, "What was the revenue?")
	h.Add(core.RoleAssistant, "Revenue was $1.2B.")

	got := h.ContextPrompt(6)
	if !strings.HasPrefix(got, "Previous conversation:\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "User: What was the revenue?") {
		t.Errorf("missing user line: %q", got)
	}
	if !strings.Contains(got, "Assistant: Revenue was $1.2B.") {
		t.Errorf("missing assistant line: %q", got)
	}
}

func TestHistory_ContextPromptWindowAndTruncation(t *testing.T) {
	h := NewHistory(100000)

	h.Add(core.RoleUser, "oldest question outside the window")
	for i := 0; i < 6; i++ {
		h.Add(core.RoleUser, fmt.Sprintf("q%d", i))
	}
	long := strings.Repeat("x", contextTruncateAt+50)
	h.Add(core.RoleAssistant, long)

	got := h.ContextPrompt(6)
	if strings.Contains(got, "oldest question") {
		t.Error("message outside the last-N window leaked into the prompt")
	}
	if strings.Contains(got, long) {
		t.Error("long message should be truncated")
	}
	if !strings.Contains(got, strings.Repeat("x", contextTruncateAt)+"...") {
		t.Error("truncated message should end with ellipsis")
	}
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(4000)
	h.Add(core.RoleUser, "hello")
	h.Clear()

	if h.Len() != 0 {
		t.Errorf("len = %d after clear, want 0", h.Len())
	}
}
