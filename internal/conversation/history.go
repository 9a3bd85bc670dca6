package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/finsight/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

func countTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(getTokenizer().Encode(text, nil, nil))
}

// contextTruncateAt limits how much of one message the rendered
// conversation context carries.
const contextTruncateAt = 300

// History is the bounded message history of one session. All methods are
// safe for concurrent use; the mutex serializes turns within a session.
type History struct {
	mu        sync.Mutex
	messages  []core.Message
	maxTokens int
}

func NewHistory(maxTokens int) *History {
	return &History{maxTokens: maxTokens}
}

// Add appends a message and trims the history to the token budget.
func (h *History) Add(role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, core.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	h.trim()
}

// Messages returns a copy of the history in insertion order.
func (h *History) Messages() []core.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]core.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

// ContextPrompt renders the last lastN messages as a prompt block with
// per-message truncation. Returns "" for an empty history.
func (h *History) ContextPrompt(lastN int) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.messages) == 0 {
		return ""
	}

	start := len(h.messages) - lastN
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for _, msg := range h.messages[start:] {
		label := "User"
		if msg.Role == core.RoleAssistant {
			label = "Assistant"
		}
		content := msg.Content
		if len(content) > contextTruncateAt {
			content = content[:contextTruncateAt] + "..."
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	return b.String()
}

// trim drops the oldest contiguous prefix of messages once the estimated
// token total exceeds the budget. The last two messages are always kept so
// the most recent exchange survives any budget. Caller holds the lock.
func (h *History) trim() {
	if len(h.messages) == 0 {
		return
	}

	total := 0
	for _, msg := range h.messages {
		total += countTokens(msg.Content)
	}
	if total <= h.maxTokens {
		return
	}

	// Walk backward from the most recent message, keeping as many as fit.
	cumulative := 0
	keepFrom := len(h.messages)
	for i := len(h.messages) - 1; i >= 0; i-- {
		msgTokens := countTokens(h.messages[i].Content)
		if cumulative+msgTokens > h.maxTokens {
			keepFrom = i + 1
			break
		}
		cumulative += msgTokens
	}

	if keepFrom > len(h.messages)-2 {
		keepFrom = len(h.messages) - 2
	}
	if keepFrom > 0 {
		h.messages = h.messages[keepFrom:]
	}
}

// Clear drops all messages.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}
