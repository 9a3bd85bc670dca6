package conversation

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore maps session IDs to their histories. Sessions are created on
// first use and live until explicitly cleared; there is no automatic expiry,
// so the map grows with distinct session IDs (Len is exposed for operators
// to watch).
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*History
	maxTokens int
}

func NewSessionStore(maxTokens int) *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*History),
		maxTokens: maxTokens,
	}
}

// GetOrCreate returns the history for sessionID, creating it on first use.
func (s *SessionStore) GetOrCreate(sessionID string) *History {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.sessions[sessionID]
	if !ok {
		h = NewHistory(s.maxTokens)
		s.sessions[sessionID] = h
	}
	return h
}

// Clear removes a session and its history.
func (s *SessionStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// NewSessionID generates an ID for requests that carry none.
func NewSessionID() string {
	return uuid.NewString()
}
