// Package session holds per-user conversation state. Each session carries an
// append-only message history and the document the user is working with,
// replacing any notion of process-global conversation state.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"studymate/internal/llm"
	"studymate/internal/service"
)

// Session is one user's conversation context. History is append-only for the
// session's lifetime.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	// ActiveDocumentID is the document the session's questions run against,
	// empty when none is selected.
	ActiveDocumentID string        `json:"active_document_id,omitempty"`
	History          []llm.Message `json:"history"`
}

// Manager creates, looks up, and closes sessions. State is in-process only;
// sessions do not survive a restart.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	clock    func() time.Time
}

// NewManager creates a session manager. Sessions older than ttl (measured
// from creation, regardless of activity) are dropped lazily on access; a
// non-positive ttl disables expiry.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    time.Now,
	}
}

// Create starts a new session and returns it.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: m.clock(),
		History:   []llm.Message{},
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with the given ID, expiring it first if its TTL
// has lapsed.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, service.ErrNotFound)
	}
	if m.expired(s) {
		delete(m.sessions, id)
		return nil, fmt.Errorf("session %s expired: %w", id, service.ErrNotFound)
	}
	return m.snapshot(s), nil
}

// AppendMessage appends one message to the session's history.
func (m *Manager) AppendMessage(id string, msg llm.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || m.expired(s) {
		delete(m.sessions, id)
		return fmt.Errorf("session %s: %w", id, service.ErrNotFound)
	}
	s.History = append(s.History, msg)
	return nil
}

// SetActiveDocument records which document the session is working with.
func (m *Manager) SetActiveDocument(id, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || m.expired(s) {
		delete(m.sessions, id)
		return fmt.Errorf("session %s: %w", id, service.ErrNotFound)
	}
	s.ActiveDocumentID = documentID
	return nil
}

// Close discards the session. Closing an unknown session is not an error.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions, expiring stale ones.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
		}
	}
	return len(m.sessions)
}

func (m *Manager) expired(s *Session) bool {
	if m.ttl <= 0 {
		return false
	}
	return m.clock().Sub(s.CreatedAt) > m.ttl
}

// snapshot copies the session so callers cannot mutate shared state.
func (m *Manager) snapshot(s *Session) *Session {
	history := make([]llm.Message, len(s.History))
	copy(history, s.History)
	return &Session{
		ID:               s.ID,
		CreatedAt:        s.CreatedAt,
		ActiveDocumentID: s.ActiveDocumentID,
		History:          history,
	}
}
