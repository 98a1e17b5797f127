package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const placeholderTitle = "New Chat"

// MemoryStore owns the session collection and the current-session pointer.
// Session state is process-lifetime only; nothing is persisted.
//
// Invariant: after initialization the collection always holds at least one
// session and exactly one of them is current. Deleting the last session or
// clearing the collection immediately synthesizes a fresh replacement.
//
// Every operation takes the lock and mutates collection and pointer
// together, so callers never observe a partial update. All accessors return
// copies; callers never alias store-owned slices.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  []*Session // display order, most recent first
	currentID string
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	initial := newSession()
	s.sessions = []*Session{initial}
	s.currentID = initial.ID
	return s
}

func newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     placeholderTitle,
		Messages:  []Message{},
		CreatedAt: time.Now().UnixMilli(),
	}
}

// CreateSession inserts a fresh session at the front of the collection and
// makes it current.
func (s *MemoryStore) CreateSession() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := newSession()
	s.sessions = append([]*Session{session}, s.sessions...)
	s.currentID = session.ID
	return session.clone()
}

// SelectSession moves the current pointer to id. A stale id (deleted
// concurrently) is a benign no-op.
func (s *MemoryStore) SelectSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return false
	}
	s.currentID = id
	return true
}

// DeleteSession removes the session with id. If that empties the collection
// a fresh session is synthesized and made current. If the deleted session
// was current, the first remaining session becomes current (positional, not
// most-recently-used). An unknown id changes nothing.
func (s *MemoryStore) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return
	}

	remaining := s.sessions[:0:0]
	for _, session := range s.sessions {
		if session.ID != id {
			remaining = append(remaining, session)
		}
	}

	if len(remaining) == 0 {
		replacement := newSession()
		s.sessions = []*Session{replacement}
		s.currentID = replacement.ID
		return
	}

	s.sessions = remaining
	if s.currentID == id {
		s.currentID = remaining[0].ID
	}
}

// ClearAll discards every session and replaces the collection with exactly
// one fresh current session.
func (s *MemoryStore) ClearAll() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	replacement := newSession()
	s.sessions = []*Session{replacement}
	s.currentID = replacement.ID
	return replacement.clone()
}

// UpdateTitle replaces the title of the session matching id; no-op when
// absent. Titles are the only mutable session field.
func (s *MemoryStore) UpdateTitle(id, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.find(id)
	if session == nil {
		return false
	}
	session.Title = title
	return true
}

func (s *MemoryStore) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session.clone())
	}
	return sessions
}

func (s *MemoryStore) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

func (s *MemoryStore) GetSession(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.find(id)
	if session == nil {
		return Session{}, false
	}
	return session.clone(), true
}

func (s *MemoryStore) GetMessages(id string) ([]Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.find(id)
	if session == nil {
		return nil, false
	}
	messages := make([]Message, len(session.Messages))
	copy(messages, session.Messages)
	return messages, true
}

// AppendMessage appends msg to the log of the session with id. Late
// phase-two writes address sessions by id, so a result for a session that
// is no longer current still lands in the right log; a result for a deleted
// session is dropped.
func (s *MemoryStore) AppendMessage(id string, msg Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.find(id)
	if session == nil {
		return false
	}
	session.Messages = append(session.Messages, msg)
	return true
}

// TruncateBefore cuts the session log to everything strictly before the
// message with messageID, discarding that message and every later one. It
// returns the surviving prefix. A message id no longer in the log is a
// benign no-op and reports false.
func (s *MemoryStore) TruncateBefore(sessionID, messageID string) ([]Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.find(sessionID)
	if session == nil {
		return nil, false
	}

	index := -1
	for i, msg := range session.Messages {
		if msg.ID == messageID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, false
	}

	session.Messages = session.Messages[:index]
	remaining := make([]Message, index)
	copy(remaining, session.Messages)
	return remaining, true
}

// find must be called with the lock held.
func (s *MemoryStore) find(id string) *Session {
	for _, session := range s.sessions {
		if session.ID == id {
			return session
		}
	}
	return nil
}

func (session *Session) clone() Session {
	messages := make([]Message, len(session.Messages))
	copy(messages, session.Messages)
	return Session{
		ID:        session.ID,
		Title:     session.Title,
		Messages:  messages,
		CreatedAt: session.CreatedAt,
	}
}
