package core

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/opsdesk/internal/ingest"
	"github.com/opsdesk/opsdesk/internal/store"
	"github.com/opsdesk/opsdesk/internal/utils"
)

// ConnectivityErrorMessage replaces the model answer when the engine call
// fails. The failure is swallowed; the conversation stays usable.
const ConnectivityErrorMessage = "I encountered an error connecting to the AI service. Please check your network or API key configuration."

const titleMaxChars = 30

var (
	ErrEmptyMessage     = errors.New("message content cannot be empty")
	ErrSessionNotFound  = errors.New("session not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrExchangeInFlight = errors.New("an exchange is already in flight for this session")
	ErrNoActiveEdit     = errors.New("no message is being edited")
)

type editState struct {
	messageID string
	draft     string
}

// ChatService drives the exchange cycle for each session: optimistic user
// append, engine call, model (or canned error) append, plus the destructive
// edit-and-regenerate flow. At most one exchange is in flight per session;
// distinct sessions exchange independently.
type ChatService struct {
	sessions *store.MemoryStore
	engine   AnswerEngine
	data     *ingest.Holder

	mu       sync.Mutex
	inFlight map[string]struct{} // session ids with an exchange in flight
	edits    map[string]editState
}

func NewChatService(sessions *store.MemoryStore, engine AnswerEngine, data *ingest.Holder) *ChatService {
	return &ChatService{
		sessions: sessions,
		engine:   engine,
		data:     data,
		inFlight: make(map[string]struct{}),
		edits:    make(map[string]editState),
	}
}

// Submit runs one exchange for the session: the user message is committed
// to the log before any network interaction, then the engine's answer (or
// the canned connectivity error) is appended when the call resolves.
// Empty input and a busy session are rejected up front with no state change.
func (s *ChatService) Submit(ctx context.Context, sessionID, text string) ([]store.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	history, ok := s.sessions.GetMessages(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if err := s.acquire(sessionID); err != nil {
		return nil, err
	}
	defer s.release(sessionID)

	userMsg := store.Message{
		ID:        uuid.NewString(),
		Role:      store.RoleUser,
		Content:   text,
		Timestamp: time.Now().UnixMilli(),
	}
	s.sessions.AppendMessage(sessionID, userMsg)

	// First message of the session: set a naive truncated title for instant
	// feedback, then let the engine refine it out-of-band. The detached task
	// only ever touches the title field, never the message log, so it cannot
	// race with a later Submit or SaveEdit.
	if len(history) == 0 {
		s.sessions.UpdateTitle(sessionID, utils.Truncate(text, titleMaxChars))
		go s.generateAndSaveTitle(sessionID, text)
	}

	answer, err := s.engine.GenerateAnswer(ctx, text, history, s.data.Get())
	if err != nil {
		log.Printf("Answer generation failed for session %s: %v", sessionID, err)
		answer = ConnectivityErrorMessage
	}

	modelMsg := store.Message{
		ID:        uuid.NewString(),
		Role:      store.RoleModel,
		Content:   answer,
		Timestamp: time.Now().UnixMilli(),
	}
	s.sessions.AppendMessage(sessionID, modelMsg)

	messages, _ := s.sessions.GetMessages(sessionID)
	return messages, nil
}

// generateAndSaveTitle runs detached from the exchange that spawned it:
// never awaited, tolerant of arbitrary delay, and addressed by session id
// so a late result cannot land on the wrong session. Failures fall back to
// the truncated first message.
func (s *ChatService) generateAndSaveTitle(sessionID, firstMessage string) {
	title, err := s.engine.GenerateTitle(context.Background(), firstMessage)
	if err != nil {
		log.Printf("Failed to generate title for session %s: %v", sessionID, err)
		title = utils.Truncate(firstMessage, titleMaxChars)
	}
	title = utils.StripQuotes(strings.TrimSpace(title))
	if title == "" {
		title = utils.Truncate(firstMessage, titleMaxChars)
	}
	s.sessions.UpdateTitle(sessionID, title)
}

// StartEdit enters edit mode for an existing message, seeding the draft
// with its current content. Role is not enforced here; the UI only offers
// editing for user messages.
func (s *ChatService) StartEdit(sessionID, messageID string) error {
	messages, ok := s.sessions.GetMessages(sessionID)
	if !ok {
		return ErrSessionNotFound
	}

	for _, msg := range messages {
		if msg.ID == messageID {
			s.mu.Lock()
			s.edits[sessionID] = editState{messageID: messageID, draft: msg.Content}
			s.mu.Unlock()
			return nil
		}
	}
	return ErrMessageNotFound
}

// SetDraft replaces the draft content of the session's active edit.
func (s *ChatService) SetDraft(sessionID, draft string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.edits[sessionID]
	if !ok {
		return ErrNoActiveEdit
	}
	state.draft = draft
	s.edits[sessionID] = state
	return nil
}

// CancelEdit exits edit mode and discards the draft; the log is untouched.
func (s *ChatService) CancelEdit(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edits, sessionID)
}

// SaveEdit truncates the log to everything strictly before the edited
// message (discarding it, its answer, and all later turns) and resubmits
// the draft through the full Submit protocol. If the truncated history is
// empty the first-message title flow triggers again.
func (s *ChatService) SaveEdit(ctx context.Context, sessionID string) ([]store.Message, error) {
	s.mu.Lock()
	state, ok := s.edits[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoActiveEdit
	}

	if strings.TrimSpace(state.draft) == "" {
		return nil, ErrEmptyMessage
	}

	// Refuse to truncate under an in-flight exchange; the resubmission
	// below would be rejected anyway and the log must not shrink first.
	s.mu.Lock()
	_, busy := s.inFlight[sessionID]
	s.mu.Unlock()
	if busy {
		return nil, ErrExchangeInFlight
	}

	if _, ok := s.sessions.TruncateBefore(sessionID, state.messageID); !ok {
		// The log changed under us (or the session is gone); leave edit
		// state as-is so the caller can cancel or retry.
		return nil, ErrMessageNotFound
	}

	s.CancelEdit(sessionID)
	return s.Submit(ctx, sessionID, state.draft)
}

func (s *ChatService) acquire(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return ErrExchangeInFlight
	}
	s.inFlight[sessionID] = struct{}{}
	return nil
}

func (s *ChatService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}
