package repository

import (
	"context"
	"sort"
	"sync"

	"stem-buddy/internal/domain"
)

// MemoryChatStore keeps sessions and their messages in process memory.
// It honors the same ordering contract as the Postgres repositories: a
// per-store sequence counter assigned under the lock orders messages, so an
// append that returned before another was issued always sorts first.
type MemoryChatStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ChatSession
	messages map[string][]storedMessage
	nextSeq  uint64
}

type storedMessage struct {
	seq uint64
	msg domain.ChatMessage
}

func NewMemoryChatStore() *MemoryChatStore {
	return &MemoryChatStore{
		sessions: make(map[string]domain.ChatSession),
		messages: make(map[string][]storedMessage),
	}
}

func (s *MemoryChatStore) Create(_ context.Context, session domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	return nil
}

func (s *MemoryChatStore) ListByUserID(_ context.Context, userID string) ([]domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.ChatSession
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			result = append(result, sess)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (s *MemoryChatStore) Append(_ context.Context, message domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[message.SessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}

	sess.UpdatedAt = message.CreatedAt
	s.sessions[message.SessionID] = sess

	s.nextSeq++
	s.messages[message.SessionID] = append(s.messages[message.SessionID], storedMessage{
		seq: s.nextSeq,
		msg: message,
	})
	return nil
}

func (s *MemoryChatStore) ListBySessionID(_ context.Context, sessionID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.messages[sessionID]
	result := make([]domain.ChatMessage, 0, len(stored))
	for _, sm := range stored {
		result = append(result, sm.msg)
	}
	return result, nil
}

var (
	_ ChatSessionRepository = (*MemoryChatStore)(nil)
	_ ChatMessageRepository = (*MemoryChatStore)(nil)
)
