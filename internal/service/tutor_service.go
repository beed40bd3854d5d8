package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"stem-buddy/internal/domain"
	"stem-buddy/internal/llm"
	"stem-buddy/internal/repository"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1000

	// Upper bound on one provider round trip. The call runs detached from the
	// request context: a client disconnect after the user message is
	// committed must not abort the turn, the reply belongs in history for
	// the next fetch.
	completionTimeout = 90 * time.Second
)

// TutorService coordinates one tutoring turn: persist the user message,
// assemble the context window, call the provider, persist the reply. It is
// the sole writer of assistant messages and holds no state of its own.
type TutorService struct {
	sessions  repository.ChatSessionRepository
	messages  repository.ChatMessageRepository
	llmClient llm.Client
	builder   *ContextBuilder
}

func NewTutorService(
	sessions repository.ChatSessionRepository,
	messages repository.ChatMessageRepository,
	llmClient llm.Client,
	builder *ContextBuilder,
) *TutorService {
	if builder == nil {
		builder = NewContextBuilder(DefaultContextWindow)
	}
	return &TutorService{
		sessions:  sessions,
		messages:  messages,
		llmClient: llmClient,
		builder:   builder,
	}
}

// CreateSession opens a named conversation for a user.
func (s *TutorService) CreateSession(ctx context.Context, userID, title, subject string) (domain.ChatSession, error) {
	userID = strings.TrimSpace(userID)
	title = strings.TrimSpace(title)
	if userID == "" || title == "" {
		return domain.ChatSession{}, fmt.Errorf("%w: user id and title are required", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	session := domain.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Subject:   strings.TrimSpace(subject),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// ListSessions returns a user's sessions, most recently updated first.
func (s *TutorService) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	sessions, err := s.sessions.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.ChatSession{}
	}
	return sessions, nil
}

// ListMessages returns a session's history oldest first. Unknown sessions
// yield an empty history.
func (s *TutorService) ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	messages, err := s.messages.ListBySessionID(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return messages, nil
}

// PostMessage runs one full turn and returns the persisted assistant reply.
// The user message stays committed whatever happens afterwards: a provider
// failure leaves two consecutive user messages on retry, which the data
// model accepts.
func (s *TutorService) PostMessage(ctx context.Context, sessionID, text string) (domain.ChatMessage, error) {
	sessionID = strings.TrimSpace(sessionID)
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	userMessage := domain.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Append(ctx, userMessage); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("persist user message: %w", err)
	}

	history, err := s.messages.ListBySessionID(ctx, sessionID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("load history: %w", err)
	}

	prompt := s.builder.Build(history, TutorPreamble)

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionTimeout)
	defer cancel()

	reply, err := s.llmClient.Complete(callCtx, prompt, llm.Options{
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("generate reply: %w", err)
	}

	assistantMessage := domain.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Append(context.WithoutCancel(ctx), assistantMessage); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("persist assistant message: %w", err)
	}

	return assistantMessage, nil
}
