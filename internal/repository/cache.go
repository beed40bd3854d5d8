package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"stem-buddy/internal/domain"
)

const (
	sessionListKeyPrefix = "chat:sessions:"
	messageListKeyPrefix = "chat:messages:"
)

// CachedChatSessionRepository is a read-through cache over session lists,
// keyed per user and invalidated on every session create. Redis being down
// degrades to the inner repository, never to an error.
type CachedChatSessionRepository struct {
	inner  ChatSessionRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedChatSessionRepository(inner ChatSessionRepository, client *redis.Client, ttl time.Duration) *CachedChatSessionRepository {
	return &CachedChatSessionRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedChatSessionRepository) Create(ctx context.Context, session domain.ChatSession) error {
	if err := r.inner.Create(ctx, session); err != nil {
		return err
	}
	r.invalidate(ctx, sessionListKeyPrefix+session.UserID)
	return nil
}

func (r *CachedChatSessionRepository) ListByUserID(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	key := sessionListKeyPrefix + userID

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var sessions []domain.ChatSession
		if json.Unmarshal(raw, &sessions) == nil {
			return sessions, nil
		}
	}

	sessions, err := r.inner.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(sessions); err == nil {
		r.client.Set(ctx, key, raw, r.ttl)
	}
	return sessions, nil
}

func (r *CachedChatSessionRepository) invalidate(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 500*time.Millisecond)
	defer cancel()
	r.client.Del(ctx, key)
}

// CachedChatMessageRepository is a read-through cache over per-session
// message lists, invalidated on append. Appends also reorder the owner's
// session list, which this layer cannot key; the session-list TTL bounds
// that staleness instead.
type CachedChatMessageRepository struct {
	inner  ChatMessageRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedChatMessageRepository(inner ChatMessageRepository, client *redis.Client, ttl time.Duration) *CachedChatMessageRepository {
	return &CachedChatMessageRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedChatMessageRepository) Append(ctx context.Context, message domain.ChatMessage) error {
	if err := r.inner.Append(ctx, message); err != nil {
		return err
	}
	r.invalidate(ctx, messageListKeyPrefix+message.SessionID)
	return nil
}

func (r *CachedChatMessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	key := messageListKeyPrefix + sessionID

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var messages []domain.ChatMessage
		if json.Unmarshal(raw, &messages) == nil {
			return messages, nil
		}
	}

	messages, err := r.inner.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(messages); err == nil {
		r.client.Set(ctx, key, raw, r.ttl)
	}
	return messages, nil
}

func (r *CachedChatMessageRepository) invalidate(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 500*time.Millisecond)
	defer cancel()
	r.client.Del(ctx, key)
}

var (
	_ ChatSessionRepository = (*CachedChatSessionRepository)(nil)
	_ ChatMessageRepository = (*CachedChatMessageRepository)(nil)
)
