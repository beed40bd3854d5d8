package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stem-buddy/internal/domain"
)

type ChatMessageRepository interface {
	Append(ctx context.Context, message domain.ChatMessage) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

type PgChatMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatMessageRepository(pool *pgxpool.Pool) *PgChatMessageRepository {
	return &PgChatMessageRepository{pool: pool}
}

// Append inserts a message and bumps the owning session's updated_at in one
// transaction. The session touch doubles as the existence check: zero rows
// updated means the session does not exist.
func (r *PgChatMessageRepository) Append(ctx context.Context, message domain.ChatMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE chat_sessions SET updated_at = now() WHERE id = $1`,
		message.SessionID,
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		message.ID,
		message.SessionID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return tx.Commit(ctx)
}

// ListBySessionID returns the session history oldest first. An unknown
// session yields an empty list, not an error; ownership checks belong to
// the API surface.
func (r *PgChatMessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	const query = `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY seq ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		err = rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
