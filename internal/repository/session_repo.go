package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"stem-buddy/internal/domain"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session domain.ChatSession) error
	ListByUserID(ctx context.Context, userID string) ([]domain.ChatSession, error)
}

type PgChatSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatSessionRepository(pool *pgxpool.Pool) *PgChatSessionRepository {
	return &PgChatSessionRepository{pool: pool}
}

func (r *PgChatSessionRepository) Create(ctx context.Context, session domain.ChatSession) error {
	const query = `
		INSERT INTO chat_sessions (id, user_id, title, subject, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var subject interface{}
	if session.Subject != "" {
		subject = session.Subject
	}

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		subject,
		session.IsActive,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

func (r *PgChatSessionRepository) ListByUserID(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	const query = `
		SELECT id, user_id, title, subject, is_active, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.ChatSession
	for rows.Next() {
		var s domain.ChatSession
		var subject *string

		err = rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Title,
			&subject,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if subject != nil {
			s.Subject = *subject
		}
		sessions = append(sessions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
