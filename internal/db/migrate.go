package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sessions are soft-lifecycle only (is_active flag, no deletes) and messages
// are append-only. seq is the per-insert ordering key: it is assigned by the
// server at write time, so an append that completed before another was issued
// always sorts first, regardless of clock resolution.
const schema = `
CREATE TABLE IF NOT EXISTS chat_sessions (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL,
	title      TEXT NOT NULL,
	subject    TEXT,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions (user_id, updated_at DESC);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         UUID PRIMARY KEY,
	session_id UUID NOT NULL REFERENCES chat_sessions (id),
	role       TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
	content    TEXT NOT NULL,
	seq        BIGSERIAL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages (session_id, seq);
`

// Migrate applies the schema at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
