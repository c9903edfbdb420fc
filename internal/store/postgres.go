package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/folio/internal/chat"
	"github.com/MikeSquared-Agency/folio/internal/contact"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id           UUID PRIMARY KEY,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL,
		message      TEXT NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_logs (
		id           UUID PRIMARY KEY,
		user_message TEXT NOT NULL,
		ai_reply     TEXT NOT NULL,
		logged_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS contact_submissions_submitted_at_idx ON contact_submissions (submitted_at)`,
}

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SaveContact inserts one submission.
func (s *Postgres) SaveContact(ctx context.Context, sub contact.Submission) error {
	id, err := uuid.Parse(sub.ID)
	if err != nil {
		return fmt.Errorf("contact id: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO contact_submissions (id, name, email, message, submitted_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, sub.Name, sub.Email, sub.Message, sub.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

// SaveChatLog inserts one chat exchange.
func (s *Postgres) SaveChatLog(ctx context.Context, e chat.LogEntry) error {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return fmt.Errorf("chat log id: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO chat_logs (id, user_message, ai_reply, logged_at)
		VALUES ($1, $2, $3, $4)`,
		id, e.UserMessage, e.AIReply, e.LoggedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat log: %w", err)
	}
	return nil
}

func (s *Postgres) Close() {
	s.pool.Close()
}
