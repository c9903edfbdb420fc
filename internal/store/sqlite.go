package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/MikeSquared-Agency/folio/internal/chat"
	"github.com/MikeSquared-Agency/folio/internal/contact"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL,
		message      TEXT NOT NULL,
		submitted_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_logs (
		id           TEXT PRIMARY KEY,
		user_message TEXT NOT NULL,
		ai_reply     TEXT NOT NULL,
		logged_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS contact_submissions_submitted_at_idx ON contact_submissions (submitted_at)`,
}

// SQLite is the zero-setup backend used for local runs and small deployments.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLite) SaveContact(ctx context.Context, sub contact.Submission) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_submissions (id, name, email, message, submitted_at)
		VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.Message, formatTime(sub.SubmittedAt),
	)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

func (s *SQLite) SaveChatLog(ctx context.Context, e chat.LogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_logs (id, user_message, ai_reply, logged_at)
		VALUES (?, ?, ?, ?)`,
		e.ID, e.UserMessage, e.AIReply, formatTime(e.LoggedAt),
	)
	if err != nil {
		return fmt.Errorf("insert chat log: %w", err)
	}
	return nil
}

func (s *SQLite) Close() {
	s.db.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}
