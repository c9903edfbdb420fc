package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/folio/internal/chat"
	"github.com/MikeSquared-Agency/folio/internal/contact"
)

// Store persists contact submissions and chat logs. Both tables are
// append-only.
type Store interface {
	Migrate(ctx context.Context) error
	SaveContact(ctx context.Context, s contact.Submission) error
	SaveChatLog(ctx context.Context, e chat.LogEntry) error
	Close()
}

// Open picks a backend from the URL scheme: postgres:// and postgresql://
// use pgx, sqlite://<path> and file:<path> use the embedded SQLite driver.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case databaseURL == "":
		return nil, fmt.Errorf("database url is empty")
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgres(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return NewSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasPrefix(databaseURL, "file:"):
		return NewSQLite(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database url scheme: %q", redact(databaseURL))
	}
}

// redact keeps the scheme and drops anything that may carry credentials.
func redact(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[:i+3] + "..."
	}
	if len(u) > 8 {
		return u[:8] + "..."
	}
	return u
}
