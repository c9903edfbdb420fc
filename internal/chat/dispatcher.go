package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const defaultModelTimeout = 20 * time.Second

var ErrInvalidInput = errors.New("message is required")

// Completer is the narrow view of an external chat model.
type Completer interface {
	Complete(ctx context.Context, system string, turns []Turn) (string, error)
}

// LogWriter persists chat exchanges.
type LogWriter interface {
	SaveChatLog(ctx context.Context, entry LogEntry) error
}

// Scheduler runs work off the request path.
type Scheduler interface {
	Submit(name string, task func(ctx context.Context) error) bool
}

// Source tells which path produced a reply. It is never exposed over HTTP.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

type Reply struct {
	Text   string
	Source Source
}

type Options struct {
	// Model is nil when no credential is configured.
	Model   Completer
	Timeout time.Duration
	// Budget caps outbound model calls; nil means unlimited.
	Budget *rate.Limiter
	Log    LogWriter
	Tasks  Scheduler
}

// Dispatcher answers chat messages from the model when it can and from the
// keyword classifier when it cannot.
type Dispatcher struct {
	model   Completer
	timeout time.Duration
	budget  *rate.Limiter
	log     LogWriter
	tasks   Scheduler
	logger  *slog.Logger
	now     func() time.Time
}

func NewDispatcher(opts Options, logger *slog.Logger) *Dispatcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &Dispatcher{
		model:   opts.Model,
		timeout: timeout,
		budget:  opts.Budget,
		log:     opts.Log,
		tasks:   opts.Tasks,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle returns a reply for message given the client-held history. The only
// error it returns is ErrInvalidInput; model failures degrade to the
// classifier.
func (d *Dispatcher) Handle(ctx context.Context, message string, history []Turn) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrInvalidInput
	}

	reply := d.reply(ctx, message, history)
	d.logExchange(message, reply)
	return reply, nil
}

func (d *Dispatcher) reply(ctx context.Context, message string, history []Turn) Reply {
	if d.model == nil {
		return fallback(message)
	}
	if d.budget != nil && !d.budget.Allow() {
		d.logger.Warn("model budget exhausted, using fallback")
		return fallback(message)
	}

	trimmed := Trim(history)
	turns := make([]Turn, 0, len(trimmed)+1)
	turns = append(turns, trimmed...)
	turns = append(turns, Turn{Role: RoleUser, Content: message})

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := d.now()
	text, err := d.model.Complete(callCtx, SystemPrompt, turns)
	if err != nil {
		d.logger.Warn("model call failed, using fallback",
			"error", err,
			"history_turns", len(trimmed),
			"elapsed", d.now().Sub(start),
		)
		return fallback(message)
	}

	if strings.TrimSpace(text) == "" {
		text = emptyModelReply
	}
	d.logger.Debug("model replied", "history_turns", len(trimmed), "reply_len", len(text))
	return Reply{Text: text, Source: SourceModel}
}

func (d *Dispatcher) logExchange(message string, reply Reply) {
	if d.log == nil {
		return
	}
	entry := LogEntry{
		ID:          uuid.NewString(),
		UserMessage: message,
		AIReply:     reply.Text,
		LoggedAt:    d.now().UTC(),
	}
	task := func(ctx context.Context) error {
		if err := d.log.SaveChatLog(ctx, entry); err != nil {
			return fmt.Errorf("save chat log: %w", err)
		}
		return nil
	}

	if d.tasks == nil {
		go func() {
			if err := task(context.Background()); err != nil {
				d.logger.Warn("chat log write failed", "error", err)
			}
		}()
		return
	}
	if !d.tasks.Submit("chat-log", task) {
		d.logger.Warn("chat log dropped", "id", entry.ID)
	}
}

func fallback(message string) Reply {
	return Reply{Text: Classify(message), Source: SourceFallback}
}

// NewBudget returns a limiter allowing perMinute model calls per minute with
// an equal burst. It returns nil, meaning unlimited, when perMinute <= 0.
func NewBudget(perMinute float64) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	burst := int(perMinute)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), burst)
}
