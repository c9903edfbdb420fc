package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("name, email and message are required")
	ErrStorage    = errors.New("contact submission could not be stored")
)

// Submission is one contact-form message. It is never updated after it is
// stored.
type Submission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Store interface {
	SaveContact(ctx context.Context, s Submission) error
}

// Notifier is a best-effort side effect of a stored submission.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, s Submission) error
}

type Scheduler interface {
	Submit(name string, task func(ctx context.Context) error) bool
}

type Result struct {
	Success bool
	ID      string
}

// Recorder validates and stores contact submissions, then fans out
// notifications without waiting on them.
type Recorder struct {
	store     Store
	tasks     Scheduler
	notifiers []Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecorder builds a Recorder. With a nil tasks, each notification runs on
// its own goroutine.
func NewRecorder(store Store, tasks Scheduler, logger *slog.Logger, notifiers ...Notifier) *Recorder {
	return &Recorder{
		store:     store,
		tasks:     tasks,
		notifiers: notifiers,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit stores a submission. The result depends only on the write; the
// notifications scheduled afterwards cannot change it.
func (r *Recorder) Submit(ctx context.Context, name, email, message string) (Result, error) {
	if missing := missingFields(name, email, message); len(missing) > 0 {
		return Result{}, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	sub := Submission{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		Message:     message,
		SubmittedAt: r.now().UTC(),
	}

	if err := r.store.SaveContact(ctx, sub); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	r.logger.Info("contact stored", "id", sub.ID)

	r.notify(sub)
	return Result{Success: true, ID: sub.ID}, nil
}

func (r *Recorder) notify(sub Submission) {
	for _, n := range r.notifiers {
		n := n
		task := func(ctx context.Context) error {
			if err := n.Notify(ctx, sub); err != nil {
				return fmt.Errorf("%s for contact %s: %w", n.Name(), sub.ID, err)
			}
			return nil
		}
		if r.tasks == nil {
			go func() {
				if err := task(context.Background()); err != nil {
					r.logger.Warn("notification failed", "error", err)
				}
			}()
			continue
		}
		if !r.tasks.Submit(n.Name(), task) {
			r.logger.Warn("notification dropped", "notifier", n.Name(), "id", sub.ID)
		}
	}
}

func missingFields(name, email, message string) []string {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(message) == "" {
		missing = append(missing, "message")
	}
	return missing
}
