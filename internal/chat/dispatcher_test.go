package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompleter struct {
	reply string
	err   error
	block bool

	calls  int
	system string
	turns  []Turn
}

func (f *fakeCompleter) Complete(ctx context.Context, system string, turns []Turn) (string, error) {
	f.calls++
	f.system = system
	f.turns = turns
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

type memLog struct {
	mu      sync.Mutex
	entries []LogEntry
	err     error
}

func (m *memLog) SaveChatLog(_ context.Context, e LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

// inlineTasks runs submitted work immediately and records failures.
type inlineTasks struct {
	names  []string
	errors []error
}

func (s *inlineTasks) Submit(name string, task func(ctx context.Context) error) bool {
	s.names = append(s.names, name)
	if err := task(context.Background()); err != nil {
		s.errors = append(s.errors, err)
	}
	return true
}

func TestHandle_InvalidInput(t *testing.T) {
	logs := &memLog{}
	d := NewDispatcher(Options{Log: logs, Tasks: &inlineTasks{}}, discardLogger())

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := d.Handle(context.Background(), msg, nil)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Handle(%q) error = %v, want ErrInvalidInput", msg, err)
		}
	}
	if len(logs.entries) != 0 {
		t.Errorf("expected no chat logs for invalid input, got %d", len(logs.entries))
	}
}

func TestHandle_NoModelUsesClassifier(t *testing.T) {
	logs := &memLog{}
	d := NewDispatcher(Options{Log: logs, Tasks: &inlineTasks{}}, discardLogger())

	reply, err := d.Handle(context.Background(), "What are Zeeshan's skills?", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != cannedReplies[CategorySkills] {
		t.Errorf("expected skills reply, got %q", reply.Text)
	}
	if reply.Source != SourceFallback {
		t.Errorf("expected fallback source, got %s", reply.Source)
	}
	if len(logs.entries) != 1 {
		t.Fatalf("expected 1 chat log, got %d", len(logs.entries))
	}
	if logs.entries[0].AIReply != reply.Text || logs.entries[0].UserMessage != "What are Zeeshan's skills?" {
		t.Errorf("unexpected log entry: %+v", logs.entries[0])
	}
	if logs.entries[0].ID == "" || logs.entries[0].LoggedAt.IsZero() {
		t.Errorf("expected id and timestamp on log entry: %+v", logs.entries[0])
	}
}

func TestHandle_ModelSuccess(t *testing.T) {
	model := &fakeCompleter{reply: "He knows Python and React."}
	d := NewDispatcher(Options{Model: model, Tasks: &inlineTasks{}}, discardLogger())

	history := []Turn{
		{RoleAssistant, "Hey! I'm Zeeshan's AI assistant"},
		{RoleUser, "hello"},
		{RoleAssistant, "Hi!"},
	}
	reply, err := d.Handle(context.Background(), "skills?", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != "He knows Python and React." || reply.Source != SourceModel {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if model.system != SystemPrompt {
		t.Error("expected persona system prompt")
	}
	want := []Turn{
		{RoleUser, "hello"},
		{RoleAssistant, "Hi!"},
		{RoleUser, "skills?"},
	}
	if len(model.turns) != len(want) {
		t.Fatalf("expected %d turns, got %d: %+v", len(want), len(model.turns), model.turns)
	}
	for i := range want {
		if model.turns[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, model.turns[i], want[i])
		}
	}
}

func TestHandle_ModelEmptyContent(t *testing.T) {
	model := &fakeCompleter{reply: "  "}
	d := NewDispatcher(Options{Model: model}, discardLogger())

	reply, err := d.Handle(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != emptyModelReply || reply.Source != SourceModel {
		t.Errorf("expected generic model reply, got %+v", reply)
	}
}

func TestHandle_ModelFailureFallsBack(t *testing.T) {
	model := &fakeCompleter{err: errors.New("api error 503")}
	logs := &memLog{}
	d := NewDispatcher(Options{Model: model, Log: logs, Tasks: &inlineTasks{}}, discardLogger())

	reply, err := d.Handle(context.Background(), "Does he play games?", nil)
	if err != nil {
		t.Fatalf("model failure must not surface, got %v", err)
	}
	if reply.Text != cannedReplies[CategoryHobby] || reply.Source != SourceFallback {
		t.Errorf("expected hobby fallback, got %+v", reply)
	}
	if len(logs.entries) != 1 {
		t.Errorf("expected fallback exchange to be logged, got %d", len(logs.entries))
	}
}

func TestHandle_ModelTimeoutFallsBack(t *testing.T) {
	model := &fakeCompleter{block: true}
	d := NewDispatcher(Options{Model: model, Timeout: 20 * time.Millisecond}, discardLogger())

	reply, err := d.Handle(context.Background(), "JEE rank", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != cannedReplies[CategoryExam] {
		t.Errorf("expected exam fallback after timeout, got %q", reply.Text)
	}
}

func TestHandle_BudgetExhausted(t *testing.T) {
	model := &fakeCompleter{reply: "from model"}
	budget := rate.NewLimiter(rate.Limit(0), 0)
	d := NewDispatcher(Options{Model: model, Budget: budget}, discardLogger())

	reply, err := d.Handle(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.calls != 0 {
		t.Errorf("expected model not to be called, got %d calls", model.calls)
	}
	if reply.Source != SourceFallback {
		t.Errorf("expected fallback when budget exhausted, got %s", reply.Source)
	}
}

func TestHandle_LogFailureSwallowed(t *testing.T) {
	logs := &memLog{err: errors.New("db down")}
	tasks := &inlineTasks{}
	d := NewDispatcher(Options{Log: logs, Tasks: tasks}, discardLogger())

	reply, err := d.Handle(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("log failure must not surface, got %v", err)
	}
	if reply.Text == "" {
		t.Error("expected a reply")
	}
	if len(tasks.errors) != 1 {
		t.Errorf("expected the log task to report its failure, got %v", tasks.errors)
	}
}

type chanLog chan LogEntry

func (c chanLog) SaveChatLog(_ context.Context, e LogEntry) error {
	c <- e
	return nil
}

func TestHandle_LogWithoutScheduler(t *testing.T) {
	logs := make(chanLog, 1)
	d := NewDispatcher(Options{Log: logs}, discardLogger())

	if _, err := d.Handle(context.Background(), "hello", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case e := <-logs:
		if e.UserMessage != "hello" {
			t.Errorf("unexpected log entry: %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("chat log was never written")
	}
}

func TestNewBudget(t *testing.T) {
	if NewBudget(0) != nil {
		t.Error("expected nil limiter for zero rate")
	}
	b := NewBudget(2)
	if b == nil {
		t.Fatal("expected limiter")
	}
	if !b.Allow() || !b.Allow() {
		t.Error("expected burst of 2")
	}
	if b.Allow() {
		t.Error("expected third call to be refused")
	}
	if NewBudget(0.5).Burst() != 1 {
		t.Error("expected minimum burst of 1")
	}
}
