package background

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultWorkers     = 4
	defaultQueueSize   = 64
	defaultTaskTimeout = 30 * time.Second
)

type Task func(ctx context.Context) error

type job struct {
	name     string
	task     Task
	queuedAt time.Time
}

// Stats counts task outcomes since the executor started.
type Stats struct {
	Completed int64
	Failed    int64
	Dropped   int64
}

// Executor runs fire-and-forget work on a fixed pool of workers. Failures
// are logged, never returned to the submitter.
type Executor struct {
	queue   chan job
	timeout time.Duration
	logger  *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu     sync.RWMutex // guards closed and sends on queue
	closed bool

	completed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

func New(workers, queueSize int, taskTimeout time.Duration, logger *slog.Logger) *Executor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if taskTimeout <= 0 {
		taskTimeout = defaultTaskTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Executor{
		queue:   make(chan job, queueSize),
		timeout: taskTimeout,
		logger:  logger,
		baseCtx: ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.work()
	}
	return e
}

// Submit queues task without blocking. It returns false when the queue is
// full or the executor is shutting down.
func (e *Executor) Submit(name string, task func(ctx context.Context) error) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		e.dropped.Add(1)
		return false
	}
	select {
	case e.queue <- job{name: name, task: task, queuedAt: time.Now()}:
		return true
	default:
		e.dropped.Add(1)
		e.logger.Warn("background queue full, task dropped", "task", name)
		return false
	}
}

// Shutdown stops intake and waits for queued tasks to finish. If ctx expires
// first, running tasks are cancelled and ctx's error is returned.
func (e *Executor) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		return fmt.Errorf("background drain: %w", ctx.Err())
	}
}

func (e *Executor) Stats() Stats {
	return Stats{
		Completed: e.completed.Load(),
		Failed:    e.failed.Load(),
		Dropped:   e.dropped.Load(),
	}
}

func (e *Executor) work() {
	defer e.wg.Done()
	for j := range e.queue {
		e.run(j)
	}
}

func (e *Executor) run(j job) {
	ctx, cancel := context.WithTimeout(e.baseCtx, e.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			e.failed.Add(1)
			e.logger.Error("background task panicked", "task", j.name, "panic", r)
		}
	}()

	start := time.Now()
	if err := j.task(ctx); err != nil {
		e.failed.Add(1)
		e.logger.Warn("background task failed",
			"task", j.name,
			"error", err,
			"duration", time.Since(start),
		)
		return
	}
	e.completed.Add(1)
	e.logger.Debug("background task done",
		"task", j.name,
		"wait", start.Sub(j.queuedAt),
		"duration", time.Since(start),
	)
}
