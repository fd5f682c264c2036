// Package syncqueue runs best-effort background pushes of local state to the
// server. Each resource has its own queue with at most one job in flight and
// one pending; submitting replaces the pending job, so only the latest state
// of a resource is ever sent after the running push.
package syncqueue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/uni-navigator/internal/logger"
	"github.com/spigell/uni-navigator/internal/utils"
)

// Job pushes one snapshot of a resource.
type Job func(ctx context.Context) error

// Options bounds retries of a failing job.
type Options struct {
	MaxRetries int           `mapstructure:"max-retries"`
	RetryDelay time.Duration `mapstructure:"retry-delay"`
}

// Queue serializes jobs for a single resource.
type Queue struct {
	name   string
	opts   Options
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending Job
	running bool
	idle    chan struct{}
	failed  int
}

// New returns an idle queue for resource name.
func New(name string, opts Options, log *zap.Logger) *Queue {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	return &Queue{
		name:   name,
		opts:   opts,
		logger: logger.WithResource(log, name),
		ctx:    ctx,
		cancel: cancel,
		idle:   idle,
	}
}

func (q *Queue) Name() string { return q.name }

// Submit schedules job, replacing any job that has not started yet. Jobs
// submitted after Close are dropped.
func (q *Queue) Submit(job Job) {
	if job == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.ctx.Err() != nil {
		q.logger.Debug("queue closed, dropping sync")
		return
	}

	if q.pending != nil {
		q.logger.Debug("superseding pending sync")
	}
	q.pending = job
	if !q.running {
		q.running = true
		q.idle = make(chan struct{})
		go q.run(q.idle)
	}
}

// Flush waits until no job is running or pending.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Failed returns how many jobs gave up after exhausting retries.
func (q *Queue) Failed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.failed
}

// Close aborts retries and drops pending work, then waits for the worker.
func (q *Queue) Close() {
	q.mu.Lock()
	q.pending = nil
	idle := q.idle
	q.mu.Unlock()

	q.cancel()
	<-idle
}

func (q *Queue) run(idle chan struct{}) {
	for {
		q.mu.Lock()
		job := q.pending
		q.pending = nil
		if job == nil {
			q.running = false
			close(idle)
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		q.execute(job)
	}
}

func (q *Queue) execute(job Job) {
	var err error
	for attempt := 0; attempt <= q.opts.MaxRetries; attempt++ {
		if err = job(q.ctx); err == nil {
			if attempt > 0 {
				q.logger.Info("sync succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return
		}
		if q.ctx.Err() != nil {
			return
		}

		q.logger.Warn("sync attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))

		if q.superseded() {
			q.logger.Debug("newer state queued, abandoning retries")
			return
		}
		if attempt == q.opts.MaxRetries {
			break
		}
		if waitErr := utils.WaitFor(q.ctx, utils.Backoff(q.opts.RetryDelay, attempt)); waitErr != nil {
			return
		}
	}

	q.mu.Lock()
	q.failed++
	q.mu.Unlock()

	if errors.Is(err, context.Canceled) {
		return
	}
	q.logger.Error("sync failed, local state kept", zap.Int("attempts", q.opts.MaxRetries+1), zap.Error(err))
}

func (q *Queue) superseded() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending != nil
}
