// Package worker runs background tasks with delays, bounded concurrency and
// retries.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/ersonp/kinship/internal/domain/ports"
)

// ErrDispatcherClosed is returned when a task is dispatched after Close.
var ErrDispatcherClosed = errors.New("dispatcher is closed")

// Default dispatcher settings.
const (
	DefaultConcurrency = 4
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 2 * time.Second
)

// Config holds dispatcher settings.
type Config struct {
	// Concurrency is the number of tasks allowed to run at once.
	Concurrency int
	// MaxAttempts is the number of runs a failing task gets, first run included.
	MaxAttempts int
	// RetryDelay is the pause between two runs of a failing task.
	RetryDelay time.Duration
}

// DefaultConfig returns the default dispatcher settings.
func DefaultConfig() Config {
	return Config{
		Concurrency: DefaultConcurrency,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
	}
}

// Dispatcher implements ports.TaskDispatcher.
//
// Thread Safety: Safe for concurrent use.
type Dispatcher struct {
	cfg     Config
	clock   ports.Clock
	logger  *zap.Logger
	metrics ports.SuggestionMetrics
	sem     *semaphore.Weighted

	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	pending atomic.Int64
}

// NewDispatcher creates a dispatcher. Zero config fields take their defaults;
// a nil clock means the system clock.
func NewDispatcher(cfg Config, clock ports.Clock, logger *zap.Logger, metrics ports.SuggestionMetrics) *Dispatcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Dispatcher{
		cfg:     cfg,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		sem:     semaphore.NewWeighted(int64(cfg.Concurrency)),
	}
}

// Dispatch schedules the task to run after task.Delay. The task outlives
// ctx: only its values are kept.
func (d *Dispatcher) Dispatch(ctx context.Context, task ports.Task) error {
	if task.Run == nil {
		return fmt.Errorf("task %q has no run function", task.Name)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	d.wg.Add(1)
	d.mu.Unlock()

	d.pending.Add(1)
	d.schedule(context.WithoutCancel(ctx), task, 1, task.Delay)
	return nil
}

// Pending returns the number of dispatched tasks that have not finished.
func (d *Dispatcher) Pending() int {
	return int(d.pending.Load())
}

// Wait blocks until every dispatched task has finished, retries included.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close rejects new tasks. Tasks already dispatched still run.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

func (d *Dispatcher) schedule(ctx context.Context, task ports.Task, attempt int, delay time.Duration) {
	if delay <= 0 {
		go d.run(ctx, task, attempt)
		return
	}
	d.clock.AfterFunc(delay, func() { d.run(ctx, task, attempt) })
}

func (d *Dispatcher) run(ctx context.Context, task ports.Task, attempt int) {
	log := d.logger.With(zap.String("task", task.Name), zap.Int("attempt", attempt))

	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.finish(task, log, err)
		return
	}
	err := execute(ctx, task)
	d.sem.Release(1)

	if err == nil {
		log.Debug("task completed")
		d.finish(task, log, nil)
		return
	}

	if attempt < d.cfg.MaxAttempts {
		log.Warn("task failed, retrying", zap.Duration("retry_in", d.cfg.RetryDelay), zap.Error(err))
		d.schedule(ctx, task, attempt+1, d.cfg.RetryDelay)
		return
	}
	d.finish(task, log, err)
}

func (d *Dispatcher) finish(task ports.Task, log *zap.Logger, err error) {
	if err != nil {
		log.Error("task failed", zap.Error(err))
		d.metrics.TaskFailed(task.Name)
	}
	d.pending.Add(-1)
	d.wg.Done()
}

// execute runs the task, turning a panic into an error.
func execute(ctx context.Context, task ports.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Run(ctx)
}
