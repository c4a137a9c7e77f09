package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/ersonp/kinship/internal/domain/ports"
)

// Dispatcher records dispatched tasks without running them.
type Dispatcher struct {
	mu    sync.Mutex
	Tasks []ports.Task
	Err   error
}

// Dispatch records the task.
func (m *Dispatcher) Dispatch(_ context.Context, task ports.Task) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks = append(m.Tasks, task)
	return nil
}

// RunAll runs every recorded task in order and returns their errors.
func (m *Dispatcher) RunAll(ctx context.Context) []error {
	m.mu.Lock()
	tasks := append([]ports.Task(nil), m.Tasks...)
	m.mu.Unlock()

	errs := make([]error, len(tasks))
	for i, t := range tasks {
		errs[i] = t.Run(ctx)
	}
	return errs
}

// Locker records lock calls and never blocks.
type Locker struct {
	mu       sync.Mutex
	Locked   []string
	Unlocked []string
	Err      error
}

// Lock records the subject.
func (m *Locker) Lock(_ context.Context, subjectID string) (func(), error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	m.Locked = append(m.Locked, subjectID)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.Unlocked = append(m.Unlocked, subjectID)
		m.mu.Unlock()
	}, nil
}

// Metrics counts recorded values.
type Metrics struct {
	mu           sync.Mutex
	Generated    int
	Saved        int
	Purged       int
	Failures     map[string]int
	TaskFailures map[string]int
	Durations    []time.Duration
}

// NewMetrics creates a new mock Metrics.
func NewMetrics() *Metrics {
	return &Metrics{Failures: make(map[string]int), TaskFailures: make(map[string]int)}
}

func (m *Metrics) SuggestionsGenerated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Generated += n
}

func (m *Metrics) SuggestionsSaved(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saved += n
}

func (m *Metrics) SuggestionsPurged(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Purged += n
}

func (m *Metrics) RefreshFailed(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[trigger]++
}

func (m *Metrics) RefreshDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations = append(m.Durations, d)
}

func (m *Metrics) TaskFailed(task string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TaskFailures[task]++
}
