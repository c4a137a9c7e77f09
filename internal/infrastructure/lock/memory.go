// Package lock provides per-subject locks so that two suggestion refreshes
// for the same person never overlap.
package lock

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrLockTimeout is returned when a lock could not be acquired in time.
var ErrLockTimeout = errors.New("lock wait timed out")

// MemoryLocker implements ports.SubjectLocker within a single process.
// Entries are dropped once nobody holds or waits for them.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*memoryEntry
}

type memoryEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*memoryEntry)}
}

// Lock blocks until subjectID is free or ctx is done.
func (l *MemoryLocker) Lock(ctx context.Context, subjectID string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[subjectID]
	if !ok {
		e = &memoryEntry{sem: semaphore.NewWeighted(1)}
		l.locks[subjectID] = e
	}
	e.refs++
	l.mu.Unlock()

	if err := e.sem.Acquire(ctx, 1); err != nil {
		l.release(subjectID, e)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			l.release(subjectID, e)
		})
	}, nil
}

// Len returns the number of subjects currently held or awaited.
func (l *MemoryLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *MemoryLocker) release(subjectID string, e *memoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, subjectID)
	}
}
