package ports

import (
	"context"
	"time"
)

// Clock abstracts time so that delays can be driven by tests.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

// Task is a unit of background work.
type Task struct {
	// Name identifies the task kind in logs and metrics.
	Name  string
	Delay time.Duration
	Run   func(ctx context.Context) error
}

// TaskDispatcher runs tasks in the background. Dispatch never blocks on
// the task itself.
type TaskDispatcher interface {
	Dispatch(ctx context.Context, task Task) error
}

// SubjectLocker serializes work on a single subject.
type SubjectLocker interface {
	// Lock blocks until the subject is free or ctx is done. The returned
	// function releases the lock.
	Lock(ctx context.Context, subjectID string) (unlock func(), err error)
}
