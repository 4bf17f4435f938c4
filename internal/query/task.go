// Package query wraps access layer operations for UI-style consumption: an
// asynchronous task abstraction with observable pending/resolved/failed
// states, and a cursor-paginated feed accumulator.
package query

import (
	"context"
	"sync"
)

// TaskState is the observable state of a running task.
type TaskState int

const (
	// TaskPending means the operation has not finished yet.
	TaskPending TaskState = iota
	// TaskResolved means the operation finished with a value.
	TaskResolved
	// TaskFailed means the operation finished with an error.
	TaskFailed
)

// Task runs one access layer operation asynchronously. Callers poll State
// or block on Await; a task resolves exactly once and never transitions
// afterwards.
type Task[T any] struct {
	mu    sync.Mutex
	state TaskState
	value T
	err   error
	done  chan struct{}
}

// Run starts fn in its own goroutine and returns the task observing it.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		value, err := fn(ctx)
		t.mu.Lock()
		if err != nil {
			t.state = TaskFailed
			t.err = err
		} else {
			t.state = TaskResolved
			t.value = value
		}
		t.mu.Unlock()
		close(t.done)
	}()
	return t
}

// State returns the task's current state.
func (t *Task[T]) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Value returns the resolved value and whether the task has resolved.
func (t *Task[T]) Value() (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.state == TaskResolved
}

// Err returns the task's error, nil unless the task failed.
func (t *Task[T]) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Await blocks until the task settles or ctx is done, then returns the
// outcome. A ctx cancellation does not abort the underlying operation; no
// cancellation is threaded into remote calls beyond their own contexts.
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-t.done:
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.err
}
