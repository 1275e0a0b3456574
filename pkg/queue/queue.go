// Package queue provides the unbounded FIFO delivery queues that connect the
// bot's long-lived loops.
//
// A Queue never blocks its producers: pushes append to a growable buffer, so
// an overwhelmed consumer grows memory rather than stalling the producer
// side. Consumers block until an element arrives, optionally with an
// inactivity timeout.
package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDone is returned by Next once the queue has been closed for writing and
// drained.
var ErrDone = errors.New("queue: done")

// ErrTimeout is returned by NextTimeout when no element arrives in time.
var ErrTimeout = errors.New("queue: timeout")

// Queue is an unbounded multi-producer single-consumer FIFO.
//
// The zero value is not usable; create queues with New.
type Queue[T any] struct {
	writeNotify chan struct{}

	mu         sync.Mutex
	closeWrite bool
	closeErr   error
	buf        []T
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		writeNotify: make(chan struct{}, 1),
	}
}

// Push appends v to the queue. It never blocks.
//
// Returns an error if the queue has been closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closeErr != nil {
		return fmt.Errorf("queue: push to closed queue: %w", q.closeErr)
	}
	if q.closeWrite {
		return fmt.Errorf("queue: push to closed queue: %w", ErrDone)
	}
	q.buf = append(q.buf, v)
	select {
	case q.writeNotify <- struct{}{}:
	default:
	}
	return nil
}

// Next removes and returns the oldest element, blocking until one is
// available.
//
// Returns ErrDone once the queue is closed for writing and empty, or the
// close error if the queue was closed hard.
func (q *Queue[T]) Next() (T, error) {
	return q.next(nil)
}

// NextTimeout is like Next but gives up after d of inactivity, returning
// ErrTimeout.
func (q *Queue[T]) NextTimeout(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	return q.next(timer.C)
}

func (q *Queue[T]) next(timeout <-chan time.Time) (t T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.closeErr != nil {
			return t, fmt.Errorf("queue: next from closed queue: %w", q.closeErr)
		}
		if len(q.buf) > 0 {
			t = q.buf[0]
			q.buf = q.buf[1:]
			return t, nil
		}
		if q.closeWrite {
			return t, ErrDone
		}

		q.mu.Unlock()
		select {
		case <-q.writeNotify:
			q.mu.Lock()
		case <-timeout:
			q.mu.Lock()
			return t, ErrTimeout
		}
	}
}

// CloseWrite closes the producer side. Queued elements remain readable;
// once drained, Next returns ErrDone.
func (q *Queue[T]) CloseWrite() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closeWrite {
		return nil
	}
	q.closeWrite = true
	close(q.writeNotify)
	return nil
}

// Close closes the queue immediately, discarding queued elements. Pending
// and future Next calls fail with ErrDone.
func (q *Queue[T]) Close() error {
	return q.CloseWithError(nil)
}

// CloseWithError closes the queue immediately with cause as the close error.
// A nil cause closes with ErrDone.
func (q *Queue[T]) CloseWithError(cause error) error {
	if cause == nil {
		cause = ErrDone
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closeErr != nil {
		return nil
	}
	q.closeErr = cause
	q.buf = nil
	if !q.closeWrite {
		q.closeWrite = true
		close(q.writeNotify)
	}
	return nil
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}
