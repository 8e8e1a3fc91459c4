// Package queue provides the FIFO container the scheduler drains.
package queue

import "sync"

// Queue is an unbounded FIFO safe for concurrent producers and consumers.
// Dequeue never blocks; consumers that want to wait for work select on Signal.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	signal chan struct{}
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends t to the tail and wakes a waiting consumer.
func (q *Queue[T]) Enqueue(t T) {
	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Dequeue removes and returns the head. ok is false when the queue is empty.
func (q *Queue[T]) Dequeue() (t T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return t, false
	}

	var zero T
	t = q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return t, true
}

func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue[T]) IsEmpty() bool {
	return q.Size() == 0
}

// Signal receives a value after at least one Enqueue since the last receive.
func (q *Queue[T]) Signal() <-chan struct{} {
	return q.signal
}
