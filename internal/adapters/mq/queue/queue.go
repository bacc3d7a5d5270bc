// Package queue buffers submitted measurements until a scoring worker
// picks them up.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/pkg/metrics"
)

const defaultQueueCapacity = 10000

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a measurement without blocking. It returns ErrQueueFull
	// when the buffer is exhausted and ErrQueueClosed after Close.
	Enqueue(ctx context.Context, m model.Measurement) error

	// Dequeue returns the channel workers receive from. It is closed by Close
	// once the remaining measurements are drained.
	Dequeue() <-chan model.Measurement

	// Len returns the current number of queued measurements.
	Len() int

	// Capacity returns the maximum number of queued measurements.
	Capacity() int

	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan model.Measurement
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan model.Measurement, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, m model.Measurement) error { //nolint:gocritic // hugeParam: sent by value over the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError("context_canceled")
		return fmt.Errorf("enqueue measurement %s: %w", m.ID, err)
	}

	select {
	case q.items <- m:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.items))
		return nil
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return ErrQueueFull
	}
}

func (q *InMemoryQueue) Dequeue() <-chan model.Measurement {
	return q.items
}

func (q *InMemoryQueue) Len() int {
	size := len(q.items)
	metrics.UpdateQueueSize(size)
	return size
}

func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops accepting measurements. Workers still drain what is buffered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
