// Package queue defines the contract for enqueuing and consuming
// announcements between the record tracker and the notification side.
//
// The tracker must never block on delivery; enqueue is non-blocking and a
// full queue drops the announcement.
package queue

import (
	"context"
	"sync"

	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 1024
)

// Announcement is the payload type flowing through the queue.
type Announcement = model.Announcement

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an announcement to the queue.
	// Returns false if the queue is full and the announcement was dropped.
	Enqueue(ctx context.Context, a Announcement) bool

	// Dequeue returns a channel that will receive announcements as they
	// become available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Announcement

	// Len returns the current number of queued announcements.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new announcements can be enqueued and the dequeue
	// channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Announcement
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.events = make(chan Announcement, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds an announcement to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Announcement) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.events <- a:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		// full queue drops rather than stalling the tracker
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns a channel that will receive announcements.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Announcement {
	out := make(chan Announcement)
	go func() {
		defer close(out)
		for a := range q.events {
			select {
			case out <- a:
				metrics.RecordQueueDequeue()
				q.updateGauges()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued announcements.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.events)
	q.updateGauges()
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	close(q.events)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.events)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
