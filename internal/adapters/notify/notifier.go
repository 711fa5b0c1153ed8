// Package notify consumes announcements off the queue and delivers them.
// New runs are logged; new records additionally go to the configured sink.
// Delivery failures are logged and dropped so a dead webhook never stalls
// the tracker.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/srcwatch/internal/domain/model"
	"github.com/okian/srcwatch/pkg/logger"
	"github.com/okian/srcwatch/pkg/metrics"
)

// Queue defines how the notifier receives announcements.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Announcement
}

// Sink delivers a record announcement to an external destination.
type Sink interface {
	Send(ctx context.Context, a model.Announcement) error
}

// Notifier drains the queue until shut down.
type Notifier struct {
	queue Queue
	sink  Sink

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSink sets the record delivery sink. Without one, records are only
// logged.
func WithSink(s Sink) Option {
	return func(n *Notifier) {
		n.sink = s
	}
}

// WithNotifierLogger sets a custom logger.
func WithNotifierLogger(l logger.Logger) Option {
	return func(n *Notifier) {
		n.logger = l
	}
}

// New creates a Notifier reading from the given queue.
func New(queue Queue, opts ...Option) *Notifier {
	n := &Notifier{
		queue:    queue,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("notify"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Run consumes announcements until ctx is canceled, Shutdown is called, or
// the queue closes.
func (n *Notifier) Run(ctx context.Context) {
	defer close(n.done)

	events := n.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.shutdown:
			return
		case a, ok := <-events:
			if !ok {
				return
			}
			n.handle(ctx, a)
		}
	}
}

// Shutdown stops the notifier and waits for the in-flight announcement.
func (n *Notifier) Shutdown(ctx context.Context) error {
	close(n.shutdown)
	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		n.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (n *Notifier) handle(ctx context.Context, a model.Announcement) {
	switch a.Kind {
	case model.KindNewRun:
		n.logger.Debug(ctx, "new run",
			logger.String("run", a.Run.ID),
			logger.String("summary", Describe(a)),
		)
		metrics.RecordNotificationSent(a.Kind.String())
	case model.KindNewRecord:
		n.logger.Info(ctx, "new world record",
			logger.String("run", a.Run.ID),
			logger.String("slot", a.SlotKey),
			logger.String("summary", Describe(a)),
		)
		if n.sink == nil {
			metrics.RecordNotificationSent(a.Kind.String())
			return
		}
		start := time.Now()
		if err := n.sink.Send(ctx, a); err != nil {
			metrics.RecordNotificationError()
			n.logger.Error(ctx, "record notification dropped",
				logger.String("run", a.Run.ID),
				logger.Error(err),
			)
			return
		}
		metrics.RecordNotificationLatency(time.Since(start).Seconds())
		metrics.RecordNotificationSent(a.Kind.String())
	}
}
