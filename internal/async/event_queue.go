package async

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// EventQueue fans job events out to a Publisher from a fixed pool of workers.
// Notify never blocks: when the buffer is full the event is dropped and logged.
type EventQueue struct {
	pub     Publisher
	logger  *zap.Logger
	workers int
	timeout time.Duration

	ch   chan entity.JobEvent
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

var _ Queue = (*EventQueue)(nil)

type Option func(*EventQueue)

func WithWorkers(n int) Option {
	return func(q *EventQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *EventQueue) {
		if n > 0 {
			q.ch = make(chan entity.JobEvent, n)
		}
	}
}

func WithPublishTimeout(d time.Duration) Option {
	return func(q *EventQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewEventQueue(pub Publisher, logger *zap.Logger, opts ...Option) *EventQueue {
	q := &EventQueue{
		pub:     pub,
		logger:  logger,
		workers: 2,
		timeout: 5 * time.Second,
		ch:      make(chan entity.JobEvent, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *EventQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("event worker started", zap.Int("worker_id", workerID))

				for event := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.pub.Publish(ctx, event)
					cancel()

					if err != nil {
						q.logger.Error("publish job event failed",
							zap.Int("worker_id", workerID),
							zap.String("type", string(event.Type)),
							zap.String("job_id", event.JobID.String()),
							zap.Error(err))
					}
				}

				q.logger.Debug("event worker stopped", zap.Int("worker_id", workerID))
			}(i + 1)
		}
	})
}

// Notify enqueues event. It implements jobs.Notifier.
func (q *EventQueue) Notify(_ context.Context, event entity.JobEvent) {
	if err := q.Enqueue(event); err != nil {
		q.logger.Warn("job event dropped",
			zap.String("type", string(event.Type)),
			zap.String("job_id", event.JobID.String()),
			zap.Error(err))
	}
}

// Enqueue adds event to the buffer, failing with ErrQueueClosed or ErrQueueSaturated.
func (q *EventQueue) Enqueue(event entity.JobEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return common.ErrQueueClosed
	}
	select {
	case q.ch <- event:
		return nil
	default:
		q.dropped.Add(1)
		return common.ErrQueueSaturated
	}
}

// Dropped reports how many events were rejected because the buffer was full.
func (q *EventQueue) Dropped() int64 {
	return q.dropped.Load()
}

// Shutdown stops accepting events and waits for the buffer to drain or ctx to end.
func (q *EventQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("event queue shutdown interrupted by context")
	case <-done:
		q.logger.Info("event queue drained, shutdown complete")
	}
}
