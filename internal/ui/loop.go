package ui

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/monitoring"
)

const DefaultQueueSize = 256

// Loop is the UI execution context: a bounded FIFO of tasks consumed by a
// single goroutine running Run.
type Loop struct {
	tasks   chan Task
	mu      sync.RWMutex // guards closed against concurrent Post
	closed  bool
	done    chan struct{}
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewLoop creates a loop with the given queue capacity
func NewLoop(size int, logger *logging.Logger) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loop{
		tasks:  make(chan Task, size),
		done:   make(chan struct{}),
		logger: logger.Named("ui"),
	}
}

// WithMetrics adds task and queue depth metrics
func (l *Loop) WithMetrics(metrics *monitoring.Metrics) *Loop {
	l.metrics = metrics
	return l
}

// Post enqueues a task without blocking
func (l *Loop) Post(task Task) error {
	if task == nil {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrClosed
	}

	select {
	case l.tasks <- task:
		if l.metrics != nil {
			l.metrics.SetUIQueueDepth(len(l.tasks))
		}
		return nil
	default:
		return ErrQueueFull
	}
}

// Run consumes tasks until the loop is closed or ctx is cancelled.
// Tasks already queued when either happens still run.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	l.logger.Debug("UI loop started", zap.Int("capacity", cap(l.tasks)))
	for {
		select {
		case <-ctx.Done():
			l.Close()
			for task := range l.tasks {
				l.execute(task)
			}
			l.logger.Debug("UI loop stopped", zap.Error(ctx.Err()))
			return ctx.Err()
		case task, ok := <-l.tasks:
			if !ok {
				l.logger.Debug("UI loop stopped")
				return nil
			}
			l.execute(task)
		}
	}
}

// Close stops accepting tasks. Run returns after the queue is drained.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		l.closed = true
		close(l.tasks)
	}
}

// Done is closed when Run has returned
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Pending returns the number of queued tasks
func (l *Loop) Pending() int {
	return len(l.tasks)
}

func (l *Loop) execute(task Task) {
	status := "ok"
	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			l.logger.Error("UI task panicked", zap.String("panic", fmt.Sprint(r)), zap.Stack("stack"))
		}
		if l.metrics != nil {
			l.metrics.RecordUITask(status)
			l.metrics.SetUIQueueDepth(len(l.tasks))
		}
	}()
	task()
}
